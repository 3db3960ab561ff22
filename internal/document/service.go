package document

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/frahmantamala/church-management/internal"
	"github.com/frahmantamala/church-management/internal/auth"
	"github.com/frahmantamala/church-management/internal/core/common/calendar"
	userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"
	"github.com/frahmantamala/church-management/internal/core/events"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("documents").ParseFS(templateFS, "templates/*.tmpl"))

type UserReader interface {
	GetByID(id int64) (*userDatamodel.User, error)
}

type ServiceAPI interface {
	Available() bool
	InvitationLetter(ctx context.Context, actor *auth.Actor, dto InvitationDTO) (*File, error)
	BaptismCertificate(ctx context.Context, actor *auth.Actor) (*File, error)
}

type Options struct {
	ChurchName    string
	PresidentName string
	// Clock stamps issue dates and filenames. Defaults to time.Now.
	Clock func() time.Time
}

// Generator renders invitation letters and baptism certificates. A nil
// renderer makes every operation fail with ErrRendererUnavailable.
type Generator struct {
	renderer  Renderer
	users     UserReader
	publisher events.Publisher
	opts      Options
	logger    *slog.Logger
}

func NewGenerator(renderer Renderer, users UserReader, publisher events.Publisher, opts Options, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PresidentName == "" {
		opts.PresidentName = defaultPresidentName
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Generator{
		renderer:  renderer,
		users:     users,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}
}

func (g *Generator) Available() bool {
	return g.renderer != nil
}

type invitationContext struct {
	EventName         string
	StartDay          string
	EndDate           string
	Time              string
	Theme             string
	BaseVerse         string
	BiblicalReference string
	Speakers          []string
	PresidentName     string
	ChurchName        string
	IssueDate         string
	CongregationName  string
	DirectorName      string
}

func (g *Generator) InvitationLetter(ctx context.Context, actor *auth.Actor, dto InvitationDTO) (*File, error) {
	if !g.Available() {
		return nil, ErrRendererUnavailable
	}
	if !auth.CanGenerateInvitation(actor) {
		return nil, auth.ErrSecretaryOnly
	}

	inv, appErr := dto.validate()
	if appErr != nil {
		return nil, appErr
	}

	today := calendar.NewDate(g.opts.Clock().Date())
	data := invitationContext{
		EventName:         inv.EventName,
		StartDay:          inv.start.Day(),
		EndDate:           inv.end.LongDate(),
		Time:              inv.Time,
		Theme:             inv.Theme,
		BaseVerse:         inv.BaseVerse,
		BiblicalReference: inv.BiblicalReference,
		Speakers:          inv.speakers,
		PresidentName:     g.opts.PresidentName,
		ChurchName:        g.opts.ChurchName,
		IssueDate:         today.LongDate(),
	}

	tmpl := "invitation_church.tmpl"
	if inv.RecipientKind == RecipientCongregation {
		tmpl = "invitation_congregation.tmpl"
		data.CongregationName = inv.CongregationName
		data.DirectorName = inv.DirectorName
	}

	doc, err := g.document(KindInvitation, "Carta Convite", OrientationPortrait, InvitationBackground, tmpl, data)
	if err != nil {
		return nil, g.failed(KindInvitation, err)
	}

	file, err := g.render(ctx, actor, doc, invitationFilename(inv.EventName, today.Compact()))
	if err != nil {
		return nil, err
	}
	return file, nil
}

type certificateContext struct {
	FullName      string
	Day           string
	Month         string
	ShortYear     string
	Year          int
	ChurchName    string
	PresidentName string
	HasBackground bool
}

// BaptismCertificate issues a second copy of the actor's own certificate.
// The baptism data is read from the store, not from the token.
func (g *Generator) BaptismCertificate(ctx context.Context, actor *auth.Actor) (*File, error) {
	if !g.Available() {
		return nil, ErrRendererUnavailable
	}
	if !auth.CanIssueBaptismCertificate(actor) {
		return nil, ErrMembersOnly
	}

	u, err := g.users.GetByID(actor.ID)
	if err != nil {
		return nil, err
	}
	if !u.Profile.Baptized {
		return nil, ErrNotBaptized
	}
	if u.Profile.BaptismDate == nil || u.Profile.BaptismDate.IsZero() {
		return nil, ErrBaptismDateMissing
	}

	date := *u.Profile.BaptismDate
	background := CertificateBackground
	hasBackground := g.renderer.HasAsset(background)
	if !hasBackground {
		background = ""
	}

	data := certificateContext{
		FullName:      u.Profile.FullName,
		Day:           date.Day(),
		Month:         date.MonthName(),
		ShortYear:     date.ShortYear(),
		Year:          date.Year(),
		ChurchName:    g.opts.ChurchName,
		PresidentName: g.opts.PresidentName,
		HasBackground: hasBackground,
	}

	doc, err := g.document(KindBaptismCertificate, "Certificado de Batismo", OrientationLandscape, background, "baptism_certificate.tmpl", data)
	if err != nil {
		return nil, g.failed(KindBaptismCertificate, err)
	}

	return g.render(ctx, actor, doc, certificateFilename(u.Username))
}

func (g *Generator) document(kind, title, orientation, background, tmpl string, data interface{}) (Document, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		return Document{}, fmt.Errorf("execute %s: %w", tmpl, err)
	}
	if background != "" && !g.renderer.HasAsset(background) {
		background = ""
	}
	return Document{
		Kind:        kind,
		Title:       title,
		Orientation: orientation,
		Background:  background,
		Blocks:      parseBlocks(buf.String()),
	}, nil
}

func (g *Generator) render(ctx context.Context, actor *auth.Actor, doc Document, filename string) (*File, error) {
	content, err := g.renderer.Render(doc)
	if err != nil {
		return nil, g.failed(doc.Kind, err)
	}

	g.logger.Info("document generated", "kind", doc.Kind, "user_id", actor.ID, "filename", filename, "bytes", len(content))
	if g.publisher != nil {
		if err := g.publisher.Publish(ctx, events.NewDocumentGeneratedEvent(doc.Kind, actor.ID, filename)); err != nil {
			g.logger.Error("failed to publish event", "event_type", events.EventTypeDocumentGenerated, "error", err)
		}
	}
	return &File{Name: filename, Content: content}, nil
}

// failed logs the underlying error and hands the caller a generic one.
func (g *Generator) failed(kind string, err error) error {
	g.logger.Error("document generation failed", "kind", kind, "error", err)
	appErr := internal.NewInternalError("Erro interno ao gerar PDF.", err)
	appErr.Code = internal.ErrCodeDocumentFailed
	return appErr
}
