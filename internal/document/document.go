package document

import (
	"strconv"
	"strings"
)

const (
	KindInvitation         = "carta_convite"
	KindBaptismCertificate = "certificado_batismo"
)

const (
	RecipientCongregation = "congregacao"
	RecipientChurch       = "igreja"
)

const (
	InvitationBackground  = "carta.png"
	CertificateBackground = "certificado_batismo.jpg"
)

const (
	OrientationPortrait  = "P"
	OrientationLandscape = "L"
)

const (
	defaultPresidentName    = "JOÃO GOMES DA SILVA"
	invitationNameMaxLength = 30
)

// Document is a renderer-neutral page description.
type Document struct {
	Kind        string
	Title       string
	Orientation string
	Background  string
	Blocks      []Block
}

type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockTitle
	BlockSubtitle
	BlockQuote
	BlockBullet
	BlockSignature
	BlockSpacer
	BlockPlaced
)

// Block is one line of document text. X and Y are millimetres from the
// top-left corner and only apply to BlockPlaced.
type Block struct {
	Kind BlockKind
	Text string
	X, Y float64
}

// File is a rendered document ready to be served.
type File struct {
	Name    string
	Content []byte
}

// Renderer turns a Document into PDF bytes.
type Renderer interface {
	HasAsset(name string) bool
	Render(doc Document) ([]byte, error)
}

// parseBlocks reads the line markup produced by the text templates:
//
//	# title          ## subtitle       > quote
//	- bullet         ~ signature line  @x,y placed text
//
// A blank line is vertical space; anything else is a paragraph.
func parseBlocks(text string) []Block {
	var blocks []Block
	lastBlank := true
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			if !lastBlank {
				blocks = append(blocks, Block{Kind: BlockSpacer})
			}
			lastBlank = true
			continue
		}
		lastBlank = false
		blocks = append(blocks, parseLine(line))
	}
	for len(blocks) > 0 && blocks[len(blocks)-1].Kind == BlockSpacer {
		blocks = blocks[:len(blocks)-1]
	}
	return blocks
}

func parseLine(line string) Block {
	switch {
	case strings.HasPrefix(line, "## "):
		return Block{Kind: BlockSubtitle, Text: strings.TrimSpace(line[3:])}
	case strings.HasPrefix(line, "# "):
		return Block{Kind: BlockTitle, Text: strings.TrimSpace(line[2:])}
	case strings.HasPrefix(line, "> "):
		return Block{Kind: BlockQuote, Text: strings.TrimSpace(line[2:])}
	case strings.HasPrefix(line, "- "):
		return Block{Kind: BlockBullet, Text: strings.TrimSpace(line[2:])}
	case strings.HasPrefix(line, "~ "):
		return Block{Kind: BlockSignature, Text: strings.TrimSpace(line[2:])}
	case strings.HasPrefix(line, "@"):
		if b, ok := parsePlaced(line[1:]); ok {
			return b
		}
	}
	return Block{Kind: BlockParagraph, Text: line}
}

func parsePlaced(s string) (Block, bool) {
	coords, text, found := strings.Cut(s, " ")
	if !found {
		return Block{}, false
	}
	xs, ys, found := strings.Cut(coords, ",")
	if !found {
		return Block{}, false
	}
	x, errX := strconv.ParseFloat(xs, 64)
	y, errY := strconv.ParseFloat(ys, 64)
	if errX != nil || errY != nil {
		return Block{}, false
	}
	return Block{Kind: BlockPlaced, Text: strings.TrimSpace(text), X: x, Y: y}, true
}

// splitSpeakers accepts speakers separated by commas or newlines.
func splitSpeakers(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	speakers := make([]string, 0, len(fields))
	for _, f := range fields {
		if s := strings.TrimSpace(f); s != "" {
			speakers = append(speakers, s)
		}
	}
	return speakers
}

// invitationFilename builds convite_<name>_<YYYYMMDD>.pdf with the event
// name lowercased, spaces replaced and cut to 30 characters.
func invitationFilename(eventName, compactDate string) string {
	name := []rune(strings.ToLower(strings.ReplaceAll(eventName, " ", "_")))
	if len(name) > invitationNameMaxLength {
		name = name[:invitationNameMaxLength]
	}
	return "convite_" + string(name) + "_" + compactDate + ".pdf"
}

func certificateFilename(username string) string {
	return "certificado_batismo_" + username + ".pdf"
}
