package document_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/church-management/internal/auth"
	"github.com/frahmantamala/church-management/internal/core/common/calendar"
	userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"
	"github.com/frahmantamala/church-management/internal/document"
	"github.com/frahmantamala/church-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Document Handler", func() {
	var (
		router   http.Handler
		actor    *auth.Actor
		renderer document.Renderer
	)

	build := func() {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		baptism := calendar.NewDate(2012, time.May, 20)
		users := userStore{member.ID: {ID: member.ID, Username: "maria",
			Profile: userDatamodel.Profile{FullName: "Maria", Baptized: true, BaptismDate: &baptism}}}
		gen := document.NewGenerator(renderer, users, nil, document.Options{}, logger)
		h := document.NewHandler(transport.NewBaseHandler(logger), gen)

		r := chi.NewRouter()
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(auth.WithActor(req.Context(), actor)))
			})
		})
		r.Post("/documentos/gerar-carta-convite", h.InvitationLetter)
		r.Post("/documentos/gerar-certificado-batismo", h.BaptismCertificate)
		router = r
	}

	BeforeEach(func() {
		renderer = &fakeRenderer{assets: map[string]bool{}}
		actor = secretary
		build()
	})

	post := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("serves the invitation inline", func() {
		w := post("/documentos/gerar-carta-convite", `{
			"nome_do_evento": "Culto de Missões",
			"data_inicio": "2025-06-01",
			"data_fim": "2025-06-01",
			"horario": "18:00",
			"preletores": "Pr. Tiago",
			"tipo_destinatario": "igreja"
		}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(Equal("application/pdf"))
		disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
		Expect(err).NotTo(HaveOccurred())
		Expect(disposition).To(Equal("inline"))
		Expect(params["filename"]).To(HavePrefix("convite_culto_de_missões_"))
	})

	It("keeps the disposition header intact when the event name has quotes", func() {
		w := post("/documentos/gerar-carta-convite", `{
			"nome_do_evento": "Noite \"Especial\"; louvor",
			"data_inicio": "2025-06-01",
			"data_fim": "2025-06-01",
			"horario": "18:00",
			"preletores": "Pr. Tiago",
			"tipo_destinatario": "igreja"
		}`)
		Expect(w.Code).To(Equal(http.StatusOK))

		disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
		Expect(err).NotTo(HaveOccurred())
		Expect(disposition).To(Equal("inline"))
		Expect(params["filename"]).To(HavePrefix(`convite_noite_"especial";_louvor_`))
		Expect(params["filename"]).To(HaveSuffix(".pdf"))
	})

	It("returns 400 with the missing fields", func() {
		w := post("/documentos/gerar-carta-convite", `{"nome_do_evento": "Culto"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))

		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(w.Body.String()).To(ContainSubstring("Campos obrigatórios faltando"))
	})

	It("forbids invitations to non-secretaries", func() {
		actor = member
		w := post("/documentos/gerar-carta-convite", `{}`)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("serves the member's certificate", func() {
		actor = member
		w := post("/documentos/gerar-certificado-batismo", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		_, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
		Expect(err).NotTo(HaveOccurred())
		Expect(params["filename"]).To(Equal("certificado_batismo_maria.pdf"))
	})

	It("returns 503 when PDF generation is not configured", func() {
		renderer = nil
		build()
		w := post("/documentos/gerar-carta-convite", `not json`)
		Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
	})
})
