package catalog_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/church-management/internal/catalog"
	catalogPostgres "github.com/frahmantamala/church-management/internal/catalog/postgres"
	"github.com/frahmantamala/church-management/internal/core/datamodel/content"
	"github.com/frahmantamala/church-management/internal/core/dbtest"
	"github.com/frahmantamala/church-management/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Catalog Handler", func() {
	var (
		db      *gorm.DB
		handler *catalog.Handler
	)

	BeforeEach(func() {
		var err error
		db, err = dbtest.Open()
		Expect(err).NotTo(HaveOccurred())
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc := catalog.NewService(catalogPostgres.NewCatalogRepository(db), nil, logger)
		handler = catalog.NewHandler(transport.NewBaseHandler(logger), svc)
	})

	serve := func(h http.HandlerFunc) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/", nil))
		return w
	}

	It("answers {} for missing singletons", func() {
		w := serve(handler.SiteConfig)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(strings.TrimSpace(w.Body.String())).To(Equal("{}"))

		w = serve(handler.LatestDevotional)
		Expect(strings.TrimSpace(w.Body.String())).To(Equal("{}"))
	})

	It("answers empty collections as arrays", func() {
		Expect(strings.TrimSpace(serve(handler.Devotionals).Body.String())).To(Equal("[]"))
		Expect(strings.TrimSpace(serve(handler.Leadership).Body.String())).To(Equal("[]"))
		Expect(strings.TrimSpace(serve(handler.Departments).Body.String())).To(Equal("{}"))
		Expect(serve(handler.Agenda).Body.String()).To(ContainSubstring(`"dias_semana":[]`))
	})

	It("serializes department groups with wire names", func() {
		Expect(db.Create(&content.Department{Name: "Louvor", Category: catalog.CategoryMinistry}).Error).To(Succeed())

		w := serve(handler.Departments)
		var body map[string]map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["ministerio"]["nome_display"]).To(Equal("Ministérios"))
		Expect(body["ministerio"]["lista"]).To(HaveLen(1))
	})
})
