package user_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/church-management/internal/auth"
	"github.com/frahmantamala/church-management/internal/core/dbtest"
	"github.com/frahmantamala/church-management/internal/transport"
	"github.com/frahmantamala/church-management/internal/user"
	userPostgres "github.com/frahmantamala/church-management/internal/user/postgres"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("User Handler", func() {
	var (
		router http.Handler
		actor  *auth.Actor
	)

	BeforeEach(func() {
		db, err := dbtest.Open()
		Expect(err).NotTo(HaveOccurred())
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc := user.NewService(userPostgres.NewUserRepository(db), stubStats{stats: user.DashboardStats{TotalUsers: 7}}, nil, nil, bcrypt.MinCost, logger)
		h := user.NewHandler(transport.NewBaseHandler(logger), svc)
		actor = secretary

		r := chi.NewRouter()
		r.Post("/auth/register", h.Register)
		r.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					next.ServeHTTP(w, req.WithContext(auth.WithActor(req.Context(), actor)))
				})
			})
			r.Get("/users/me", h.GetMe)
			r.Patch("/users/me", h.UpdateMe)
			r.Get("/admin/users", h.AdminList)
			r.Post("/admin/users", h.AdminCreate)
			r.Get("/admin/users/{id}", h.AdminGet)
			r.Put("/admin/users/{id}", h.AdminUpdate)
			r.Delete("/admin/users/{id}", h.AdminDelete)
			r.Get("/admin/dashboard", h.Dashboard)
		})
		router = r
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, path, reader).WithContext(context.Background())
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	const registration = `{
		"username": "ana",
		"email": "ana@igreja.org",
		"password": "senha-forte",
		"password2": "senha-forte",
		"nome_completo": "Ana Souza",
		"estado_civil": "solteiro",
		"data_nascimento": "1990-05-17",
		"filhos": [{"nome_completo": "Pedro", "data_nascimento": "2015-01-02"}]
	}`

	It("registers a pending user", func() {
		w := do(http.MethodPost, "/auth/register", registration)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["username"]).To(Equal("ana"))
		Expect(body["aprovado"]).To(Equal(false))
		Expect(body["papel"]).To(Equal(""))
		Expect(body["estado_civil_display"]).To(Equal("Solteiro(a)"))
		Expect(body["data_nascimento"]).To(Equal("1990-05-17"))
		Expect(body["filhos"]).To(HaveLen(1))
		Expect(body).NotTo(HaveKey("password"))
	})

	It("answers 409 for a duplicate username", func() {
		Expect(do(http.MethodPost, "/auth/register", registration).Code).To(Equal(http.StatusCreated))
		w := do(http.MethodPost, "/auth/register", registration)
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("USERNAME_TAKEN"))
	})

	It("answers 400 for malformed JSON", func() {
		w := do(http.MethodPost, "/auth/register", `{"username":`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("lets the owner read and patch their profile", func() {
		w := do(http.MethodPost, "/auth/register", registration)
		var created map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
		actor = &auth.Actor{ID: int64(created["id"].(float64)), Username: "ana", Active: true}

		w = do(http.MethodPatch, "/users/me", `{"cidade": "Recife", "papel": "secretario"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"cidade":"Recife"`))
		Expect(w.Body.String()).To(ContainSubstring(`"papel":""`))

		w = do(http.MethodGet, "/users/me", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"cidade":"Recife"`))
	})

	It("filters the admin listing", func() {
		Expect(do(http.MethodPost, "/auth/register", registration).Code).To(Equal(http.StatusCreated))
		w := do(http.MethodPost, "/admin/users", `{
			"username": "bruno", "email": "bruno@igreja.org",
			"password": "senha-forte", "password2": "senha-forte",
			"nome_completo": "Bruno Alves", "papel": "membro"
		}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = do(http.MethodGet, "/admin/users?aprovado=true", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var items []map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &items)).To(Succeed())
		Expect(items).To(HaveLen(1))
		Expect(items[0]["username"]).To(Equal("bruno"))
		Expect(items[0]["papel_display"]).To(Equal("Membro"))

		w = do(http.MethodGet, "/admin/users?papel=&aprovado=&ativo=&search=", "")
		Expect(json.Unmarshal(w.Body.Bytes(), &items)).To(Succeed())
		Expect(items).To(HaveLen(2))

		Expect(do(http.MethodGet, "/admin/users?ativo=talvez", "").Code).To(Equal(http.StatusBadRequest))
	})

	It("supports admin get, update and delete", func() {
		w := do(http.MethodPost, "/admin/users", `{
			"username": "bruno", "email": "bruno@igreja.org",
			"password": "senha-forte", "password2": "senha-forte",
			"nome_completo": "Bruno Alves", "papel": "congregado"
		}`)
		var created map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &created)).To(Succeed())
		path := "/admin/users/" + jsonNumber(created["id"])

		Expect(do(http.MethodGet, path, "").Code).To(Equal(http.StatusOK))

		w = do(http.MethodPut, path, `{"papel": "membro", "ativo": false}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"papel":"membro"`))
		Expect(w.Body.String()).To(ContainSubstring(`"ativo":false`))

		Expect(do(http.MethodDelete, path, "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodGet, path, "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodGet, "/admin/users/abc", "").Code).To(Equal(http.StatusBadRequest))
	})

	It("denies secretary routes to members", func() {
		actor = member
		Expect(do(http.MethodGet, "/admin/users", "").Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/admin/dashboard", "").Code).To(Equal(http.StatusForbidden))
	})

	It("serves dashboard stats to secretaries", func() {
		w := do(http.MethodGet, "/admin/dashboard", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"total_usuarios":7`))
	})
})

func jsonNumber(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
