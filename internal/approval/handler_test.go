package approval_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/church-management/internal/approval"
	approvalPostgres "github.com/frahmantamala/church-management/internal/approval/postgres"
	"github.com/frahmantamala/church-management/internal/auth"
	"github.com/frahmantamala/church-management/internal/core/dbtest"
	userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"
	"github.com/frahmantamala/church-management/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Approval Handler", func() {
	var (
		db      *gorm.DB
		router  http.Handler
		actor   *auth.Actor
		pending *userDatamodel.User
		admin   *userDatamodel.User
	)

	BeforeEach(func() {
		var err error
		db, err = dbtest.Open()
		Expect(err).NotTo(HaveOccurred())

		admin = &userDatamodel.User{Username: "admin", PasswordHash: "x", Profile: userDatamodel.Profile{FullName: "Admin"},
			Role: userDatamodel.RoleSecretary, Approved: true, Active: true, IsSuperuser: true, IsStaff: true, RegisteredAt: time.Now()}
		pending = &userDatamodel.User{Username: "ana", PasswordHash: "x", Profile: userDatamodel.Profile{FullName: "Ana"},
			Active: true, RegisteredAt: time.Now()}
		Expect(db.Create(admin).Error).To(Succeed())
		Expect(db.Create(pending).Error).To(Succeed())
		actor = auth.ActorFromDataModel(admin)

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		svc := approval.NewService(approvalPostgres.NewApprovalRepository(db), nil, logger)
		h := approval.NewHandler(transport.NewBaseHandler(logger), svc)
		rbac := auth.NewRBACAuthorization(logger)

		r := chi.NewRouter()
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(auth.WithActor(req.Context(), actor)))
			})
		})
		r.Route("/admin", func(r chi.Router) {
			r.Use(rbac.RequireSecretary())
			r.Get("/pending-users", h.ListPending)
			r.Post("/users/{id}/approve", h.Approve)
			r.Delete("/users/{id}/reject", h.Reject)
		})
		r.Get("/superusers/users-available", h.PromotionCandidates)
		r.Group(func(r chi.Router) {
			r.Use(rbac.RequireSuperuser())
			r.Get("/superusers", h.ListSuperusers)
			r.Post("/superusers", h.Promote)
			r.Delete("/superusers/{id}/demote", h.Demote)
		})
		router = r
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, path, reader))
		return w
	}
	id := func(u *userDatamodel.User) string { return strconv.FormatInt(u.ID, 10) }

	It("approves with a detail message", func() {
		w := do(http.MethodPost, "/admin/users/"+id(pending)+"/approve", `{"papel":"congregado"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"detail":"Usuário Ana aprovado como Congregado."`))
	})

	It("answers 404 and 400 on approve", func() {
		Expect(do(http.MethodPost, "/admin/users/9999/approve", `{"papel":"membro"}`).Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodPost, "/admin/users/9999/approve", "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodPost, "/admin/users/9999/approve", `{"papel":`).Code).To(Equal(http.StatusNotFound))

		w := do(http.MethodPost, "/admin/users/"+id(pending)+"/approve", `not json`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("INVALID_ROLE"))

		w = do(http.MethodPost, "/admin/users/"+id(pending)+"/approve", `{"papel":"bispo"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("INVALID_ROLE"))
	})

	It("rejects pending users with 204 and approved ones with 404", func() {
		Expect(do(http.MethodDelete, "/admin/users/"+id(admin)+"/reject", "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodDelete, "/admin/users/"+id(pending)+"/reject", "").Code).To(Equal(http.StatusNoContent))
		Expect(do(http.MethodDelete, "/admin/users/"+id(pending)+"/reject", "").Code).To(Equal(http.StatusNotFound))
	})

	It("lists the pending queue", func() {
		w := do(http.MethodGet, "/admin/pending-users", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var queue []approval.PendingUser
		Expect(json.Unmarshal(w.Body.Bytes(), &queue)).To(Succeed())
		Expect(queue).To(HaveLen(1))
		Expect(queue[0].Username).To(Equal("ana"))
	})

	It("manages superusers", func() {
		w := do(http.MethodPost, "/superusers", `{"user_id":`+id(pending)+`}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Usuário Ana promovido a superusuário."))

		w = do(http.MethodGet, "/superusers", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"total":2`))

		Expect(do(http.MethodPost, "/superusers", `{"user_id":`+id(pending)+`}`).Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodPost, "/superusers", `{}`).Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodDelete, "/superusers/"+id(admin)+"/demote", "").Code).To(Equal(http.StatusBadRequest))
		Expect(do(http.MethodDelete, "/superusers/"+id(pending)+"/demote", "").Code).To(Equal(http.StatusOK))
	})

	It("forbids superuser routes to regular actors but lists no candidates", func() {
		actor = &auth.Actor{ID: pending.ID, Username: "ana", Role: userDatamodel.RoleMember, Active: true}
		Expect(do(http.MethodGet, "/superusers", "").Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodPost, "/superusers", `{"user_id":1}`).Code).To(Equal(http.StatusForbidden))
		Expect(do(http.MethodGet, "/admin/pending-users", "").Code).To(Equal(http.StatusForbidden))

		w := do(http.MethodGet, "/superusers/users-available", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(strings.TrimSpace(w.Body.String())).To(Equal("[]"))
	})
})
