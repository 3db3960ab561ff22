package api_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/church-management/api"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Suite")
}

var _ = Describe("OpenAPI document", func() {
	It("is valid and documents every route", func() {
		raw, doc, err := api.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(raw).NotTo(BeEmpty())

		for _, path := range []string{
			"/auth/register", "/token", "/token/refresh",
			"/users/me",
			"/admin/users", "/admin/users/{id}", "/admin/pending-users",
			"/admin/users/{id}/approve", "/admin/users/{id}/reject", "/admin/dashboard",
			"/superusers", "/superusers/{id}/demote", "/superusers/users-available",
			"/documentos/gerar-carta-convite", "/documentos/gerar-certificado-batismo",
			"/configuracao", "/devocionais", "/devocionais/recente", "/lideranca", "/departamentos", "/agenda",
			"/health", "/ping",
		} {
			Expect(doc.Paths.Value(path)).NotTo(BeNil(), path)
		}
	})

	It("documents reject as a DELETE", func() {
		_, doc, err := api.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())

		item := doc.Paths.Value("/admin/users/{id}/reject")
		Expect(item.Delete).NotTo(BeNil())
		Expect(item.Post).To(BeNil())
	})
})
