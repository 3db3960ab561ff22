package middleware_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/church-management/internal/transport/middleware"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"access":"abc","refresh":"def","nome_completo":"Ana","cargo":"Pastor"}`))
})

var _ = Describe("LoggingMiddleware", func() {
	It("masks credentials and documents in request and response bodies", func() {
		var buf bytes.Buffer
		lg := slog.New(slog.NewJSONHandler(&buf, nil))

		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(
			`{"username":"ana","password":"segredo123","password2":"segredo123","cpf":"123","rg":"9","filhos":[{"nome_completo":"Pedro"}]}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer xyz")
		w := httptest.NewRecorder()

		var seen []byte
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = io.ReadAll(r.Body)
			ok.ServeHTTP(w, r)
		})
		middleware.LoggingMiddleware(lg)(next).ServeHTTP(w, req)

		Expect(string(seen)).To(ContainSubstring("segredo123"))
		out := buf.String()
		Expect(out).NotTo(ContainSubstring("segredo123"))
		Expect(out).NotTo(ContainSubstring("Bearer xyz"))
		Expect(out).NotTo(ContainSubstring(`\"abc\"`))
		Expect(out).To(ContainSubstring("Pedro"))
		Expect(out).To(ContainSubstring("Pastor"))
		Expect(out).To(ContainSubstring("[FILTERED]"))
	})

	It("does not log binary responses", func() {
		var buf bytes.Buffer
		lg := slog.New(slog.NewJSONHandler(&buf, nil))
		pdf := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/pdf")
			_, _ = w.Write([]byte("%PDF-1.3 binary"))
		})

		w := httptest.NewRecorder()
		middleware.LoggingMiddleware(lg)(pdf).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/documentos/x", nil))

		Expect(w.Body.String()).To(Equal("%PDF-1.3 binary"))
		Expect(buf.String()).NotTo(ContainSubstring("%PDF"))
		Expect(buf.String()).To(ContainSubstring(`"response_size":15`))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("answers a panic with the internal error envelope", func() {
		lg := slog.New(slog.NewTextHandler(io.Discard, nil))
		boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

		w := httptest.NewRecorder()
		middleware.RecoveryMiddleware(lg)(boom).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		var body struct {
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Error.Type).To(Equal("INTERNAL_ERROR"))
		Expect(w.Body.String()).NotTo(ContainSubstring("boom"))
	})
})

var _ = Describe("RequestID", func() {
	It("propagates an incoming trace id", func() {
		var got string
		h := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = chiMiddleware.GetReqID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.TraceHeader, "trace-1")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		Expect(got).To(Equal("trace-1"))
		Expect(w.Header().Get(middleware.TraceHeader)).To(Equal("trace-1"))
	})

	It("mints one when missing", func() {
		w := httptest.NewRecorder()
		middleware.RequestID(ok).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(w.Header().Get(middleware.TraceHeader)).To(HaveLen(36))
	})
})

var _ = Describe("CORS", func() {
	It("answers preflight for allowed origins", func() {
		c := middleware.NewCORS("https://igreja.org, https://admin.igreja.org")
		req := httptest.NewRequest(http.MethodOptions, "/api/token", nil)
		req.Header.Set("Origin", "https://igreja.org")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		c.Handler(ok).ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://igreja.org"))
	})

	It("leaves other origins without CORS headers", func() {
		c := middleware.NewCORS("https://igreja.org")
		req := httptest.NewRequest(http.MethodGet, "/api/agenda", nil)
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		c.Handler(ok).ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
	})

	It("allows everything with a wildcard", func() {
		c := middleware.NewCORS("*")
		req := httptest.NewRequest(http.MethodGet, "/api/agenda", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()
		c.Handler(ok).ServeHTTP(w, req)
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
	})
})

var _ = Describe("RateLimiter", func() {
	It("rejects a client once its burst is spent", func() {
		rl := middleware.NewRateLimiter(1, 2, slog.New(slog.NewTextHandler(io.Discard, nil)))
		h := rl.Handler(ok)

		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/token", nil)
			req.RemoteAddr = "10.0.0.1:5000"
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}
		Expect(codes).To(Equal([]int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}))

		other := httptest.NewRequest(http.MethodPost, "/api/token", nil)
		other.RemoteAddr = "10.0.0.2:5000"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, other)
		Expect(w.Code).To(Equal(http.StatusOK))
	})
})

var _ = Describe("HTTPMetrics", func() {
	It("counts requests by route pattern", func() {
		reg := prometheus.NewRegistry()
		m := middleware.NewHTTPMetrics(reg)

		r := chi.NewRouter()
		r.Use(m.Handler)
		r.Get("/api/admin/users/{id}", ok)

		for _, id := range []string{"1", "2"} {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/admin/users/"+id, nil))
		}

		count, err := testutil.GatherAndCount(reg, "igreja_http_requests_total")
		Expect(err).NotTo(HaveOccurred())
		Expect(count).To(Equal(1))
	})
})

var _ = Describe("Timeout", func() {
	It("puts a deadline on the request context", func() {
		var deadline time.Time
		var has bool
		h := middleware.Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deadline, has = r.Context().Deadline()
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(has).To(BeTrue())
		Expect(time.Until(deadline)).To(BeNumerically("<=", time.Second))
	})

	It("answers 504 with the error envelope when the handler runs out of time", func() {
		h := middleware.Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusGatewayTimeout))
		var body map[string]map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["error"]).To(HaveKeyWithValue("code", "REQUEST_TIMEOUT"))
	})

	It("leaves a response the handler already wrote", func() {
		h := middleware.Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
			<-r.Context().Done()
		}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Body.Len()).To(BeZero())
	})
})
