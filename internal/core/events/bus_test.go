package events

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var (
		bus *EventBus
		buf *bytes.Buffer
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		bus = NewEventBus(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	})

	It("runs handlers in subscription order on the caller goroutine", func() {
		var order []string
		bus.Subscribe(EventTypeUserApproved, func(_ context.Context, _ Event) error {
			order = append(order, "first")
			return nil
		})
		bus.Subscribe(EventTypeUserApproved, func(_ context.Context, _ Event) error {
			order = append(order, "second")
			return nil
		})

		Expect(bus.Publish(context.Background(), NewUserApprovedEvent(7, "membro", 1))).To(Succeed())
		Expect(order).To(Equal([]string{"first", "second"}))
	})

	It("stops at the first failing handler", func() {
		called := false
		bus.Subscribe(EventTypeUserRejected, func(_ context.Context, _ Event) error {
			return errors.New("boom")
		})
		bus.Subscribe(EventTypeUserRejected, func(_ context.Context, _ Event) error {
			called = true
			return nil
		})

		err := bus.Publish(context.Background(), NewUserRejectedEvent(3, "ana", 1))
		Expect(err).To(MatchError(ContainSubstring("user.rejected")))
		Expect(called).To(BeFalse())
	})

	It("ignores events nobody listens to", func() {
		Expect(bus.Publish(context.Background(), NewSuperuserGrantedEvent(2, 1))).To(Succeed())
	})

	It("fills the payload and a unique id", func() {
		a := NewDocumentGeneratedEvent("certificado_batismo", 4, "certificado_batismo_ana.pdf")
		b := NewDocumentGeneratedEvent("certificado_batismo", 4, "certificado_batismo_ana.pdf")
		Expect(a.EventID()).NotTo(Equal(b.EventID()))
		Expect(a.Payload()).To(HaveKeyWithValue("filename", "certificado_batismo_ana.pdf"))
	})
})

var _ = Describe("Subscribers", func() {
	It("counts and audits every published event", func() {
		buf := &bytes.Buffer{}
		logger := slog.New(slog.NewJSONHandler(buf, nil))
		bus := NewEventBus(logger)

		reg := prometheus.NewRegistry()
		metrics := NewMetrics(reg)
		metrics.Register(bus)
		RegisterAuditLog(bus, logger)

		ctx := context.Background()
		Expect(bus.Publish(ctx, NewUserRegisteredEvent(10, "joao"))).To(Succeed())
		Expect(bus.Publish(ctx, NewSuperuserRevokedEvent(10, 1))).To(Succeed())
		Expect(bus.Publish(ctx, NewSuperuserRevokedEvent(11, 1))).To(Succeed())

		Expect(testutil.ToFloat64(metrics.total.WithLabelValues(EventTypeSuperuserRevoked))).To(Equal(2.0))
		Expect(testutil.ToFloat64(metrics.total.WithLabelValues(EventTypeUserRegistered))).To(Equal(1.0))
		Expect(buf.String()).To(ContainSubstring(`"event_type":"user.registered"`))
	})
})
