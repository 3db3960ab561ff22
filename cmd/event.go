package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/frahmantamala/church-management/internal/core/events"
	"github.com/frahmantamala/church-management/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Inspect domain events",
	Long:  `List the domain event types and publish test events through the audit subscriber`,
}

var listEventsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the domain event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range events.AllTypes {
			fmt.Println(t)
		}
	},
}

var publishEventCmd = &cobra.Command{
	Use:       "publish [event-type]",
	Short:     "Publish a test event",
	Long:      `Publish a test event to a local bus wired with the audit log, to check what a subscriber receives`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: events.AllTypes,
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(args[0])
	},
}

var eventData string

func publishTestEvent(eventType string) error {
	if !isKnownEventType(eventType) {
		return fmt.Errorf("unknown event type %q; see 'event list'", eventType)
	}

	lg := logger.LoggerWrapper()
	bus := events.NewEventBus(lg)
	events.RegisterAuditLog(bus, lg)

	testEvent := events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"message": eventData,
			"source":  "cli-command",
		},
	}

	if err := bus.Publish(context.Background(), testEvent); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	lg.Info("test event published", "event_type", eventType, "event_id", testEvent.ID)
	return nil
}

func isKnownEventType(eventType string) bool {
	for _, t := range events.AllTypes {
		if t == eventType {
			return true
		}
	}
	return false
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(listEventsCmd)
	eventCmd.AddCommand(publishEventCmd)
}
