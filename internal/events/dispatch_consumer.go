package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	bookingDomain "github.com/loadlane/service-logistics/internal/domain/booking"
	"github.com/loadlane/service-logistics/internal/pkg/errs"
	"github.com/loadlane/service-logistics/internal/pkg/kafka"
)

// ProviderAssigner confirms a pending booking with its assigned provider.
// Satisfied by the booking application service.
type ProviderAssigner interface {
	AssignProvider(ctx context.Context, bookingID, providerID uuid.UUID, actor string) (*bookingDomain.Booking, error)
}

// DispatchConsumer applies provider-assignment decisions arriving on the
// dispatch topic to the booking state machine.
type DispatchConsumer struct {
	assigner ProviderAssigner
	logger   *zap.Logger
}

// NewDispatchConsumer creates a DispatchConsumer.
func NewDispatchConsumer(assigner ProviderAssigner, logger *zap.Logger) *DispatchConsumer {
	return &DispatchConsumer{assigner: assigner, logger: logger}
}

// Handle processes one message from the dispatch topic. Events the booking can
// no longer accept (already assigned, cancelled) are acknowledged without
// error: dispatch decisions can arrive after a user acted first.
func (c *DispatchConsumer) Handle(ctx context.Context, msg kafkago.Message) error {
	event, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		return fmt.Errorf("malformed dispatch event: %w", err)
	}
	if event.Type != TypeProviderAssigned {
		c.logger.Debug("ignoring dispatch event", zap.String("type", event.Type))
		return nil
	}

	var payload ProviderAssignedPayload
	if err := event.ParseData(&payload); err != nil {
		return fmt.Errorf("malformed provider assignment payload: %w", err)
	}

	if _, err := c.assigner.AssignProvider(ctx, payload.BookingID, payload.ProviderID, bookingDomain.ActorSystem); err != nil {
		if errors.Is(err, errs.ErrInvalidTransition) || errors.Is(err, errs.ErrConcurrentModification) {
			c.logger.Warn("provider assignment no longer applicable",
				zap.String("booking_id", payload.BookingID.String()),
				zap.String("provider_id", payload.ProviderID.String()),
				zap.Error(err),
			)
			return nil
		}
		return fmt.Errorf("failed to apply provider assignment: %w", err)
	}

	c.logger.Info("provider assigned from dispatch",
		zap.String("booking_id", payload.BookingID.String()),
		zap.String("provider_id", payload.ProviderID.String()),
	)
	return nil
}
