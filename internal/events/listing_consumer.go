package events

import (
	"context"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/thryve-market/service-marketplace/internal/platform/kafka"
)

// BookingResolver cancels the open booking requests attached to a listing.
// It is implemented by the booking application service.
type BookingResolver interface {
	CancelOpenForListing(ctx context.Context, listingID uuid.UUID) error
}

// ListingEventConsumer reacts to listing lifecycle events. When a listing is
// removed or marked unavailable, its open booking requests are cancelled so
// they do not linger in pending or scheduled state.
type ListingEventConsumer struct {
	consumer *kafka.Consumer
	resolver BookingResolver
	logger   *zap.Logger
}

// NewListingEventConsumer creates a consumer for the listing events topic.
func NewListingEventConsumer(brokers []string, groupID string, resolver BookingResolver, logger *zap.Logger) *ListingEventConsumer {
	return &ListingEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, TopicListingEvents, logger),
		resolver: resolver,
		logger:   logger,
	}
}

// Start consumes listing events until ctx is cancelled.
func (c *ListingEventConsumer) Start(ctx context.Context) error {
	c.logger.Info("listing event consumer started", zap.String("topic", TopicListingEvents))
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying kafka reader.
func (c *ListingEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *ListingEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	event, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		// Malformed messages are dropped, not retried.
		c.logger.Warn("skipping malformed listing event",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return nil
	}

	switch event.Type {
	case ListingRemoved, ListingUnavailable:
		var payload ListingEvent
		if err := event.ParseData(&payload); err != nil {
			c.logger.Warn("skipping listing event with bad payload",
				zap.String("event_type", event.Type),
				zap.Error(err),
			)
			return nil
		}

		c.logger.Info("resolving open bookings for listing",
			zap.String("event_type", event.Type),
			zap.String("listing_id", payload.ListingID.String()),
		)
		return c.resolver.CancelOpenForListing(ctx, payload.ListingID)
	default:
		return nil
	}
}
