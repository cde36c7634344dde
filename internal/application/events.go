package application

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/storelane/storelane-api/pkg/helpers"
)

const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
)

// ProductEvent is the JSON payload published to the event queue on every
// catalog mutation.
type ProductEvent struct {
	Type      string    `json:"type"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name,omitempty"`
	At        time.Time `json:"at"`
}

// EventPublisher publishes product events best-effort: a broker failure is
// logged and never fails the request.
type EventPublisher struct {
	Pub    *helpers.RabbitPublisher
	Logger *logrus.Logger
}

func NewEventPublisher(pub *helpers.RabbitPublisher, logger *logrus.Logger) *EventPublisher {
	return &EventPublisher{Pub: pub, Logger: logger}
}

func (p *EventPublisher) Publish(ctx context.Context, eventType, productID, name string) {
	if p == nil || p.Pub == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	ev := ProductEvent{Type: eventType, ProductID: productID, Name: name, At: time.Now().UTC()}
	if err := p.Pub.PublishJSON(ctx, ev); err != nil && p.Logger != nil {
		p.Logger.WithError(err).WithField("type", eventType).Warn("event publish failed")
	}
}
