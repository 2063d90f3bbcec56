package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

// PaymentEventPublisher serializes payment events as JSON keyed by order id,
// so every event of an order lands in the same partition.
type PaymentEventPublisher struct {
	port        domain.PublisherPort
	eventsTopic string
	alertsTopic string
}

func NewPaymentEventPublisher(port domain.PublisherPort, eventsTopic, alertsTopic string) *PaymentEventPublisher {
	return &PaymentEventPublisher{
		port:        port,
		eventsTopic: eventsTopic,
		alertsTopic: alertsTopic,
	}
}

func (p *PaymentEventPublisher) PublishOrderPaid(ctx context.Context, event domain.OrderPaidEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order paid event: %w", err)
	}
	return p.port.Publish(ctx, p.eventsTopic, domain.Message{Key: []byte(event.OrderID), Value: v})
}

func (p *PaymentEventPublisher) PublishAlert(ctx context.Context, alert domain.PaymentAlert) error {
	v, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal payment alert: %w", err)
	}
	return p.port.Publish(ctx, p.alertsTopic, domain.Message{Key: []byte(alert.OrderID), Value: v})
}
