package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/shvark-payment-service/internal/config"
	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

type recordingPort struct {
	topic string
	msgs  []domain.Message
	err   error
}

func (p *recordingPort) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	p.topic = topic
	p.msgs = append(p.msgs, msgs...)
	return p.err
}

func TestPaymentEventPublisher_PublishOrderPaid(t *testing.T) {
	port := &recordingPort{}
	p := NewPaymentEventPublisher(port, "payment-events", "payment-alerts")

	paidAt := time.Date(2024, 3, 1, 4, 0, 0, 0, time.UTC)
	err := p.PublishOrderPaid(context.Background(), domain.OrderPaidEvent{
		EventID:       "evt-1",
		OrderID:       "ORD1",
		TransactionID: "TXN1",
		AmountMinor:   9900,
		PaidAt:        paidAt,
	})
	require.NoError(t, err)

	assert.Equal(t, "payment-events", port.topic)
	require.Len(t, port.msgs, 1)
	assert.Equal(t, []byte("ORD1"), port.msgs[0].Key)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(port.msgs[0].Value, &decoded))
	assert.Equal(t, "TXN1", decoded["transaction_id"])
	assert.Equal(t, float64(9900), decoded["amount_minor"])
}

func TestPaymentEventPublisher_PublishAlert(t *testing.T) {
	port := &recordingPort{}
	p := NewPaymentEventPublisher(port, "payment-events", "payment-alerts")

	err := p.PublishAlert(context.Background(), domain.PaymentAlert{
		AlertID:          "a1",
		Kind:             domain.AlertAmountMismatch,
		OrderID:          "ORD1",
		ReportedFeeMinor: 1,
		ExpectedFeeMinor: 9900,
	})
	require.NoError(t, err)

	assert.Equal(t, "payment-alerts", port.topic)
	var decoded domain.PaymentAlert
	require.NoError(t, json.Unmarshal(port.msgs[0].Value, &decoded))
	assert.Equal(t, domain.AlertAmountMismatch, decoded.Kind)
	assert.Empty(t, decoded.ExistingTransactionID)
}

func TestPaymentEventPublisher_PortError(t *testing.T) {
	port := &recordingPort{err: errors.New("broker down")}
	p := NewPaymentEventPublisher(port, "payment-events", "payment-alerts")

	err := p.PublishOrderPaid(context.Background(), domain.OrderPaidEvent{OrderID: "ORD1"})
	assert.EqualError(t, err, "broker down")
}

func TestSASLMechanism(t *testing.T) {
	tests := []struct {
		mechanism string
		wantName  string
		wantErr   bool
	}{
		{mechanism: "", wantName: ""},
		{mechanism: "plain", wantName: "PLAIN"},
		{mechanism: "scram-sha-256", wantName: "SCRAM-SHA-256"},
		{mechanism: "scram-sha-512", wantName: "SCRAM-SHA-512"},
		{mechanism: "gssapi", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.mechanism, func(t *testing.T) {
			m, err := saslMechanism(config.KafkaService{SASLMechanism: tt.mechanism, Username: "u", Password: "p"})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantName == "" {
				assert.Nil(t, m)
				return
			}
			assert.Equal(t, tt.wantName, m.Name())
		})
	}
}
