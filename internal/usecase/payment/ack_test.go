package payment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

func TestAcknowledge(t *testing.T) {
	tests := []struct {
		name        string
		res         NotifyResult
		wantSuccess bool
		wantMessage string
	}{
		{"applied", NotifyResult{Result: domain.ResultApplied}, true, "OK"},
		{"already applied", NotifyResult{Result: domain.ResultAlreadyApplied}, true, "OK"},
		{"amount mismatch", NotifyResult{Result: domain.ResultAmountMismatch}, false, "amount mismatch"},
		{"conflict", NotifyResult{Result: domain.ResultTransactionIDConflict}, false, "transaction conflict"},
		{"not found", NotifyResult{Result: domain.ResultOrderNotFound}, false, "order not found"},
		{"locked", NotifyResult{Result: domain.ResultLockUnavailable}, false, "busy, retry later"},
		{"zero value", NotifyResult{}, false, "internal error"},
		{"malformed", NotifyResult{Err: fmt.Errorf("%w: eof", domain.ErrMalformedNotification)}, false, "malformed notification"},
		{"signature", NotifyResult{Err: domain.ErrInvalidSignature}, false, "invalid signature"},
		{"stale", NotifyResult{Err: domain.ErrStaleNotification}, false, "stale notification"},
		{"media type", NotifyResult{Err: domain.ErrUnsupportedMediaType}, false, "unsupported media type"},
		{"internal details hidden", NotifyResult{Err: errors.New("pq: password authentication failed")}, false, "internal error"},
		{"error wins over result", NotifyResult{Result: domain.ResultApplied, Err: errors.New("boom")}, false, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := Acknowledge(tt.res)
			assert.Equal(t, tt.wantSuccess, ack.Success())
			assert.Equal(t, tt.wantMessage, ack.Message)
		})
	}
}

func TestNotifyResult_Outcome(t *testing.T) {
	assert.Equal(t, "applied", NotifyResult{Result: domain.ResultApplied}.Outcome())
	assert.Equal(t, "invalid_signature", NotifyResult{Err: domain.ErrInvalidSignature}.Outcome())
	assert.Equal(t, "error", NotifyResult{Err: errors.New("x")}.Outcome())
}
