package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

// ParseNotification validates a signature-checked field map and extracts
// what reconciliation needs. Freshness is checked separately.
func ParseNotification(fields map[string]string, loc *time.Location) (*domain.PaymentNotification, error) {
	var missing []string
	for _, f := range domain.RequiredNotificationFields {
		if strings.TrimSpace(fields[f]) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrMissingFields, strings.Join(missing, ", "))
	}

	if fields[domain.FieldReturnCode] != domain.CodeSuccess || fields[domain.FieldResultCode] != domain.CodeSuccess {
		return nil, fmt.Errorf("%w: return_code=%s result_code=%s",
			domain.ErrPaymentNotSuccessful, fields[domain.FieldReturnCode], fields[domain.FieldResultCode])
	}

	fee, err := ParseTotalFee(fields[domain.FieldTotalFee])
	if err != nil {
		return nil, err
	}

	completedAt, err := ParseTimeEnd(fields[domain.FieldTimeEnd], loc)
	if err != nil {
		return nil, err
	}

	return &domain.PaymentNotification{
		OrderID:        fields[domain.FieldOutTradeNo],
		TransactionID:  fields[domain.FieldTransactionID],
		TotalFeeMinor:  fee,
		CompletionTime: completedAt,
		Fields:         fields,
	}, nil
}
