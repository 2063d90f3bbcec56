package payment

import (
	"errors"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
)

const ackOK = "OK"

// Acknowledge maps a notification outcome onto the gateway's SUCCESS/FAIL pair.
// Only Applied and AlreadyApplied stop the gateway's retries.
func Acknowledge(res NotifyResult) domain.Ack {
	if res.Err != nil {
		return Fail(res.Err)
	}

	switch res.Result {
	case domain.ResultApplied, domain.ResultAlreadyApplied:
		return domain.Ack{Code: domain.CodeSuccess, Message: ackOK}
	case domain.ResultAmountMismatch:
		return domain.Ack{Code: domain.CodeFail, Message: "amount mismatch"}
	case domain.ResultTransactionIDConflict:
		return domain.Ack{Code: domain.CodeFail, Message: "transaction conflict"}
	case domain.ResultOrderNotFound:
		return domain.Ack{Code: domain.CodeFail, Message: "order not found"}
	case domain.ResultLockUnavailable:
		return domain.Ack{Code: domain.CodeFail, Message: "busy, retry later"}
	default:
		return domain.Ack{Code: domain.CodeFail, Message: "internal error"}
	}
}

// Fail builds the FAIL acknowledgement for a rejected notification.
// Internal error details never leave the service.
func Fail(err error) domain.Ack {
	return domain.Ack{Code: domain.CodeFail, Message: errorMessage(err)}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedNotification):
		return "malformed notification"
	case errors.Is(err, domain.ErrInvalidSignature):
		return "invalid signature"
	case errors.Is(err, domain.ErrMissingFields):
		return "missing required fields"
	case errors.Is(err, domain.ErrPaymentNotSuccessful):
		return "payment not successful"
	case errors.Is(err, domain.ErrInvalidTimeFormat):
		return "invalid time_end"
	case errors.Is(err, domain.ErrStaleNotification):
		return "stale notification"
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		return "unsupported media type"
	default:
		return "internal error"
	}
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrMalformedNotification):
		return "malformed"
	case errors.Is(err, domain.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, domain.ErrMissingFields):
		return "missing_fields"
	case errors.Is(err, domain.ErrPaymentNotSuccessful):
		return "payment_not_successful"
	case errors.Is(err, domain.ErrInvalidTimeFormat):
		return "invalid_time_format"
	case errors.Is(err, domain.ErrStaleNotification):
		return "stale"
	case errors.Is(err, domain.ErrUnsupportedMediaType):
		return "unsupported_media_type"
	case errors.Is(err, domain.ErrMissingSecret):
		return "missing_secret"
	case errors.Is(err, domain.ErrMembershipNotFound):
		return "membership_not_found"
	default:
		return "error"
	}
}
