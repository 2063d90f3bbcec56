package domain

import "errors"

var (
	ErrMalformedNotification = errors.New("malformed notification")
	ErrInvalidSignature      = errors.New("invalid signature")
	ErrMissingSecret         = errors.New("signing secret is not configured")
	ErrMissingFields         = errors.New("missing required fields")
	ErrPaymentNotSuccessful  = errors.New("payment not successful")
	ErrInvalidTimeFormat     = errors.New("invalid time_end format")
	ErrStaleNotification     = errors.New("stale notification")
	ErrUnsupportedMediaType  = errors.New("unsupported media type")

	ErrOrderNotFound        = errors.New("order not found")
	ErrLockUnavailable      = errors.New("order row is locked")
	ErrDuplicateTransaction = errors.New("transaction id already recorded")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrStatusChanged        = errors.New("order status changed concurrently")
	ErrOrderNotPayable      = errors.New("order is not payable")
)
