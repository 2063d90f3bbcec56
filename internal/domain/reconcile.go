package domain

type ReconcileResult int

const (
	ResultApplied ReconcileResult = iota + 1
	ResultAlreadyApplied
	ResultAmountMismatch
	ResultOrderNotFound
	ResultTransactionIDConflict
	ResultLockUnavailable
)

func (r ReconcileResult) String() string {
	switch r {
	case ResultApplied:
		return "applied"
	case ResultAlreadyApplied:
		return "already_applied"
	case ResultAmountMismatch:
		return "amount_mismatch"
	case ResultOrderNotFound:
		return "order_not_found"
	case ResultTransactionIDConflict:
		return "transaction_id_conflict"
	case ResultLockUnavailable:
		return "lock_unavailable"
	default:
		return "unknown"
	}
}

// Succeeded reports whether the gateway may stop retrying.
func (r ReconcileResult) Succeeded() bool {
	return r == ResultApplied || r == ResultAlreadyApplied
}

// RaisesAlert marks outcomes that point at tampering or corrupted data
// rather than a transient race.
func (r ReconcileResult) RaisesAlert() bool {
	return r == ResultAmountMismatch || r == ResultTransactionIDConflict
}
