package domain

import "time"

// Field names of the gateway notification document.
const (
	FieldReturnCode    = "return_code"
	FieldReturnMsg     = "return_msg"
	FieldResultCode    = "result_code"
	FieldErrCodeDes    = "err_code_des"
	FieldOutTradeNo    = "out_trade_no"
	FieldTransactionID = "transaction_id"
	FieldTotalFee      = "total_fee"
	FieldTimeEnd       = "time_end"
	FieldSign          = "sign"
	FieldSignType      = "sign_type"

	CodeSuccess = "SUCCESS"
	CodeFail    = "FAIL"
)

var RequiredNotificationFields = []string{
	FieldReturnCode,
	FieldResultCode,
	FieldOutTradeNo,
	FieldTransactionID,
	FieldTotalFee,
	FieldTimeEnd,
}

// PaymentNotification is a verified, fresh notification ready for reconciliation.
type PaymentNotification struct {
	OrderID        string
	TransactionID  string
	TotalFeeMinor  int64
	CompletionTime time.Time
	Fields         map[string]string
}

// Ack is the two-valued acknowledgement returned to the gateway.
type Ack struct {
	Code    string
	Message string
}

func (a Ack) Success() bool {
	return a.Code == CodeSuccess
}
