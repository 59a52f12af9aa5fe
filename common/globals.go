package common

const (
	InvoiceStatusPending = "pending"

	TokenStatusActive = "active"

	SequenceToken         = "token"
	SequenceTransferEvent = "transfer_event"

	// single row holding the current administrator
	AdminStateID = 1

	// PresentValueScale is the divisor applied to face_value * discount_rate * time_to_maturity
	PresentValueScale = 10000
	MaxDiscountRate   = 100

	ContextKeyCaller = "Caller"
	ContextKeyClock  = "Clock"

	RoutingKeyTransfer = "token.transfer"
	RoutingKeyCalls    = "call.#"
)
