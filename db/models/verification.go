package models

import "github.com/uptrace/bun"

// VerificationRecord : written once when an invoice gets verified
type VerificationRecord struct {
	bun.BaseModel `bun:"table:verification_records"`

	InvoiceID string `json:"invoice_id" bun:",pk"`
	Verifier  string `json:"verifier" bun:",notnull"`
	Timestamp int64  `json:"timestamp" bun:"verified_at,notnull"`
	Method    string `json:"method" bun:",notnull"`
	Payload   string `json:"payload" bun:",notnull"`
}
