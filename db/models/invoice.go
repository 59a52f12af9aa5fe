package models

import "github.com/uptrace/bun"

// Invoice : Invoice Model
// Only Verified changes after registration.
type Invoice struct {
	bun.BaseModel `bun:"table:invoices"`

	InvoiceID string `json:"invoice_id" bun:",pk"`
	Issuer    string `json:"issuer" bun:",notnull"`
	Recipient string `json:"recipient" bun:",notnull"`
	Amount    int64  `json:"amount" bun:",notnull"`
	DueDate   int64  `json:"due_date" bun:",notnull"`
	Status    string `json:"status" bun:",notnull"`
	Verified  bool   `json:"verified" bun:",notnull"`
	Timestamp int64  `json:"timestamp" bun:"registered_at,notnull"`
}
