package models

import "github.com/uptrace/bun"

// Token : tradable claim over the proceeds of one invoice.
// The unique invoice_id column doubles as the invoice -> token index.
type Token struct {
	bun.BaseModel `bun:"table:tokens"`

	TokenID      int64  `json:"token_id" bun:",pk"`
	InvoiceID    string `json:"invoice_id" bun:",notnull,unique"`
	Owner        string `json:"owner" bun:",notnull"`
	FaceValue    int64  `json:"face_value" bun:",notnull"`
	DiscountRate int64  `json:"discount_rate" bun:",notnull"`
	MaturityDate int64  `json:"maturity_date" bun:",notnull"`
	Status       string `json:"status" bun:",notnull"`
	CreatedAt    int64  `json:"created_at" bun:",notnull"`
}
