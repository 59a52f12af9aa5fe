package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {

		if db.Dialect().Name().String() != "pg" {
			fmt.Printf("\033[1;31m%s\033[0m", "You are not using PostgreSQL. DB level checks can not be enabled!\n")
			return nil
		}
		sql := `
			-- amounts are strictly positive
				alter table invoices
				ADD CONSTRAINT check_invoice_amount_positive
				CHECK (amount > 0);

				alter table tokens
				ADD CONSTRAINT check_token_face_value_positive
				CHECK (face_value > 0);

			-- discount rate is a whole percentage
				alter table tokens
				ADD CONSTRAINT check_token_discount_rate_range
				CHECK (discount_rate >= 0 AND discount_rate <= 100);

			-- verification records only exist for registered invoices
				alter table verification_records
				ADD CONSTRAINT fk_verification_records_invoice
				FOREIGN KEY (invoice_id) REFERENCES invoices (invoice_id);

			-- transfer events only exist for minted tokens
				alter table transfer_events
				ADD CONSTRAINT fk_transfer_events_token
				FOREIGN KEY (token_id) REFERENCES tokens (token_id);
		`
		if _, err := db.Exec(sql); err != nil {
			return err
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		if db.Dialect().Name().String() != "pg" {
			return nil
		}
		sql := `
			alter table invoices drop constraint if exists check_invoice_amount_positive;
			alter table tokens drop constraint if exists check_token_face_value_positive;
			alter table tokens drop constraint if exists check_token_discount_rate_range;
			alter table verification_records drop constraint if exists fk_verification_records_invoice;
			alter table transfer_events drop constraint if exists fk_transfer_events_token;
		`
		_, err := db.Exec(sql)
		return err
	})
}
