package migrations

import (
	"context"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/models"
	"github.com/uptrace/bun"
)

/* This init reflects the latest model fields when run on a fresh db.
When adding or removing columns in subsequent migrations use IfNotExists/IfExists,
otherwise migrating an existing database is going to fail.
*/
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		tables := []interface{}{
			(*models.AdminState)(nil),
			(*models.Sequence)(nil),
			(*models.Invoice)(nil),
			(*models.VerificationRecord)(nil),
			(*models.Token)(nil),
			(*models.TransferEvent)(nil),
		}
		for _, model := range tables {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		if _, err := db.NewCreateIndex().
			Model((*models.Token)(nil)).
			Index("tokens_owner_idx").
			Column("owner").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().
			Model((*models.TransferEvent)(nil)).
			Index("transfer_events_token_id_idx").
			Column("token_id").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
		return nil
	}, nil)
}
