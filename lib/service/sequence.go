package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/models"
	"github.com/uptrace/bun"
)

// nextSequenceValue hands out 0, 1, 2, ... for the named identifier space.
// Token ids and transfer event ids are drawn from separate sequences.
func nextSequenceValue(ctx context.Context, tx bun.Tx, name string) (int64, error) {
	seq := models.Sequence{}
	err := tx.NewSelect().Model(&seq).Where("name = ?", name).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		seq = models.Sequence{Name: name, NextValue: 1}
		_, err = tx.NewInsert().Model(&seq).Exec(ctx)
		return 0, err
	}
	if err != nil {
		return 0, err
	}

	value := seq.NextValue
	_, err = tx.NewUpdate().
		Model((*models.Sequence)(nil)).
		Set("next_value = ?", value+1).
		Where("name = ?", name).
		Exec(ctx)
	return value, err
}
