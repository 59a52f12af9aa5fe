package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/common"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/models"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/valuation"
	"github.com/uptrace/bun"
)

// TokenizeInvoice mints the single token an invoice can ever have.
// The invoice id is taken as given: it is not checked against the invoice
// registry, and the token terms need not match the invoice terms.
func (svc *RegistryService) TokenizeInvoice(ctx context.Context, call Call, invoiceID string, faceValue, discountRate, maturityDate int64) (*models.Token, error) {
	if err := call.Validate(); err != nil {
		return nil, err
	}
	if err := svc.validateIdentifier("invoice_id", invoiceID); err != nil {
		return nil, err
	}
	if faceValue <= 0 {
		return nil, fmt.Errorf("%w: face_value must be positive", ErrInvalidData)
	}
	if discountRate < 0 || discountRate > common.MaxDiscountRate {
		return nil, fmt.Errorf("%w: discount_rate %d outside 0..%d", ErrInvalidData, discountRate, common.MaxDiscountRate)
	}
	if err := validateFuture("maturity_date", maturityDate, call.Clock); err != nil {
		return nil, err
	}

	token := &models.Token{
		InvoiceID:    invoiceID,
		Owner:        call.Caller,
		FaceValue:    faceValue,
		DiscountRate: discountRate,
		MaturityDate: maturityDate,
		Status:       common.TokenStatusActive,
		CreatedAt:    call.Clock,
	}
	err := svc.update(ctx, "tokenize_invoice", func(ctx context.Context, tx bun.Tx) error {
		exists, err := tx.NewSelect().Model((*models.Token)(nil)).Where("invoice_id = ?", invoiceID).Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrAlreadyTokenized, invoiceID)
		}
		token.TokenID, err = nextSequenceValue(ctx, tx, common.SequenceToken)
		if err != nil {
			return err
		}
		_, err = tx.NewInsert().Model(token).Exec(ctx)
		return err
	}, tokensMintedTotal.Inc)
	if err != nil {
		return nil, err
	}
	svc.Logger.Infof("Invoice tokenized: invoice_id:%s token_id:%d owner:%s face_value:%d discount_rate:%d clock:%d",
		invoiceID, token.TokenID, call.Caller, faceValue, discountRate, call.Clock)
	return token, nil
}

// TransferToken moves ownership to recipient and appends the move to the
// transfer ledger. Transfers to the current owner are allowed and logged.
func (svc *RegistryService) TransferToken(ctx context.Context, call Call, tokenID int64, recipient string) (*models.TransferEvent, error) {
	if err := call.Validate(); err != nil {
		return nil, err
	}
	if err := validateIdentity("recipient", recipient); err != nil {
		return nil, err
	}
	event := &models.TransferEvent{}
	err := svc.update(ctx, "transfer_token", func(ctx context.Context, tx bun.Tx) error {
		token, err := tokenIn(ctx, tx, tokenID)
		if err != nil {
			return err
		}
		if call.Caller != token.Owner {
			return fmt.Errorf("%w: %s does not own token %d", ErrNotOwner, call.Caller, tokenID)
		}

		if _, err := tx.NewUpdate().
			Model((*models.Token)(nil)).
			Set("owner = ?", recipient).
			Where("token_id = ?", tokenID).
			Exec(ctx); err != nil {
			return err
		}

		eventID, err := nextSequenceValue(ctx, tx, common.SequenceTransferEvent)
		if err != nil {
			return err
		}
		*event = models.TransferEvent{
			EventID:   eventID,
			TokenID:   tokenID,
			From:      call.Caller,
			To:        recipient,
			Amount:    token.FaceValue,
			Timestamp: call.Clock,
		}
		_, err = tx.NewInsert().Model(event).Exec(ctx)
		return err
	}, func() {
		transferredFaceValueTotal.Add(float64(event.Amount))
		svc.publishTransfer(*event)
	})
	if err != nil {
		return nil, err
	}
	svc.Logger.Infof("Token transferred: token_id:%d event_id:%d from:%s to:%s clock:%d", tokenID, event.EventID, call.Caller, recipient, call.Clock)
	return event, nil
}

// SetTokenStatus overwrites the free-form status tag. Allowed for the admin
// and the current owner.
func (svc *RegistryService) SetTokenStatus(ctx context.Context, call Call, tokenID int64, status string) (*models.Token, error) {
	if err := call.Validate(); err != nil {
		return nil, err
	}
	if err := svc.validateTag("status", status); err != nil {
		return nil, err
	}

	var token *models.Token
	err := svc.update(ctx, "set_token_status", func(ctx context.Context, tx bun.Tx) error {
		var err error
		token, err = tokenIn(ctx, tx, tokenID)
		if err != nil {
			return err
		}
		admin, err := adminOrNone(ctx, tx)
		if err != nil {
			return err
		}
		if !isAdminOr(admin, call.Caller, token.Owner) {
			return fmt.Errorf("%w: %s may not change the status of token %d", ErrUnauthorized, call.Caller, tokenID)
		}
		_, err = tx.NewUpdate().
			Model((*models.Token)(nil)).
			Set("status = ?", status).
			Where("token_id = ?", tokenID).
			Exec(ctx)
		token.Status = status
		return err
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// FindToken returns nil without an error when the token does not exist.
func (svc *RegistryService) FindToken(ctx context.Context, tokenID int64) (token *models.Token, err error) {
	err = svc.view(ctx, "get_token", func(ctx context.Context) error {
		token, err = tokenIn(ctx, svc.DB, tokenID)
		if errors.Is(err, ErrNotFound) {
			token, err = nil, nil
		}
		return err
	})
	return token, err
}

// FindTokenForInvoice looks a token up through its invoice id. Nil without an
// error means the invoice has not been tokenized.
func (svc *RegistryService) FindTokenForInvoice(ctx context.Context, invoiceID string) (token *models.Token, err error) {
	err = svc.view(ctx, "get_token_for_invoice", func(ctx context.Context) error {
		found := models.Token{}
		err := svc.DB.NewSelect().Model(&found).Where("invoice_id = ?", invoiceID).Limit(1).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		token = &found
		return nil
	})
	return token, err
}

// CurrentTokenValue prices the token at the call's clock.
func (svc *RegistryService) CurrentTokenValue(ctx context.Context, call Call, tokenID int64) (value int64, err error) {
	if err := call.Validate(); err != nil {
		return 0, err
	}
	err = svc.view(ctx, "calculate_current_value", func(ctx context.Context) error {
		token, err := tokenIn(ctx, svc.DB, tokenID)
		if err != nil {
			return err
		}
		value = valuation.CurrentValue(*token, call.Clock)
		return nil
	})
	return value, err
}

func (svc *RegistryService) TokensOwnedBy(ctx context.Context, owner string) (tokens []models.Token, err error) {
	err = svc.view(ctx, "get_tokens_owned", func(ctx context.Context) error {
		tokens = []models.Token{}
		return svc.DB.NewSelect().Model(&tokens).Where("owner = ?", owner).OrderExpr("token_id ASC").Scan(ctx)
	})
	return tokens, err
}

func tokenIn(ctx context.Context, db bun.IDB, tokenID int64) (*models.Token, error) {
	token := models.Token{}
	err := db.NewSelect().Model(&token).Where("token_id = ?", tokenID).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: token %d", ErrNotFound, tokenID)
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}
