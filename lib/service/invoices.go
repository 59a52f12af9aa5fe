package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/models"
	"github.com/uptrace/bun"
)

func (svc *RegistryService) RegisterInvoice(ctx context.Context, call Call, invoiceID, recipient string, amount, dueDate int64, status string) (*models.Invoice, error) {
	if err := call.Validate(); err != nil {
		return nil, err
	}
	if err := svc.validateIdentifier("invoice_id", invoiceID); err != nil {
		return nil, err
	}
	if err := validateIdentity("recipient", recipient); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidData)
	}
	if err := validateFuture("due_date", dueDate, call.Clock); err != nil {
		return nil, err
	}
	if err := svc.validateTag("status", status); err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		InvoiceID: invoiceID,
		Issuer:    call.Caller,
		Recipient: recipient,
		Amount:    amount,
		DueDate:   dueDate,
		Status:    status,
		Verified:  false,
		Timestamp: call.Clock,
	}
	err := svc.update(ctx, "register_invoice", func(ctx context.Context, tx bun.Tx) error {
		// an insert must never replace an existing invoice, so check explicitly
		exists, err := tx.NewSelect().Model((*models.Invoice)(nil)).Where("invoice_id = ?", invoiceID).Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, invoiceID)
		}
		_, err = tx.NewInsert().Model(invoice).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	svc.Logger.Infof("Invoice registered: invoice_id:%s issuer:%s amount:%d due_date:%d clock:%d", invoiceID, call.Caller, amount, dueDate, call.Clock)
	return invoice, nil
}

// VerifyInvoice marks an invoice verified and stores how it was verified.
// Only the admin or the invoice issuer may verify, and only once. The record
// itself is checked last, so NotFound and Unauthorized take precedence.
func (svc *RegistryService) VerifyInvoice(ctx context.Context, call Call, invoiceID, method, payload string) (*models.VerificationRecord, error) {
	if err := call.Validate(); err != nil {
		return nil, err
	}

	record := &models.VerificationRecord{
		InvoiceID: invoiceID,
		Verifier:  call.Caller,
		Timestamp: call.Clock,
		Method:    method,
		Payload:   payload,
	}
	err := svc.update(ctx, "verify_invoice", func(ctx context.Context, tx bun.Tx) error {
		invoice, err := invoiceIn(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		admin, err := adminOrNone(ctx, tx)
		if err != nil {
			return err
		}
		if !isAdminOr(admin, call.Caller, invoice.Issuer) {
			return fmt.Errorf("%w: %s may not verify %s", ErrUnauthorized, call.Caller, invoiceID)
		}
		if invoice.Verified {
			return fmt.Errorf("%w: %s", ErrAlreadyVerified, invoiceID)
		}
		if err := svc.validateTag("method", method); err != nil {
			return err
		}
		if len(payload) > svc.Config.MaxPayloadLength {
			return fmt.Errorf("%w: payload exceeds %d bytes", ErrInvalidData, svc.Config.MaxPayloadLength)
		}

		if _, err := tx.NewUpdate().
			Model((*models.Invoice)(nil)).
			Set("verified = ?", true).
			Where("invoice_id = ?", invoiceID).
			Exec(ctx); err != nil {
			return err
		}
		_, err = tx.NewInsert().Model(record).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	svc.Logger.Infof("Invoice verified: invoice_id:%s verifier:%s method:%s clock:%d", invoiceID, call.Caller, method, call.Clock)
	return record, nil
}

// FindInvoice returns nil without an error when the invoice does not exist.
func (svc *RegistryService) FindInvoice(ctx context.Context, invoiceID string) (invoice *models.Invoice, err error) {
	err = svc.view(ctx, "get_invoice", func(ctx context.Context) error {
		invoice, err = invoiceIn(ctx, svc.DB, invoiceID)
		if errors.Is(err, ErrNotFound) {
			invoice, err = nil, nil
		}
		return err
	})
	return invoice, err
}

// FindVerification returns nil without an error for unverified or unknown invoices.
func (svc *RegistryService) FindVerification(ctx context.Context, invoiceID string) (record *models.VerificationRecord, err error) {
	err = svc.view(ctx, "get_verification", func(ctx context.Context) error {
		found := models.VerificationRecord{}
		err := svc.DB.NewSelect().Model(&found).Where("invoice_id = ?", invoiceID).Limit(1).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		record = &found
		return nil
	})
	return record, err
}

func invoiceIn(ctx context.Context, db bun.IDB, invoiceID string) (*models.Invoice, error) {
	invoice := models.Invoice{}
	err := db.NewSelect().Model(&invoice).Where("invoice_id = ?", invoiceID).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: invoice %s", ErrNotFound, invoiceID)
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}
