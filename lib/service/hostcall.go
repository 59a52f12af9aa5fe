package service

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	OpRegisterInvoice       = "register_invoice"
	OpVerifyInvoice         = "verify_invoice"
	OpGetInvoice            = "get_invoice"
	OpGetVerification       = "get_verification"
	OpSetAdmin              = "set_admin"
	OpGetAdmin              = "get_admin"
	OpTokenizeInvoice       = "tokenize_invoice"
	OpTransferToken         = "transfer_token"
	OpGetToken              = "get_token"
	OpGetTokenForInvoice    = "get_token_for_invoice"
	OpCalculateCurrentValue = "calculate_current_value"
	OpSetTokenStatus        = "set_token_status"
	OpGetTransfers          = "get_transfers"
	OpGetTokensOwned        = "get_tokens_owned"
)

// HostCall is one operation as delivered by the ordering host.
type HostCall struct {
	Operation string          `json:"operation"`
	Caller    string          `json:"caller"`
	Clock     int64           `json:"clock"`
	Args      json.RawMessage `json:"args"`
}

type HostCallResult struct {
	Operation string      `json:"operation"`
	Ok        bool        `json:"ok"`
	Error     string      `json:"error,omitempty"`
	Message   string      `json:"message,omitempty"`
	Result    interface{} `json:"result"`
}

type registerInvoiceArgs struct {
	InvoiceID string `json:"invoice_id"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
	DueDate   int64  `json:"due_date"`
	Status    string `json:"status"`
}

type verifyInvoiceArgs struct {
	InvoiceID string `json:"invoice_id"`
	Method    string `json:"method"`
	Payload   string `json:"payload"`
}

type invoiceArgs struct {
	InvoiceID string `json:"invoice_id"`
}

type setAdminArgs struct {
	NewAdmin string `json:"new_admin"`
}

type tokenizeInvoiceArgs struct {
	InvoiceID    string `json:"invoice_id"`
	FaceValue    int64  `json:"face_value"`
	DiscountRate int64  `json:"discount_rate"`
	MaturityDate int64  `json:"maturity_date"`
}

type transferTokenArgs struct {
	TokenID   int64  `json:"token_id"`
	Recipient string `json:"recipient"`
}

type tokenArgs struct {
	TokenID int64 `json:"token_id"`
}

type setTokenStatusArgs struct {
	TokenID   int64  `json:"token_id"`
	NewStatus string `json:"new_status"`
}

type ownerArgs struct {
	Owner string `json:"owner"`
}

// HandleHostCall decodes and runs one host call. Registry rule violations
// come back as a failed result; only environment faults are returned as err
// so the caller can decide whether to redeliver.
func (svc *RegistryService) HandleHostCall(ctx context.Context, hc HostCall) (HostCallResult, error) {
	result, err := svc.dispatch(ctx, hc)
	if err != nil {
		kind := ErrorKind(err)
		if kind == "" {
			return HostCallResult{Operation: hc.Operation}, err
		}
		return HostCallResult{Operation: hc.Operation, Error: kind, Message: err.Error()}, nil
	}
	return HostCallResult{Operation: hc.Operation, Ok: true, Result: result}, nil
}

func (svc *RegistryService) dispatch(ctx context.Context, hc HostCall) (interface{}, error) {
	call := Call{Caller: hc.Caller, Clock: hc.Clock}
	if err := call.Validate(); err != nil {
		return nil, err
	}

	switch hc.Operation {
	case OpRegisterInvoice:
		var args registerInvoiceArgs
		if err := decodeArgs(hc.Args, &args); err != nil {
			return nil, err
		}
		return svc.RegisterInvoice(ctx, call, args.InvoiceID, args.Recipient, args.Amount, args.DueDate, args.Status)
	case OpVerifyInvoice:
		var args verifyInvoiceArgs
		if err := decodeArgs(hc.Args, &args); err != nil {
			return nil, err
		}
		return svc.VerifyInvoice(ctx, call, args.InvoiceID, args.Method, args.Payload)
	case OpGetInvoice:
		var args invoiceArgs
		if err := decodeArgs(hc.Args, &args); err != nil {
			return nil, err
		}
		return svc.FindInvoice(ctx, args.InvoiceID)
	case OpGetVerification:
		var args invoiceArgs
		if err := decodeArgs(hc.Args, &args); err != nil {
			return nil, err
		}
		return svc.FindVerification(ctx, args.InvoiceID)
	case OpSetAdmin:
		var args setAdminArgs
		if err := decodeArgs(hc.Args, &args); err != nil {
			return nil, err
		}
		return nil, svc.SetAdmin(ctx, call, args.NewAdmin)
	case OpGetAdmin:
		return svc.CurrentAdmin(ctx)
	case OpTokenizeInvoice:
		var args tokenizeInvoiceArgs
		if err := decodeArgs(hc.Args, &args); err != nil {
			return nil, err
		}
		token, err := svc.TokenizeInvoice(ctx, call, args.InvoiceID, args.FaceValue, args.DiscountRate, args.MaturityDate)
		if err != nil {
			return nil, err
		}
		return token.TokenID, nil
	case OpTransferToken:
		var args transferTokenArgs
		if err := decodeArgs(hc.Args, &args); err != nil {
			return nil, err
		}
		return svc.TransferToken(ctx, call, args.TokenID, args.Recipient)
	case OpGetToken:
		var args tokenArgs
		if err := decodeArgs(hc.Args, &args); err != nil {
			return nil, err
		}
		return svc.FindToken(ctx, args.TokenID)
	case OpGetTokenForInvoice:
		var args invoiceArgs
		if err := decodeArgs(hc.Args, &args); err != nil {
			return nil, err
		}
		token, err := svc.FindTokenForInvoice(ctx, args.InvoiceID)
		if err != nil || token == nil {
			return nil, err
		}
		return token.TokenID, nil
	case OpCalculateCurrentValue:
		var args tokenArgs
		if err := decodeArgs(hc.Args, &args); err != nil {
			return nil, err
		}
		return svc.CurrentTokenValue(ctx, call, args.TokenID)
	case OpSetTokenStatus:
		var args setTokenStatusArgs
		if err := decodeArgs(hc.Args, &args); err != nil {
			return nil, err
		}
		return svc.SetTokenStatus(ctx, call, args.TokenID, args.NewStatus)
	case OpGetTransfers:
		var args tokenArgs
		if err := decodeArgs(hc.Args, &args); err != nil {
			return nil, err
		}
		return svc.TransfersFor(ctx, args.TokenID)
	case OpGetTokensOwned:
		var args ownerArgs
		if err := decodeArgs(hc.Args, &args); err != nil {
			return nil, err
		}
		return svc.TokensOwnedBy(ctx, args.Owner)
	default:
		return nil, fmt.Errorf("%w: unknown operation %q", ErrInvalidData, hc.Operation)
	}
}

func decodeArgs(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing args", ErrInvalidData)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: malformed args: %v", ErrInvalidData, err)
	}
	return nil
}
