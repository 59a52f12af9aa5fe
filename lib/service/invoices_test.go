package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type InvoiceRegistryTestSuite struct {
	suite.Suite
	svc *service.RegistryService
}

func (suite *InvoiceRegistryTestSuite) SetupTest() {
	svc, err := newTestService()
	if err != nil {
		suite.T().Fatalf("Error initializing test service: %v", err)
	}
	suite.svc = svc
}

func (suite *InvoiceRegistryTestSuite) TearDownTest() {
	suite.svc.DB.Close()
}

func (suite *InvoiceRegistryTestSuite) TestRegisterAndGet() {
	ctx := context.Background()
	registered, err := suite.svc.RegisterInvoice(ctx, callAs(alice, 100), "inv-1", bob, 5000, 200, "pending")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), alice, registered.Issuer)
	assert.False(suite.T(), registered.Verified)
	assert.Equal(suite.T(), int64(100), registered.Timestamp)

	invoice, err := suite.svc.FindInvoice(ctx, "inv-1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), *registered, *invoice)
	assert.Equal(suite.T(), bob, invoice.Recipient)
	assert.Equal(suite.T(), int64(5000), invoice.Amount)
	assert.Equal(suite.T(), int64(200), invoice.DueDate)
	assert.Equal(suite.T(), "pending", invoice.Status)
}

func (suite *InvoiceRegistryTestSuite) TestGetUnknownInvoice() {
	invoice, err := suite.svc.FindInvoice(context.Background(), "nope")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), invoice)
}

func (suite *InvoiceRegistryTestSuite) TestDuplicateRegistrationKeepsFirst() {
	ctx := context.Background()
	_, err := suite.svc.RegisterInvoice(ctx, callAs(alice, 100), "inv-1", bob, 5000, 200, "pending")
	assert.NoError(suite.T(), err)

	_, err = suite.svc.RegisterInvoice(ctx, callAs(carol, 101), "inv-1", carol, 1, 900, "other")
	assert.ErrorIs(suite.T(), err, service.ErrAlreadyExists)

	invoice, err := suite.svc.FindInvoice(ctx, "inv-1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), alice, invoice.Issuer)
	assert.Equal(suite.T(), int64(5000), invoice.Amount)
}

func (suite *InvoiceRegistryTestSuite) TestRegisterRejectsInvalidData() {
	ctx := context.Background()
	call := callAs(alice, 100)
	cases := map[string]func() error{
		"empty id": func() error {
			_, err := suite.svc.RegisterInvoice(ctx, call, "", bob, 1, 200, "")
			return err
		},
		"long id": func() error {
			_, err := suite.svc.RegisterInvoice(ctx, call, strings.Repeat("x", 65), bob, 1, 200, "")
			return err
		},
		"zero amount": func() error {
			_, err := suite.svc.RegisterInvoice(ctx, call, "inv", bob, 0, 200, "")
			return err
		},
		"negative amount": func() error {
			_, err := suite.svc.RegisterInvoice(ctx, call, "inv", bob, -1, 200, "")
			return err
		},
		"due date at clock": func() error {
			_, err := suite.svc.RegisterInvoice(ctx, call, "inv", bob, 1, 100, "")
			return err
		},
		"due date in the past": func() error {
			_, err := suite.svc.RegisterInvoice(ctx, call, "inv", bob, 1, 50, "")
			return err
		},
		"long status": func() error {
			_, err := suite.svc.RegisterInvoice(ctx, call, "inv", bob, 1, 200, strings.Repeat("s", 33))
			return err
		},
		"empty recipient": func() error {
			_, err := suite.svc.RegisterInvoice(ctx, call, "inv", "", 1, 200, "")
			return err
		},
		"empty caller": func() error {
			_, err := suite.svc.RegisterInvoice(ctx, callAs("", 100), "inv", bob, 1, 200, "")
			return err
		},
		"negative clock": func() error {
			_, err := suite.svc.RegisterInvoice(ctx, callAs(alice, -1), "inv", bob, 1, 200, "")
			return err
		},
	}
	for name, register := range cases {
		assert.ErrorIs(suite.T(), register(), service.ErrInvalidData, name)
	}

	invoice, err := suite.svc.FindInvoice(ctx, "inv")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), invoice)
}

func (suite *InvoiceRegistryTestSuite) TestRegisterAcceptsBoundaryValues() {
	ctx := context.Background()
	_, err := suite.svc.RegisterInvoice(ctx, callAs(alice, 100), strings.Repeat("x", 64), bob, 1, 101, strings.Repeat("s", 32))
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRegistryTestSuite) TestVerifyByIssuer() {
	ctx := context.Background()
	_, err := suite.svc.RegisterInvoice(ctx, callAs(alice, 100), "inv-1", bob, 5000, 200, "pending")
	assert.NoError(suite.T(), err)

	record, err := suite.svc.VerifyInvoice(ctx, callAs(alice, 110), "inv-1", "manual", "signed pdf")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), alice, record.Verifier)
	assert.Equal(suite.T(), int64(110), record.Timestamp)

	invoice, err := suite.svc.FindInvoice(ctx, "inv-1")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), invoice.Verified)

	stored, err := suite.svc.FindVerification(ctx, "inv-1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), *record, *stored)
	assert.Equal(suite.T(), "manual", stored.Method)
	assert.Equal(suite.T(), "signed pdf", stored.Payload)

	_, err = suite.svc.VerifyInvoice(ctx, callAs(testAdmin, 120), "inv-1", "again", "")
	assert.ErrorIs(suite.T(), err, service.ErrAlreadyVerified)

	stored, err = suite.svc.FindVerification(ctx, "inv-1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), alice, stored.Verifier)
}

func (suite *InvoiceRegistryTestSuite) TestVerifyByAdmin() {
	ctx := context.Background()
	_, err := suite.svc.RegisterInvoice(ctx, callAs(alice, 100), "inv-1", bob, 5000, 200, "pending")
	assert.NoError(suite.T(), err)

	record, err := suite.svc.VerifyInvoice(ctx, callAs(testAdmin, 110), "inv-1", "kyc", "")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), testAdmin, record.Verifier)
}

func (suite *InvoiceRegistryTestSuite) TestVerifyByThirdPartyRejected() {
	ctx := context.Background()
	_, err := suite.svc.RegisterInvoice(ctx, callAs(alice, 100), "inv-1", bob, 5000, 200, "pending")
	assert.NoError(suite.T(), err)

	// the recipient is not allowed to verify either
	_, err = suite.svc.VerifyInvoice(ctx, callAs(bob, 110), "inv-1", "manual", "")
	assert.ErrorIs(suite.T(), err, service.ErrUnauthorized)

	invoice, err := suite.svc.FindInvoice(ctx, "inv-1")
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), invoice.Verified)
	record, err := suite.svc.FindVerification(ctx, "inv-1")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), record)
}

func (suite *InvoiceRegistryTestSuite) TestVerifyUnknownInvoice() {
	_, err := suite.svc.VerifyInvoice(context.Background(), callAs(testAdmin, 110), "missing", "manual", "")
	assert.ErrorIs(suite.T(), err, service.ErrNotFound)
}

func (suite *InvoiceRegistryTestSuite) TestVerifyRejectsOversizedInput() {
	ctx := context.Background()
	_, err := suite.svc.RegisterInvoice(ctx, callAs(alice, 100), "inv-1", bob, 5000, 200, "pending")
	assert.NoError(suite.T(), err)

	_, err = suite.svc.VerifyInvoice(ctx, callAs(alice, 110), "inv-1", strings.Repeat("m", 33), "")
	assert.ErrorIs(suite.T(), err, service.ErrInvalidData)
	_, err = suite.svc.VerifyInvoice(ctx, callAs(alice, 110), "inv-1", "manual", strings.Repeat("p", 1025))
	assert.ErrorIs(suite.T(), err, service.ErrInvalidData)

	_, err = suite.svc.VerifyInvoice(ctx, callAs(alice, 110), "inv-1", "manual", strings.Repeat("p", 1024))
	assert.NoError(suite.T(), err)
}

func (suite *InvoiceRegistryTestSuite) TestVerifyChecksRecordLast() {
	ctx := context.Background()
	longMethod := strings.Repeat("m", 33)
	longPayload := strings.Repeat("p", 1025)

	_, err := suite.svc.VerifyInvoice(ctx, callAs(bob, 110), "missing", longMethod, longPayload)
	assert.ErrorIs(suite.T(), err, service.ErrNotFound)

	_, err = suite.svc.RegisterInvoice(ctx, callAs(alice, 100), "inv-1", bob, 5000, 200, "pending")
	require.NoError(suite.T(), err)
	_, err = suite.svc.VerifyInvoice(ctx, callAs(bob, 110), "inv-1", longMethod, longPayload)
	assert.ErrorIs(suite.T(), err, service.ErrUnauthorized)

	_, err = suite.svc.VerifyInvoice(ctx, callAs(alice, 111), "inv-1", "manual", "")
	require.NoError(suite.T(), err)
	_, err = suite.svc.VerifyInvoice(ctx, callAs(alice, 112), "inv-1", "manual", longPayload)
	assert.ErrorIs(suite.T(), err, service.ErrAlreadyVerified)
}

func (suite *InvoiceRegistryTestSuite) TestVerifyRejectsInvalidCall() {
	ctx := context.Background()
	_, err := suite.svc.RegisterInvoice(ctx, callAs(alice, 100), "inv-1", bob, 5000, 200, "pending")
	require.NoError(suite.T(), err)

	_, err = suite.svc.VerifyInvoice(ctx, callAs("", 110), "inv-1", "manual", "")
	assert.ErrorIs(suite.T(), err, service.ErrInvalidData)
	_, err = suite.svc.VerifyInvoice(ctx, callAs(alice, -1), "inv-1", "manual", "")
	assert.ErrorIs(suite.T(), err, service.ErrInvalidData)

	invoice, err := suite.svc.FindInvoice(ctx, "inv-1")
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), invoice.Verified)
}

func TestInvoiceRegistrySuite(t *testing.T) {
	suite.Run(t, new(InvoiceRegistryTestSuite))
}
