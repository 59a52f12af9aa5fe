package integration_tests

import (
	"net/http"
	"strings"
	"testing"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type InvoiceTestSuite struct {
	TestSuite
}

func (suite *InvoiceTestSuite) TestRegisterAndGetInvoice() {
	rec := suite.do(http.MethodPost, "/v2/invoices", alice, 100, map[string]interface{}{
		"invoice_id": "inv-1",
		"recipient":  bob,
		"amount":     5000,
		"due_date":   200,
		"status":     "pending",
	})
	registered := &models.Invoice{}
	suite.decode(rec, http.StatusCreated, registered)
	assert.Equal(suite.T(), alice, registered.Issuer)

	rec = suite.do(http.MethodGet, "/v2/invoices/inv-1", carol, 150, nil)
	invoice := &models.Invoice{}
	suite.decode(rec, http.StatusOK, invoice)
	assert.Equal(suite.T(), "inv-1", invoice.InvoiceID)
	assert.Equal(suite.T(), alice, invoice.Issuer)
	assert.Equal(suite.T(), bob, invoice.Recipient)
	assert.Equal(suite.T(), int64(5000), invoice.Amount)
	assert.Equal(suite.T(), int64(200), invoice.DueDate)
	assert.Equal(suite.T(), int64(100), invoice.Timestamp)
	assert.False(suite.T(), invoice.Verified)
}

func (suite *InvoiceTestSuite) TestGetUnknownInvoice() {
	rec := suite.do(http.MethodGet, "/v2/invoices/unknown", alice, 1, nil)
	suite.checkErrResponse(rec, http.StatusNotFound, "NotFound")
}

func (suite *InvoiceTestSuite) TestRegisterWithoutCallToken() {
	rec := suite.do(http.MethodPost, "/v2/invoices", "", 0, map[string]interface{}{
		"invoice_id": "inv-1", "amount": 1, "due_date": 10,
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func (suite *InvoiceTestSuite) TestForgedCallToken() {
	rec := suite.doWithRawToken(http.MethodGet, "/v2/invoices/inv-1", "not.a.token")
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func (suite *InvoiceTestSuite) TestDuplicateRegistration() {
	suite.registerInvoice(alice, "inv-1", 100)

	rec := suite.do(http.MethodPost, "/v2/invoices", bob, 101, map[string]interface{}{
		"invoice_id": "inv-1", "recipient": carol, "amount": 1, "due_date": 500,
	})
	suite.checkErrResponse(rec, http.StatusConflict, "AlreadyExists")

	invoice := &models.Invoice{}
	suite.decode(suite.do(http.MethodGet, "/v2/invoices/inv-1", bob, 102, nil), http.StatusOK, invoice)
	assert.Equal(suite.T(), alice, invoice.Issuer)
}

func (suite *InvoiceTestSuite) TestRegisterInvalidData() {
	for name, body := range map[string]map[string]interface{}{
		"zero amount":       {"invoice_id": "inv-1", "recipient": bob, "amount": 0, "due_date": 500},
		"past due date":     {"invoice_id": "inv-1", "recipient": bob, "amount": 1, "due_date": 50},
		"missing id":        {"recipient": bob, "amount": 1, "due_date": 500},
		"missing recipient": {"invoice_id": "inv-1", "amount": 1, "due_date": 500},
		"long status":       {"invoice_id": "inv-1", "recipient": bob, "amount": 1, "due_date": 500, "status": strings.Repeat("s", 33)},
	} {
		rec := suite.do(http.MethodPost, "/v2/invoices", alice, 100, body)
		suite.checkErrResponse(rec, http.StatusBadRequest, "InvalidData")
		assert.Equal(suite.T(), http.StatusBadRequest, rec.Code, name)
	}
}

func (suite *InvoiceTestSuite) TestVerification() {
	suite.registerInvoice(alice, "inv-1", 100)

	rec := suite.do(http.MethodGet, "/v2/invoices/inv-1/verification", alice, 101, nil)
	suite.checkErrResponse(rec, http.StatusNotFound, "NotFound")

	rec = suite.do(http.MethodPost, "/v2/invoices/inv-1/verification", bob, 102, map[string]interface{}{"method": "manual"})
	suite.checkErrResponse(rec, http.StatusForbidden, "Unauthorized")

	rec = suite.do(http.MethodPost, "/v2/invoices/inv-1/verification", testAdmin, 103, map[string]interface{}{
		"method":  "kyc",
		"payload": "document hash",
	})
	record := &models.VerificationRecord{}
	suite.decode(rec, http.StatusCreated, record)
	assert.Equal(suite.T(), testAdmin, record.Verifier)

	rec = suite.do(http.MethodPost, "/v2/invoices/inv-1/verification", alice, 104, map[string]interface{}{"method": "manual"})
	suite.checkErrResponse(rec, http.StatusConflict, "AlreadyVerified")

	stored := &models.VerificationRecord{}
	suite.decode(suite.do(http.MethodGet, "/v2/invoices/inv-1/verification", carol, 105, nil), http.StatusOK, stored)
	assert.Equal(suite.T(), "kyc", stored.Method)
	assert.Equal(suite.T(), "document hash", stored.Payload)
	assert.Equal(suite.T(), int64(103), stored.Timestamp)

	invoice := &models.Invoice{}
	suite.decode(suite.do(http.MethodGet, "/v2/invoices/inv-1", carol, 106, nil), http.StatusOK, invoice)
	assert.True(suite.T(), invoice.Verified)
}

func (suite *InvoiceTestSuite) TestVerifyUnknownInvoice() {
	rec := suite.do(http.MethodPost, "/v2/invoices/missing/verification", testAdmin, 1, map[string]interface{}{"method": "manual"})
	suite.checkErrResponse(rec, http.StatusNotFound, "NotFound")
}

func (suite *InvoiceTestSuite) TestHealth() {
	rec := suite.do(http.MethodGet, "/v2/health", "", 0, nil)
	body := struct {
		Result string `json:"result"`
	}{}
	suite.decode(rec, http.StatusOK, &body)
	assert.Equal(suite.T(), "OK", body.Result)
}

func TestInvoiceSuite(t *testing.T) {
	suite.Run(t, new(InvoiceTestSuite))
}
