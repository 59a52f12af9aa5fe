package v2controllers

import (
	"net/http"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/responses"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/labstack/echo/v4"
)

// InvoiceController : Invoice registry controller struct
type InvoiceController struct {
	svc *service.RegistryService
}

func NewInvoiceController(svc *service.RegistryService) *InvoiceController {
	return &InvoiceController{svc: svc}
}

type RegisterInvoiceRequestBody struct {
	InvoiceID string `json:"invoice_id" validate:"required"`
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount" validate:"gt=0"`
	DueDate   int64  `json:"due_date"`
	Status    string `json:"status"`
}

type VerifyInvoiceRequestBody struct {
	Method  string `json:"method"`
	Payload string `json:"payload"`
}

// RegisterInvoice godoc
// @Summary      Register an invoice
// @Description  Registers a new invoice issued by the caller. Invoice ids are never reused.
// @Accept       json
// @Produce      json
// @Tags         Invoice
// @Param        RegisterInvoiceRequestBody  body      RegisterInvoiceRequestBody  true  "Invoice terms"
// @Success      201                         {object}  models.Invoice
// @Failure      400                         {object}  responses.ErrorResponse
// @Failure      401                         {object}  responses.ErrorResponse
// @Failure      409                         {object}  responses.ErrorResponse
// @Failure      500                         {object}  responses.ErrorResponse
// @Router       /v2/invoices [post]
// @Security     CallToken
func (controller *InvoiceController) RegisterInvoice(c echo.Context) error {
	var body RegisterInvoiceRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load register invoice request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid register invoice request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	invoice, err := controller.svc.RegisterInvoice(c.Request().Context(), callFrom(c),
		body.InvoiceID, body.Recipient, body.Amount, body.DueDate, body.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, invoice)
}

// VerifyInvoice godoc
// @Summary      Verify an invoice
// @Description  Marks the invoice verified and stores the verification record. Admin or issuer only, once per invoice.
// @Accept       json
// @Produce      json
// @Tags         Invoice
// @Param        invoice_id                path      string                    true  "Invoice id"
// @Param        VerifyInvoiceRequestBody  body      VerifyInvoiceRequestBody  true  "Verification details"
// @Success      201                       {object}  models.VerificationRecord
// @Failure      400                       {object}  responses.ErrorResponse
// @Failure      401                       {object}  responses.ErrorResponse
// @Failure      403                       {object}  responses.ErrorResponse
// @Failure      404                       {object}  responses.ErrorResponse
// @Failure      409                       {object}  responses.ErrorResponse
// @Failure      500                       {object}  responses.ErrorResponse
// @Router       /v2/invoices/{invoice_id}/verification [post]
// @Security     CallToken
func (controller *InvoiceController) VerifyInvoice(c echo.Context) error {
	var body VerifyInvoiceRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load verify invoice request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	record, err := controller.svc.VerifyInvoice(c.Request().Context(), callFrom(c), c.Param("invoice_id"), body.Method, body.Payload)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, record)
}

// GetInvoice godoc
// @Summary      Retrieve an invoice
// @Description  Returns the invoice registered under the given id
// @Accept       json
// @Produce      json
// @Tags         Invoice
// @Param        invoice_id  path      string  true  "Invoice id"
// @Success      200         {object}  models.Invoice
// @Failure      401         {object}  responses.ErrorResponse
// @Failure      404         {object}  responses.ErrorResponse
// @Failure      500         {object}  responses.ErrorResponse
// @Router       /v2/invoices/{invoice_id} [get]
// @Security     CallToken
func (controller *InvoiceController) GetInvoice(c echo.Context) error {
	invoice, err := controller.svc.FindInvoice(c.Request().Context(), c.Param("invoice_id"))
	if err != nil {
		return err
	}
	if invoice == nil {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}
	return c.JSON(http.StatusOK, invoice)
}

// GetVerification godoc
// @Summary      Retrieve a verification record
// @Description  Returns how and by whom the invoice was verified
// @Accept       json
// @Produce      json
// @Tags         Invoice
// @Param        invoice_id  path      string  true  "Invoice id"
// @Success      200         {object}  models.VerificationRecord
// @Failure      401         {object}  responses.ErrorResponse
// @Failure      404         {object}  responses.ErrorResponse
// @Failure      500         {object}  responses.ErrorResponse
// @Router       /v2/invoices/{invoice_id}/verification [get]
// @Security     CallToken
func (controller *InvoiceController) GetVerification(c echo.Context) error {
	record, err := controller.svc.FindVerification(c.Request().Context(), c.Param("invoice_id"))
	if err != nil {
		return err
	}
	if record == nil {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}
	return c.JSON(http.StatusOK, record)
}
