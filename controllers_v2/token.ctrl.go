package v2controllers

import (
	"net/http"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/responses"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/labstack/echo/v4"
)

// TokenController : Tokenization registry and transfer ledger controller struct
type TokenController struct {
	svc *service.RegistryService
}

func NewTokenController(svc *service.RegistryService) *TokenController {
	return &TokenController{svc: svc}
}

type TokenizeInvoiceRequestBody struct {
	InvoiceID    string `json:"invoice_id" validate:"required"`
	FaceValue    int64  `json:"face_value" validate:"gt=0"`
	DiscountRate int64  `json:"discount_rate" validate:"gte=0,lte=100"`
	MaturityDate int64  `json:"maturity_date"`
}

type TokenizeInvoiceResponseBody struct {
	TokenID int64 `json:"token_id"`
}

type TransferTokenRequestBody struct {
	Recipient string `json:"recipient"`
}

type SetTokenStatusRequestBody struct {
	NewStatus string `json:"new_status"`
}

type TokenValueResponseBody struct {
	TokenID int64 `json:"token_id"`
	Clock   int64 `json:"clock"`
	Value   int64 `json:"value"`
}

// TokenizeInvoice godoc
// @Summary      Tokenize an invoice
// @Description  Mints the token of an invoice, owned by the caller. Each invoice can be tokenized once.
// @Accept       json
// @Produce      json
// @Tags         Token
// @Param        TokenizeInvoiceRequestBody  body      TokenizeInvoiceRequestBody  true  "Token terms"
// @Success      201                         {object}  TokenizeInvoiceResponseBody
// @Failure      400                         {object}  responses.ErrorResponse
// @Failure      401                         {object}  responses.ErrorResponse
// @Failure      409                         {object}  responses.ErrorResponse
// @Failure      500                         {object}  responses.ErrorResponse
// @Router       /v2/tokens [post]
// @Security     CallToken
func (controller *TokenController) TokenizeInvoice(c echo.Context) error {
	var body TokenizeInvoiceRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load tokenize request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	if err := c.Validate(&body); err != nil {
		c.Logger().Errorf("Invalid tokenize request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	token, err := controller.svc.TokenizeInvoice(c.Request().Context(), callFrom(c),
		body.InvoiceID, body.FaceValue, body.DiscountRate, body.MaturityDate)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, &TokenizeInvoiceResponseBody{TokenID: token.TokenID})
}

// TransferToken godoc
// @Summary      Transfer a token
// @Description  Moves the token to the recipient and records the transfer. Owner only.
// @Accept       json
// @Produce      json
// @Tags         Token
// @Param        token_id                  path      int                       true  "Token id"
// @Param        TransferTokenRequestBody  body      TransferTokenRequestBody  true  "Recipient"
// @Success      201                       {object}  models.TransferEvent
// @Failure      400                       {object}  responses.ErrorResponse
// @Failure      401                       {object}  responses.ErrorResponse
// @Failure      403                       {object}  responses.ErrorResponse
// @Failure      404                       {object}  responses.ErrorResponse
// @Failure      500                       {object}  responses.ErrorResponse
// @Router       /v2/tokens/{token_id}/transfers [post]
// @Security     CallToken
func (controller *TokenController) TransferToken(c echo.Context) error {
	tokenID, err := tokenIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body TransferTokenRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load transfer request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	event, err := controller.svc.TransferToken(c.Request().Context(), callFrom(c), tokenID, body.Recipient)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, event)
}

// GetToken godoc
// @Summary      Retrieve a token
// @Description  Returns the token with the given id
// @Accept       json
// @Produce      json
// @Tags         Token
// @Param        token_id  path      int  true  "Token id"
// @Success      200       {object}  models.Token
// @Failure      400       {object}  responses.ErrorResponse
// @Failure      401       {object}  responses.ErrorResponse
// @Failure      404       {object}  responses.ErrorResponse
// @Failure      500       {object}  responses.ErrorResponse
// @Router       /v2/tokens/{token_id} [get]
// @Security     CallToken
func (controller *TokenController) GetToken(c echo.Context) error {
	tokenID, err := tokenIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	token, err := controller.svc.FindToken(c.Request().Context(), tokenID)
	if err != nil {
		return err
	}
	if token == nil {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}
	return c.JSON(http.StatusOK, token)
}

// GetTokenForInvoice godoc
// @Summary      Token of an invoice
// @Description  Returns the id of the token minted for the invoice
// @Accept       json
// @Produce      json
// @Tags         Token
// @Param        invoice_id  path      string  true  "Invoice id"
// @Success      200         {object}  TokenizeInvoiceResponseBody
// @Failure      401         {object}  responses.ErrorResponse
// @Failure      404         {object}  responses.ErrorResponse
// @Failure      500         {object}  responses.ErrorResponse
// @Router       /v2/invoices/{invoice_id}/token [get]
// @Security     CallToken
func (controller *TokenController) GetTokenForInvoice(c echo.Context) error {
	token, err := controller.svc.FindTokenForInvoice(c.Request().Context(), c.Param("invoice_id"))
	if err != nil {
		return err
	}
	if token == nil {
		return c.JSON(http.StatusNotFound, responses.NotFoundError)
	}
	return c.JSON(http.StatusOK, &TokenizeInvoiceResponseBody{TokenID: token.TokenID})
}

// CalculateCurrentValue godoc
// @Summary      Present value of a token
// @Description  Prices the token at the clock of the call token
// @Accept       json
// @Produce      json
// @Tags         Token
// @Param        token_id  path      int  true  "Token id"
// @Success      200       {object}  TokenValueResponseBody
// @Failure      400       {object}  responses.ErrorResponse
// @Failure      401       {object}  responses.ErrorResponse
// @Failure      404       {object}  responses.ErrorResponse
// @Failure      500       {object}  responses.ErrorResponse
// @Router       /v2/tokens/{token_id}/value [get]
// @Security     CallToken
func (controller *TokenController) CalculateCurrentValue(c echo.Context) error {
	tokenID, err := tokenIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	call := callFrom(c)
	value, err := controller.svc.CurrentTokenValue(c.Request().Context(), call, tokenID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &TokenValueResponseBody{TokenID: tokenID, Clock: call.Clock, Value: value})
}

// SetTokenStatus godoc
// @Summary      Update token status
// @Description  Overwrites the status tag of the token. Admin or owner only.
// @Accept       json
// @Produce      json
// @Tags         Token
// @Param        token_id                   path      int                        true  "Token id"
// @Param        SetTokenStatusRequestBody  body      SetTokenStatusRequestBody  true  "New status"
// @Success      200                        {object}  models.Token
// @Failure      400                        {object}  responses.ErrorResponse
// @Failure      401                        {object}  responses.ErrorResponse
// @Failure      403                        {object}  responses.ErrorResponse
// @Failure      404                        {object}  responses.ErrorResponse
// @Failure      500                        {object}  responses.ErrorResponse
// @Router       /v2/tokens/{token_id}/status [put]
// @Security     CallToken
func (controller *TokenController) SetTokenStatus(c echo.Context) error {
	tokenID, err := tokenIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	var body SetTokenStatusRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load token status request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	token, err := controller.svc.SetTokenStatus(c.Request().Context(), callFrom(c), tokenID, body.NewStatus)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, token)
}

// GetTransfers godoc
// @Summary      Transfer history
// @Description  Lists the transfers of a token, oldest first
// @Accept       json
// @Produce      json
// @Tags         Token
// @Param        token_id  path      int  true  "Token id"
// @Success      200       {object}  []models.TransferEvent
// @Failure      400       {object}  responses.ErrorResponse
// @Failure      401       {object}  responses.ErrorResponse
// @Failure      404       {object}  responses.ErrorResponse
// @Failure      500       {object}  responses.ErrorResponse
// @Router       /v2/tokens/{token_id}/transfers [get]
// @Security     CallToken
func (controller *TokenController) GetTransfers(c echo.Context) error {
	tokenID, err := tokenIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}
	events, err := controller.svc.TransfersFor(c.Request().Context(), tokenID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// GetTokensOwned godoc
// @Summary      Tokens owned by an identity
// @Description  Lists the tokens currently owned by the given identity, or by the caller when none is given
// @Accept       json
// @Produce      json
// @Tags         Token
// @Param        owner  query     string  false  "Owner identity"
// @Success      200    {object}  []models.Token
// @Failure      401    {object}  responses.ErrorResponse
// @Failure      500    {object}  responses.ErrorResponse
// @Router       /v2/tokens [get]
// @Security     CallToken
func (controller *TokenController) GetTokensOwned(c echo.Context) error {
	owner := c.QueryParam("owner")
	if owner == "" {
		owner = callFrom(c).Caller
	}
	tokens, err := controller.svc.TokensOwnedBy(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokens)
}
