package transport

import (
	v2controllers "github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/controllers_v2"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/labstack/echo/v4"
)

// RegisterV2Endpoints mounts the registry API. Every route except health
// requires a call token in the Authorization header; mutations go through
// the strict rate limit.
func RegisterV2Endpoints(svc *service.RegistryService, e *echo.Echo, secured *echo.Group, securedWithStrictRateLimit *echo.Group) {
	invoiceCtrl := v2controllers.NewInvoiceController(svc)
	tokenCtrl := v2controllers.NewTokenController(svc)
	adminCtrl := v2controllers.NewAdminController(svc)

	e.GET("/v2/health", v2controllers.NewHealthController(svc).Check)
	// websocket clients send the call token as a query parameter
	e.GET("/v2/transfers/stream", v2controllers.NewTransferStreamController(svc).StreamTransfers)

	securedWithStrictRateLimit.POST("/v2/invoices", invoiceCtrl.RegisterInvoice)
	securedWithStrictRateLimit.POST("/v2/invoices/:invoice_id/verification", invoiceCtrl.VerifyInvoice)
	secured.GET("/v2/invoices/:invoice_id", invoiceCtrl.GetInvoice)
	secured.GET("/v2/invoices/:invoice_id/verification", invoiceCtrl.GetVerification)
	secured.GET("/v2/invoices/:invoice_id/token", tokenCtrl.GetTokenForInvoice)

	securedWithStrictRateLimit.PUT("/v2/admin", adminCtrl.SetAdmin)
	secured.GET("/v2/admin", adminCtrl.GetAdmin)

	securedWithStrictRateLimit.POST("/v2/tokens", tokenCtrl.TokenizeInvoice)
	secured.GET("/v2/tokens", tokenCtrl.GetTokensOwned)
	securedWithStrictRateLimit.POST("/v2/tokens/:token_id/transfers", tokenCtrl.TransferToken)
	secured.GET("/v2/tokens/:token_id/transfers", tokenCtrl.GetTransfers)
	secured.GET("/v2/tokens/:token_id", tokenCtrl.GetToken)
	secured.GET("/v2/tokens/:token_id/value", tokenCtrl.CalculateCurrentValue)
	securedWithStrictRateLimit.PUT("/v2/tokens/:token_id/status", tokenCtrl.SetTokenStatus)
}
