package v2controllers

import (
	"net/http"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/responses"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/labstack/echo/v4"
)

type HealthController struct {
	svc *service.RegistryService
}

func NewHealthController(svc *service.RegistryService) *HealthController {
	return &HealthController{svc: svc}
}

type HealthResponse struct {
	Result string `json:"result"`
}

// Check godoc
// @Summary      Check system health
// @Description  Pings the database and reports whether the registry can serve requests
// @Accept       json
// @Produce      json
// @Tags         Health
// @Success      200  {object}  HealthResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/health [get]
func (controller *HealthController) Check(c echo.Context) error {
	if err := controller.svc.DB.PingContext(c.Request().Context()); err != nil {
		c.Logger().Errorf("Health check failed: %v", err)
		return c.JSON(http.StatusInternalServerError, responses.GeneralServerError)
	}
	return c.JSON(http.StatusOK, &HealthResponse{
		Result: "OK",
	})
}
