package v2controllers

import (
	"net/http"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/responses"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/labstack/echo/v4"
)

type AdminController struct {
	svc *service.RegistryService
}

func NewAdminController(svc *service.RegistryService) *AdminController {
	return &AdminController{svc: svc}
}

type SetAdminRequestBody struct {
	NewAdmin string `json:"new_admin"`
}

type AdminResponseBody struct {
	Admin string `json:"admin"`
}

// SetAdmin godoc
// @Summary      Replace the admin
// @Description  Hands the admin role to another identity. Only the current admin may call this.
// @Accept       json
// @Produce      json
// @Tags         Admin
// @Param        SetAdminRequestBody  body      SetAdminRequestBody  true  "New admin"
// @Success      200                  {object}  AdminResponseBody
// @Failure      400                  {object}  responses.ErrorResponse
// @Failure      401                  {object}  responses.ErrorResponse
// @Failure      403                  {object}  responses.ErrorResponse
// @Failure      500                  {object}  responses.ErrorResponse
// @Router       /v2/admin [put]
// @Security     CallToken
func (controller *AdminController) SetAdmin(c echo.Context) error {
	var body SetAdminRequestBody
	if err := c.Bind(&body); err != nil {
		c.Logger().Errorf("Failed to load set admin request body: %v", err)
		return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
	}

	// an empty new admin is rejected by the service, after the caller check
	if err := controller.svc.SetAdmin(c.Request().Context(), callFrom(c), body.NewAdmin); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &AdminResponseBody{Admin: body.NewAdmin})
}

// GetAdmin godoc
// @Summary      Current admin
// @Description  Returns the identity currently holding the admin role
// @Accept       json
// @Produce      json
// @Tags         Admin
// @Success      200  {object}  AdminResponseBody
// @Failure      401  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Failure      500  {object}  responses.ErrorResponse
// @Router       /v2/admin [get]
// @Security     CallToken
func (controller *AdminController) GetAdmin(c echo.Context) error {
	admin, err := controller.svc.CurrentAdmin(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, &AdminResponseBody{Admin: admin})
}
