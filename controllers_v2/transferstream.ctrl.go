package v2controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/db/models"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/responses"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/tokens"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const streamKeepaliveInterval = 30 * time.Second

type TransferStreamController struct {
	svc *service.RegistryService
}

type TransferEventWrapper struct {
	Type     string                `json:"type"`
	Transfer *models.TransferEvent `json:"transfer,omitempty"`
}

func NewTransferStreamController(svc *service.RegistryService) *TransferStreamController {
	return &TransferStreamController{svc: svc}
}

// StreamTransfers godoc
// @Summary      Stream transfers
// @Description  Websocket feed of transfer events committed after connecting, optionally for one token. Browsers cannot set headers on websockets, so the call token is passed as a query parameter.
// @Tags         Token
// @Param        token     query  string  true   "Call token"
// @Param        token_id  query  int     false  "Only transfers of this token"
// @Failure      400       {object}  responses.ErrorResponse
// @Failure      401       {object}  responses.ErrorResponse
// @Router       /v2/transfers/stream [get]
func (controller *TransferStreamController) StreamTransfers(c echo.Context) error {
	if _, err := tokens.ParseCallToken(controller.svc.Config.JWTSecret, c.QueryParam("token")); err != nil {
		return c.JSON(http.StatusUnauthorized, responses.BadAuthError)
	}
	filter := int64(-1)
	if raw := c.QueryParam("token_id"); raw != "" {
		tokenID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, responses.BadArgumentsError)
		}
		filter = tokenID
	}

	events, unsubscribe, err := controller.svc.SubscribeTransferEvents()
	if err != nil {
		return err
	}
	defer unsubscribe()

	upgrader := websocket.Upgrader{}
	upgrader.CheckOrigin = func(r *http.Request) bool { return true }
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	ticker := time.NewTicker(streamKeepaliveInterval)
	defer ticker.Stop()

	//start listening for close messages
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	//start with keepalive message
	if err := ws.WriteJSON(&TransferEventWrapper{Type: "keepalive"}); err != nil {
		controller.svc.Logger.Error(err)
		return nil
	}
	for {
		select {
		case <-done:
			return nil
		case <-ticker.C:
			if err := ws.WriteJSON(&TransferEventWrapper{Type: "keepalive"}); err != nil {
				controller.svc.Logger.Error(err)
				return nil
			}
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if filter >= 0 && event.TokenID != filter {
				continue
			}
			if err := ws.WriteJSON(&TransferEventWrapper{Type: "transfer", Transfer: &event}); err != nil {
				controller.svc.Logger.Error(err)
				return nil
			}
		}
	}
}
