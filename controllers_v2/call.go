package v2controllers

import (
	"strconv"

	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/common"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/labstack/echo/v4"
)

// callFrom builds the service call from what the call token middleware
// stored on the context.
func callFrom(c echo.Context) service.Call {
	caller, _ := c.Get(common.ContextKeyCaller).(string)
	clock, _ := c.Get(common.ContextKeyClock).(int64)
	return service.Call{Caller: caller, Clock: clock}
}

func tokenIDParam(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("token_id"), 10, 64)
}
