package integration_tests

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	v2controllers "github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/controllers_v2"
	"github.com/alexanderpaul1/Tokenized-Invoice-Discounting-Platform/lib/service"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type TransferStreamTestSuite struct {
	TestSuite
	websocketServer *httptest.Server
}

func (suite *TransferStreamTestSuite) SetupTest() {
	suite.TestSuite.SetupTest()
	suite.websocketServer = httptest.NewServer(suite.echo)
}

func (suite *TransferStreamTestSuite) TearDownTest() {
	suite.websocketServer.Close()
	suite.TestSuite.TearDownTest()
}

func (suite *TransferStreamTestSuite) streamURL(query string) string {
	return "ws" + strings.TrimPrefix(suite.websocketServer.URL, "http") + "/v2/transfers/stream?" + query
}

func (suite *TransferStreamTestSuite) readEvent(ws *websocket.Conn) v2controllers.TransferEventWrapper {
	require.NoError(suite.T(), ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	msg := v2controllers.TransferEventWrapper{}
	require.NoError(suite.T(), ws.ReadJSON(&msg))
	return msg
}

func (suite *TransferStreamTestSuite) TestStreamFiltersByToken() {
	ctx := context.Background()
	watched := suite.tokenizeInvoice(alice, "inv-1", 1000)
	other := suite.tokenizeInvoice(alice, "inv-2", 1000)

	url := suite.streamURL(fmt.Sprintf("token=%s&token_id=%d", suite.callToken(carol, 1000), watched))
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(suite.T(), err)
	defer ws.Close()

	// subscribed once the first keepalive arrives
	assert.Equal(suite.T(), "keepalive", suite.readEvent(ws).Type)

	_, err = suite.service.TransferToken(ctx, service.Call{Caller: alice, Clock: 1010}, other, bob)
	require.NoError(suite.T(), err)
	_, err = suite.service.TransferToken(ctx, service.Call{Caller: alice, Clock: 1020}, watched, carol)
	require.NoError(suite.T(), err)

	msg := suite.readEvent(ws)
	assert.Equal(suite.T(), "transfer", msg.Type)
	require.NotNil(suite.T(), msg.Transfer)
	assert.Equal(suite.T(), watched, msg.Transfer.TokenID)
	assert.Equal(suite.T(), alice, msg.Transfer.From)
	assert.Equal(suite.T(), carol, msg.Transfer.To)
	assert.Equal(suite.T(), int64(1020), msg.Transfer.Timestamp)
}

func (suite *TransferStreamTestSuite) TestStreamAllTokens() {
	ctx := context.Background()
	first := suite.tokenizeInvoice(alice, "inv-1", 1000)
	second := suite.tokenizeInvoice(bob, "inv-2", 1000)

	ws, _, err := websocket.DefaultDialer.Dial(suite.streamURL("token="+suite.callToken(carol, 1000)), nil)
	require.NoError(suite.T(), err)
	defer ws.Close()
	assert.Equal(suite.T(), "keepalive", suite.readEvent(ws).Type)

	_, err = suite.service.TransferToken(ctx, service.Call{Caller: alice, Clock: 1010}, first, carol)
	require.NoError(suite.T(), err)
	_, err = suite.service.TransferToken(ctx, service.Call{Caller: bob, Clock: 1020}, second, carol)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), first, suite.readEvent(ws).Transfer.TokenID)
	assert.Equal(suite.T(), second, suite.readEvent(ws).Transfer.TokenID)
}

func (suite *TransferStreamTestSuite) TestStreamRejectsBadRequests() {
	_, resp, err := websocket.DefaultDialer.Dial(suite.streamURL("token=forged"), nil)
	assert.ErrorIs(suite.T(), err, websocket.ErrBadHandshake)
	require.NotNil(suite.T(), resp)
	assert.Equal(suite.T(), http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(suite.streamURL("token="+suite.callToken(alice, 1)+"&token_id=abc"), nil)
	assert.ErrorIs(suite.T(), err, websocket.ErrBadHandshake)
	require.NotNil(suite.T(), resp)
	assert.Equal(suite.T(), http.StatusBadRequest, resp.StatusCode)
}

func TestTransferStreamSuite(t *testing.T) {
	suite.Run(t, new(TransferStreamTestSuite))
}
