package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-checker-api/internal/middleware"
	"stock-checker-api/internal/pricing"
	"stock-checker-api/pkg/lambda"
)

type failingSource struct{}

func (failingSource) Price(ctx context.Context) (int, error) {
	return 0, pricing.ErrPriceUnavailable
}

type panickingSource struct{}

func (panickingSource) Price(ctx context.Context) (int, error) {
	panic("feed exploded")
}

// assertPriceBody checks the body holds exactly one key, stock_price, with an integer in range
func assertPriceBody(t *testing.T, body string) int {
	t.Helper()

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &fields))
	require.Len(t, fields, 1)
	raw, ok := fields["stock_price"]
	require.True(t, ok, "body %s has no stock_price", body)

	var price int
	require.NoError(t, json.Unmarshal(raw, &price), "stock_price %s is not an integer", raw)
	assert.GreaterOrEqual(t, price, 0)
	assert.Less(t, price, pricing.MaxPrice)
	return price
}

func assertInternalError(t *testing.T, resp *lambda.Response) {
	t.Helper()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, resp.Headers)

	var fields map[string]string
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &fields))
	assert.Equal(t, map[string]string{"error": "Internal server error"}, fields)
}

func TestStockHandler_Handle(t *testing.T) {
	tests := []struct {
		name  string
		event json.RawMessage
	}{
		{name: "empty object", event: json.RawMessage(`{}`)},
		{name: "null", event: json.RawMessage(`null`)},
		{name: "no payload", event: nil},
		{name: "arbitrary payload", event: json.RawMessage(`{"stock":"AMZN","qty":[1,2,3]}`)},
		{name: "not an object", event: json.RawMessage(`"just a string"`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := test.NewNullLogger()
			h := NewStockHandler(pricing.NewRandomSource(), log)

			resp := h.Handle(context.Background(), tt.event)

			require.NotNil(t, resp)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, map[string]string{"Content-Type": "application/json"}, resp.Headers)
			assertPriceBody(t, resp.Body)
		})
	}
}

func TestStockHandler_Handle_StaticPrice(t *testing.T) {
	log, _ := test.NewNullLogger()
	h := NewStockHandler(pricing.StaticSource(42), log)

	resp := h.Handle(context.Background(), json.RawMessage(`{}`))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"stock_price":42}`, resp.Body)
}

func TestStockHandler_Handle_Range(t *testing.T) {
	log, _ := test.NewNullLogger()
	h := NewStockHandler(pricing.NewRandomSource(), log)

	for i := 0; i < 1000; i++ {
		resp := h.Handle(context.Background(), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assertPriceBody(t, resp.Body)
	}
}

func TestStockHandler_Handle_SourceError(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := NewStockHandler(failingSource{}, log)

	resp := h.Handle(context.Background(), json.RawMessage(`{}`))

	assertInternalError(t, resp)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.ErrorLevel, last.Level)
	err, ok := last.Data[logrus.ErrorKey].(error)
	require.True(t, ok)
	assert.True(t, errors.Is(err, pricing.ErrPriceUnavailable))
}

func TestStockHandler_Handle_Panic(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := NewStockHandler(panickingSource{}, log)

	resp := h.Handle(context.Background(), json.RawMessage(`{}`))

	assertInternalError(t, resp)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.ErrorLevel, last.Level)
	assert.Contains(t, last.Data[logrus.ErrorKey].(error).Error(), "feed exploded")
}

func TestStockHandler_Handle_NilLogger(t *testing.T) {
	std := logrus.StandardLogger()
	out := std.Out
	std.SetOutput(io.Discard)
	hooks := std.ReplaceHooks(make(logrus.LevelHooks))
	defer func() {
		std.SetOutput(out)
		std.ReplaceHooks(hooks)
	}()
	hook := test.NewLocal(std)

	h := NewStockHandler(panickingSource{}, nil)

	var resp *lambda.Response
	require.NotPanics(t, func() {
		resp = h.Handle(context.Background(), nil)
	})
	assertInternalError(t, resp)

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, logrus.ErrorLevel, last.Level)

	ok := NewStockHandler(pricing.StaticSource(3), nil).Handle(context.Background(), nil)
	assert.JSONEq(t, `{"stock_price":3}`, ok.Body)
}

func TestStockHandler_Handle_LogsEvent(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := NewStockHandler(pricing.StaticSource(7), log)

	ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{
		AwsRequestID: "req-123",
	})
	h.Handle(ctx, json.RawMessage(`{"symbol":"AMZN"}`))

	entries := hook.AllEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, "req-123", entries[0].Data["request_id"])
	assert.Equal(t, "{\n  \"symbol\": \"AMZN\"\n}", entries[0].Data["event"])
}

func TestFormatEvent(t *testing.T) {
	assert.Equal(t, "null", formatEvent(nil))
	assert.Equal(t, "null", formatEvent(json.RawMessage("  ")))
	assert.Equal(t, "null", formatEvent(json.RawMessage("null")))
	assert.Equal(t, "{}", formatEvent(json.RawMessage("{}")))
	assert.Equal(t, "not json", formatEvent(json.RawMessage("not json")))
}

func TestStockHandler_HandleAPIGateway(t *testing.T) {
	log, hook := test.NewNullLogger()
	h := NewStockHandler(pricing.NewRandomSource(), log)

	resp, err := h.HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodGet,
		Path:       "/check",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assertPriceBody(t, resp.Body)

	require.NotNil(t, hook.LastEntry())
	assert.Contains(t, hook.LastEntry().Data["event"], `"httpMethod": "GET"`)
}

func TestStockHandler_HandleAPIGateway_Error(t *testing.T) {
	log, _ := test.NewNullLogger()
	h := NewStockHandler(failingSource{}, log)

	resp, err := h.HandleAPIGateway(context.Background(), events.APIGatewayProxyRequest{})

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal server error"}`, resp.Body)
}

func setupRouter(h *StockHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.GET("/api/v1/stock-price", h.GetStockPrice)
	router.POST("/api/v1/stock-price", h.GetStockPrice)
	return router
}

func TestStockHandler_GetStockPrice(t *testing.T) {
	log, hook := test.NewNullLogger()
	router := setupRouter(NewStockHandler(pricing.NewRandomSource(), log))

	t.Run("GET without body", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stock-price", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assertPriceBody(t, w.Body.String())
	})

	t.Run("POST with event", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/stock-price", strings.NewReader(`{"symbol":"AMZN"}`))
		req.Header.Set("X-Request-ID", "local-1")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assertPriceBody(t, w.Body.String())

		last := hook.LastEntry()
		require.NotNil(t, last)
		assert.Equal(t, "local-1", last.Data["request_id"])
	})
}

func TestStockHandler_GetStockPrice_Error(t *testing.T) {
	log, _ := test.NewNullLogger()
	router := setupRouter(NewStockHandler(failingSource{}, log))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stock-price", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}
