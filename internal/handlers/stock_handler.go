package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stock-checker-api/internal/middleware"
	"stock-checker-api/internal/pricing"
	"stock-checker-api/pkg/lambda"
)

// StockHandler mocks checking the current price of a stock
type StockHandler struct {
	prices pricing.PriceSource
	log    *logrus.Logger
}

// NewStockHandler creates a new stock handler. A nil log falls back to the
// standard logrus logger.
func NewStockHandler(prices pricing.PriceSource, log *logrus.Logger) *StockHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &StockHandler{
		prices: prices,
		log:    log,
	}
}

// Handle answers one invocation. The event is logged and otherwise ignored.
// It never fails: any error or panic becomes a 500 response.
func (h *StockHandler) Handle(ctx context.Context, event json.RawMessage) (resp *lambda.Response) {
	var entry *logrus.Entry

	defer func() {
		if r := recover(); r != nil {
			if entry != nil {
				entry.WithError(fmt.Errorf("panic: %v", r)).Error("Error")
			}
			resp = lambda.InternalError()
		}
	}()

	entry = h.entry(ctx)
	entry.WithField("event", formatEvent(event)).Info("Event")

	resp, err := h.checkPrice(ctx)
	if err != nil {
		entry.WithError(err).Error("Error")
		return lambda.InternalError()
	}

	return resp
}

func (h *StockHandler) checkPrice(ctx context.Context) (*lambda.Response, error) {
	price, err := h.prices.Price(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check stock price: %w", err)
	}

	return lambda.JSON(http.StatusOK, pricing.Quote{StockPrice: price})
}

// HandleAPIGateway answers an API Gateway proxy invocation. The whole proxy
// request is the event.
func (h *StockHandler) HandleAPIGateway(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	event, err := json.Marshal(req)
	if err != nil {
		h.entry(ctx).WithError(err).Error("Error")
		return lambda.InternalError().ToAPIGateway(), nil
	}

	return h.Handle(ctx, event).ToAPIGateway(), nil
}

// @Summary Check stock price
// @Description Returns a simulated stock price, a random integer in [0, 100). Any request body is treated as the invocation event.
// @Tags stocks
// @Accept json
// @Produce json
// @Param event body object false "Invocation event (ignored)"
// @Success 200 {object} pricing.Quote
// @Failure 500 {object} lambda.ErrorBody
// @Router /stock-price [get]
// @Router /stock-price [post]
func (h *StockHandler) GetStockPrice(c *gin.Context) {
	event, err := c.GetRawData()
	if err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	if requestID := c.GetString(middleware.RequestIDKey); requestID != "" {
		ctx = lambdacontext.NewContext(ctx, &lambdacontext.LambdaContext{AwsRequestID: requestID})
	}

	writeResponse(c, h.Handle(ctx, event))
}

// entry returns a log entry tagged with the invocation's request ID, if any
func (h *StockHandler) entry(ctx context.Context) *logrus.Entry {
	fields := logrus.Fields{}
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		fields["request_id"] = lc.AwsRequestID
	}
	if lambdacontext.FunctionName != "" {
		fields["function_name"] = lambdacontext.FunctionName
	}
	return h.log.WithContext(ctx).WithFields(fields)
}

// formatEvent renders the event for the log; an empty payload is logged as null
func formatEvent(event json.RawMessage) string {
	trimmed := bytes.TrimSpace(event)
	if len(trimmed) == 0 {
		return "null"
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, trimmed, "", "  "); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

func writeResponse(c *gin.Context, resp *lambda.Response) {
	contentType := "application/json"
	for name, value := range resp.Headers {
		if http.CanonicalHeaderKey(name) == "Content-Type" {
			contentType = value
			continue
		}
		c.Header(name, value)
	}
	c.Data(resp.StatusCode, contentType, []byte(resp.Body))
}
