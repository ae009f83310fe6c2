package lambda

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// InternalErrorMessage is the only error text a caller ever sees
const InternalErrorMessage = "Internal server error"

// internalErrorBody is the pre-encoded failure body
const internalErrorBody = `{"error":"` + InternalErrorMessage + `"}`

// Response represents a platform-neutral function response
type Response struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body"`
}

// ErrorBody is the payload of a failed invocation
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON encodes v as the body of a response with the given status
func JSON(status int, v interface{}) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response body: %w", err)
	}

	return &Response{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}, nil
}

// InternalError returns the generic 500 response
func InternalError() *Response {
	return &Response{
		StatusCode: http.StatusInternalServerError,
		Body:       internalErrorBody,
	}
}

// ToAPIGateway converts the response to an API Gateway proxy response
func (r *Response) ToAPIGateway() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       r.Body,
	}
}
