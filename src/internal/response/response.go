// Package response builds API Gateway proxy responses with the headers every
// handler returns.
package response

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// marshalFailure is returned when a body cannot be encoded.
const marshalFailure = `{"error":"Failed to encode response"}`

// Headers returns a fresh copy of the JSON + CORS headers.
func Headers() map[string]string {
	return map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
}

// JSON encodes v as the body of a response with the given status. HTML
// characters are left unescaped so upstream text reaches callers as sent.
func JSON(status int, v any) events.APIGatewayProxyResponse {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    Headers(),
			Body:       marshalFailure,
		}
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    Headers(),
		Body:       string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))),
	}
}

// ErrorBody is the {"error": ...} body shared by both handlers. Message is only
// set by the APOD handler.
type ErrorBody struct {
	Error   string  `json:"error"`
	Message *string `json:"message,omitempty"`
}

// Failure builds an error body with only the error field.
func Failure(status int, msg string) events.APIGatewayProxyResponse {
	return JSON(status, ErrorBody{Error: msg})
}

// FailureWithMessage builds an error body carrying both fields.
func FailureWithMessage(status int, msg, detail string) events.APIGatewayProxyResponse {
	return JSON(status, ErrorBody{Error: msg, Message: &detail})
}
