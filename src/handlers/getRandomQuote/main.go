package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/charmbracelet/log"

	"github.com/dgimmler/apod-api/src/internal/config"
	"github.com/dgimmler/apod-api/src/internal/logging"
	"github.com/dgimmler/apod-api/src/internal/response"
)

const quoteSource = "ZenQuotes.io"

// Quote is the body returned on success.
type Quote struct {
	Quote  json.RawMessage `json:"quote"`
	Author json.RawMessage `json:"author"`
	Source string          `json:"source"`
}

// upstreamStatusError is a non-2xx answer from the quotes API.
type upstreamStatusError struct {
	code   int
	reason string
}

func (e *upstreamStatusError) Error() string {
	return fmt.Sprintf("quotes API responded with status %d", e.code)
}

var (
	errInvalidJSON     = errors.New("invalid JSON response from quotes API")
	errInvalidResponse = errors.New("invalid response from quotes API")
)

// connectionError is a transport fault before any status was received.
type connectionError struct{ err error }

func (e *connectionError) Error() string { return e.err.Error() }
func (e *connectionError) Unwrap() error { return e.err }

// Handler proxies the ZenQuotes random quote endpoint.
type Handler struct {
	apiURL string
	client *http.Client
	logger *log.Logger
}

// NewHandler builds a Handler whose HTTP client uses cfg.Timeout.
func NewHandler(cfg *config.Quotes, logger *log.Logger) *Handler {
	return &Handler{
		apiURL: cfg.APIURL,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Handle is the Lambda entry point. Failures are mapped to a status code and
// an {"error": ...} body; the returned error is always nil.
func (h *Handler) Handle(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := h.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With("request_id", lc.AwsRequestID)
	}

	quote, err := h.fetchQuote(ctx)
	if err != nil {
		resp := failureResponse(err)
		logger.Error("failed to fetch quote", "err", err, "status", resp.StatusCode)
		return resp, nil
	}

	logger.Info("fetched quote")
	return response.JSON(http.StatusOK, quote), nil
}

func (h *Handler) fetchQuote(ctx context.Context) (*Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			err = urlErr.Err
		}
		return nil, &connectionError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &upstreamStatusError{code: resp.StatusCode, reason: reasonPhrase(resp)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &connectionError{err: err}
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errInvalidJSON
	}
	return parseQuote(body, payload)
}

// parseQuote reads the first entry of the quotes array.
func parseQuote(body []byte, payload any) (*Quote, error) {
	list, ok := payload.([]any)
	if !ok || len(list) == 0 {
		return nil, errInvalidResponse
	}

	var entries []map[string]json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("unexpected quote entry: %w", err)
	}
	first := entries[0]
	q, ok := first["q"]
	if !ok {
		return nil, errors.New(`missing field "q"`)
	}
	a, ok := first["a"]
	if !ok {
		return nil, errors.New(`missing field "a"`)
	}
	return &Quote{Quote: q, Author: a, Source: quoteSource}, nil
}

// failureResponse maps an error from fetchQuote to its response.
func failureResponse(err error) events.APIGatewayProxyResponse {
	var statusErr *upstreamStatusError
	var connErr *connectionError
	switch {
	case errors.As(err, &statusErr):
		return response.Failure(statusErr.code, "HTTP Error: "+statusErr.reason)
	case errors.As(err, &connErr):
		return response.Failure(http.StatusInternalServerError, "Connection error: "+connErr.Error())
	case errors.Is(err, errInvalidJSON):
		return response.Failure(http.StatusBadGateway, "Invalid JSON response from quotes API")
	case errors.Is(err, errInvalidResponse):
		return response.Failure(http.StatusBadGateway, "Invalid response from quotes API")
	default:
		return response.Failure(http.StatusInternalServerError, "Server error: "+err.Error())
	}
}

// reasonPhrase returns the reason from the status line, e.g. "Not Found".
func reasonPhrase(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Println("[main] ignoring .env:", err)
	}
	cfg := config.LoadQuotes()
	handler := NewHandler(cfg, logging.New("getRandomQuote", cfg.Logging))

	lambda.Start(handler.Handle)
}
