package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/charmbracelet/log"

	"github.com/dgimmler/apod-api/src/internal/config"
	"github.com/dgimmler/apod-api/src/internal/logging"
	"github.com/dgimmler/apod-api/src/internal/response"
	"github.com/dgimmler/apod-api/src/internal/secrets"
)

const failureTitle = "Failed to fetch NASA image of the day"

// stage names the step of an invocation that failed. It is only logged;
// callers always see the same envelope.
type stage string

const (
	stageSecret   stage = "secret"
	stageRequest  stage = "request"
	stageUpstream stage = "upstream"
	stageDecode   stage = "decode"
)

type stageError struct {
	stage stage
	err   error
}

func (e *stageError) Error() string { return e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// apodResponse holds the APOD fields we forward. Values stay raw so their
// JSON type passes through untouched; an explicit null decodes to "null".
type apodResponse struct {
	Title       json.RawMessage `json:"title"`
	URL         json.RawMessage `json:"url"`
	Explanation json.RawMessage `json:"explanation"`
	Date        json.RawMessage `json:"date"`
	MediaType   json.RawMessage `json:"media_type"`
}

// Image is the body returned on success. Fields missing upstream are
// omitted.
type Image struct {
	Title       json.RawMessage `json:"title,omitempty"`
	URL         json.RawMessage `json:"url,omitempty"`
	Explanation json.RawMessage `json:"explanation,omitempty"`
	Date        json.RawMessage `json:"date,omitempty"`
	MediaType   json.RawMessage `json:"mediaType,omitempty"`
}

// Handler proxies the APOD API. The secret store and HTTP client are built
// once per container and shared by every invocation.
type Handler struct {
	secrets secrets.Store
	client  *http.Client
	logger  *log.Logger
}

// NewHandler creates a Handler. A nil client means http.DefaultClient.
func NewHandler(store secrets.Store, client *http.Client, logger *log.Logger) *Handler {
	if client == nil {
		client = http.DefaultClient
	}
	return &Handler{secrets: store, client: client, logger: logger}
}

// Handle is the Lambda entry point. It never returns an error: every failure
// becomes a 500 response.
func (h *Handler) Handle(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	cfg := config.LoadApod()
	logger := h.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		logger = logger.With("request_id", lc.AwsRequestID)
	}

	image, err := h.fetchImage(ctx, cfg)
	if err != nil {
		logFailure(logger, err)
		return response.FailureWithMessage(http.StatusInternalServerError, failureTitle, err.Error()), nil
	}

	logger.Info("fetched image of the day")
	return response.JSON(http.StatusOK, image), nil
}

func (h *Handler) fetchImage(ctx context.Context, cfg *config.Apod) (*Image, error) {
	apiKey, err := h.secrets.Get(ctx, cfg.KeyPath)
	if err != nil {
		return nil, &stageError{stage: stageSecret, err: err}
	}

	req, err := newRequest(ctx, cfg.APIURL, apiKey)
	if err != nil {
		return nil, &stageError{stage: stageRequest, err: err}
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, &stageError{stage: stageUpstream, err: transportFault(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &stageError{
			stage: stageUpstream,
			err:   fmt.Errorf("NASA API responded with status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &stageError{stage: stageUpstream, err: err}
	}

	var raw apodResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &stageError{stage: stageDecode, err: err}
	}

	return &Image{
		Title:       raw.Title,
		URL:         raw.URL,
		Explanation: raw.Explanation,
		Date:        raw.Date,
		MediaType:   raw.MediaType,
	}, nil
}

// newRequest adds api_key to apiURL, keeping any query it already has.
func newRequest(ctx context.Context, apiURL, apiKey string) (*http.Request, error) {
	u, err := url.Parse(apiURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("api_key", apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// transportFault strips the *url.Error wrapper, whose message embeds the
// request URL and with it the API key.
func transportFault(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

func logFailure(logger *log.Logger, err error) {
	keyvals := []any{"err", err}
	var se *stageError
	if errors.As(err, &se) {
		keyvals = append(keyvals, "stage", se.stage)
	}
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		keyvals = append(keyvals, "aws_code", aerr.Code())
	}
	logger.Error("failed to fetch image of the day", keyvals...)
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Println("[main] ignoring .env:", err)
	}
	logger := logging.New("getNasaImage", config.LoadLogging())

	sess := session.Must(session.NewSession())
	handler := NewHandler(secrets.NewParameterStoreFromSession(sess), &http.Client{}, logger)

	lambda.Start(handler.Handle)
}
