package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hilthontt/codeboard/internal/infrastructure/validate"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	ErrUnsupportedLanguage = errors.New("unsupported language")
	ErrUnavailable         = errors.New("execution service unavailable")
)

// Languages the execution service can run.
var Languages = []string{"python", "cpp", "c", "javascript"}

const maxResponseBytes = 4 << 20

type Request struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Input    string `json:"input"`
}

// Result is what the service reports. Error carries compiler or runtime
// output and is not a transport failure.
type Result struct {
	Output string  `json:"output"`
	Error  string  `json:"error"`
	Time   float64 `json:"time"`
}

// Executor runs code on behalf of a room.
type Executor interface {
	Submit(ctx context.Context, req Request) (Result, error)
}

var validateLanguage = validate.Field("language", validate.OneOf(Languages...))

func (r Request) Validate() error {
	if err := validateLanguage(r.Language); err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, r.Language)
	}
	return validate.Field("code", validate.MaxBytes(256<<10))(r.Code)
}

// Client calls an execution service over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *Client) Submit(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if result.Time == 0 {
		result.Time = float64(time.Since(start).Microseconds()) / 1000
	}

	return result, nil
}
