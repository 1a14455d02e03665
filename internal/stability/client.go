// Package stability calls the external image-transformation provider. All
// provider failures, timeouts included, surface as upstream_error with detail
// kept to local logs.
package stability

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	derrors "roomalchemy/pkg/domain-errors"
)

var tracer = otel.Tracer("roomalchemy/stability")

// Client talks to the Stability image-to-image endpoint.
type Client struct {
	baseURL string
	apiKey  string
	engine  string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a provider client. timeout bounds the whole transform call
// (default 60s). A timeout is an upstream failure, not a retryable fault;
// this client never retries.
func New(baseURL, apiKey, engine string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		engine:  engine,
		http:    &http.Client{Timeout: timeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transform submits the image and style prompt, returning the rendered bytes.
func (c *Client) Transform(ctx context.Context, image []byte, style string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, derrors.New(derrors.CodeUpstreamError, "transform provider is not configured")
	}

	ctx, span := tracer.Start(ctx, "stability.Transform",
		trace.WithAttributes(
			attribute.String("style", style),
			attribute.Int("input_bytes", len(image)),
		),
	)
	defer span.End()

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)

	fileWriter, err := form.CreateFormFile("image", "input.png")
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to build provider request")
	}
	if _, err := fileWriter.Write(image); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to build provider request")
	}
	prompt := fmt.Sprintf("Redesign this room in %s style. Maintain room layout, furniture scale, and photorealism.", style)
	if err := form.WriteField("prompt", prompt); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to build provider request")
	}
	if err := form.WriteField("output_format", "png"); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to build provider request")
	}
	if err := form.Close(); err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to build provider request")
	}

	url := fmt.Sprintf("%s/v2beta/image-to-image/%s", c.baseURL, c.engine)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeInternal, "failed to build provider request")
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "image/*")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.ErrorContext(ctx, "transform provider request failed", "error", err)
		return nil, derrors.Wrap(err, derrors.CodeUpstreamError, "transform provider request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.logger.ErrorContext(ctx, "transform provider returned error",
			"status", resp.StatusCode,
			"detail", string(detail),
		)
		return nil, derrors.New(derrors.CodeUpstreamError, "transform provider request failed")
	}

	rendered, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to read provider response", "error", err)
		return nil, derrors.Wrap(err, derrors.CodeUpstreamError, "transform provider request failed")
	}
	return rendered, nil
}
