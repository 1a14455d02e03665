// Package splunk ships outcome events to a Splunk HTTP Event Collector
// endpoint. Delivery is best-effort; failures surface only in local logs.
package splunk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"roomalchemy/internal/events"
)

// Sink posts each event to the HEC endpoint.
type Sink struct {
	url    string
	token  string
	client *http.Client
}

// New creates a Splunk HEC sink. The per-dispatch deadline comes from the
// dispatcher context, so the embedded client carries no timeout of its own.
func New(url, token string) *Sink {
	return &Sink{
		url:    url,
		token:  token,
		client: &http.Client{},
	}
}

func (s *Sink) Name() string { return "splunk" }

// Send posts one event in the HEC envelope.
func (s *Sink) Send(ctx context.Context, ev events.Event) error {
	payload, err := json.Marshal(map[string]any{
		"event": ev,
		"time":  float64(time.Now().UnixMilli()) / 1000.0,
	})
	if err != nil {
		return fmt.Errorf("marshal HEC payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build HEC request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Splunk "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to HEC: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("HEC returned status %d", resp.StatusCode)
	}
	return nil
}
