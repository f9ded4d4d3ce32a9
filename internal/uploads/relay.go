package uploads

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RelayDestination PUTs the raw bytes to a temporary public hosting
// endpoint keyed by the generated filename. Last resort in production when
// the real providers are down; the hosted copy is not permanent.
type RelayDestination struct {
	baseURL string
	client  *http.Client
}

func NewRelayDestination(baseURL string) *RelayDestination {
	return &RelayDestination{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (d *RelayDestination) Name() string { return "relay" }

func (d *RelayDestination) Store(ctx context.Context, obj *Object) (string, error) {
	target := d.baseURL + "/" + obj.Key

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(obj.Bytes))
	if err != nil {
		return "", fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", obj.ContentType)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("relay upload: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("relay returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// The relay answers with the hosted URL; fall back to the PUT target
	// when the body is empty.
	if url := strings.TrimSpace(string(body)); url != "" {
		return url, nil
	}
	return target, nil
}
