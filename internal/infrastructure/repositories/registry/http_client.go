package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
)

const (
	userAgent      = "arbupdate/1.0"
	requestTimeout = 30 * time.Second
)

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: requestTimeout}
}

// fetchJSON GETs url and decodes the body into out. A 404 wraps
// entities.ErrNotFound, anything else that goes wrong wraps entities.ErrTransient.
func fetchJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to build request for %s: %w", entities.ErrTransient, url, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", entities.ErrTransient, url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: GET %s returned %d", entities.ErrNotFound, url, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: GET %s returned %d", entities.ErrTransient, url, resp.StatusCode)
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return fmt.Errorf("%w: failed to decode %s: %w", entities.ErrTransient, url, decodeErr)
	}
	return nil
}
