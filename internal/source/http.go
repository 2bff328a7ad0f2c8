package source

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// HTTPSource fetches the CSV over HTTP. A non-2xx status is an error for
// that attempt; fallback policy lives in the Chain, not here.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Name() string { return "http:" + s.URL }

func (s HTTPSource) Fetch(ctx context.Context) ([]RawRow, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return ParseCSV(resp.Body)
}
