package requests

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"pokelookup/pkg/messages"
)

// Limit for the bodies we decode, the largest pokemon documents are a few hundred KB.
const maxBodySize = 8 << 20

// Create a simple request bound to the context and return the response.
func Request(ctx context.Context, client *http.Client, url string, method string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "pokelookup")

	return client.Do(req)
}

// GetJSON does a GET request and decodes a successful body into the target.
func GetJSON(ctx context.Context, client *http.Client, url string, target any) error {
	resp, err := Request(ctx, client, url, http.MethodGet)
	if err != nil {
		return fmt.Errorf(messages.RequestFailedMsg+": %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(target); err != nil {
		return fmt.Errorf(messages.FailedToParseMsg+": %w", err)
	}

	return nil
}

// StatusError is returned when the API answers with a non 2xx status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf(messages.BadStatusCodeMsg, e.StatusCode, e.URL)
}
