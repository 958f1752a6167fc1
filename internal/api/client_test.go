package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"primeexplorer/internal/model"
	"primeexplorer/internal/storage"
)

// APIError surfaces non-2xx responses from the server.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

type testClient struct {
	baseURL string
	http    *http.Client
}

func newTestClient(baseURL string) *testClient {
	return &testClient{baseURL: baseURL, http: http.DefaultClient}
}

func (c *testClient) get(ctx context.Context, path string) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, body, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return resp, body, nil
}

// Sequence fetches a JSON sequence from path.
func (c *testClient) Sequence(ctx context.Context, path string) (SequenceResponse, error) {
	_, body, err := c.get(ctx, path)
	if err != nil {
		return SequenceResponse{}, err
	}
	var out SequenceResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return SequenceResponse{}, fmt.Errorf("decode sequence: %w", err)
	}
	return out, nil
}

// Frame fetches a binary sequence from path.
func (c *testClient) Frame(ctx context.Context, path string) (model.Sequence, error) {
	resp, body, err := c.get(ctx, path)
	if err != nil {
		return model.Sequence{}, err
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/octet-stream" {
		return model.Sequence{}, fmt.Errorf("unexpected content type %q", ct)
	}
	return storage.ReadFrame(bytes.NewReader(body))
}

// IsPrime queries the primality endpoint.
func (c *testClient) IsPrime(ctx context.Context, n int) (bool, error) {
	_, body, err := c.get(ctx, fmt.Sprintf("/v1/isprime/%d", n))
	if err != nil {
		return false, err
	}
	var out PrimalityResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return false, fmt.Errorf("decode primality: %w", err)
	}
	return out.Prime, nil
}
