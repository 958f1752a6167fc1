package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"primeexplorer/internal/engine"
)

type systemUnderTest struct {
	BaseURL  string
	shutdown func()
}

func (s *systemUnderTest) Close() {
	if s.shutdown != nil {
		s.shutdown()
	}
}

var testLimits = Limits{MaxCount: 50000, MaxBound: 1 << 20}

// startSystemUnderTest serves the API from an in-process engine, or targets
// an already running server when PRIME_SERVER_URL is set.
func startSystemUnderTest(t *testing.T) *systemUnderTest {
	t.Helper()

	if url := os.Getenv("PRIME_SERVER_URL"); url != "" {
		t.Logf("PRIME_SERVER_URL set; using existing server at %s", url)
		if err := waitForReady(url, 5*time.Second); err != nil {
			t.Fatalf("external server: %v", err)
		}
		return &systemUnderTest{BaseURL: url}
	}

	svc, cancel, err := engine.New(context.Background(), engine.Cfg{
		MaxBound:       testLimits.MaxBound,
		EnqueueTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("start sequence service: %v", err)
	}
	srv := httptest.NewServer(NewServer(svc, testLimits))

	return &systemUnderTest{
		BaseURL: srv.URL,
		shutdown: func() {
			srv.Close()
			cancel()
			<-svc.Done()
		},
	}
}

func waitForReady(baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server at %s not ready after %s", baseURL, timeout)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
