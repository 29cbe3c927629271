package webclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glowstarlabs/alttext-audit/internal/model"
	"github.com/glowstarlabs/alttext-audit/internal/testutil"
)

func TestNetHTTPClientGet(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>hello</html>"))
	}))
	defer srv.Close()

	client, err := NewNetHTTPClient(DefaultConfig(), &testutil.DummyLogger{}, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	defer client.Close()

	resp, err := client.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if string(resp.Body) != "<html>hello</html>" {
		t.Errorf("body = %q", resp.Body)
	}
	if gotUA != DefaultConfig().UserAgent {
		t.Errorf("user agent = %q, want configured agent", gotUA)
	}
	if resp.Headers.Get("Content-Type") != "text/html" {
		t.Errorf("headers not propagated: %v", resp.Headers)
	}
}

func TestNetHTTPClientDoCustomHeaders(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Test-Token")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client, err := NewNetHTTPClient(DefaultConfig(), &testutil.DummyLogger{}, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}

	headers := http.Header{}
	headers.Set("X-Test-Token", "abc123")
	resp, err := client.Do(context.Background(), &model.Request{
		Method:  http.MethodPost,
		URL:     srv.URL,
		Headers: headers,
		Body:    []byte(`{"x":1}`),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want 201", resp.StatusCode)
	}
	if gotToken != "abc123" {
		t.Errorf("token header = %q", gotToken)
	}
}

func TestNetHTTPClientNilRequest(t *testing.T) {
	client, err := NewNetHTTPClient(DefaultConfig(), &testutil.DummyLogger{}, nil)
	if err != nil {
		t.Fatalf("NewNetHTTPClient: %v", err)
	}
	if _, err := client.Do(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil request")
	}
}

func TestNewResolvesRegisteredBackend(t *testing.T) {
	RegisterDefaultBackends()

	cfg := DefaultConfig()
	wc, err := New(cfg, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer wc.Close()
	if _, ok := wc.(*NetHTTPClient); !ok {
		t.Errorf("backend = %T, want *NetHTTPClient", wc)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	RegisterDefaultBackends()

	cfg := DefaultConfig()
	cfg.Backend = "teleporter"
	if _, err := New(cfg, &testutil.DummyLogger{}); err == nil {
		t.Fatal("expected error for unregistered backend")
	}
}

func TestNewWrapsWithCache(t *testing.T) {
	RegisterDefaultBackends()

	cfg := DefaultConfig()
	cfg.Cache.Addr = "localhost:6379"
	wc, err := New(cfg, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer wc.Close()
	if _, ok := wc.(*CachingClient); !ok {
		t.Errorf("backend = %T, want *CachingClient wrapper when cache addr set", wc)
	}
}
