package demoserver

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestFixture(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewDemoServer(DefaultConfig()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func fetchBody(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get %s: status %d", url, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func TestServesDefectiveVersionByDefault(t *testing.T) {
	srv := newTestFixture(t)

	home := fetchBody(t, srv.URL+"/")
	if strings.Contains(home, `lang="en"`) {
		t.Error("version 1 home page should lack a lang attribute")
	}
	if !strings.Contains(home, `<img src="/static/hero-banner.jpg">`) {
		t.Error("version 1 home page should have an image with no alt")
	}
}

func TestSetVersionSwitchesPage(t *testing.T) {
	srv := newTestFixture(t)

	resp, err := http.Post(srv.URL+"/demo/set-version?path=/&version=2", "", nil)
	if err != nil {
		t.Fatalf("set-version: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set-version status = %d", resp.StatusCode)
	}

	home := fetchBody(t, srv.URL+"/")
	if !strings.Contains(home, `lang="en"`) {
		t.Error("version 2 home page should declare a lang attribute")
	}
	// Other pages stay on version 1.
	about := fetchBody(t, srv.URL+"/about")
	if strings.Contains(about, `lang="en"`) {
		t.Error("about page switched versions without being asked")
	}
}

func TestSetVersionValidation(t *testing.T) {
	srv := newTestFixture(t)

	resp, _ := http.Get(srv.URL + "/demo/set-version?path=/&version=2")
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", resp.StatusCode)
	}

	resp, _ = http.Post(srv.URL+"/demo/set-version?path=/&version=zero", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad version status = %d, want 400", resp.StatusCode)
	}

	resp, _ = http.Post(srv.URL+"/demo/set-version?path=/missing&version=2", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown page status = %d, want 404", resp.StatusCode)
	}
}

func TestBumpAllAndReset(t *testing.T) {
	srv := newTestFixture(t)

	resp, err := http.Post(srv.URL+"/demo/bump-all", "", nil)
	if err != nil {
		t.Fatalf("bump-all: %v", err)
	}
	var versions map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&versions); err != nil {
		t.Fatalf("decode versions: %v", err)
	}
	resp.Body.Close()
	for path, v := range versions {
		if v != 2 {
			t.Errorf("page %s at version %d after bump, want 2", path, v)
		}
	}

	// Bumping past the last defined version is a no-op.
	resp, _ = http.Post(srv.URL+"/demo/bump-all", "", nil)
	_ = json.NewDecoder(resp.Body).Decode(&versions)
	resp.Body.Close()
	for path, v := range versions {
		if v != 2 {
			t.Errorf("page %s at version %d after second bump, want still 2", path, v)
		}
	}

	resp, _ = http.Post(srv.URL+"/demo/reset", "", nil)
	_ = json.NewDecoder(resp.Body).Decode(&versions)
	resp.Body.Close()
	for path, v := range versions {
		if v != 1 {
			t.Errorf("page %s at version %d after reset, want 1", path, v)
		}
	}
}

func TestStaticPlaceholder(t *testing.T) {
	srv := newTestFixture(t)

	resp, err := http.Get(srv.URL + "/static/hero-banner.jpg")
	if err != nil {
		t.Fatalf("get static: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "image/gif" {
		t.Errorf("content type = %q", ct)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.HasPrefix(string(body), "GIF89a") {
		t.Errorf("placeholder is not a GIF: %q", body)
	}
}
