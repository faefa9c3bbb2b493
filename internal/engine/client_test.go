package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(t *testing.T, baseURL string, mutate func(*SearchConfig)) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	if mutate != nil {
		mutate(&cfg)
	}
	client, err := NewClient(cfg, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(client.Close)
	return client
}

func searchPayload(n int) string {
	var items []string
	for i := 0; i < n; i++ {
		items = append(items, fmt.Sprintf(
			`{"title":"Result %d","url":"https://example.com/%d","content":"content %d","engines":["google"],"category":"general"}`,
			i, i, i))
	}
	return `{"results":[` + strings.Join(items, ",") + `],"suggestions":["alt query"]}`
}

func TestSearchEmptyQuery(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, nil)
	for _, q := range []string{"", "   ", "\t\n"} {
		if _, err := client.Search(context.Background(), q, nil); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("query %q: got %v, want ErrEmptyQuery", q, err)
		}
	}
	if called {
		t.Error("empty query must not hit the network")
	}
}

func TestSearchTruncatesToMaxResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchPayload(7))
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, func(c *SearchConfig) { c.MaxResults = 5 })
	resp, err := client.Search(context.Background(), "golang", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 5 {
		t.Errorf("got %d results, want 5", len(resp.Results))
	}
	if resp.TotalResults != 5 {
		t.Errorf("TotalResults = %d, want 5", resp.TotalResults)
	}
}

func TestSearchDropsInvalidURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[
			{"title":"good","url":"https://example.com/a","content":"x","engines":["google"]},
			{"title":"bad scheme","url":"ftp://example.com/b","content":"x","engines":["bing"]},
			{"title":"no url","url":"","content":"x","engines":["ddg"]},
			{"title":"also good","url":"http://example.com/c","content":"x","engines":["bing"]}
		]}`)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, nil)
	resp, err := client.Search(context.Background(), "golang", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("got %d results, want 2", len(resp.Results))
	}
	if resp.Results[0].URL != "https://example.com/a" || resp.Results[1].URL != "http://example.com/c" {
		t.Errorf("unexpected surviving results: %+v", resp.Results)
	}
}

func TestSearchEnginesUnion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[
			{"title":"a","url":"https://a.com","content":"","engines":["google","bing"]},
			{"title":"b","url":"https://b.com","content":"","engines":["bing","ddg"]}
		]}`)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, nil)
	resp, err := client.Search(context.Background(), "golang", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := []string{"google", "bing", "ddg"}
	if len(resp.EnginesUsed) != len(want) {
		t.Fatalf("EnginesUsed = %v, want %v", resp.EnginesUsed, want)
	}
	for i, e := range want {
		if resp.EnginesUsed[i] != e {
			t.Errorf("EnginesUsed[%d] = %q, want %q", i, resp.EnginesUsed[i], e)
		}
	}
}

func TestSearchDefaultsMissingFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"url":"https://example.com","content":"x"}]}`)
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, nil)
	resp, err := client.Search(context.Background(), "golang", nil)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Results[0].Title != "No title" {
		t.Errorf("Title = %q, want fallback", resp.Results[0].Title)
	}
	if resp.Results[0].Category != "general" {
		t.Errorf("Category = %q, want general", resp.Results[0].Category)
	}
}

func TestSearchErrorClassification(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		client := testClient(t, srv.URL, nil)
		_, err := client.Search(context.Background(), "golang", nil)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("got %T, want *APIError", err)
		}
		if !strings.Contains(apiErr.Detail, "empty response") {
			t.Errorf("detail = %q", apiErr.Detail)
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "<html>not json</html>")
		}))
		defer srv.Close()

		client := testClient(t, srv.URL, nil)
		_, err := client.Search(context.Background(), "golang", nil)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("got %T, want *APIError", err)
		}
		if !strings.Contains(apiErr.Detail, "invalid JSON response") {
			t.Errorf("detail = %q", apiErr.Detail)
		}
	})

	t.Run("forbidden", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "forbidden", http.StatusForbidden)
		}))
		defer srv.Close()

		client := testClient(t, srv.URL, nil)
		_, err := client.Search(context.Background(), "golang", nil)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("got %T, want *APIError", err)
		}
		if apiErr.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d", apiErr.StatusCode)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "slow down", http.StatusTooManyRequests)
		}))
		defer srv.Close()

		client := testClient(t, srv.URL, nil)
		_, err := client.Search(context.Background(), "golang", nil)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("got %T, want *APIError", err)
		}
		if !strings.Contains(apiErr.Detail, "rate limit") {
			t.Errorf("detail = %q", apiErr.Detail)
		}
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := testClient(t, srv.URL, nil)
		_, err := client.Search(context.Background(), "golang", nil)
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("got %T, want *NetworkError", err)
		}
		if !strings.Contains(netErr.Detail, "HTTP 500") {
			t.Errorf("detail = %q", netErr.Detail)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
			fmt.Fprint(w, searchPayload(1))
		}))
		defer srv.Close()

		client := testClient(t, srv.URL, func(c *SearchConfig) { c.Timeout = 20 * time.Millisecond })
		_, err := client.Search(context.Background(), "golang", nil)
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("got %T, want *NetworkError", err)
		}
		if !strings.Contains(netErr.Detail, "timed out") {
			t.Errorf("detail = %q", netErr.Detail)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		base := srv.URL
		srv.Close()

		client := testClient(t, base, nil)
		_, err := client.Search(context.Background(), "golang", nil)
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			t.Fatalf("got %T, want *NetworkError", err)
		}
		if !strings.Contains(netErr.Detail, "cannot connect to") {
			t.Errorf("detail = %q", netErr.Detail)
		}
	})
}

func TestSearchNewsParams(t *testing.T) {
	var gotQuery string
	var gotCategories, gotTimeRange string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotCategories = r.URL.Query().Get("categories")
		gotTimeRange = r.URL.Query().Get("time_range")
		fmt.Fprint(w, searchPayload(1))
	}))
	defer srv.Close()

	client := testClient(t, srv.URL, nil)

	t.Run("defaults", func(t *testing.T) {
		if _, err := client.SearchNews(context.Background(), "AI breakthroughs", nil); err != nil {
			t.Fatalf("SearchNews: %v", err)
		}
		if gotQuery != "AI breakthroughs" {
			t.Errorf("q = %q", gotQuery)
		}
		if gotCategories != "news" {
			t.Errorf("categories = %q, want news", gotCategories)
		}
		if gotTimeRange != "year" {
			t.Errorf("time_range = %q, want year", gotTimeRange)
		}
	})

	t.Run("caller overrides survive", func(t *testing.T) {
		ov := &Overrides{TimeRange: "month"}
		if _, err := client.SearchNews(context.Background(), "AI", ov); err != nil {
			t.Fatalf("SearchNews: %v", err)
		}
		if gotTimeRange != "month" {
			t.Errorf("time_range = %q, want month", gotTimeRange)
		}
	})
}

func TestHealthStatus(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/config" {
				http.NotFound(w, r)
				return
			}
			fmt.Fprint(w, `{"brand":{"name":"searxng"}}`)
		}))
		defer srv.Close()

		client := testClient(t, srv.URL, nil)
		status := client.HealthStatus(context.Background())
		if status.Status != "healthy" {
			t.Errorf("Status = %q, error = %q", status.Status, status.Error)
		}
		if status.ResponseTime <= 0 {
			t.Error("ResponseTime should be positive")
		}
		if len(status.Config) == 0 {
			t.Error("Config should carry the remote payload")
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		base := srv.URL
		srv.Close()

		client := testClient(t, base, nil)
		status := client.HealthStatus(context.Background())
		if status.Status != "unhealthy" {
			t.Errorf("Status = %q", status.Status)
		}
		if status.Error == "" {
			t.Error("Error should be populated")
		}
	})

	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		}))
		defer srv.Close()

		client := testClient(t, srv.URL, nil)
		status := client.HealthStatus(context.Background())
		if status.Status != "unhealthy" {
			t.Errorf("Status = %q", status.Status)
		}
		if !strings.Contains(status.Error, "502") {
			t.Errorf("Error = %q", status.Error)
		}
	})
}

func TestNewClientRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "not-a-url"
	if _, err := NewClient(cfg, nil); err == nil {
		t.Fatal("expected error")
	}
}
