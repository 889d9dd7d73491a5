package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newFakeGitHub(t *testing.T, token string) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users/asha/repos", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "application/vnd.github.v3+json" {
			t.Errorf("Accept = %q", got)
		}
		if token != "" {
			if got := r.Header.Get("Authorization"); got != "token "+token {
				t.Errorf("Authorization = %q", got)
			}
		}
		if got := r.URL.Query().Get("per_page"); got != "100" {
			t.Errorf("per_page = %q", got)
		}
		json.NewEncoder(w).Encode([]Repo{
			{Name: "folio", FullName: "asha/folio", Stars: 12, Forks: 3, UpdatedAt: "2025-08-01T00:00:00Z"},
			{Name: "crawler", FullName: "asha/crawler", Stars: 5, Forks: 1, UpdatedAt: "2025-09-01T00:00:00Z"},
			{Name: "forked-lib", FullName: "asha/forked-lib", Stars: 100, Fork: true, UpdatedAt: "2025-07-01T00:00:00Z"},
		})
	})
	mux.HandleFunc("/repos/asha/folio/languages", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]int64{"Go": 9000, "TypeScript": 4000})
	})
	mux.HandleFunc("/repos/asha/crawler/languages", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]int64{"Go": 2000, "Shell": 100})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := New(token)
	client.baseURL = srv.URL
	return srv, client
}

func TestReposListsUser(t *testing.T) {
	_, client := newFakeGitHub(t, "")
	repos, err := client.Repos(context.Background(), "asha")
	if err != nil {
		t.Fatalf("Repos failed: %v", err)
	}
	if len(repos) != 3 || repos[0].Name != "folio" {
		t.Errorf("Unexpected repos %+v", repos)
	}
}

func TestReposSendsToken(t *testing.T) {
	_, client := newFakeGitHub(t, "sekret")
	if _, err := client.Repos(context.Background(), "asha"); err != nil {
		t.Fatalf("Repos failed: %v", err)
	}
}

func TestStatsAggregates(t *testing.T) {
	_, client := newFakeGitHub(t, "")
	stats, err := client.Stats(context.Background(), "asha")
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.TotalRepos != 2 {
		t.Errorf("TotalRepos = %d, forks must be excluded", stats.TotalRepos)
	}
	if stats.TotalStars != 17 || stats.TotalForks != 4 {
		t.Errorf("Totals = %d stars %d forks", stats.TotalStars, stats.TotalForks)
	}

	if len(stats.TopLanguages) != 3 {
		t.Fatalf("TopLanguages = %+v", stats.TopLanguages)
	}
	if stats.TopLanguages[0].Name != "Go" || stats.TopLanguages[0].Bytes != 11000 {
		t.Errorf("Top language = %+v, want Go with summed bytes", stats.TopLanguages[0])
	}

	if len(stats.RecentRepos) != 2 || stats.RecentRepos[0].Name != "crawler" {
		t.Errorf("RecentRepos = %+v, want most recently updated first", stats.RecentRepos)
	}
}

func TestGetPropagatesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusForbidden)
	}))
	defer srv.Close()

	client := New("")
	client.baseURL = srv.URL
	if _, err := client.Repos(context.Background(), "asha"); err == nil {
		t.Errorf("Expected error for non-200 response")
	}
}
