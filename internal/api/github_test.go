package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/folioai/folio/internal/domain"
	"github.com/folioai/folio/internal/github"
)

type fakeRepoSource struct {
	lastUsername string
	fail         bool
	repos        []github.Repo
}

func (f *fakeRepoSource) Repos(_ context.Context, username string) ([]github.Repo, error) {
	f.lastUsername = username
	if f.fail {
		return nil, errors.New("boom")
	}
	if f.repos != nil {
		return f.repos, nil
	}
	return []github.Repo{{Name: "folio", Stars: 12}}, nil
}

func (f *fakeRepoSource) Stats(_ context.Context, username string) (*github.Stats, error) {
	f.lastUsername = username
	if f.fail {
		return nil, errors.New("boom")
	}
	return &github.Stats{TotalRepos: 2, TotalStars: 17}, nil
}

type fakePortfolioSource struct {
	projects []domain.Project
}

func (f *fakePortfolioSource) Portfolio() *domain.Portfolio {
	return &domain.Portfolio{Projects: f.projects}
}

func newGitHubServer(t *testing.T, source RepoSource, defaultUser string) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	NewGitHubHandler(source, &fakePortfolioSource{}, defaultUser).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestGitHubStatsUsesDefaultUsername(t *testing.T) {
	source := &fakeRepoSource{}
	srv := newGitHubServer(t, source, "asha")

	resp, err := http.Get(srv.URL + "/api/github")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d", resp.StatusCode)
	}
	if source.lastUsername != "asha" {
		t.Errorf("username = %q, want configured default", source.lastUsername)
	}
	var stats github.Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if stats.TotalStars != 17 {
		t.Errorf("TotalStars = %d", stats.TotalStars)
	}
}

func TestGitHubQueryOverridesUsername(t *testing.T) {
	source := &fakeRepoSource{}
	srv := newGitHubServer(t, source, "asha")

	resp, err := http.Get(srv.URL + "/api/github/repos?username=other")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if source.lastUsername != "other" {
		t.Errorf("username = %q", source.lastUsername)
	}
}

func TestGitHubWithoutUsernameIs400(t *testing.T) {
	srv := newGitHubServer(t, &fakeRepoSource{}, "")
	resp, err := http.Get(srv.URL + "/api/github")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", resp.StatusCode)
	}
}

func TestGitHubSyncSuggestsMissingRepos(t *testing.T) {
	source := &fakeRepoSource{repos: []github.Repo{
		{Name: "folio-site", HTMLURL: "https://github.com/asha/folio-site", Language: "Go", Topics: []string{"web"}},
		{Name: "crawler", HTMLURL: "https://github.com/asha/crawler"},
		{Name: "dotfiles-fork", Fork: true},
	}}
	portfolio := &fakePortfolioSource{projects: []domain.Project{
		{ID: 1, Title: "Folio Site"},
	}}

	r := chi.NewRouter()
	NewGitHubHandler(source, portfolio, "asha").RegisterRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/github", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		Suggestions []domain.Project `json:"suggestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(body.Suggestions) != 1 {
		t.Fatalf("Suggestions = %+v, want only the repo not in the portfolio", body.Suggestions)
	}
	got := body.Suggestions[0]
	if got.Title != "crawler" || got.Links["github"] != "https://github.com/asha/crawler" {
		t.Errorf("Unexpected suggestion %+v", got)
	}
}

func TestGitHubUpstreamFailureIs502(t *testing.T) {
	srv := newGitHubServer(t, &fakeRepoSource{fail: true}, "asha")
	resp, err := http.Get(srv.URL + "/api/github")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("Status = %d, want 502", resp.StatusCode)
	}
}
