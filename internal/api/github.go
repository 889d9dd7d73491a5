package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/folioai/folio/internal/domain"
	"github.com/folioai/folio/internal/github"
)

// RepoSource fetches GitHub activity. Satisfied by *github.Client.
type RepoSource interface {
	Repos(ctx context.Context, username string) ([]github.Repo, error)
	Stats(ctx context.Context, username string) (*github.Stats, error)
}

// PortfolioSource provides the current portfolio snapshot.
type PortfolioSource interface {
	Portfolio() *domain.Portfolio
}

// GitHubHandler serves the public activity widget and the repo sync.
type GitHubHandler struct {
	source          RepoSource
	portfolio       PortfolioSource
	defaultUsername string
}

// NewGitHubHandler creates the GitHub HTTP handler. username is the
// portfolio owner's account, used when the query omits one.
func NewGitHubHandler(source RepoSource, portfolio PortfolioSource, username string) *GitHubHandler {
	return &GitHubHandler{source: source, portfolio: portfolio, defaultUsername: username}
}

// RegisterRoutes mounts the GitHub endpoints.
func (h *GitHubHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/github", h.handleStats)
	r.Get("/api/github/repos", h.handleRepos)
	r.Post("/api/github", h.handleSync)
}

func (h *GitHubHandler) username(r *http.Request) string {
	if u := r.URL.Query().Get("username"); u != "" {
		return u
	}
	return h.defaultUsername
}

func (h *GitHubHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	username := h.username(r)
	if username == "" {
		Error(w, http.StatusBadRequest, "username is required")
		return
	}
	stats, err := h.source.Stats(r.Context(), username)
	if err != nil {
		Error(w, http.StatusBadGateway, "failed to fetch GitHub data")
		return
	}
	JSON(w, http.StatusOK, stats)
}

func (h *GitHubHandler) handleRepos(w http.ResponseWriter, r *http.Request) {
	username := h.username(r)
	if username == "" {
		Error(w, http.StatusBadRequest, "username is required")
		return
	}
	repos, err := h.source.Repos(r.Context(), username)
	if err != nil {
		Error(w, http.StatusBadGateway, "failed to fetch GitHub data")
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{"repos": repos})
}

// handleSync compares public repos against the portfolio and suggests
// project entries for repos not already listed. Suggestions are returned,
// not written; adding them stays an explicit portfolio POST.
func (h *GitHubHandler) handleSync(w http.ResponseWriter, r *http.Request) {
	username := h.username(r)
	if username == "" {
		Error(w, http.StatusBadRequest, "username is required")
		return
	}
	repos, err := h.source.Repos(r.Context(), username)
	if err != nil {
		Error(w, http.StatusBadGateway, "failed to fetch GitHub data")
		return
	}

	existing := map[string]bool{}
	for _, p := range h.portfolio.Portfolio().Projects {
		existing[normalizeTitle(p.Title)] = true
	}

	var suggestions []domain.Project
	for _, repo := range repos {
		if repo.Fork || existing[normalizeTitle(repo.Name)] {
			continue
		}
		techStack := repo.Topics
		if repo.Language != "" {
			techStack = append([]string{repo.Language}, repo.Topics...)
		}
		suggestions = append(suggestions, domain.Project{
			Title:       repo.Name,
			Description: repo.Description,
			TechStack:   techStack,
			Links:       map[string]string{"github": repo.HTMLURL},
			Status:      "active",
		})
	}
	if suggestions == nil {
		suggestions = []domain.Project{}
	}
	JSON(w, http.StatusOK, map[string]interface{}{"suggestions": suggestions})
}

// normalizeTitle matches repo names against project titles loosely:
// case-insensitive with separators collapsed.
func normalizeTitle(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}
