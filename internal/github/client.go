// Package github fetches public repository data for the portfolio.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// Repo is the subset of the repository record the portfolio shows.
type Repo struct {
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Description string   `json:"description"`
	HTMLURL     string   `json:"html_url"`
	Language    string   `json:"language"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	Topics      []string `json:"topics"`
	UpdatedAt   string   `json:"updated_at"`
	Fork        bool     `json:"fork"`
}

// Stats summarizes a user's public activity.
type Stats struct {
	TotalRepos   int            `json:"totalRepos"`
	TotalStars   int            `json:"totalStars"`
	TotalForks   int            `json:"totalForks"`
	TopLanguages []LanguageStat `json:"topLanguages"`
	RecentRepos  []Repo         `json:"recentRepos"`
}

// LanguageStat is one language with its total byte count across repos.
type LanguageStat struct {
	Name  string `json:"name"`
	Bytes int64  `json:"bytes"`
}

// Client talks to the GitHub REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// New creates a client. The token is optional; without it requests
// count against the low unauthenticated rate limit.
func New(token string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
	}
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "token "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github responded %d for %s", resp.StatusCode, path)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode github response: %w", err)
	}
	return nil
}

// Repos lists a user's public repositories, most recently updated first.
func (c *Client) Repos(ctx context.Context, username string) ([]Repo, error) {
	var repos []Repo
	path := fmt.Sprintf("/users/%s/repos?sort=updated&per_page=100", username)
	if err := c.get(ctx, path, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// Languages returns the byte counts per language for one repository.
func (c *Client) Languages(ctx context.Context, fullName string) (map[string]int64, error) {
	langs := map[string]int64{}
	if err := c.get(ctx, "/repos/"+fullName+"/languages", &langs); err != nil {
		return nil, err
	}
	return langs, nil
}

// Stats aggregates repositories into the portfolio summary: star and
// fork totals, the top ten languages by bytes, and the ten most
// recently updated repos. Forked repos are skipped.
func (c *Client) Stats(ctx context.Context, username string) (*Stats, error) {
	repos, err := c.Repos(ctx, username)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	byLanguage := map[string]int64{}
	for _, repo := range repos {
		if repo.Fork {
			continue
		}
		stats.TotalRepos++
		stats.TotalStars += repo.Stars
		stats.TotalForks += repo.Forks

		langs, err := c.Languages(ctx, repo.FullName)
		if err != nil {
			// A single repo failing the language call should not sink
			// the whole summary.
			continue
		}
		for name, bytes := range langs {
			byLanguage[name] += bytes
		}
	}

	for name, bytes := range byLanguage {
		stats.TopLanguages = append(stats.TopLanguages, LanguageStat{Name: name, Bytes: bytes})
	}
	sort.Slice(stats.TopLanguages, func(i, j int) bool {
		if stats.TopLanguages[i].Bytes != stats.TopLanguages[j].Bytes {
			return stats.TopLanguages[i].Bytes > stats.TopLanguages[j].Bytes
		}
		return stats.TopLanguages[i].Name < stats.TopLanguages[j].Name
	})
	if len(stats.TopLanguages) > 10 {
		stats.TopLanguages = stats.TopLanguages[:10]
	}

	recent := make([]Repo, 0, len(repos))
	for _, repo := range repos {
		if !repo.Fork {
			recent = append(recent, repo)
		}
	}
	sort.Slice(recent, func(i, j int) bool {
		return recent[i].UpdatedAt > recent[j].UpdatedAt
	})
	if len(recent) > 10 {
		recent = recent[:10]
	}
	stats.RecentRepos = recent

	return stats, nil
}
