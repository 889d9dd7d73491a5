package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/folioai/folio/internal/domain"
	"github.com/folioai/folio/internal/profile"
)

func newPortfolioServer(t *testing.T) (*httptest.Server, *profile.Store) {
	t.Helper()
	seed := &domain.Portfolio{
		Student: domain.Student{Name: "Asha Rao"},
		Projects: []domain.Project{
			{ID: 1, Title: "Folio"},
		},
		Achievements: []domain.Achievement{
			{Title: "Hackathon Winner"},
		},
	}
	data, err := json.Marshal(seed)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "portfolio.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	store, err := profile.New(path)
	if err != nil {
		t.Fatalf("profile.New failed: %v", err)
	}

	r := chi.NewRouter()
	NewPortfolioHandler(store).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url string, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	return resp
}

func TestGetPortfolio(t *testing.T) {
	srv, _ := newPortfolioServer(t)
	resp, err := http.Get(srv.URL + "/api/portfolio")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	var p domain.Portfolio
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if p.Student.Name != "Asha Rao" || len(p.Projects) != 1 {
		t.Errorf("Unexpected portfolio %+v", p)
	}
}

func TestAddProjectOverHTTP(t *testing.T) {
	srv, store := newPortfolioServer(t)
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/portfolio",
		`{"type":"project","data":{"title":"Crawler","description":"web crawler"}}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Status = %d, want 201", resp.StatusCode)
	}
	var added domain.Project
	if err := json.NewDecoder(resp.Body).Decode(&added); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if added.ID != 2 {
		t.Errorf("ID = %d, want next id 2", added.ID)
	}
	if got := len(store.Portfolio().Projects); got != 2 {
		t.Errorf("Store has %d projects", got)
	}
}

func TestAddRejectsUnknownTypeAndMissingFields(t *testing.T) {
	srv, _ := newPortfolioServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"unknown type", `{"type":"pet","data":{"name":"cat"}}`},
		{"project without title", `{"type":"project","data":{"description":"x"}}`},
		{"achievement without title", `{"type":"achievement","data":{"date":"2024"}}`},
		{"missing data", `{"type":"project"}`},
		{"unknown skill category", `{"type":"skill","data":{"category":"sorcery","skill":"Divination"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/portfolio", tt.body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestUpdateProjectOverHTTP(t *testing.T) {
	srv, store := newPortfolioServer(t)
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/portfolio",
		`{"type":"project","id":1,"data":{"status":"completed"}}`)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Status = %d, want 200", resp.StatusCode)
	}
	if got := store.Portfolio().Projects[0].Status; got != "completed" {
		t.Errorf("Status = %q", got)
	}
}

func TestUpdateMissingEntryReturns404(t *testing.T) {
	srv, _ := newPortfolioServer(t)
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/portfolio",
		`{"type":"achievement","id":"nope","data":{"date":"2025"}}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", resp.StatusCode)
	}
}

func TestDeleteOverHTTP(t *testing.T) {
	srv, store := newPortfolioServer(t)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/portfolio?type=achievement&id=Hackathon+Winner", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("Status = %d, want 204", resp.StatusCode)
	}
	if got := len(store.Portfolio().Achievements); got != 0 {
		t.Errorf("Achievement not deleted, %d left", got)
	}

	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/api/portfolio?type=project&id=notanumber", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400 for non-numeric project id", resp.StatusCode)
	}
}
