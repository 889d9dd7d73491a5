// Package profile manages the portfolio record backing the assistant.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/folioai/folio/internal/domain"
)

// ErrNotFound is returned when a CRUD target does not exist.
var ErrNotFound = errors.New("profile: entry not found")

// Store is a file-backed portfolio store. Reads return snapshots; writes
// go through the store and are flushed atomically back to the file.
type Store struct {
	path string

	mu        sync.RWMutex
	portfolio *domain.Portfolio
}

// New loads the portfolio from path.
func New(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read portfolio: %w", err)
	}
	var p domain.Portfolio
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse portfolio: %w", err)
	}
	s.mu.Lock()
	s.portfolio = &p
	s.mu.Unlock()
	return nil
}

// Portfolio returns a deep copy of the current record. Callers may read
// it freely without holding the store lock.
func (s *Store) Portfolio() *domain.Portfolio {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePortfolio(s.portfolio)
}

func clonePortfolio(p *domain.Portfolio) *domain.Portfolio {
	raw, err := json.Marshal(p)
	if err != nil {
		return &domain.Portfolio{}
	}
	var out domain.Portfolio
	if err := json.Unmarshal(raw, &out); err != nil {
		return &domain.Portfolio{}
	}
	return &out
}

// save writes the record back to disk via a temp file and rename so a
// crash mid-write never leaves a truncated portfolio. Caller holds mu.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.portfolio, "", "  ")
	if err != nil {
		return fmt.Errorf("encode portfolio: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write portfolio: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace portfolio: %w", err)
	}
	return nil
}

// AddAchievement appends an achievement and persists.
func (s *Store) AddAchievement(a domain.Achievement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portfolio.Achievements = append(s.portfolio.Achievements, a)
	return s.save()
}

// AddProject appends a project, assigning the next numeric id.
func (s *Store) AddProject(p domain.Project) (domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	maxID := 0
	for _, existing := range s.portfolio.Projects {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	p.ID = maxID + 1
	s.portfolio.Projects = append(s.portfolio.Projects, p)
	if err := s.save(); err != nil {
		return domain.Project{}, err
	}
	return p, nil
}

// AddCertificate appends an ambassador certification, creating the
// highlights block on first use.
func (s *Store) AddCertificate(c domain.Certification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.portfolio.AmbassadorHighlights == nil {
		s.portfolio.AmbassadorHighlights = &domain.AmbassadorHighlights{}
	}
	s.portfolio.AmbassadorHighlights.Certifications = append(
		s.portfolio.AmbassadorHighlights.Certifications, c)
	return s.save()
}

// AddSkill appends a skill to a category. Unknown categories and
// duplicates within a category fail.
func (s *Store) AddSkill(category, skill string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.portfolio.Skills.Category(category) {
		if strings.EqualFold(existing, skill) {
			return fmt.Errorf("skill %q already listed under %s", skill, category)
		}
	}
	if !s.portfolio.Skills.AddToCategory(category, skill) {
		return fmt.Errorf("unknown skill category %q", category)
	}
	return s.save()
}

// UpdateStudent merges the given fields onto the student block.
func (s *Store) UpdateStudent(patch json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := json.Unmarshal(patch, &s.portfolio.Student); err != nil {
		return fmt.Errorf("apply student update: %w", err)
	}
	return s.save()
}

// UpdateProject merges the given fields onto the project with id.
func (s *Store) UpdateProject(id int, patch json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.portfolio.Projects {
		if s.portfolio.Projects[i].ID != id {
			continue
		}
		if err := json.Unmarshal(patch, &s.portfolio.Projects[i]); err != nil {
			return fmt.Errorf("apply project update: %w", err)
		}
		s.portfolio.Projects[i].ID = id
		return s.save()
	}
	return ErrNotFound
}

// UpdateAchievement merges the given fields onto the achievement with
// the matching title.
func (s *Store) UpdateAchievement(title string, patch json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.portfolio.Achievements {
		if s.portfolio.Achievements[i].Title != title {
			continue
		}
		if err := json.Unmarshal(patch, &s.portfolio.Achievements[i]); err != nil {
			return fmt.Errorf("apply achievement update: %w", err)
		}
		return s.save()
	}
	return ErrNotFound
}

// DeleteProject removes the project with id.
func (s *Store) DeleteProject(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.portfolio.Projects {
		if s.portfolio.Projects[i].ID == id {
			s.portfolio.Projects = append(s.portfolio.Projects[:i], s.portfolio.Projects[i+1:]...)
			return s.save()
		}
	}
	return ErrNotFound
}

// DeleteAchievement removes the achievement with the matching title.
func (s *Store) DeleteAchievement(title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.portfolio.Achievements {
		if s.portfolio.Achievements[i].Title == title {
			s.portfolio.Achievements = append(s.portfolio.Achievements[:i], s.portfolio.Achievements[i+1:]...)
			return s.save()
		}
	}
	return ErrNotFound
}

// Watch reloads the portfolio when the backing file changes on disk,
// so hand edits show up without a restart. Blocks until ctx is done.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors and our own atomic save replace the
	// file by rename, which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch portfolio dir: %w", err)
	}

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if err := s.reload(); err != nil {
				slog.Warn("portfolio reload failed", "path", s.path, "error", err)
				continue
			}
			slog.Info("portfolio reloaded", "path", s.path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("portfolio watcher error", "error", err)
		}
	}
}
