package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/portfolio-site/portfolio-backend/internal/portfolio/domain"
)

// mirrorDocument is the on-disk shape of the fallback mirror: one JSON file
// holding both collections, rewritten wholesale on every write.
type mirrorDocument struct {
	Companies []domain.Company `json:"companies"`
	Projects  []domain.Project `json:"projects"`
}

// LocalStore is the file-backed fallback mirror. Writes are serialized by a
// mutex (single in-flight rewrite) and land via temp-file + rename so a
// crash mid-write never corrupts the document. Concurrent writers in other
// processes can still race; that is an accepted limitation of degraded mode.
type LocalStore struct {
	path string
	mu   sync.Mutex
}

func NewLocalStore(dataDir string) *LocalStore {
	return &LocalStore{path: filepath.Join(dataDir, "portfolio.json")}
}

// Path returns the mirror file location.
func (s *LocalStore) Path() string { return s.path }

func (s *LocalStore) load() (mirrorDocument, error) {
	var doc mirrorDocument

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("read mirror: %w", err)
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("decode mirror: %w", err)
	}
	return doc, nil
}

func (s *LocalStore) write(doc mirrorDocument) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode mirror: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write mirror: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace mirror: %w", err)
	}
	return nil
}

func (s *LocalStore) Companies() ([]domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Companies, nil
}

func (s *LocalStore) CompanyByID(id string) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Companies {
		if doc.Companies[i].ID == id {
			c := doc.Companies[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *LocalStore) CompanyBySlug(slug string) (*domain.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Companies {
		if doc.Companies[i].Slug == slug {
			c := doc.Companies[i]
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *LocalStore) UpsertCompany(company domain.Company) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range doc.Companies {
		if doc.Companies[i].ID == company.ID {
			doc.Companies[i] = company
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Companies = append(doc.Companies, company)
	}

	return s.write(doc)
}

func (s *LocalStore) DeleteCompany(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	kept := doc.Companies[:0]
	for _, c := range doc.Companies {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	doc.Companies = kept

	return s.write(doc)
}

func (s *LocalStore) Projects() ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Projects, nil
}

func (s *LocalStore) ProjectByID(id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Projects {
		if doc.Projects[i].ID == id {
			p := doc.Projects[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *LocalStore) ProjectBySlug(slug string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range doc.Projects {
		if doc.Projects[i].Slug == slug {
			p := doc.Projects[i]
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *LocalStore) ProjectsByCompany(companyID string) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	out := make([]domain.Project, 0, len(doc.Projects))
	for _, p := range doc.Projects {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *LocalStore) UpsertProject(project domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	replaced := false
	for i := range doc.Projects {
		if doc.Projects[i].ID == project.ID {
			doc.Projects[i] = project
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Projects = append(doc.Projects, project)
	}

	return s.write(doc)
}

func (s *LocalStore) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	kept := doc.Projects[:0]
	for _, p := range doc.Projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	doc.Projects = kept

	return s.write(doc)
}

// ReplaceAll swaps the whole mirror document in one write. Used by the
// scheduled primary-to-mirror refresh.
func (s *LocalStore) ReplaceAll(companies []domain.Company, projects []domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(mirrorDocument{Companies: companies, Projects: projects})
}
