package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/portfolio-site/portfolio-backend/internal/common"
	"github.com/portfolio-site/portfolio-backend/internal/portfolio/domain"
	"github.com/portfolio-site/portfolio-backend/internal/portfolio/repository"
	"github.com/portfolio-site/portfolio-backend/internal/revalidate"
)

// ProjectService mirrors CompanyService for projects. Public pages key on
// the owning company's slug, so every project mutation resolves its company
// before dispatching invalidation.
type ProjectService struct {
	store *repository.Store
	pages *revalidate.Dispatcher
	log   *common.Logger
}

func NewProjectService(store *repository.Store, pages *revalidate.Dispatcher, log *common.Logger) *ProjectService {
	return &ProjectService{store: store, pages: pages, log: log}
}

func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.store.Projects(ctx)
}

func (s *ProjectService) ByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.store.ProjectByID(ctx, id)
}

func (s *ProjectService) ByCompany(ctx context.Context, companyID string) ([]domain.Project, error) {
	return s.store.ProjectsByCompany(ctx, companyID)
}

func (s *ProjectService) Save(ctx context.Context, project domain.Project) (*domain.Project, error) {
	if project.Name == "" {
		return nil, &ValidationError{Field: "name"}
	}
	if project.CompanyID == "" {
		return nil, &ValidationError{Field: "companyId"}
	}

	if project.ID == "" {
		project.ID = uuid.NewString()
	}
	if project.Slug == "" {
		project.Slug = s.uniqueSlug(ctx, project.ID, domain.Slugify(project.Name))
	}

	if err := s.store.UpsertProject(ctx, project); err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}

	s.pages.PublicPages(ctx, s.companySlug(ctx, project.CompanyID))
	return &project, nil
}

func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &ValidationError{Field: "id"}
	}

	// Resolve the owning company before the record disappears.
	slug := ""
	if project, err := s.store.ProjectByID(ctx, id); err == nil {
		slug = s.companySlug(ctx, project.CompanyID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.log.Warn().Err(err).Str("id", id).Msg("could not resolve project owner before delete")
	}

	if err := s.store.DeleteProject(ctx, id); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}

	s.pages.PublicPages(ctx, slug)
	return nil
}

func (s *ProjectService) companySlug(ctx context.Context, companyID string) string {
	company, err := s.store.CompanyByID(ctx, companyID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Err(err).Str("company_id", companyID).Msg("owning company lookup failed")
		}
		return ""
	}
	return company.Slug
}

func (s *ProjectService) uniqueSlug(ctx context.Context, id, base string) string {
	if base == "" {
		base = id
	}

	for i := 1; i <= 50; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		existing, err := s.store.ProjectBySlug(ctx, candidate)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && existing.ID == id) {
			return candidate
		}
		if err != nil {
			return candidate
		}
	}
	return fmt.Sprintf("%s-%s", base, id)
}
