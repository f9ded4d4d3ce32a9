package repository

import (
	"context"
	"errors"

	"github.com/portfolio-site/portfolio-backend/internal/common"
	"github.com/portfolio-site/portfolio-backend/internal/portfolio/domain"
)

// Primary is the structured-data backend contract. FirestoreRepo is the real
// implementation; tests substitute failing or canned ones.
type Primary interface {
	Companies(ctx context.Context) ([]domain.Company, error)
	CompanyByID(ctx context.Context, id string) (*domain.Company, error)
	CompanyBySlug(ctx context.Context, slug string) (*domain.Company, error)
	UpsertCompany(ctx context.Context, company domain.Company) error
	DeleteCompany(ctx context.Context, id string) error

	Projects(ctx context.Context) ([]domain.Project, error)
	ProjectByID(ctx context.Context, id string) (*domain.Project, error)
	ProjectBySlug(ctx context.Context, slug string) (*domain.Project, error)
	ProjectsByCompany(ctx context.Context, companyID string) ([]domain.Project, error)
	UpsertProject(ctx context.Context, project domain.Project) error
	DeleteProject(ctx context.Context, id string) error
}

// Store is the record store adapter: primary-first with a transparent
// per-operation fallback to the local mirror. Reads fall back on any primary
// error or missing result; writes that fail against the primary must still
// land in the mirror so data is never silently lost. Successful primary
// writes are mirrored best-effort to keep the fallback copy current.
type Store struct {
	primary Primary // nil when the backend is not ready
	mirror  *LocalStore
	log     *common.Logger
}

func NewStore(primary Primary, mirror *LocalStore, log *common.Logger) *Store {
	return &Store{primary: primary, mirror: mirror, log: log}
}

// PrimaryReady reports whether a primary backend is attached.
func (s *Store) PrimaryReady() bool { return s.primary != nil }

func (s *Store) degraded(op string, err error) {
	s.log.Warn().Err(err).Str("op", op).Msg("primary record store unavailable, using local mirror")
}

func (s *Store) mirrorLag(op string, err error) {
	s.log.Warn().Err(err).Str("op", op).Msg("mirror write-through failed, fallback copy is stale")
}

func (s *Store) Companies(ctx context.Context) ([]domain.Company, error) {
	if s.primary != nil {
		out, err := s.primary.Companies(ctx)
		if err == nil && len(out) > 0 {
			return out, nil
		}
		if err != nil {
			s.degraded("companies.list", err)
		}
	}
	return s.mirror.Companies()
}

func (s *Store) CompanyByID(ctx context.Context, id string) (*domain.Company, error) {
	if s.primary != nil {
		c, err := s.primary.CompanyByID(ctx, id)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.degraded("companies.get", err)
		}
	}
	return s.mirror.CompanyByID(id)
}

func (s *Store) CompanyBySlug(ctx context.Context, slug string) (*domain.Company, error) {
	if s.primary != nil {
		c, err := s.primary.CompanyBySlug(ctx, slug)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.degraded("companies.get_by_slug", err)
		}
	}
	return s.mirror.CompanyBySlug(slug)
}

func (s *Store) UpsertCompany(ctx context.Context, company domain.Company) error {
	if s.primary != nil {
		if err := s.primary.UpsertCompany(ctx, company); err != nil {
			s.degraded("companies.upsert", err)
		} else {
			if err := s.mirror.UpsertCompany(company); err != nil {
				s.mirrorLag("companies.upsert", err)
			}
			return nil
		}
	}
	return s.mirror.UpsertCompany(company)
}

func (s *Store) DeleteCompany(ctx context.Context, id string) error {
	if s.primary != nil {
		if err := s.primary.DeleteCompany(ctx, id); err != nil {
			s.degraded("companies.delete", err)
		}
	}
	return s.mirror.DeleteCompany(id)
}

func (s *Store) Projects(ctx context.Context) ([]domain.Project, error) {
	if s.primary != nil {
		out, err := s.primary.Projects(ctx)
		if err == nil && len(out) > 0 {
			return out, nil
		}
		if err != nil {
			s.degraded("projects.list", err)
		}
	}
	return s.mirror.Projects()
}

func (s *Store) ProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	if s.primary != nil {
		p, err := s.primary.ProjectByID(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.degraded("projects.get", err)
		}
	}
	return s.mirror.ProjectByID(id)
}

func (s *Store) ProjectBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	if s.primary != nil {
		p, err := s.primary.ProjectBySlug(ctx, slug)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			s.degraded("projects.get_by_slug", err)
		}
	}
	return s.mirror.ProjectBySlug(slug)
}

func (s *Store) ProjectsByCompany(ctx context.Context, companyID string) ([]domain.Project, error) {
	if s.primary != nil {
		out, err := s.primary.ProjectsByCompany(ctx, companyID)
		if err == nil && len(out) > 0 {
			return out, nil
		}
		if err != nil {
			s.degraded("projects.by_company", err)
		}
	}
	return s.mirror.ProjectsByCompany(companyID)
}

func (s *Store) UpsertProject(ctx context.Context, project domain.Project) error {
	if s.primary != nil {
		if err := s.primary.UpsertProject(ctx, project); err != nil {
			s.degraded("projects.upsert", err)
		} else {
			if err := s.mirror.UpsertProject(project); err != nil {
				s.mirrorLag("projects.upsert", err)
			}
			return nil
		}
	}
	return s.mirror.UpsertProject(project)
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	if s.primary != nil {
		if err := s.primary.DeleteProject(ctx, id); err != nil {
			s.degraded("projects.delete", err)
		}
	}
	return s.mirror.DeleteProject(id)
}
