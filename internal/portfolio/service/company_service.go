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

// ValidationError names the missing field; handlers surface it as a 400.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string { return e.Field + " is required" }

// CompanyService sequences validation, identifier assignment, persistence
// and cache invalidation for company mutations. Authorization happens at
// the HTTP layer before any of this runs.
type CompanyService struct {
	store *repository.Store
	pages *revalidate.Dispatcher
	log   *common.Logger
}

func NewCompanyService(store *repository.Store, pages *revalidate.Dispatcher, log *common.Logger) *CompanyService {
	return &CompanyService{store: store, pages: pages, log: log}
}

func (s *CompanyService) List(ctx context.Context) ([]domain.Company, error) {
	return s.store.Companies(ctx)
}

func (s *CompanyService) ByID(ctx context.Context, id string) (*domain.Company, error) {
	return s.store.CompanyByID(ctx, id)
}

func (s *CompanyService) BySlug(ctx context.Context, slug string) (*domain.Company, error) {
	return s.store.CompanyBySlug(ctx, slug)
}

// Save upserts a company, assigning id and slug when absent, and refreshes
// the public pages that render it.
func (s *CompanyService) Save(ctx context.Context, company domain.Company) (*domain.Company, error) {
	if company.Name == "" {
		return nil, &ValidationError{Field: "name"}
	}

	if company.ID == "" {
		company.ID = uuid.NewString()
	}
	if company.Slug == "" {
		company.Slug = s.uniqueSlug(ctx, company.ID, domain.Slugify(company.Name))
	}

	if err := s.store.UpsertCompany(ctx, company); err != nil {
		return nil, fmt.Errorf("save company: %w", err)
	}

	s.pages.PublicPages(ctx, company.Slug)
	return &company, nil
}

// Delete removes a company by id. The slug is captured before the delete
// since it cannot be looked up afterwards; deleting an unknown id is not an
// error.
func (s *CompanyService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &ValidationError{Field: "id"}
	}

	slug := ""
	if company, err := s.store.CompanyByID(ctx, id); err == nil {
		slug = company.Slug
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.log.Warn().Err(err).Str("id", id).Msg("could not resolve company slug before delete")
	}

	if err := s.store.DeleteCompany(ctx, id); err != nil {
		return fmt.Errorf("delete company: %w", err)
	}

	s.pages.PublicPages(ctx, slug)
	return nil
}

// uniqueSlug suffixes the derived slug when another company already holds
// it, so a second "Acme Co" becomes acme-co-2 instead of shadowing the
// first in public URL lookups.
func (s *CompanyService) uniqueSlug(ctx context.Context, id, base string) string {
	if base == "" {
		base = id
	}

	for i := 1; i <= 50; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		existing, err := s.store.CompanyBySlug(ctx, candidate)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && existing.ID == id) {
			return candidate
		}
		if err != nil {
			// can't verify uniqueness; accept the derivation as-is
			return candidate
		}
	}
	return fmt.Sprintf("%s-%s", base, id)
}
