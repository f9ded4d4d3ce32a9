package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/portfolio-site/portfolio-backend/internal/portfolio/domain"
)

const (
	companiesCollection = "companies"
	projectsCollection  = "projects"
)

// FirestoreRepo reads and writes the entity collections on the primary
// backend. Documents are keyed by the entity id; upsert is a plain Set.
type FirestoreRepo struct {
	client *firestore.Client
}

func NewFirestoreRepo(client *firestore.Client) *FirestoreRepo {
	return &FirestoreRepo{client: client}
}

func (r *FirestoreRepo) Companies(ctx context.Context) ([]domain.Company, error) {
	iter := r.client.Collection(companiesCollection).Documents(ctx)
	defer iter.Stop()

	var out []domain.Company
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list companies: %w", err)
		}

		var c domain.Company
		if err := doc.DataTo(&c); err != nil {
			return nil, fmt.Errorf("decode company %s: %w", doc.Ref.ID, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *FirestoreRepo) CompanyByID(ctx context.Context, id string) (*domain.Company, error) {
	doc, err := r.client.Collection(companiesCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get company %s: %w", id, err)
	}

	var c domain.Company
	if err := doc.DataTo(&c); err != nil {
		return nil, fmt.Errorf("decode company %s: %w", id, err)
	}
	return &c, nil
}

func (r *FirestoreRepo) CompanyBySlug(ctx context.Context, slug string) (*domain.Company, error) {
	iter := r.client.Collection(companiesCollection).
		Where("slug", "==", slug).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query company by slug %q: %w", slug, err)
	}

	var c domain.Company
	if err := doc.DataTo(&c); err != nil {
		return nil, fmt.Errorf("decode company %s: %w", doc.Ref.ID, err)
	}
	return &c, nil
}

func (r *FirestoreRepo) UpsertCompany(ctx context.Context, company domain.Company) error {
	if _, err := r.client.Collection(companiesCollection).Doc(company.ID).Set(ctx, company); err != nil {
		return fmt.Errorf("upsert company %s: %w", company.ID, err)
	}
	return nil
}

func (r *FirestoreRepo) DeleteCompany(ctx context.Context, id string) error {
	// Firestore deletes are idempotent: removing a missing doc is not an error.
	if _, err := r.client.Collection(companiesCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete company %s: %w", id, err)
	}
	return nil
}

func (r *FirestoreRepo) Projects(ctx context.Context) ([]domain.Project, error) {
	iter := r.client.Collection(projectsCollection).Documents(ctx)
	defer iter.Stop()

	var out []domain.Project
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}

		var p domain.Project
		if err := doc.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decode project %s: %w", doc.Ref.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *FirestoreRepo) ProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	doc, err := r.client.Collection(projectsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project %s: %w", id, err)
	}

	var p domain.Project
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", id, err)
	}
	return &p, nil
}

func (r *FirestoreRepo) ProjectBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	iter := r.client.Collection(projectsCollection).
		Where("slug", "==", slug).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query project by slug %q: %w", slug, err)
	}

	var p domain.Project
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decode project %s: %w", doc.Ref.ID, err)
	}
	return &p, nil
}

func (r *FirestoreRepo) ProjectsByCompany(ctx context.Context, companyID string) ([]domain.Project, error) {
	iter := r.client.Collection(projectsCollection).
		Where("companyId", "==", companyID).
		Documents(ctx)
	defer iter.Stop()

	var out []domain.Project
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list projects of company %s: %w", companyID, err)
		}

		var p domain.Project
		if err := doc.DataTo(&p); err != nil {
			return nil, fmt.Errorf("decode project %s: %w", doc.Ref.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *FirestoreRepo) UpsertProject(ctx context.Context, project domain.Project) error {
	if _, err := r.client.Collection(projectsCollection).Doc(project.ID).Set(ctx, project); err != nil {
		return fmt.Errorf("upsert project %s: %w", project.ID, err)
	}
	return nil
}

func (r *FirestoreRepo) DeleteProject(ctx context.Context, id string) error {
	if _, err := r.client.Collection(projectsCollection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	return nil
}
