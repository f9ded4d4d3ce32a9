package http

import "github.com/portfolio-site/portfolio-backend/internal/portfolio/domain"

type saveCompanyRequest struct {
	Company *domain.Company `json:"company"`
}

type saveProjectRequest struct {
	Project *domain.Project `json:"project"`
}

type revalidateRequest struct {
	Slug string `json:"slug"`
}
