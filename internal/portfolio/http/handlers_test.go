package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio-site/portfolio-backend/internal/auth"
	"github.com/portfolio-site/portfolio-backend/internal/common"
	"github.com/portfolio-site/portfolio-backend/internal/portfolio/domain"
	"github.com/portfolio-site/portfolio-backend/internal/portfolio/repository"
	"github.com/portfolio-site/portfolio-backend/internal/portfolio/service"
	"github.com/portfolio-site/portfolio-backend/internal/revalidate"
)

type recordingInvalidator struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
	return nil
}

func (r *recordingInvalidator) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

type fixture struct {
	router    *gin.Engine
	companies *service.CompanyService
	projects  *service.ProjectService
	inv       *recordingInvalidator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := common.Nop()
	store := repository.NewStore(nil, repository.NewLocalStore(t.TempDir()), log)
	inv := &recordingInvalidator{}
	pages := revalidate.NewDispatcher(inv, log)
	companies := service.NewCompanyService(store, pages, log)
	projects := service.NewProjectService(store, pages, log)

	r := gin.New()
	New(companies, projects, pages, log).Register(r)
	return &fixture{router: r, companies: companies, projects: projects, inv: inv}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func adminJSON(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "authorized"})
	return req
}

func adminForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "authorized"})
	return req
}

func TestListCompanies_EmptyIsAnArrayNotNull(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/companies", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"companies":[]}`, w.Body.String())
}

func TestSaveCompany_RequiresSession(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/companies", strings.NewReader(`{"company":{"name":"Acme"}}`))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSaveCompany_FullFlow(t *testing.T) {
	f := newFixture(t)

	w := f.do(adminJSON(http.MethodPost, "/admin/companies", `{"company":{"name":"Acme Co","description":"en","description_ar":"عربي"}}`))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool           `json:"success"`
		Company domain.Company `json:"company"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Company.ID)
	assert.Equal(t, "acme-co", resp.Company.Slug)

	// The saved company is visible through the public API.
	w = f.do(httptest.NewRequest(http.MethodGet, "/companies/acme-co", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"description_ar":"عربي"`)

	assert.Equal(t, []string{"/", "/portfolio", "/portfolio/acme-co"}, f.inv.Paths())
}

func TestSaveCompany_ValidationErrorIs400(t *testing.T) {
	f := newFixture(t)

	w := f.do(adminJSON(http.MethodPost, "/admin/companies", `{"company":{"description":"no name"}}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"name is required"}`, w.Body.String())
}

func TestSaveCompany_MissingEnvelopeIs400(t *testing.T) {
	f := newFixture(t)

	w := f.do(adminJSON(http.MethodPost, "/admin/companies", `{}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid payload"}`, w.Body.String())
}

func TestCompanyBySlug_NotFound(t *testing.T) {
	f := newFixture(t)

	w := f.do(httptest.NewRequest(http.MethodGet, "/companies/ghost", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Company not found"}`, w.Body.String())
}

func TestCompanyProjects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner, err := f.companies.Save(ctx, domain.Company{Name: "Acme Co"})
	require.NoError(t, err)
	_, err = f.projects.Save(ctx, domain.Project{Name: "Launch", CompanyID: owner.ID})
	require.NoError(t, err)
	_, err = f.projects.Save(ctx, domain.Project{Name: "Elsewhere", CompanyID: "other"})
	require.NoError(t, err)

	w := f.do(httptest.NewRequest(http.MethodGet, "/companies/acme-co/projects", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Projects []domain.Project `json:"projects"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, "Launch", resp.Projects[0].Name)
}

func TestSaveProject_RequiresCompanyID(t *testing.T) {
	f := newFixture(t)

	w := f.do(adminJSON(http.MethodPost, "/admin/projects", `{"project":{"name":"Launch"}}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"companyId is required"}`, w.Body.String())
}

func TestDelete_Company(t *testing.T) {
	f := newFixture(t)

	saved, err := f.companies.Save(context.Background(), domain.Company{Name: "Acme Co"})
	require.NoError(t, err)

	w := f.do(adminForm("/admin/delete", url.Values{"id": {saved.ID}, "type": {"company"}}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"Deleted successfully"}`, w.Body.String())

	_, err = f.companies.ByID(context.Background(), saved.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete_Validation(t *testing.T) {
	f := newFixture(t)

	t.Run("missing id", func(t *testing.T) {
		w := f.do(adminForm("/admin/delete", url.Values{"type": {"company"}}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"ID is required"}`, w.Body.String())
	})

	t.Run("unknown type", func(t *testing.T) {
		w := f.do(adminForm("/admin/delete", url.Values{"id": {"x"}, "type": {"page"}}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Invalid type"}`, w.Body.String())
	})
}

func TestRevalidate_ManualTrigger(t *testing.T) {
	f := newFixture(t)

	w := f.do(adminJSON(http.MethodPost, "/admin/revalidate", `{"slug":"acme-co"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"/", "/portfolio", "/portfolio/acme-co"}, f.inv.Paths())
}

func TestRevalidate_EmptyBodyRefreshesSharedPages(t *testing.T) {
	f := newFixture(t)

	w := f.do(adminJSON(http.MethodPost, "/admin/revalidate", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"/", "/portfolio"}, f.inv.Paths())
}

func TestAdminLists_OpenReads(t *testing.T) {
	f := newFixture(t)

	_, err := f.projects.Save(context.Background(), domain.Project{Name: "Launch", CompanyID: "c-1"})
	require.NoError(t, err)

	w := f.do(httptest.NewRequest(http.MethodGet, "/admin/projects", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Launch"`)

	w = f.do(httptest.NewRequest(http.MethodGet, "/admin/companies", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
