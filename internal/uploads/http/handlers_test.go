package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portfolio-site/portfolio-backend/internal/auth"
	"github.com/portfolio-site/portfolio-backend/internal/common"
	"github.com/portfolio-site/portfolio-backend/internal/uploads"
)

func newRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	publicDir := t.TempDir()
	pipeline := uploads.NewPipeline(common.Nop(), uploads.NewLocalDestination(publicDir))

	r := gin.New()
	New(pipeline, publicDir, common.Nop()).Register(r)
	return r, publicDir
}

// multipartBody builds a single-file form with an explicit part content type.
func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func authedUpload(t *testing.T, r *gin.Engine, path, filename, contentType string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, formType := multipartBody(t, "file", filename, contentType, data)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", formType)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "authorized"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpload_RejectsAnonymousBeforeReadingBody(t *testing.T) {
	r, _ := newRouter(t)

	body, formType := multipartBody(t, "file", "logo.png", "image/png", []byte("png"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", formType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"غير مصرح بالوصول","error":"Unauthorized"}`, w.Body.String())
}

func TestUpload_ImageSuccess(t *testing.T) {
	r, publicDir := newRouter(t)

	w := authedUpload(t, r, "/upload", "company logo.png", "image/png", []byte("png-bytes"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string `json:"message"`
		URL     string `json:"url"`
		Name    string `json:"name"`
		Type    string `json:"type"`
		Size    int64  `json:"size"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "تم رفع الملف بنجاح", resp.Message)
	assert.Equal(t, "company logo.png", resp.Name)
	assert.Equal(t, "image/png", resp.Type)
	assert.Equal(t, int64(9), resp.Size)
	assert.Regexp(t, `^/uploads/\d+-company-logo\.png$`, resp.URL)

	// The bytes really landed under the public dir.
	stored, err := os.ReadFile(filepath.Join(publicDir, resp.URL))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), stored)
}

func TestUpload_NoFilePart(t *testing.T) {
	r, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "authorized"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"لم يتم تحديد ملف","error":"No file provided"}`, w.Body.String())
}

func TestUpload_WrongTypeForImagesFolder(t *testing.T) {
	r, _ := newRouter(t)

	w := authedUpload(t, r, "/upload", "notes.txt", "text/plain", []byte("hi"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "يسمح برفع الصور فقط")
}

func TestUpload_DocumentSuccess(t *testing.T) {
	r, _ := newRouter(t)

	w := authedUpload(t, r, "/documents/upload", "profile.pdf", "application/pdf", []byte("%PDF-1.7"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `/documents/`)
}

func TestUpload_DocumentWrongType(t *testing.T) {
	r, _ := newRouter(t)

	w := authedUpload(t, r, "/documents/upload", "logo.png", "image/png", []byte("png"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "نوع الملف غير مدعوم")
}

func TestViewDocument(t *testing.T) {
	r, publicDir := newRouter(t)

	docDir := filepath.Join(publicDir, "documents")
	require.NoError(t, os.MkdirAll(docDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(docDir, "1-profile.pdf"), []byte("%PDF-1.7"), 0o644))

	t.Run("serves inline with mime type", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/view?file=1-profile.pdf", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "inline")
		assert.Equal(t, "%PDF-1.7", w.Body.String())
	})

	t.Run("missing file param", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/view", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown file", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/view?file=ghost.pdf", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("traversal rejected", func(t *testing.T) {
		for _, name := range []string{"../secret.pdf", "..%2Fsecret.pdf", `fold\er.pdf`, "a/b.pdf"} {
			w := httptest.NewRecorder()
			target := "/documents/view?file=" + url.QueryEscape(name)
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusBadRequest, w.Code, "filename %q must be rejected", name)
		}
	})

	t.Run("falls back to uploads folder", func(t *testing.T) {
		upDir := filepath.Join(publicDir, "uploads")
		require.NoError(t, os.MkdirAll(upDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(upDir, "2-logo.png"), []byte("png"), 0o644))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/documents/view?file=2-logo.png", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	})
}
