package http

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/portfolio-site/portfolio-backend/internal/auth"
	"github.com/portfolio-site/portfolio-backend/internal/common"
	"github.com/portfolio-site/portfolio-backend/internal/uploads"
)

// Handler serves the upload endpoints and the local document viewer.
type Handler struct {
	pipeline  *uploads.Pipeline
	publicDir string
	log       *common.Logger
}

func New(pipeline *uploads.Pipeline, publicDir string, log *common.Logger) *Handler {
	return &Handler{pipeline: pipeline, publicDir: publicDir, log: log}
}

func (h *Handler) Register(r gin.IRouter) {
	r.POST("/upload", h.UploadImage)
	r.POST("/documents/upload", h.UploadDocument)
	r.GET("/documents/view", h.ViewDocument)
}

func (h *Handler) UploadImage(c *gin.Context) {
	h.upload(c, uploads.FolderUploads)
}

func (h *Handler) UploadDocument(c *gin.Context) {
	h.upload(c, uploads.FolderDocuments)
}

func (h *Handler) upload(c *gin.Context, folder string) {
	// The session gate runs before the multipart body is touched.
	if !auth.IsAuthorized(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"message": "غير مصرح بالوصول",
			"error":   "Unauthorized",
		})
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "لم يتم تحديد ملف",
			"error":   "No file provided",
		})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "خطأ في قراءة الملف",
			"error":   "Failed to read file",
		})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "خطأ في قراءة الملف",
			"error":   "Failed to read file",
		})
		return
	}

	contentType := fh.Header.Get("Content-Type")
	result, err := h.pipeline.Upload(c.Request.Context(), folder, fh.Filename, contentType, data)
	if err != nil {
		var uerr *uploads.Error
		if errors.As(err, &uerr) {
			c.JSON(uerr.Status, gin.H{"message": uerr.MessageAR, "error": uerr.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "خطأ في رفع الملف",
			"error":   "Upload failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "تم رفع الملف بنجاح",
		"url":     result.URL,
		"name":    result.Name,
		"type":    result.Type,
		"size":    result.Size,
	})
}

// ViewDocument streams a locally stored file inline. Only plain filenames
// are accepted; anything that could traverse out of the public tree is
// rejected.
func (h *Handler) ViewDocument(c *gin.Context) {
	filename := c.Query("file")
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file specified"})
		return
	}
	if strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filename"})
		return
	}

	path := ""
	for _, folder := range []string{uploads.FolderDocuments, uploads.FolderUploads} {
		candidate := filepath.Join(h.publicDir, folder, filename)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
			break
		}
	}
	if path == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Header("Cache-Control", "public, max-age=3600")
	c.Header("Content-Type", mimeTypeFor(filename))
	c.File(path)
}

func mimeTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".xls":
		return "application/vnd.ms-excel"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".ppt":
		return "application/vnd.ms-powerpoint"
	case ".pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case ".txt":
		return "text/plain"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
