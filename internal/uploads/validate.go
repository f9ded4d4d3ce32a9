package uploads

import (
	"fmt"
	"strings"
)

// MaxDocumentSize is the upload ceiling for office/PDF documents.
const MaxDocumentSize = 50 * 1024 * 1024 // 50MB

// documentTypes is the office/PDF allow-list for the documents folder.
var documentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-powerpoint":                                     true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
}

// Validate checks content type and size against the rules of the target
// folder. Runs before any storage I/O.
func Validate(folder, contentType string, size int64) error {
	switch folder {
	case FolderUploads:
		if !strings.HasPrefix(contentType, "image/") {
			return invalidType(
				"يسمح برفع الصور فقط",
				fmt.Sprintf("only image files are allowed, got %q", contentType),
			)
		}
	case FolderDocuments:
		if !documentTypes[contentType] {
			return invalidType(
				"نوع الملف غير مدعوم. استخدم PDF أو Word أو Excel أو PowerPoint",
				fmt.Sprintf("unsupported document type %q", contentType),
			)
		}
		if size > MaxDocumentSize {
			return tooLarge(
				"حجم الملف أكبر من 50MB",
				fmt.Sprintf("document size %d exceeds the 50MB ceiling", size),
			)
		}
	default:
		return invalidType(
			"مجلد غير صالح",
			fmt.Sprintf("unknown upload folder %q", folder),
		)
	}
	return nil
}
