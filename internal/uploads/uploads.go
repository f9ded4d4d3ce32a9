// Package uploads persists uploaded binaries through a prioritized chain of
// storage destinations and hands back a stable public URL. Provider failures
// are expected here, so every attempt is logged with enough context to
// diagnose a failed upload without replaying it.
package uploads

import (
	"errors"
	"fmt"
	"net/http"
)

// Logical upload folders. The folder picks the validation rules and the
// path segment the object lands under.
const (
	FolderUploads   = "uploads"
	FolderDocuments = "documents"
)

// Failure classification sentinels.
var (
	ErrInvalidFileType  = errors.New("invalid file type")
	ErrFileTooLarge     = errors.New("file too large")
	ErrStorageExhausted = errors.New("all storage destinations failed")
)

// Object is one upload request's payload. Key is generated once and reused
// across every destination attempt so retries land at the same logical path.
type Object struct {
	Key          string
	Folder       string
	ContentType  string
	OriginalName string
	Bytes        []byte
}

// Result is handed back to the orchestrator to populate record fields.
type Result struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// Error carries the HTTP-equivalent status plus a bilingual message: the
// Arabic string is shown to the admin, the English one is the diagnostic.
type Error struct {
	Status    int
	MessageAR string
	Message   string
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func invalidType(messageAR, message string) *Error {
	return &Error{
		Status:    http.StatusBadRequest,
		MessageAR: messageAR,
		Message:   message,
		Err:       ErrInvalidFileType,
	}
}

func tooLarge(messageAR, message string) *Error {
	return &Error{
		Status:    http.StatusBadRequest,
		MessageAR: messageAR,
		Message:   message,
		Err:       ErrFileTooLarge,
	}
}

func exhausted(cause error) *Error {
	return &Error{
		Status:    http.StatusInternalServerError,
		MessageAR: "خطأ في رفع الملف",
		Message:   "failed to store upload",
		Err:       fmt.Errorf("%w: %w", ErrStorageExhausted, cause),
	}
}
