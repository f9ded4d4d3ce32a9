package uploads

import (
	"fmt"
	"strings"
	"time"
)

// GenerateKey builds the collision-resistant storage key for an upload: a
// high-resolution timestamp prefix plus the original filename with
// whitespace stripped. Computed once per request so every fallback attempt
// targets the same logical path.
func GenerateKey(originalName string) string {
	name := strings.Join(strings.Fields(originalName), "-")
	if name == "" {
		name = "upload"
	}
	return fmt.Sprintf("%d-%s", time.Now().UnixNano(), name)
}
