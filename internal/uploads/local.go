package uploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalDestination writes under the public static-asset directory. Only
// wired into the chain in development; serverless production filesystems do
// not persist writes.
type LocalDestination struct {
	publicDir string
}

func NewLocalDestination(publicDir string) *LocalDestination {
	return &LocalDestination{publicDir: publicDir}
}

func (d *LocalDestination) Name() string { return "local" }

func (d *LocalDestination) Store(_ context.Context, obj *Object) (string, error) {
	dir := filepath.Join(d.publicDir, obj.Folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	if err := os.WriteFile(filepath.Join(dir, obj.Key), obj.Bytes, 0o644); err != nil {
		return "", fmt.Errorf("write local file: %w", err)
	}

	return "/" + obj.Folder + "/" + obj.Key, nil
}
