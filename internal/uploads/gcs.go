package uploads

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/portfolio-site/portfolio-backend/internal/common"
	fb "github.com/portfolio-site/portfolio-backend/internal/platform/firebase"
)

// GCSDestination is the primary tier: it tries an ordered list of bucket
// candidates and stops at the first that accepts the object. A missing
// bucket moves the loop to the next candidate; any other failure (permission,
// quota, network) aborts the whole tier immediately so unrelated errors are
// not masked by further candidates.
type GCSDestination struct {
	clients    *fb.Clients
	candidates []string
	log        *common.Logger

	// write persists the object into one bucket; swapped out in tests so the
	// candidate policy is exercised without a storage backend.
	write func(ctx context.Context, bucket, path string, obj *Object) (string, error)
}

// NewGCSDestination builds the candidate list: the configured bucket, the
// configured alternate, and two names derived from the project id (classic
// appspot and the newer firebasestorage domain).
func NewGCSDestination(clients *fb.Clients, alt string, log *common.Logger) *GCSDestination {
	var candidates []string
	seen := map[string]bool{}
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			candidates = append(candidates, name)
		}
	}

	add(clients.DefaultBucket)
	add(alt)
	if clients.ProjectID != "" {
		add(clients.ProjectID + ".appspot.com")
		add(clients.ProjectID + ".firebasestorage.app")
	}

	d := &GCSDestination{clients: clients, candidates: candidates, log: log}
	d.write = d.storeIn
	return d
}

func (d *GCSDestination) Name() string { return "gcs" }

func (d *GCSDestination) Store(ctx context.Context, obj *Object) (string, error) {
	path := obj.Folder + "/" + obj.Key

	for _, bucket := range d.candidates {
		url, err := d.write(ctx, bucket, path, obj)
		if err == nil {
			return url, nil
		}

		if isBucketNotFound(err) {
			d.log.Warn().
				Str("bucket", bucket).
				Str("key", obj.Key).
				Msg("bucket does not exist, trying next candidate")
			continue
		}

		// Non-recoverable: stop the candidate loop so the real failure
		// surfaces instead of a chain of not-found noise.
		return "", fmt.Errorf("bucket %s: %w", bucket, err)
	}

	return "", fmt.Errorf("no usable bucket among %d candidates", len(d.candidates))
}

func (d *GCSDestination) storeIn(ctx context.Context, bucket, path string, obj *Object) (string, error) {
	if !d.clients.StorageReady() {
		return "", fmt.Errorf("storage backend not ready: %w", d.clients.InitError())
	}

	bh, err := d.clients.Storage.Bucket(bucket)
	if err != nil {
		return "", fmt.Errorf("open bucket: %w", err)
	}

	w := bh.Object(path).NewWriter(ctx)
	w.ContentType = obj.ContentType
	if _, err := w.Write(obj.Bytes); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object: %w", err)
	}

	// Public read is a second call after the write; a crash in between
	// leaves an object that exists but is not yet public.
	if err := bh.Object(path).ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return "", fmt.Errorf("make object public: %w", err)
	}

	// The URL uses the bucket name the backend reports, not the requested
	// candidate, since the backend may normalize it.
	actual := bucket
	if attrs := w.Attrs(); attrs != nil && attrs.Bucket != "" {
		actual = attrs.Bucket
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", actual, path), nil
}

func isBucketNotFound(err error) bool {
	if errors.Is(err, storage.ErrBucketNotExist) {
		return true
	}
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == 404
}
