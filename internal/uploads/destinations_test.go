package uploads

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDestination_WritesUnderPublicDir(t *testing.T) {
	dir := t.TempDir()
	d := NewLocalDestination(dir)

	url, err := d.Store(context.Background(), &Object{
		Key:         "123-logo.png",
		Folder:      FolderUploads,
		ContentType: "image/png",
		Bytes:       []byte("png-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/123-logo.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "uploads", "123-logo.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestLocalDestination_CreatesFolderPerUpload(t *testing.T) {
	dir := t.TempDir()
	d := NewLocalDestination(dir)

	_, err := d.Store(context.Background(), &Object{Key: "k", Folder: FolderDocuments, Bytes: []byte("x")})
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "documents"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRelayDestination_ReturnsHostedURLFromBody(t *testing.T) {
	var gotMethod, gotPath, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		io.WriteString(w, "https://hosted.example.com/get/abc/123-logo.png\n")
	}))
	defer srv.Close()

	d := NewRelayDestination(srv.URL + "/")
	url, err := d.Store(context.Background(), &Object{
		Key:         "123-logo.png",
		Folder:      FolderUploads,
		ContentType: "image/png",
		Bytes:       []byte("png-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://hosted.example.com/get/abc/123-logo.png", url)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/123-logo.png", gotPath)
	assert.Equal(t, "image/png", gotType)
	assert.Equal(t, []byte("png-bytes"), gotBody)
}

func TestRelayDestination_EmptyBodyFallsBackToPutTarget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	d := NewRelayDestination(srv.URL)
	url, err := d.Store(context.Background(), &Object{Key: "k.png", Folder: FolderUploads, Bytes: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/k.png", url)
}

func TestRelayDestination_Non2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	d := NewRelayDestination(srv.URL)
	_, err := d.Store(context.Background(), &Object{Key: "k.png", Folder: FolderUploads, Bytes: []byte("x")})
	assert.Error(t, err)
}

type fakeS3 struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Destination_BuildsRegionalURL(t *testing.T) {
	client := &fakeS3{}
	d := NewS3Destination(client, "portfolio-assets", "eu-west-1", "")

	url, err := d.Store(context.Background(), &Object{
		Key:         "123-logo.png",
		Folder:      FolderUploads,
		ContentType: "image/png",
		Bytes:       []byte("x"),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://portfolio-assets.s3.eu-west-1.amazonaws.com/uploads/123-logo.png", url)

	require.NotNil(t, client.input)
	assert.Equal(t, "portfolio-assets", aws.ToString(client.input.Bucket))
	assert.Equal(t, "uploads/123-logo.png", aws.ToString(client.input.Key))
	assert.Equal(t, "image/png", aws.ToString(client.input.ContentType))
}

func TestS3Destination_CustomEndpointURL(t *testing.T) {
	d := NewS3Destination(&fakeS3{}, "assets", "us-east-1", "https://minio.internal:9000/")

	url, err := d.Store(context.Background(), &Object{Key: "k", Folder: FolderDocuments, Bytes: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "https://minio.internal:9000/assets/documents/k", url)
}

func TestS3Destination_PropagatesPutError(t *testing.T) {
	d := NewS3Destination(&fakeS3{err: errors.New("access denied")}, "assets", "us-east-1", "")

	_, err := d.Store(context.Background(), &Object{Key: "k", Folder: FolderUploads, Bytes: []byte("x")})
	assert.ErrorContains(t, err, "access denied")
}
