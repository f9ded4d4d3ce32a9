package uploads

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3API is the slice of the S3 client the destination needs; tests plug in
// a recorder.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Destination is the optional secondary provider tier, used when an
// S3-compatible bucket is configured alongside the primary.
type S3Destination struct {
	client   S3API
	bucket   string
	region   string
	endpoint string
}

func NewS3Destination(client S3API, bucket, region, endpoint string) *S3Destination {
	return &S3Destination{client: client, bucket: bucket, region: region, endpoint: endpoint}
}

func (d *S3Destination) Name() string { return "s3" }

func (d *S3Destination) Store(ctx context.Context, obj *Object) (string, error) {
	key := obj.Folder + "/" + obj.Key

	_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(obj.Bytes),
		ContentType: aws.String(obj.ContentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("put object to s3 bucket %s: %w", d.bucket, err)
	}

	if d.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(d.endpoint, "/"), d.bucket, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", d.bucket, d.region, key), nil
}
