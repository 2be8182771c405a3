package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// uploader is the part of *s3manager.Uploader the store uses.
type uploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// S3 uploads objects to a bucket and returns the location S3 reports.
type S3 struct {
	up     uploader
	bucket string
}

// NewS3 builds a session from the default AWS credential chain.
func NewS3(region, bucket string) (*S3, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("storage.NewS3: session: %w", err)
	}
	return &S3{up: s3manager.NewUploader(sess), bucket: bucket}, nil
}

// Put implements Store.
func (s *S3) Put(ctx context.Context, folder, filename, contentType string, body io.Reader) (string, error) {
	key := objectKey(folder, filename)

	in := &s3manager.UploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	out, err := s.up.UploadWithContext(ctx, in)
	if err != nil {
		if request.IsErrorThrottle(err) {
			return "", fmt.Errorf("storage.S3.Put: throttled: %w", err)
		}
		return "", fmt.Errorf("storage.S3.Put: %s: %w", key, err)
	}
	return out.Location, nil
}
