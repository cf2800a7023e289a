package policysrc

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectGetter is the slice of the S3 API the source needs. A
// *s3.Client satisfies it.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a manifest object from S3, so requirement changes can
// ship without a redeploy.
//
// Example usage:
//
//	cfg, _ := config.LoadDefaultConfig(context.Background())
//	src := policysrc.NewS3Source(s3.NewFromConfig(cfg), "my-bucket", "gateview/requirements.json")
type S3Source struct {
	client ObjectGetter
	bucket string
	key    string
}

// NewS3Source creates a source for the object at bucket/key.
func NewS3Source(client ObjectGetter, bucket, key string) *S3Source {
	return &S3Source{
		client: client,
		bucket: bucket,
		key:    key,
	}
}

// Fetch implements Source.
func (s *S3Source) Fetch(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s: %w", s, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", s, err)
	}
	return data, nil
}

func (s *S3Source) String() string {
	return "s3://" + s.bucket + "/" + s.key
}
