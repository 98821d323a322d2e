package sink

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/codeleta/AutoExportElectrumPlugin/internal/format"
	"github.com/rs/zerolog"
)

type S3Config struct {
	Bucket string
	Region string
	Prefix string // optional key prefix inside the bucket
}

// Uploader is the slice of s3manager.Uploader the sink needs; tests
// substitute a stub.
type Uploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// S3 uploads each export as a timestamped CSV object. Credentials come
// from the standard AWS chain (environment, shared config, instance
// role).
type S3 struct {
	cfg      S3Config
	now      func() time.Time
	uploader Uploader
}

type S3Option func(*S3)

// WithUploader overrides the lazily constructed s3manager uploader.
func WithUploader(u Uploader) S3Option {
	return func(s *S3) {
		s.uploader = u
	}
}

func NewS3(cfg S3Config, opts ...S3Option) *S3 {
	s := &S3{
		cfg: cfg,
		now: time.Now,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		opt(s)
	}

	return s
}

func (s *S3) Name() string {
	return "s3"
}

func (s *S3) Export(ctx context.Context, table *format.Table) error {
	if s.cfg.Bucket == "" {
		zerolog.Ctx(ctx).Debug().Msg("s3 sink skipped: no bucket configured")
		return nil
	}

	up := s.uploader
	if up == nil {
		sess, err := session.NewSession(aws.NewConfig().WithRegion(s.cfg.Region))
		if err != nil {
			return fmt.Errorf("aws session: %w", err)
		}

		up = s3manager.NewUploader(sess)
	}

	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		return fmt.Errorf("serialize table: %w", err)
	}

	key := path.Join(s.cfg.Prefix, format.Filename(s.now()))

	_, err := up.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return fmt.Errorf("upload s3://%s/%s: %w", s.cfg.Bucket, key, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("bucket", s.cfg.Bucket).
		Str("key", key).
		Int("rows", table.Len()).
		Msg("exported history to s3")

	return nil
}
