// Package media turns stored image references into URLs the client can
// fetch.
//
// A reference is either empty, an absolute http(s) URL, or the key of an
// object in the configured S3 bucket. Keys are resolved to presigned GET
// URLs; without a bucket they are returned unchanged.
package media

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cc "github.com/dmitrijs2005/mhst/internal/client/config"
	"github.com/dmitrijs2005/mhst/internal/logging"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Resolver resolves image references.
type Resolver struct {
	config *cc.Config
	log    logging.Logger

	once    sync.Once
	presign *s3.PresignClient
	initErr error
}

func NewResolver(config *cc.Config, log logging.Logger) *Resolver {
	return &Resolver{config: config, log: log.With("module", "media")}
}

// Enabled reports whether object keys are presigned.
func (r *Resolver) Enabled() bool {
	return r.config.MediaBucket != ""
}

func (r *Resolver) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	r.once.Do(func() {
		opts := []func(*config.LoadOptions) error{config.WithRegion(r.config.MediaRegion)}
		if r.config.MediaAccessKey != "" {
			opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				r.config.MediaAccessKey,
				r.config.MediaSecretKey,
				"",
			)))
		}

		cfg, err := loadDefaultAWSConfig(ctx, opts...)
		if err != nil {
			r.initErr = err
			return
		}

		client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
			if r.config.MediaEndpoint != "" {
				o.BaseEndpoint = aws.String(r.config.MediaEndpoint)
				o.UsePathStyle = true
			}
		})
		r.presign = newS3PresignClient(client)
	})
	return r.presign, r.initErr
}

// IsURL reports whether ref is an absolute http or https URL.
func IsURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// Resolve returns a fetchable URL for ref.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	if ref == "" || IsURL(ref) || !r.Enabled() {
		return ref, nil
	}

	presignClient, err := r.getPresignClient(ctx)
	if err != nil {
		r.log.Error(ctx, "s3 client init failed", "error", err)
		return "", fmt.Errorf("media: %w", err)
	}

	bucket := r.config.MediaBucket
	key := strings.TrimPrefix(ref, "/")

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(r.expiry()))
	if err != nil {
		return "", fmt.Errorf("media: presign %s: %w", key, err)
	}

	return req.URL, nil
}

func (r *Resolver) expiry() time.Duration {
	if r.config.MediaURLExpiry > 0 {
		return r.config.MediaURLExpiry
	}
	return 15 * time.Minute
}
