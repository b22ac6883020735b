package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cc "github.com/dmitrijs2005/mhst/internal/client/config"
	"github.com/dmitrijs2005/mhst/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignGetObject = origGet
	})
}

func testConfig() *cc.Config {
	return &cc.Config{
		MediaBucket:    "mhst",
		MediaRegion:    "eu-west-1",
		MediaEndpoint:  "http://127.0.0.1:9000",
		MediaAccessKey: "minioadmin",
		MediaSecretKey: "minioadmin",
		MediaURLExpiry: time.Hour,
	}
}

func TestResolve_PassThrough(t *testing.T) {
	stubSeams(t)
	presignGetObject = func(*s3.PresignClient, context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		t.Fatal("presign must not be called")
		return nil, nil
	}

	r := NewResolver(testConfig(), logging.NewNop())
	for _, ref := range []string{"", "http://x/a.png", "https://x/b.png"} {
		got, err := r.Resolve(context.Background(), ref)
		require.NoError(t, err)
		assert.Equal(t, ref, got)
	}

	disabled := NewResolver(&cc.Config{}, logging.NewNop())
	assert.False(t, disabled.Enabled())
	got, err := disabled.Resolve(context.Background(), "articles/1.png")
	require.NoError(t, err)
	assert.Equal(t, "articles/1.png", got)
}

func TestResolve_PresignsKeys(t *testing.T) {
	stubSeams(t)

	loads := 0
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		loads++
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-west-1", lo.Region)
		assert.NotNil(t, lo.Credentials)
		return aws.Config{}, nil
	}

	var endpoint string
	var pathStyle bool
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		endpoint = aws.ToString(opts.BaseEndpoint)
		pathStyle = opts.UsePathStyle
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}

	var gotBucket, gotKey string
	var gotExpires time.Duration
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		gotBucket, gotKey = aws.ToString(in.Bucket), aws.ToString(in.Key)
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		gotExpires = po.Expires
		return &v4.PresignedHTTPRequest{URL: "https://signed/" + gotKey}, nil
	}

	r := NewResolver(testConfig(), logging.NewNop())
	url, err := r.Resolve(context.Background(), "/therapists/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://signed/therapists/1.jpg", url)
	assert.Equal(t, "mhst", gotBucket)
	assert.Equal(t, "therapists/1.jpg", gotKey)
	assert.Equal(t, time.Hour, gotExpires)
	assert.Equal(t, "http://127.0.0.1:9000", endpoint)
	assert.True(t, pathStyle)

	_, err = r.Resolve(context.Background(), "articles/2.jpg")
	require.NoError(t, err)
	assert.Equal(t, 1, loads)
}

func TestResolve_Errors(t *testing.T) {
	t.Run("config load", func(t *testing.T) {
		stubSeams(t)
		loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errors.New("no config")
		}

		r := NewResolver(testConfig(), logging.NewNop())
		_, err := r.Resolve(context.Background(), "k")
		require.ErrorContains(t, err, "no config")
	})

	t.Run("presign", func(t *testing.T) {
		stubSeams(t)
		loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, nil
		}
		newS3ClientFromConfig = func(aws.Config, ...func(*s3.Options)) *s3.Client { return &s3.Client{} }
		newS3PresignClient = func(*s3.Client) *s3.PresignClient { return &s3.PresignClient{} }
		presignGetObject = func(*s3.PresignClient, context.Context, *s3.GetObjectInput, ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			return nil, errors.New("denied")
		}

		r := NewResolver(testConfig(), logging.NewNop())
		_, err := r.Resolve(context.Background(), "k")
		require.ErrorContains(t, err, "presign k: denied")
	})
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://a"))
	assert.False(t, IsURL("s3://a"))
	assert.False(t, IsURL("a/b"))
}
