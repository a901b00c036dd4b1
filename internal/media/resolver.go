// Package media turns artwork poster references into URLs a browser can load.
package media

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// PresignTTL is how long a presigned poster URL stays valid.
const PresignTTL = 15 * time.Minute

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

// Config selects the bucket holding poster objects.
type Config struct {
	Bucket    string // empty disables presigning
	Region    string
	Endpoint  string // S3-compatible base endpoint; path-style addressing when set
	AccessKey string
	SecretKey string
}

// Resolver maps poster references to URLs.
type Resolver struct {
	bucket  string
	presign *s3.PresignClient
	log     *zap.Logger
}

// NewResolver builds a Resolver. Without a bucket every reference passes through.
func NewResolver(ctx context.Context, cfg Config, log *zap.Logger) (*Resolver, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Resolver{bucket: cfg.Bucket, log: log}
	if cfg.Bucket == "" {
		return r, nil
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	r.presign = newS3PresignClient(client)
	return r, nil
}

// IsDirect reports whether ref is already a URL or an absolute path.
func IsDirect(ref string) bool {
	return strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "/")
}

// Resolve returns a loadable URL for ref. Object keys are presigned for GET;
// if presigning is unavailable or fails the raw reference is returned.
func (r *Resolver) Resolve(ctx context.Context, ref string) string {
	if ref == "" || IsDirect(ref) || r == nil || r.presign == nil {
		return ref
	}
	req, err := presignGetObject(r.presign, ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(ref),
	}, s3.WithPresignExpires(PresignTTL))
	if err != nil {
		r.log.Warn("presign poster", zap.String("key", ref), zap.Error(err))
		return ref
	}
	return req.URL
}
