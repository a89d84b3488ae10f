package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"pxltravel/config"
	"pxltravel/infras/otel"
	"pxltravel/shared/constant"
)

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"
	otelAttrSize      = "size"
)

// S3 stores opaque objects in a single bucket and hands back their public URL.
type S3 interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (url string, err error)
	PublicURL(key string) string
}

type s3Impl struct {
	client *s3.Client
	config *config.Config
	otel   otel.Otel
}

func (svc *s3Impl) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Upload")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bucket := svc.config.External.S3.BucketName

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: key,
		otelAttrBucket:    bucket,
		otelAttrSize:      size,
	})

	buf := bytes.NewBuffer(make([]byte, 0, max(size, 0)))

	if _, err = buf.ReadFrom(body); err != nil {
		return constant.Empty, fmt.Errorf("failed to read object body: %w", err)
	}

	reader := bytes.NewReader(buf.Bytes())

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(reader.Size()),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upload object to S3")

		return constant.Empty, fmt.Errorf("failed to upload object to S3: %w", err)
	}

	return svc.PublicURL(key), nil
}

// PublicURL prefers the public domain and falls back to the path-style API URL.
func (svc *s3Impl) PublicURL(key string) string {
	key = strings.TrimPrefix(key, "/")

	if domain := strings.TrimSuffix(svc.config.External.S3.PublicDomain, "/"); domain != constant.Empty {
		return fmt.Sprintf("%s/%s", domain, key)
	}

	endpoint := strings.TrimSuffix(svc.config.External.S3.APIEndpoint, "/")

	return fmt.Sprintf("%s/%s/%s", endpoint, svc.config.External.S3.BucketName, key)
}

func New(config *config.Config, otel otel.Otel) S3 {
	staticProvider := credentials.NewStaticCredentialsProvider(
		config.External.S3.AccessKeyID,
		config.External.S3.SecretAccessKey,
		"",
	)

	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(staticProvider),
		awsConfig.WithRegion(config.External.S3.Region),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to load AWS configuration")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if config.External.S3.APIEndpoint != constant.Empty {
			o.BaseEndpoint = aws.String(config.External.S3.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	return &s3Impl{
		client: client,
		config: config,
		otel:   otel,
	}
}
