package blob

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/technoflash/technoflash/internal/model"
)

type S3Store struct { // implements Store
	client *s3.Client

	bucket        string
	publicBaseURL string
	limits        limits
}

// NewS3Store builds an S3-compatible store. A non-positive maxPayload or
// empty defaultFolder falls back to the package defaults.
func NewS3Store(accessKeyID, accessKeySecret, baseEndpoint, bucket, publicBaseURL string, maxPayload int64, defaultFolder string) *S3Store {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, accessKeySecret, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		blobLogger.Fatal().Err(err).Msg("Error initializing S3 client")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if baseEndpoint != "" {
			o.BaseEndpoint = aws.String(baseEndpoint)
		}
	})

	return &S3Store{
		client: client,

		bucket:        bucket,
		publicBaseURL: publicBaseURL,
		limits:        newLimits(maxPayload, defaultFolder),
	}
}

func (s *S3Store) Put(ctx context.Context, req PutRequest) (PutResult, error) {
	key, mimeType, err := prepare(req, s.limits)
	if err != nil {
		return PutResult{}, err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(req.Payload),
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return PutResult{}, fmt.Errorf("%w: %v", model.ErrStorage, err)
	}

	blobLogger.Info().
		Str("bucket", s.bucket).
		Str("key", key).
		Int("size", len(req.Payload)).
		Msg("Stored object")

	return PutResult{
		URL:      publicURL(s.publicBaseURL, key),
		Path:     key,
		MimeType: mimeType,
		Size:     int64(len(req.Payload)),
	}, nil
}
