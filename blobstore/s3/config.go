package s3

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewFromConfig creates a Store from an AWS SDK config.
func NewFromConfig(cfg aws.Config, bucket, rootPrefix string, optFns ...func(o *StoreOptions)) *Store {
	return NewStore(s3.NewFromConfig(cfg), bucket, rootPrefix, optFns...)
}

// NewFromEnv creates a Store using the default AWS credential chain
// (environment, shared config, instance metadata).
func NewFromEnv(ctx context.Context, bucket, rootPrefix string, optFns ...func(o *StoreOptions)) (*Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return NewFromConfig(cfg, bucket, rootPrefix, optFns...), nil
}
