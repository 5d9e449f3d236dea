package initializers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// InitAWS builds the presign client used to hand out artifact download links.
// It returns nil when no bucket is configured.
func InitAWS(ctx context.Context, cfg Config) (*s3.PresignClient, error) {
	if cfg.AWSBucket == "" {
		return nil, nil
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return s3.NewPresignClient(s3.NewFromConfig(awsCfg)), nil
}
