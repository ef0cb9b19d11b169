// Package storage contiene los adaptadores de ports.FileUploader (IPFS vía Pinata y S3).
package storage

import (
	"context"
	"fmt"

	"github.com/jhoicas/albaranes-api/internal/application/ports"
	"github.com/jhoicas/albaranes-api/pkg/config"
)

// New elige el uploader según STORAGE_BACKEND.
func New(ctx context.Context, cfg config.StorageConfig) (ports.FileUploader, error) {
	switch cfg.Backend {
	case config.StorageIPFS:
		return NewPinataUploader(PinataConfig{
			JWT:        cfg.PinataJWT,
			APIKey:     cfg.PinataAPIKey,
			SecretKey:  cfg.PinataSecretKey,
			GatewayURL: cfg.PinataGateway,
		}), nil
	case config.StorageS3:
		return NewS3Uploader(ctx, S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
	default:
		return nil, fmt.Errorf("storage: backend no soportado %q", cfg.Backend)
	}
}
