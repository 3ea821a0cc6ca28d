package media

import (
	"context"
	"fmt"
	"strings"

	"expo_leads/config"
	"expo_leads/internal/logger"
)

// Backend names accepted by MEDIA_BACKEND
const (
	BackendAuto       = "auto"
	BackendLocal      = "local"
	BackendCloudinary = "cloudinary"
	BackendGCS        = "gcs"
)

// ResolveBackend turns "auto" (or empty) into a concrete backend
func ResolveBackend(c *config.Configuration) string {
	backend := strings.ToLower(strings.TrimSpace(c.Media_Backend))
	if backend == "" || backend == BackendAuto {
		if c.Cloudinary_Name != "" && c.Cloudinary_APIKey != "" && c.Cloudinary_Secret != "" {
			return BackendCloudinary
		}
		return BackendLocal
	}
	return backend
}

// NewStore builds the configured backend wrapped with upload metrics
func NewStore(ctx context.Context, c *config.Configuration) (Store, error) {
	var (
		store Store
		err   error
	)

	backend := ResolveBackend(c)
	switch backend {
	case BackendCloudinary:
		store, err = NewCloudinaryStore(c.Cloudinary_Name, c.Cloudinary_APIKey, c.Cloudinary_Secret)
	case BackendGCS:
		store, err = NewGCSStore(ctx, c.GCS_Bucket, c.GCS_CredentialsFile)
	case BackendLocal:
		store, err = NewLocalStore(c.Local_UploadDir, c.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown media backend %q", c.Media_Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.WithModule("media").WithField("backend", backend).Info("Media store ready")
	return Instrument(store), nil
}
