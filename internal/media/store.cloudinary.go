package media

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore uploads to a Cloudinary folder and returns the secure URL
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStore builds a client from account credentials
func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary client: %w", err)
	}
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Name() string { return BackendCloudinary }

// Upload sends the image; the object key gives the folder and public id
func (s *CloudinaryStore) Upload(ctx context.Context, obj Object) (string, error) {
	folder, file := path.Split(obj.Key)
	publicID := strings.TrimSuffix(file, path.Ext(file))

	resp, err := s.cld.Upload.Upload(ctx, bytes.NewReader(obj.Data), uploader.UploadParams{
		Folder:   strings.TrimSuffix(folder, "/"),
		PublicID: publicID,
	})
	if err != nil {
		return "", err
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", fmt.Errorf("cloudinary: empty secure_url")
	}
	return resp.SecureURL, nil
}
