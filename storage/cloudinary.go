package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const cloudinaryDeliveryHost = "https://res.cloudinary.com/"

// Cloudinary stores blobs as raw assets whose public ID is the object key,
// so the delivery URL is <host>/<cloud>/raw/upload/<key>.
type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cloudinaryURL string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("initialize cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

// BaseURL is the public delivery root for this account.
func (s *Cloudinary) BaseURL() string {
	return cloudinaryDeliveryHost + s.cld.Config.Cloud.CloudName
}

func (s *Cloudinary) Put(ctx context.Context, key string, body io.Reader, contentType string) error {
	result, err := s.cld.Upload.Upload(ctx, body, uploader.UploadParams{
		PublicID:       key,
		ResourceType:   "raw",
		Overwrite:      api.Bool(true),
		UniqueFilename: api.Bool(false),
	})
	if err != nil {
		return fmt.Errorf("cloudinary upload %s: %w", key, err)
	}
	if result != nil && result.Error.Message != "" {
		return fmt.Errorf("cloudinary upload %s: %w", key, errors.New(result.Error.Message))
	}
	return nil
}
