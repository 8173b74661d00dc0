package cloudinary

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/spf13/viper"
)

// Client uploads product images to the Cloudinary media store.
type Client struct {
	cld *cloudinary.Cloudinary
}

// MustNewClient creates a Cloudinary client from environment credentials.
func MustNewClient() *Client {
	cld, err := cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
	if err != nil {
		panic(fmt.Sprintf("failed to create cloudinary client: %v", err))
	}

	return &Client{cld: cld}
}

// Upload stores an image and returns its public HTTPS URL.
func (c *Client) Upload(ctx context.Context, image io.Reader) (string, error) {
	resp, err := c.cld.Upload.Upload(ctx, image, uploader.UploadParams{
		Folder: viper.GetString("cloudinary.folder"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return resp.SecureURL, nil
}
