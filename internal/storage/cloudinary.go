package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type CloudinaryStorage struct {
	cld       *cloudinary.Cloudinary
	cloudName string
	apiKey    string
	apiSecret string
}

func NewCloudinary(cloudName, apiKey, apiSecret string) (*CloudinaryStorage, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, errors.New("missing cloudinary credentials")
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	return &CloudinaryStorage{
		cld:       cld,
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
	}, nil
}

func (s *CloudinaryStorage) CloudName() string { return s.cloudName }
func (s *CloudinaryStorage) APIKey() string    { return s.apiKey }

func (s *CloudinaryStorage) UploadImage(ctx context.Context, file io.Reader) (UploadResult, error) {
	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         ImageFolder,
		ResourceType:   "image",
		Transformation: "w_1200,h_800,c_limit/q_auto/f_auto",
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("cloudinary image upload: %w", err)
	}
	return UploadResult{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (s *CloudinaryStorage) UploadVideo(ctx context.Context, file io.Reader) (UploadResult, error) {
	res, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       VideoFolder,
		ResourceType: "video",
		Format:       "mp4",
	})
	if err != nil {
		return UploadResult{}, fmt.Errorf("cloudinary video upload: %w", err)
	}
	return UploadResult{URL: res.SecureURL, PublicID: res.PublicID}, nil
}

func (s *CloudinaryStorage) Destroy(ctx context.Context, publicID string) error {
	return s.destroy(ctx, publicID, "image")
}

func (s *CloudinaryStorage) DestroyVideo(ctx context.Context, publicID string) error {
	return s.destroy(ctx, publicID, "video")
}

func (s *CloudinaryStorage) destroy(ctx context.Context, publicID, resourceType string) error {
	if publicID == "" {
		return errors.New("missing public id")
	}
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("cloudinary destroy: %s", res.Result)
	}
	return nil
}

// SignUploadParams produces the signature clients need for direct uploads.
func (s *CloudinaryStorage) SignUploadParams(folder string, timestamp int64) (string, error) {
	params := url.Values{}
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))
	params.Set("folder", folder)
	return api.SignParameters(params, s.apiSecret)
}

// ThumbnailURL derives a jpg poster frame from an uploaded video's public id,
// used when no explicit thumbnail file is provided.
func (s *CloudinaryStorage) ThumbnailURL(videoPublicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/video/upload/w_640,h_360,c_fill/%s.jpg", s.cloudName, videoPublicID)
}
