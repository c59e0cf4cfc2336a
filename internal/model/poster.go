package model

import "errors"

const (
	MaxPosterSizeBytes = 5 * 1024 * 1024 // 5MB upload limit
	PosterWidth        = 500
	PosterHeight       = 750
	PosterQuality      = 85
	PosterFolder       = "posters"
	PosterExt          = ".jpg"
	PosterCacheControl = "public, max-age=31536000" // 1 year
)

// Supported image content types for poster uploads
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

// Domain errors for poster uploads
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
	ErrEmptyUpload      = errors.New("empty upload")
)

// UploadResult represents the uploaded object location.
// URL is what ends up in Movie.ImagePath; Key is the object key inside the bucket.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// IsAllowedImageType reports if the provided content type is supported
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}
