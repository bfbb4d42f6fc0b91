package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	apperrors "recipebox/internal/errors"
)

// allowedImageTypes maps each accepted content type to the file extensions
// that may be stored for it.
var allowedImageTypes = map[string][]string{
	"image/png":  {".png"},
	"image/jpeg": {".jpg", ".jpeg"},
	"image/gif":  {".gif"},
}

// Image is an upload that passed validation.
type Image struct {
	Data        []byte
	ContentType string
	Ext         string // with leading dot, lower case
}

// ValidateImage checks that data is a decodable PNG, JPEG or GIF no larger
// than maxBytes. The content decides the type; filename only contributes its
// extension, and only when that extension matches the detected type.
func ValidateImage(filename string, data []byte, maxBytes int64) (*Image, error) {
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, apperrors.ErrImageTooLarge
	}
	if len(data) == 0 {
		return nil, apperrors.ErrInvalidImage
	}

	mt := mimetype.Detect(data)
	exts, ok := allowedImageTypes[mt.String()]
	if !ok {
		return nil, apperrors.ErrInvalidImage
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidImage, err)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !slices.Contains(exts, ext) {
		ext = exts[0]
	}
	return &Image{Data: data, ContentType: mt.String(), Ext: ext}, nil
}

// NewImageKey returns a fresh key under dir: a random uuid followed by ext.
func NewImageKey(dir, ext string) string {
	return path.Join(dir, uuid.New().String()+ext)
}
