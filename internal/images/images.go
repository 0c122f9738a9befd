// Package images holds the ordered image list shared by photo and award
// posts. The list keeps insertion order and is never allowed to become empty
// once the post exists.
package images

import (
	"errors"
	"strings"
)

const (
	// MaxPerPost bounds the image list at creation time.
	MaxPerPost = 10
	// MaxPerPostUpdate bounds the add action on the upload-update path.
	MaxPerPostUpdate = 20

	MaxAltLength = 200
)

var (
	ErrCollectionFull     = errors.New("image collection is full")
	ErrLastImageProtected = errors.New("cannot delete the last image")
	ErrIndexOutOfRange    = errors.New("image index out of range")
	ErrInvalidAltText     = errors.New("alt text must not be empty")
)

type Image struct {
	Src      string `bson:"src" json:"src" validate:"required,url"`
	Alt      string `bson:"alt" json:"alt" validate:"required,max=200"`
	PublicID string `bson:"cloudinaryPublicId" json:"cloudinaryPublicId" validate:"required"`
}

// Add appends img and returns the new list. The blob upload happens before
// Add is called, so a failed upload never reaches this point.
func Add(list []Image, img Image, maxSize int) ([]Image, error) {
	if len(list) >= maxSize {
		return nil, ErrCollectionFull
	}
	out := make([]Image, len(list), len(list)+1)
	copy(out, list)
	return append(out, img), nil
}

// Remove splices out the entry at index and returns the new list together
// with the removed entry, whose storage reference the caller submits for
// best-effort deletion. Subsequent indices shift down by one.
func Remove(list []Image, index int) ([]Image, Image, error) {
	if index < 0 || index >= len(list) {
		return nil, Image{}, ErrIndexOutOfRange
	}
	if len(list) == 1 {
		return nil, Image{}, ErrLastImageProtected
	}
	removed := list[index]
	out := make([]Image, 0, len(list)-1)
	out = append(out, list[:index]...)
	out = append(out, list[index+1:]...)
	return out, removed, nil
}

// RenameAlt replaces the alt text at index with the trimmed newAlt.
func RenameAlt(list []Image, index int, newAlt string) ([]Image, error) {
	if index < 0 || index >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	trimmed := strings.TrimSpace(newAlt)
	if trimmed == "" {
		return nil, ErrInvalidAltText
	}
	out := make([]Image, len(list))
	copy(out, list)
	out[index].Alt = trimmed
	return out, nil
}

// Validate checks the creation-time invariant: 1..maxSize entries, each with
// a source URL, non-empty alt and a storage reference.
func Validate(list []Image, maxSize int) error {
	if len(list) == 0 {
		return errors.New("at least one image is required")
	}
	if len(list) > maxSize {
		return ErrCollectionFull
	}
	for _, img := range list {
		if strings.TrimSpace(img.Src) == "" {
			return errors.New("image src is required")
		}
		if strings.TrimSpace(img.Alt) == "" {
			return ErrInvalidAltText
		}
		if len(img.Alt) > MaxAltLength {
			return errors.New("alt text cannot exceed 200 characters")
		}
		if strings.TrimSpace(img.PublicID) == "" {
			return errors.New("image public id is required")
		}
	}
	return nil
}
