package storage

import (
	"Foodgram-Backend/domain"
	"context"
	"encoding/base64"
	"strings"
)

// FileStorage stores recipe images and hands out the links they are served
// under.
type FileStorage interface {
	UploadFile(ctx context.Context, name string, body []byte, contentType string, folder string) (string, error)
	GetPublicLinkKey(objectKey string) string
	GetObjectKeyFromLink(link string) string
	DeleteFile(ctx context.Context, objectKey string) error
}

var AllowImage = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DecodeDataURI splits a "data:<type>;base64,<payload>" image into its
// content type, file extension and decoded bytes.
func DecodeDataURI(uri string) (contentType, ext string, body []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", "", nil, domain.ErrInvalidImage
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", nil, domain.ErrInvalidImage
	}
	contentType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", "", nil, domain.ErrInvalidImage
	}
	ext, ok = AllowImage[contentType]
	if !ok {
		return "", "", nil, domain.ErrInvalidImage
	}
	body, err = base64.StdEncoding.DecodeString(payload)
	if err != nil || len(body) == 0 {
		return "", "", nil, domain.ErrInvalidImage
	}
	return contentType, ext, body, nil
}
