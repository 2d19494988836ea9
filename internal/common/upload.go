package common

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"

	"clubhouse/internal/constants"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrPhotoType       = errors.New("photo must be a JPEG or PNG image")
	ErrPhotoTooLarge   = errors.New("photo exceeds the size limit")
	ErrPhotoUnreadable = errors.New("photo could not be read")
)

var allowedPhotoTypes = []string{"image/jpeg", "image/png"}

// PhotoUpload is a validated image ready to be stored
type PhotoUpload struct {
	MIME string
	Data string // base64
}

// ParsePhoto sniffs the content type and encodes the image.
// The declared Content-Type of the upload is ignored.
func ParsePhoto(raw []byte) (*PhotoUpload, error) {
	if len(raw) == 0 {
		return nil, ErrPhotoUnreadable
	}
	if len(raw) > constants.MaxPhotoBytes {
		return nil, ErrPhotoTooLarge
	}

	mtype := mimetype.Detect(raw)
	if !mimetype.EqualsAny(mtype.String(), allowedPhotoTypes...) {
		return nil, fmt.Errorf("%w: got %s", ErrPhotoType, mtype.String())
	}

	return &PhotoUpload{
		MIME: mtype.String(),
		Data: base64.StdEncoding.EncodeToString(raw),
	}, nil
}

// ReadPhoto pulls an optional image out of a parsed multipart form.
// It returns nil, nil when the field is absent or empty.
func ReadPhoto(r *http.Request, field string) (*PhotoUpload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrPhotoUnreadable, err)
	}
	defer file.Close()

	if header.Size == 0 {
		return nil, nil
	}
	if header.Size > constants.MaxPhotoBytes {
		return nil, ErrPhotoTooLarge
	}

	raw, err := io.ReadAll(io.LimitReader(file, constants.MaxPhotoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPhotoUnreadable, err)
	}
	return ParsePhoto(raw)
}

// DecodePhoto returns the raw bytes of a stored photo
func DecodePhoto(data string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPhotoUnreadable, err)
	}
	return raw, nil
}
