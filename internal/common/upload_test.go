package common

import (
	"bytes"
	"encoding/base64"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"clubhouse/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01\x01\x00\x00\x01\x00\x01\x00\x00")
)

func TestParsePhotoAcceptsPNGAndJPEG(t *testing.T) {
	photo, err := ParsePhoto(pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.MIME)
	assert.Equal(t, base64.StdEncoding.EncodeToString(pngHeader), photo.Data)

	photo, err = ParsePhoto(jpegHeader)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", photo.MIME)
}

func TestParsePhotoRejectsOtherContent(t *testing.T) {
	_, err := ParsePhoto([]byte("GIF89a\x01\x00\x01\x00"))
	assert.ErrorIs(t, err, ErrPhotoType)

	_, err = ParsePhoto([]byte("<html>not an image</html>"))
	assert.ErrorIs(t, err, ErrPhotoType)

	_, err = ParsePhoto(nil)
	assert.ErrorIs(t, err, ErrPhotoUnreadable)
}

func TestParsePhotoRejectsOversized(t *testing.T) {
	big := append(append([]byte{}, pngHeader...), make([]byte, constants.MaxPhotoBytes)...)
	_, err := ParsePhoto(big)
	assert.ErrorIs(t, err, ErrPhotoTooLarge)
}

func multipartRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "x"))
	if content != nil {
		fw, err := mw.CreateFormFile(field, "upload.bin")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(constants.MaxPhotoBytes*2))
	return req
}

func TestReadPhoto(t *testing.T) {
	photo, err := ReadPhoto(multipartRequest(t, "photo", nil), "photo")
	require.NoError(t, err)
	assert.Nil(t, photo)

	photo, err = ReadPhoto(multipartRequest(t, "photo", pngHeader), "photo")
	require.NoError(t, err)
	require.NotNil(t, photo)
	assert.Equal(t, "image/png", photo.MIME)

	raw, err := DecodePhoto(photo.Data)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, raw)

	_, err = ReadPhoto(multipartRequest(t, "photo", []byte("plain text")), "photo")
	assert.ErrorIs(t, err, ErrPhotoType)
}
