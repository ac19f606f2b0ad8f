package shared

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
)

// UploadPayload is the JSON envelope the backend expects for image uploads.
//
// FileContent is standard base64 of the raw file bytes, with no line
// wrapping and no data-URL prefix.
type UploadPayload struct {
	UserID      string `json:"user_id"`
	Filename    string `json:"filename"`
	FileContent string `json:"file_content"`
}

// EncodeImageFile reads the file at path and produces an [UploadPayload]
// for the given user. The raw bytes never leave this function undecoded.
//
// Any read failure wraps [ErrEncodingFailed]; no partial payload is returned.
func EncodeImageFile(path, userID string) (*UploadPayload, error) {
	data, err := VerifyAndReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodingFailed, err)
	}

	return &UploadPayload{
		UserID:      userID,
		Filename:    filepath.Base(path),
		FileContent: base64.StdEncoding.EncodeToString(data),
	}, nil
}
