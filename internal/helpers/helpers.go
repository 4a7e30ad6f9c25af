package helpers

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	TransactionsFolder = "transactions"
	PostersFolder      = "events/posters"
	QRCodesFolder      = "events/qrcodes"
	CoreTeamFolder     = "core-team"
	MentorsFolder      = "mentors"
)

// TransactionFolder is where payment proofs for one event are kept.
func TransactionFolder(eventID string) string {
	return path.Join(TransactionsFolder, eventID)
}

// ImageUploader stores images on Cloudinary and hands back their public URL.
type ImageUploader struct {
	cld  *cloudinary.Cloudinary
	tags []string
}

func NewImageUploader(cld *cloudinary.Cloudinary) *ImageUploader {
	return &ImageUploader{
		cld:  cld,
		tags: []string{"scorecraft"},
	}
}

func (u *ImageUploader) Upload(ctx context.Context, r io.Reader, filename, folder string) (string, error) {
	if u.cld == nil {
		return "", fmt.Errorf("cloudinary client is not initialized")
	}
	if r == nil {
		return "", fmt.Errorf("no file content for %q", filename)
	}

	uploadResult, err := u.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder: folder,
		Tags:   u.tags,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image %s: %v", filename, err)
	}
	if uploadResult == nil || uploadResult.SecureURL == "" {
		msg := ""
		if uploadResult != nil {
			msg = uploadResult.Error.Message
		}
		return "", fmt.Errorf("failed to upload image %s: %s", filename, StringTrim(msg, "no url returned"))
	}
	return uploadResult.SecureURL, nil
}

// StringTrim returns s without surrounding whitespace, or fallback when nothing is left.
func StringTrim(s, fallback string) string {
	if t := strings.TrimSpace(s); t != "" {
		return t
	}
	return fallback
}
