package routes

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"sharpcut/cmd/internal/utils/apierror"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxUploadBytes = 5 << 20

var imageExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

// stageUpload copies the multipart file into a temp file and returns its
// path. A request without a file yields an empty path and no error, so the
// service can apply its gates in order. The caller removes the temp file.
func stageUpload(c echo.Context, field string) (string, apierror.ErrorResponse) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}

	if fh.Size > maxUploadBytes {
		return "", apierror.FileTooLargeError
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !imageExtensions[ext] {
		return "", apierror.NotAnImageError
	}

	src, err := fh.Open()
	if err != nil {
		return "", apierror.InternalServerError
	}
	defer src.Close()

	path := filepath.Join(os.TempDir(), uuid.NewString()+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", apierror.InternalServerError
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", apierror.InternalServerError
	}
	return path, nil
}

// removeStaged discards the temp artifact unconditionally, even when the
// request later failed.
func removeStaged(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}
