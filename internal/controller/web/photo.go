package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/betterthansis/unisis/internal/model"
)

const maxPhotoSize = 2 << 20

var photoExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// savePhoto stores the uploaded "photo" file under a random name and returns that name.
// A request without a photo yields an empty name.
func (s *server) savePhoto(c echo.Context) (string, error) {
	fh, err := c.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read photo: %w", err)
	}
	if s.opts.PhotoDir == "" {
		return "", nil
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !photoExtensions[ext] {
		return "", model.FieldValidationError("photo", "must be a jpg, png or gif image")
	}
	if fh.Size > maxPhotoSize {
		return "", model.FieldValidationError("photo", "must be at most 2MB")
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open photo: %w", err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.opts.PhotoDir, name))
	if err != nil {
		return "", fmt.Errorf("create photo: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}

	s.logger.Info("Photo stored",
		zap.String("request_id", requestID(c)),
		zap.String("name", name),
		zap.Int64("size", fh.Size))
	return name, nil
}

func (s *server) removePhoto(name string) {
	if name == "" || s.opts.PhotoDir == "" {
		return
	}
	if err := os.Remove(filepath.Join(s.opts.PhotoDir, name)); err != nil {
		s.logger.Warn("Failed to remove photo", zap.String("name", name), zap.Error(err))
	}
}
