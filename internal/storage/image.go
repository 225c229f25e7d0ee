// Package storage keeps uploaded course images on local disk.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidImageType = errors.New("only .jpg, .jpeg and .png files are allowed")
	ErrImageTooLarge    = errors.New("image exceeds the maximum upload size")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidateImageExtension returns the lower-cased extension of filename, or
// ErrInvalidImageType when it is not an allowed image type.
func ValidateImageExtension(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", ErrInvalidImageType
	}
	return ext, nil
}

// StoredImage describes a file written by an ImageStore
type StoredImage struct {
	FileName  string
	LocalPath string
}

// ImageStore persists course images and builds their public URLs.
type ImageStore interface {
	Save(ctx context.Context, courseID uint, originalName string, r io.Reader) (StoredImage, error)
	Delete(localPath string) error
	PublicURL(baseURL, fileName string) string
}

// LocalImageStore writes images under a single directory served at publicPath.
type LocalImageStore struct {
	dir        string
	publicPath string
	maxBytes   int64
	log        *zap.Logger
}

// NewLocalImageStore returns a store rooted at dir. maxBytes <= 0 disables the size cap.
func NewLocalImageStore(dir, publicPath string, maxBytes int64, log *zap.Logger) *LocalImageStore {
	return &LocalImageStore{
		dir:        dir,
		publicPath: "/" + strings.Trim(publicPath, "/"),
		maxBytes:   maxBytes,
		log:        log,
	}
}

// Dir returns the directory images are written to
func (s *LocalImageStore) Dir() string {
	return s.dir
}

// PublicPath returns the URL path prefix images are served under
func (s *LocalImageStore) PublicPath() string {
	return s.publicPath
}

// Save validates the extension of originalName, then writes r to
// "{courseID}-{uuid}{ext}". Nothing touches the disk for a rejected type.
func (s *LocalImageStore) Save(ctx context.Context, courseID uint, originalName string, r io.Reader) (StoredImage, error) {
	ext, err := ValidateImageExtension(originalName)
	if err != nil {
		return StoredImage{}, err
	}
	if err := ctx.Err(); err != nil {
		return StoredImage{}, err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return StoredImage{}, fmt.Errorf("failed to create image directory: %w", err)
	}

	fileName := strconv.FormatUint(uint64(courseID), 10) + "-" + uuid.NewString() + ext
	localPath := filepath.Join(s.dir, fileName)

	dst, err := os.OpenFile(localPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return StoredImage{}, fmt.Errorf("failed to create image file: %w", err)
	}

	src := r
	if s.maxBytes > 0 {
		src = io.LimitReader(r, s.maxBytes+1)
	}
	written, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()

	switch {
	case copyErr != nil:
		err = fmt.Errorf("failed to write image file: %w", copyErr)
	case closeErr != nil:
		err = fmt.Errorf("failed to write image file: %w", closeErr)
	case s.maxBytes > 0 && written > s.maxBytes:
		err = ErrImageTooLarge
	}
	if err != nil {
		_ = os.Remove(localPath)
		return StoredImage{}, err
	}

	s.log.Debug("Stored course image",
		zap.Uint("course_id", courseID),
		zap.String("file", fileName),
		zap.Int64("bytes", written))

	return StoredImage{FileName: fileName, LocalPath: localPath}, nil
}

// Delete removes a previously stored file. A missing file is not an error.
func (s *LocalImageStore) Delete(localPath string) error {
	if localPath == "" {
		return nil
	}
	if err := os.Remove(localPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	return nil
}

// PublicURL joins the request base URL, the public path and fileName.
func (s *LocalImageStore) PublicURL(baseURL, fileName string) string {
	return strings.TrimRight(baseURL, "/") + path.Join(s.publicPath, fileName)
}
