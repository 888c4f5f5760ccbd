// Copyright (c) 2026 Tsuzuri. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage persists uploaded files (profile icons) and returns the
stable public path under which they are served.
*/
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/taibuivan/tsuzuri/internal/platform/apperr"
	"github.com/taibuivan/tsuzuri/internal/platform/constants"
	"github.com/taibuivan/tsuzuri/pkg/uuid"
)

// allowedExtensions lists the icon formats accepted for upload.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// LocalStorage writes files into a directory served at [constants.UploadURLPrefix].
type LocalStorage struct {
	directory string
}

// NewLocalStorage ensures directory exists and returns a storage rooted there.
func NewLocalStorage(directory string) (*LocalStorage, error) {
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create upload dir %s: %w", directory, err)
	}
	return &LocalStorage{directory: directory}, nil
}

// Directory returns the root directory, used to mount the static file server.
func (storage *LocalStorage) Directory() string {
	return storage.directory
}

/*
Save copies content into a freshly named file and returns its public path.

Parameters:
  - context: context.Context
  - originalName: string (Client-supplied file name, only its extension is kept)
  - content: io.Reader

Returns:
  - string: Public path such as /uploads/0190c8e2-....png
  - error: ValidationError for unsupported extensions, or write failures
*/
func (storage *LocalStorage) Save(context context.Context, originalName string, content io.Reader) (string, error) {
	extension := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[extension] {
		return "", apperr.ValidationError("Unsupported file type", apperr.FieldError{Field: "icon", Message: "Must be png, jpg, gif or webp"})
	}

	if err := context.Err(); err != nil {
		return "", err
	}

	fileName := uuid.New() + extension
	file, err := os.OpenFile(filepath.Join(storage.directory, fileName), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("storage: failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		_ = os.Remove(file.Name())
		return "", fmt.Errorf("storage: failed to write file: %w", err)
	}

	return constants.UploadURLPrefix + fileName, nil
}

// Delete removes a previously saved file. The default icon and foreign paths are ignored.
func (storage *LocalStorage) Delete(_ context.Context, publicPath string) error {
	if publicPath == "" || publicPath == constants.DefaultIconPath {
		return nil
	}

	fileName, ok := strings.CutPrefix(publicPath, constants.UploadURLPrefix)
	if !ok || fileName == "" || strings.ContainsAny(fileName, `/\`) {
		return nil
	}

	if err := os.Remove(filepath.Join(storage.directory, fileName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: failed to delete file: %w", err)
	}
	return nil
}
