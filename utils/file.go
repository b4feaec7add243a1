package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// uploadsDir is the root for locally stored avatars when R2 is not
// configured. main serves it under /uploads.
const uploadsDir = "uploads"

// EnsureUploadDir creates the local uploads root. Run once at boot,
// before any avatar is saved.
func EnsureUploadDir() error {
	return os.MkdirAll(uploadsDir, os.ModePerm)
}

// SaveFile copies an uploaded multipart file to destPath, creating any
// missing parent directories.
func SaveFile(fileHeader *multipart.FileHeader, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
		return err
	}

	src, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// GetUploadPath resolves filename inside the local uploads root.
func GetUploadPath(filename string) string {
	return filepath.Join(uploadsDir, filename)
}
