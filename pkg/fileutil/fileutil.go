package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/rohmanhakim/parks-explorer/pkg/failure"
)

// EnsureDir check if a given directory plus the following path exist, then create one if not
func EnsureDir(dir string, path ...string) failure.ClassifiedError {
	targetPath := []string{dir}
	targetPath = append(targetPath, path...)

	fullDir := filepath.Join(targetPath...)
	if err := os.MkdirAll(fullDir, 0755); err != nil {
		return &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     ErrCausePathError,
		}
	}
	return nil
}

// WriteFileAtomic replaces the file at path with data.
// The content is written to a temp file in the same directory and renamed
// over the target, so readers observe either the old or the new content.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) failure.ClassifiedError {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return writeError(err)
	}
	tempName := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		os.Remove(tempName)
		return writeError(err)
	}
	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		os.Remove(tempName)
		return writeError(err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempName)
		return writeError(err)
	}
	if err := os.Chmod(tempName, perm); err != nil {
		os.Remove(tempName)
		return writeError(err)
	}

	if err := os.Rename(tempName, path); err != nil {
		os.Remove(tempName)
		return writeError(err)
	}
	return nil
}

func writeError(err error) *FileError {
	cause := ErrCauseWriteError
	if errors.Is(err, syscall.ENOSPC) {
		cause = ErrCauseDiskFull
	}
	return &FileError{
		Message:   err.Error(),
		Retryable: false,
		Cause:     cause,
	}
}
