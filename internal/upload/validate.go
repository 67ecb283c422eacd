package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize is the largest file the service accepts (5 MiB)
const MaxFileSize int64 = 5 * 1024 * 1024

// AllowedExtensions lists the accepted file name suffixes, matched case-insensitively
var AllowedExtensions = []string{".log", ".txt", ".json"}

// ValidationKind identifies why a file was rejected locally
type ValidationKind string

const (
	InvalidType ValidationKind = "invalid_type"
	TooLarge    ValidationKind = "too_large"
)

// ValidationError is returned for files rejected before any network call
type ValidationError struct {
	Kind ValidationKind
	Name string
	Size int64
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case InvalidType:
		return "Only .log, .txt, and .json files are allowed"
	case TooLarge:
		return "File size must be less than 5MB"
	default:
		return fmt.Sprintf("invalid file %s", e.Name)
	}
}

// Is matches any ValidationError with the same kind
func (e *ValidationError) Is(target error) bool {
	var ve *ValidationError
	if errors.As(target, &ve) {
		return ve.Kind == "" || ve.Kind == e.Kind
	}
	return false
}

var (
	// ErrInvalidType matches validation errors for disallowed extensions
	ErrInvalidType = &ValidationError{Kind: InvalidType}
	// ErrTooLarge matches validation errors for oversized files
	ErrTooLarge = &ValidationError{Kind: TooLarge}
)

// File describes a candidate log file
type File struct {
	Name string
	Size int64
	Path string
}

// Stat builds a File from a path on disk
func Stat(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	return File{
		Name: filepath.Base(path),
		Size: info.Size(),
		Path: path,
	}, nil
}

// Open opens the file contents for submission
func (f File) Open() (io.ReadCloser, error) {
	if f.Path == "" {
		return nil, fmt.Errorf("file %s has no path", f.Name)
	}
	// #nosec G304 - path comes from the user's own selection
	return os.Open(f.Path)
}

// Validate checks the extension allow-list first, then the size ceiling
func Validate(f File) error {
	if !HasAllowedExtension(f.Name) {
		return &ValidationError{Kind: InvalidType, Name: f.Name, Size: f.Size}
	}
	if f.Size > MaxFileSize {
		return &ValidationError{Kind: TooLarge, Name: f.Name, Size: f.Size}
	}
	return nil
}

// HasAllowedExtension reports whether name ends in an accepted suffix
func HasAllowedExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range AllowedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
