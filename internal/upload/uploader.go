package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNoSelection is returned when Submit is called with an empty slot
var ErrNoSelection = errors.New("no file selected")

// Submitter sends one file to the remote upload endpoint
type Submitter interface {
	Submit(ctx context.Context, filename string, body io.Reader) (*SubmitResult, error)
}

// Uploader couples the pending selection with the remote submit call
type Uploader struct {
	api       Submitter
	selection Selection
}

// NewUploader creates an uploader backed by api
func NewUploader(api Submitter) *Uploader {
	return &Uploader{api: api}
}

// Select validates f and makes it the pending file
func (u *Uploader) Select(f File) error {
	return u.selection.Select(f)
}

// Selected returns the pending file, if any
func (u *Uploader) Selected() (File, bool) {
	return u.selection.Current()
}

// Submit sends the pending file. The slot is cleared only on success;
// on failure the same file stays selected so the user can retry.
func (u *Uploader) Submit(ctx context.Context) (*SubmitResult, error) {
	f, ok := u.selection.Current()
	if !ok {
		return nil, ErrNoSelection
	}

	body, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Name, err)
	}
	defer func() { _ = body.Close() }()

	result, err := u.api.Submit(ctx, f.Name, body)
	if err != nil {
		return nil, err
	}

	u.selection.clearIf(f)
	return result, nil
}
