package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

type fakeSubmitter struct {
	calls   int
	gotName string
	gotBody string
	result  *SubmitResult
	err     error
}

func (f *fakeSubmitter) Submit(_ context.Context, filename string, body io.Reader) (*SubmitResult, error) {
	f.calls++
	f.gotName = filename
	data, _ := io.ReadAll(body)
	f.gotBody = string(data)
	return f.result, f.err
}

func writeLog(t *testing.T, name, content string) File {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestUploaderSubmitSuccessClearsSelection(t *testing.T) {
	api := &fakeSubmitter{result: &SubmitResult{UploadID: "abc123", Status: StatusPending}}
	u := NewUploader(api)

	f := writeLog(t, "trace.log", "ERROR connection refused")
	if err := u.Select(f); err != nil {
		t.Fatal(err)
	}

	res, err := u.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if res.UploadID != "abc123" {
		t.Errorf("UploadID = %q", res.UploadID)
	}
	if api.gotName != "trace.log" || api.gotBody != "ERROR connection refused" {
		t.Errorf("submitted %q with body %q", api.gotName, api.gotBody)
	}
	if _, ok := u.Selected(); ok {
		t.Error("selection should be empty after a successful submit")
	}
}

func TestUploaderSubmitFailureKeepsSelection(t *testing.T) {
	api := &fakeSubmitter{err: errors.New("Upload failed. Please try again.")}
	u := NewUploader(api)

	f := writeLog(t, "trace.log", "boom")
	if err := u.Select(f); err != nil {
		t.Fatal(err)
	}

	if _, err := u.Submit(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if got, ok := u.Selected(); !ok || got != f {
		t.Error("selection must survive a failed submit")
	}
}

func TestUploaderRejectsInvalidWithoutNetwork(t *testing.T) {
	api := &fakeSubmitter{}
	u := NewUploader(api)

	if err := u.Select(File{Name: "image.png", Size: 1024}); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("Select() error = %v", err)
	}
	if _, err := u.Submit(context.Background()); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("Submit() error = %v, want ErrNoSelection", err)
	}
	if api.calls != 0 {
		t.Errorf("expected no network calls, got %d", api.calls)
	}
}
