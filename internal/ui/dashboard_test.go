package ui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/LogTrack/internal/upload"
)

type fakeAPI struct {
	mu        sync.Mutex
	records   []upload.Record
	listErr   error
	deleteErr error
	submitErr error
	deleted   []upload.ID
	submitted []string
}

func (f *fakeAPI) List(ctx context.Context) ([]upload.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]upload.Record, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id upload.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeAPI) Submit(ctx context.Context, filename string, body io.Reader) (*upload.SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := io.ReadAll(body); err != nil {
		return nil, err
	}
	f.submitted = append(f.submitted, filename)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	return &upload.SubmitResult{UploadID: "42", Filename: filename, Status: upload.StatusPending}, nil
}

func intPtr(n int) *int { return &n }

func sampleAPI() *fakeAPI {
	return &fakeAPI{records: []upload.Record{
		{
			ID: "2", Filename: "api.log", FileSize: 2048, Status: upload.StatusCompleted, Severity: intPtr(4),
			Results: &upload.AnalysisResult{IssueType: "Database Timeout", RootCause: "pool exhausted", SuggestedFix: "raise pool size", SeverityRating: 4},
		},
		{ID: "1", Filename: "worker.txt", FileSize: 512, Status: upload.StatusPending},
	}}
}

func newTestDashboard(t *testing.T, api *fakeAPI) *Dashboard {
	t.Helper()
	SetColorDisabled(true)
	t.Cleanup(func() { SetColorDisabled(false) })

	m := NewDashboard(context.Background(), api, Options{})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

// load runs one fetch the way the tick would and feeds the result back
func load(m *Dashboard) {
	m.Update(fetchCmd(m.ctx, m.api)())
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func writeTemp(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDashboardLoadsHistory(t *testing.T) {
	m := newTestDashboard(t, sampleAPI())

	if !strings.Contains(m.View(), "Loading uploads...") {
		t.Error("expected loading state before first fetch")
	}

	load(m)

	out := m.View()
	for _, want := range []string{"api.log", "worker.txt", "2.00 KB", "4/5", "completed", "pending"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
}

func TestDashboardEmptyHistory(t *testing.T) {
	m := newTestDashboard(t, &fakeAPI{})
	load(m)

	if !strings.Contains(m.View(), emptyHistory) {
		t.Errorf("expected empty state:\n%s", m.View())
	}
}

func TestDashboardFetchFailureKeepsList(t *testing.T) {
	api := sampleAPI()
	m := newTestDashboard(t, api)
	load(m)

	api.listErr = errors.New("Failed to fetch uploads")
	load(m)

	out := m.View()
	if !strings.Contains(out, "Failed to fetch uploads") {
		t.Errorf("expected error banner:\n%s", out)
	}
	if !strings.Contains(out, "api.log") {
		t.Error("list should stay displayed after a failed refresh")
	}
}

func TestDashboardPollTick(t *testing.T) {
	m := newTestDashboard(t, sampleAPI())

	_, cmd := m.Update(pollTickMsg{})
	if cmd == nil {
		t.Fatal("tick should schedule a fetch and the next tick")
	}

	m.Update(key("q"))
	if !m.closed {
		t.Fatal("q should close the dashboard")
	}
	if _, cmd := m.Update(pollTickMsg{}); cmd != nil {
		t.Error("no ticks expected after quit")
	}
}

func TestDashboardDropsResultsAfterQuit(t *testing.T) {
	api := sampleAPI()
	m := newTestDashboard(t, api)
	pending := fetchCmd(m.ctx, m.api)

	m.Update(key("q"))
	m.Update(pending())

	if v := m.store.Snapshot(); v.Loaded || len(v.Records) != 0 {
		t.Errorf("late fetch should be dropped, got %+v", v)
	}
}

func TestDashboardDetail(t *testing.T) {
	m := newTestDashboard(t, sampleAPI())
	load(m)

	m.Update(key("enter"))
	if m.view != ViewDetail {
		t.Fatalf("view = %s, want detail", m.view)
	}
	out := m.View()
	for _, want := range []string{"Analysis Results", "Database Timeout", "pool exhausted", "raise pool size", "SEVERITY BREAKDOWN"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail missing %q:\n%s", want, out)
		}
	}

	m.Update(key("esc"))
	m.Update(key("j"))
	m.Update(key("enter"))
	if !strings.Contains(m.View(), "Analyzing log file...") {
		t.Errorf("pending upload should show progress:\n%s", m.View())
	}
}

func TestDashboardDelete(t *testing.T) {
	tests := []struct {
		name        string
		answer      string
		deleteErr   error
		wantCalls   int
		wantRecords int
		wantBanner  string
	}{
		{name: "declined", answer: "n", wantCalls: 0, wantRecords: 2},
		{name: "confirmed", answer: "y", wantCalls: 1, wantRecords: 1},
		{name: "remote failure", answer: "y", deleteErr: errors.New("Failed to delete upload"), wantCalls: 1, wantRecords: 2, wantBanner: "Failed to delete upload"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := sampleAPI()
			api.deleteErr = tt.deleteErr
			m := newTestDashboard(t, api)
			load(m)

			m.Update(key("d"))
			if m.view != ViewConfirmDelete {
				t.Fatalf("view = %s, want confirm", m.view)
			}
			if !strings.Contains(m.View(), "Delete api.log? (y/n)") {
				t.Errorf("missing prompt:\n%s", m.View())
			}

			_, cmd := m.Update(key(tt.answer))
			if cmd != nil {
				m.Update(cmd())
			}

			if len(api.deleted) != tt.wantCalls {
				t.Errorf("delete calls = %d, want %d", len(api.deleted), tt.wantCalls)
			}
			if got := len(m.store.Snapshot().Records); got != tt.wantRecords {
				t.Errorf("records = %d, want %d", got, tt.wantRecords)
			}
			if m.view != ViewList {
				t.Errorf("view = %s, want list", m.view)
			}
			if tt.wantBanner != "" && !strings.Contains(m.View(), tt.wantBanner) {
				t.Errorf("missing banner %q:\n%s", tt.wantBanner, m.View())
			}
		})
	}
}

func TestDashboardUpload(t *testing.T) {
	api := sampleAPI()
	m := newTestDashboard(t, api)
	load(m)

	good := writeTemp(t, "trace.log", 1024)
	bad := writeTemp(t, "image.png", 10)

	m.Update(key("u"))
	m.Update(key(good))
	m.Update(key("enter"))
	if !m.submitting {
		t.Fatal("valid file should start a submit")
	}
	if _, ok := m.uploader.Selected(); !ok {
		t.Fatal("file should be selected while submitting")
	}

	// a rejected path does not disturb the pending selection
	m.Update(key("u"))
	m.Update(key(bad))
	_, cmd := m.Update(key("enter"))
	if cmd != nil {
		t.Error("invalid file must not be submitted")
	}
	if m.view != ViewUploadPrompt {
		t.Errorf("view = %s, prompt should stay open", m.view)
	}
	if !strings.Contains(m.View(), "Only .log, .txt, and .json files are allowed") {
		t.Errorf("missing validation error:\n%s", m.View())
	}
	if f, ok := m.uploader.Selected(); !ok || f.Name != "trace.log" {
		t.Errorf("previous selection lost: %+v", f)
	}
	m.Update(key("esc"))

	m.Update(submitCmd(m.ctx, m.uploader)())
	if _, ok := m.uploader.Selected(); ok {
		t.Error("selection should clear after a successful submit")
	}
	if !strings.Contains(m.View(), "Log uploaded and analysis started (ID: 42)") {
		t.Errorf("missing success notice:\n%s", m.View())
	}

	m.Update(noticeExpiredMsg{seq: m.noticeSeq - 1})
	if m.notice == "" {
		t.Error("stale timer should not clear the current notice")
	}
	m.Update(noticeExpiredMsg{seq: m.noticeSeq})
	if m.notice != "" {
		t.Error("notice should clear when its timer fires")
	}
}

func TestDashboardUploadFailureKeepsSelection(t *testing.T) {
	api := sampleAPI()
	api.submitErr = errors.New("Upload failed. Please try again.")
	m := newTestDashboard(t, api)

	m.Update(key("u"))
	m.Update(key(writeTemp(t, "app.txt", 64)))
	_, cmd := m.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	m.Update(cmd())

	if !strings.Contains(m.View(), "Upload failed. Please try again.") {
		t.Errorf("missing error:\n%s", m.View())
	}
	if _, ok := m.uploader.Selected(); !ok {
		t.Error("selection should survive a failed submit")
	}

	// empty path retries the kept selection
	m.Update(key("u"))
	if _, cmd := m.Update(key("enter")); cmd == nil {
		t.Error("expected retry submit")
	}
}

func TestDashboardSearch(t *testing.T) {
	m := newTestDashboard(t, sampleAPI())
	load(m)

	m.Update(key("/"))
	m.Update(key("worker"))
	m.Update(key("enter"))

	if m.table.Len() != 1 {
		t.Fatalf("filtered rows = %d, want 1", m.table.Len())
	}
	if rec := m.table.SelectedRecord(); rec == nil || rec.ID != "1" {
		t.Errorf("unexpected selection %+v", rec)
	}

	m.Update(key("esc"))
	if m.table.Len() != 2 {
		t.Error("esc should clear the search")
	}
}
