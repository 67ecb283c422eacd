package history

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/yildizm/LogTrack/internal/upload"
)

// fakeAPI serves scripted list responses and records deletes
type fakeAPI struct {
	mu        sync.Mutex
	lists     [][]upload.Record
	listErr   error
	deleteErr error
	listCalls int
	deleted   []upload.ID
	block     chan struct{}
}

func (f *fakeAPI) List(ctx context.Context) ([]upload.Record, error) {
	f.mu.Lock()
	f.listCalls++
	block := f.block
	var records []upload.Record
	if len(f.lists) > 0 {
		records = f.lists[0]
		if len(f.lists) > 1 {
			f.lists = f.lists[1:]
		}
	}
	err := f.listErr
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id upload.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func (f *fakeAPI) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func intPtr(n int) *int { return &n }

func always(string) bool { return true }

func TestRefreshReplacesWholeList(t *testing.T) {
	api := &fakeAPI{lists: [][]upload.Record{
		{{ID: "1", Filename: "a.log", Status: upload.StatusPending}},
		{{ID: "1", Filename: "a.log", Status: upload.StatusCompleted, Severity: intPtr(4),
			Results: &upload.AnalysisResult{IssueType: "Timeout", SeverityRating: 4}}},
		{{ID: "2", Filename: "b.log", Status: upload.StatusPending}},
	}}
	s := NewStore(api, nil)

	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	v := s.Snapshot()
	if !v.Loaded || len(v.Records) != 1 || v.Records[0].Status != upload.StatusPending {
		t.Fatalf("first snapshot = %+v", v)
	}

	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	rec, ok := s.Find("1")
	if !ok || rec.Status != upload.StatusCompleted || upload.SeverityLabel(rec.SeverityRating()) != "4/5" {
		t.Fatalf("record 1 after completion = %+v", rec)
	}

	// id 1 disappeared from the service: it disappears locally too
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	v = s.Snapshot()
	if len(v.Records) != 1 || v.Records[0].ID != "2" {
		t.Fatalf("list was merged instead of replaced: %+v", v.Records)
	}
}

func TestRefreshFailureKeepsList(t *testing.T) {
	api := &fakeAPI{lists: [][]upload.Record{{
		{ID: "1", Filename: "a.log"},
		{ID: "2", Filename: "b.log"},
	}}}
	s := NewStore(api, nil)
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := s.Snapshot().Records

	api.listErr = errors.New("Failed to fetch uploads")
	if _, err := s.Refresh(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	v := s.Snapshot()
	if !reflect.DeepEqual(v.Records, before) {
		t.Errorf("failed refresh changed the list: %+v", v.Records)
	}
	if v.Err != "Failed to fetch uploads" {
		t.Errorf("Err = %q", v.Err)
	}

	// the next successful poll clears the banner
	api.listErr = nil
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if s.Snapshot().Err != "" {
		t.Error("successful refresh should clear the error")
	}
}

func TestRemove(t *testing.T) {
	newStore := func(api *fakeAPI) *Store {
		api.lists = [][]upload.Record{{
			{ID: "1", Filename: "a.log"},
			{ID: "2", Filename: "b.log"},
			{ID: "3", Filename: "c.log"},
		}}
		s := NewStore(api, nil)
		if _, err := s.Refresh(context.Background()); err != nil {
			t.Fatal(err)
		}
		return s
	}

	t.Run("confirmed success removes exactly one", func(t *testing.T) {
		api := &fakeAPI{}
		s := newStore(api)

		if err := s.Remove(context.Background(), "2", always); err != nil {
			t.Fatalf("Remove() error = %v", err)
		}
		v := s.Snapshot()
		if len(v.Records) != 2 || v.Records[0].ID != "1" || v.Records[1].ID != "3" {
			t.Errorf("records after remove = %+v", v.Records)
		}
		if api.calls() != 1 {
			t.Error("remove must not wait for or trigger a poll")
		}
	})

	t.Run("declined blocks the remote call", func(t *testing.T) {
		api := &fakeAPI{}
		s := newStore(api)

		var asked string
		err := s.Remove(context.Background(), "2", func(prompt string) bool {
			asked = prompt
			return false
		})
		if !errors.Is(err, ErrDeleteDeclined) {
			t.Fatalf("Remove() error = %v", err)
		}
		if asked != DeletePrompt {
			t.Errorf("prompt = %q", asked)
		}
		if len(api.deleted) != 0 {
			t.Error("declined delete reached the service")
		}
		if len(s.Snapshot().Records) != 3 {
			t.Error("declined delete changed the list")
		}
	})

	t.Run("nil confirmer is a decline", func(t *testing.T) {
		api := &fakeAPI{}
		s := newStore(api)
		if err := s.Remove(context.Background(), "1", nil); !errors.Is(err, ErrDeleteDeclined) {
			t.Fatalf("Remove() error = %v", err)
		}
	})

	t.Run("failure leaves list unchanged", func(t *testing.T) {
		api := &fakeAPI{deleteErr: errors.New("Failed to delete upload")}
		s := newStore(api)
		before := s.Snapshot().Records

		if err := s.Remove(context.Background(), "2", always); err == nil {
			t.Fatal("expected error")
		}
		v := s.Snapshot()
		if !reflect.DeepEqual(v.Records, before) {
			t.Errorf("failed delete changed the list: %+v", v.Records)
		}
		if v.Err != "Failed to delete upload" {
			t.Errorf("Err = %q", v.Err)
		}
		if len(api.deleted) != 1 {
			t.Errorf("delete should be attempted exactly once, got %d", len(api.deleted))
		}
	})
}

func TestSnapshotIsACopy(t *testing.T) {
	api := &fakeAPI{lists: [][]upload.Record{{{ID: "1", Filename: "a.log"}}}}
	s := NewStore(api, nil)
	if _, err := s.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	v := s.Snapshot()
	v.Records[0].Filename = "mutated"
	if rec, _ := s.Find("1"); rec.Filename != "a.log" {
		t.Error("snapshot aliases store state")
	}
}

func TestClosedStoreDropsResults(t *testing.T) {
	api := &fakeAPI{lists: [][]upload.Record{{{ID: "1"}}}}
	s := NewStore(api, nil)
	s.Close()

	if _, err := s.Refresh(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("Refresh() after Close error = %v", err)
	}
	if v := s.Snapshot(); v.Loaded || len(v.Records) != 0 {
		t.Errorf("closed store applied a result: %+v", v)
	}
	if s.Fail(errors.New("late")) {
		t.Error("Fail() on closed store should report false")
	}
}
