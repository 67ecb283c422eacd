package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yildizm/LogTrack/internal/history"
	"github.com/yildizm/LogTrack/internal/upload"
)

// pollTickMsg fires once per refresh interval
type pollTickMsg time.Time

// frameMsg drives the spinner animation
type frameMsg time.Time

type uploadsLoadedMsg struct {
	records []upload.Record
	err     error
}

type deleteDoneMsg struct {
	id  upload.ID
	err error
}

type submitDoneMsg struct {
	result *upload.SubmitResult
	err    error
}

// noticeExpiredMsg clears the success notice if it is still the one with seq
type noticeExpiredMsg struct {
	seq int
}

const frameInterval = 120 * time.Millisecond

func pollTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func expireNotice(seq int, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// fetchCmd lists uploads off the update loop. The result is applied to the
// store by Update.
func fetchCmd(ctx context.Context, api history.API) tea.Cmd {
	return func() tea.Msg {
		records, err := api.List(ctx)
		return uploadsLoadedMsg{records: records, err: err}
	}
}

// deleteCmd runs an already confirmed delete through the store
func deleteCmd(ctx context.Context, store *history.Store, id upload.ID) tea.Cmd {
	return func() tea.Msg {
		err := store.Remove(ctx, id, func(string) bool { return true })
		return deleteDoneMsg{id: id, err: err}
	}
}

func submitCmd(ctx context.Context, uploader *upload.Uploader) tea.Cmd {
	return func() tea.Msg {
		result, err := uploader.Submit(ctx)
		return submitDoneMsg{result: result, err: err}
	}
}
