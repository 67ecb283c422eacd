package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yildizm/LogTrack/internal/emoji"
	"github.com/yildizm/LogTrack/internal/history"
	"github.com/yildizm/LogTrack/internal/logger"
	"github.com/yildizm/LogTrack/internal/ui/components"
	"github.com/yildizm/LogTrack/internal/upload"
)

// DefaultNoticeDuration is how long the upload success notice stays visible
const DefaultNoticeDuration = 5 * time.Second

const emptyHistory = "No uploads yet. Start by uploading a log file!"

// API is the service surface the dashboard needs
type API interface {
	history.API
	upload.Submitter
}

// Options configures a dashboard session
type Options struct {
	Interval        time.Duration
	NoticeDuration  time.Duration
	TimestampFormat string
	Logger          *logger.Logger
}

// Dashboard is the interactive upload history view. It owns one
// history.Store for the lifetime of the session; Update is the only writer.
type Dashboard struct {
	ctx      context.Context
	api      API
	store    *history.Store
	uploader *upload.Uploader
	log      *logger.Logger
	styles   *Styles

	table   *components.UploadTable
	spinner *components.Spinner

	interval       time.Duration
	noticeDuration time.Duration
	layout         string

	view          View
	returnView    View
	width         int
	height        int
	closed        bool
	detailID      upload.ID
	pendingDelete *upload.Record
	input         string
	notice        string
	noticeSeq     int
	actionErr     string
	submitting    bool
	deleting      bool
}

// NewDashboard creates a dashboard backed by api
func NewDashboard(ctx context.Context, api API, opts Options) *Dashboard {
	if opts.Interval <= 0 {
		opts.Interval = history.DefaultInterval
	}
	if opts.NoticeDuration <= 0 {
		opts.NoticeDuration = DefaultNoticeDuration
	}
	if opts.TimestampFormat == "" {
		opts.TimestampFormat = "2006-01-02 15:04:05"
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}

	table := components.NewUploadTable("Upload History", 80, 24)
	table.Layout = opts.TimestampFormat
	table.NoColor = IsColorDisabled()

	return &Dashboard{
		ctx:            ctx,
		api:            api,
		store:          history.NewStore(api, opts.Logger),
		uploader:       upload.NewUploader(api),
		log:            opts.Logger,
		styles:         GetStyles(),
		table:          table,
		spinner:        components.NewSpinner("Uploading..."),
		interval:       opts.Interval,
		noticeDuration: opts.NoticeDuration,
		layout:         opts.TimestampFormat,
		view:           ViewList,
		width:          80,
		height:         24,
	}
}

// Init fetches immediately and starts the refresh ticker
func (m *Dashboard) Init() tea.Cmd {
	return tea.Batch(
		fetchCmd(m.ctx, m.api),
		pollTick(m.interval),
		frameTick(),
	)
}

// Update handles messages and updates the model
func (m *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case pollTickMsg:
		return m.handlePollTick()
	case frameMsg:
		if m.closed {
			return m, nil
		}
		m.spinner.Tick()
		return m, frameTick()
	case uploadsLoadedMsg:
		return m.handleUploadsLoaded(msg)
	case deleteDoneMsg:
		return m.handleDeleteDone(msg)
	case submitDoneMsg:
		return m.handleSubmitDone(msg)
	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil
	}
	return m, nil
}

func (m *Dashboard) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.table.Width = msg.Width
	m.table.Height = max(8, msg.Height-10)
	return m, nil
}

// handlePollTick issues a fetch and schedules the next tick. A slow fetch
// does not delay the schedule, so fetches may overlap.
func (m *Dashboard) handlePollTick() (tea.Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	return m, tea.Batch(fetchCmd(m.ctx, m.api), pollTick(m.interval))
}

func (m *Dashboard) handleUploadsLoaded(msg uploadsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.store.Fail(msg.err)
	} else {
		m.store.Apply(msg.records)
	}
	m.syncTable()
	return m, nil
}

func (m *Dashboard) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	m.deleting = false
	if msg.err != nil {
		m.actionErr = msg.err.Error()
		return m, nil
	}

	m.actionErr = ""
	if m.view == ViewDetail && m.detailID == msg.id {
		m.view = ViewList
	}
	m.syncTable()
	return m, nil
}

func (m *Dashboard) handleSubmitDone(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	if msg.err != nil {
		m.actionErr = msg.err.Error()
		return m, nil
	}

	m.actionErr = ""
	return m, tea.Batch(
		m.setNotice(msg.result.Notice()),
		fetchCmd(m.ctx, m.api),
	)
}

// setNotice shows text and schedules it to clear. Only the latest notice
// is cleared by its timer.
func (m *Dashboard) setNotice(text string) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	return expireNotice(m.noticeSeq, m.noticeDuration)
}

func (m *Dashboard) syncTable() {
	m.table.SetRecords(m.store.Snapshot().Records)
}

func (m *Dashboard) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.handleQuit()
	}

	switch m.view {
	case ViewConfirmDelete:
		return m.handleConfirmKey(msg)
	case ViewUploadPrompt, ViewSearch:
		return m.handleInputKey(msg)
	case ViewHelp:
		switch msg.String() {
		case "q":
			return m.handleQuit()
		case "esc", "?", "h":
			m.view = ViewList
		}
		return m, nil
	case ViewDetail:
		switch msg.String() {
		case "q":
			return m.handleQuit()
		case "esc", "backspace":
			m.view = ViewList
		case "d":
			if rec, ok := m.store.Find(m.detailID); ok {
				return m.askDelete(&rec)
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m.handleQuit()
	case "up", "k":
		m.table.MoveUp()
	case "down", "j":
		m.table.MoveDown()
	case "enter":
		if rec := m.table.SelectedRecord(); rec != nil {
			m.detailID = rec.ID
			m.view = ViewDetail
		}
	case "d":
		if rec := m.table.SelectedRecord(); rec != nil {
			selected := *rec
			return m.askDelete(&selected)
		}
	case "u":
		m.input = ""
		m.actionErr = ""
		m.view = ViewUploadPrompt
	case "/":
		m.input = m.table.Search()
		m.view = ViewSearch
	case "r":
		return m, fetchCmd(m.ctx, m.api)
	case "esc":
		if m.table.Search() != "" {
			m.table.SetSearch("")
		}
	case "?", "h":
		m.view = ViewHelp
	}
	return m, nil
}

func (m *Dashboard) handleQuit() (tea.Model, tea.Cmd) {
	m.closed = true
	m.store.Close()
	return m, tea.Quit
}

func (m *Dashboard) askDelete(rec *upload.Record) (tea.Model, tea.Cmd) {
	if m.deleting {
		return m, nil
	}
	m.pendingDelete = rec
	m.returnView = m.view
	m.view = ViewConfirmDelete
	return m, nil
}

// handleConfirmKey resolves the delete prompt: y deletes, anything else
// declines without contacting the service
func (m *Dashboard) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rec := m.pendingDelete
	m.pendingDelete = nil
	m.view = m.returnView
	if rec == nil {
		return m, nil
	}

	if msg.String() == "y" || msg.String() == "Y" {
		m.deleting = true
		return m, deleteCmd(m.ctx, m.store, rec.ID)
	}

	err := m.store.Remove(m.ctx, rec.ID, func(string) bool { return false })
	if errors.Is(err, history.ErrDeleteDeclined) {
		m.log.Debug("delete declined", logger.F("upload_id", rec.ID))
	}
	return m, nil
}

func (m *Dashboard) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		if m.view == ViewSearch {
			m.table.SetSearch("")
		}
		m.input = ""
		m.view = ViewList
		return m, nil
	case tea.KeyEnter:
		if m.view == ViewSearch {
			m.table.SetSearch(strings.TrimSpace(m.input))
			m.input = ""
			m.view = ViewList
			return m, nil
		}
		return m.handleUploadSubmit()
	case tea.KeyBackspace:
		if runes := []rune(m.input); len(runes) > 0 {
			m.input = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

// handleUploadSubmit validates the typed path and submits it. A rejected
// path leaves any earlier selection in place; an empty path retries the
// current selection.
func (m *Dashboard) handleUploadSubmit() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.input)

	if path != "" {
		f, err := upload.Stat(path)
		if err != nil {
			m.actionErr = err.Error()
			return m, nil
		}
		if err := m.uploader.Select(f); err != nil {
			m.actionErr = err.Error()
			return m, nil
		}
	} else if _, ok := m.uploader.Selected(); !ok {
		m.view = ViewList
		return m, nil
	}

	m.actionErr = ""
	m.input = ""
	m.view = ViewList
	m.submitting = true
	return m, submitCmd(m.ctx, m.uploader)
}

// View renders the dashboard
func (m *Dashboard) View() string {
	if m.closed {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if m.notice != "" {
		sections = append(sections, m.styles.Render(m.styles.Notice, emoji.GetEmoji("success")+" "+m.notice))
	}
	if banner := m.renderErrors(); banner != "" {
		sections = append(sections, banner)
	}
	sections = append(sections, "")

	switch m.view {
	case ViewDetail:
		sections = append(sections, m.renderDetail())
	case ViewHelp:
		sections = append(sections, m.renderHelp())
	default:
		sections = append(sections, m.renderList())
	}

	switch m.view {
	case ViewConfirmDelete:
		sections = append(sections, "", m.renderConfirm())
	case ViewUploadPrompt:
		sections = append(sections, "", m.renderUploadPrompt())
	case ViewSearch:
		sections = append(sections, "", m.styles.Render(m.styles.Prompt, "Search: "+m.input+"█"))
	}

	sections = append(sections, "", m.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Dashboard) renderHeader() string {
	title := m.styles.Render(m.styles.Title, emoji.GetEmoji("rocket")+" LogTrack")

	v := m.store.Snapshot()
	status := "loading..."
	if !v.UpdatedAt.IsZero() {
		status = fmt.Sprintf("updated %s, refresh every %s", v.UpdatedAt.Format("15:04:05"), m.interval)
	}
	header := title + " " + m.styles.Render(m.styles.Muted, status)

	if m.submitting {
		header += "  " + m.spinner.Render()
	}
	if m.deleting {
		header += "  " + m.styles.Render(m.styles.Muted, "Deleting...")
	}
	return header
}

func (m *Dashboard) renderErrors() string {
	var lines []string
	if err := m.store.Snapshot().Err; err != "" {
		lines = append(lines, m.styles.Render(m.styles.Error, emoji.GetEmoji("warning")+" "+err))
	}
	if m.actionErr != "" {
		lines = append(lines, m.styles.Render(m.styles.Error, emoji.GetEmoji("error")+" "+m.actionErr))
	}
	return strings.Join(lines, "\n")
}

func (m *Dashboard) renderList() string {
	v := m.store.Snapshot()
	if !v.Loaded {
		return m.styles.Render(m.styles.Muted, "Loading uploads...")
	}
	if len(v.Records) == 0 {
		return m.styles.Render(m.styles.Muted, emptyHistory)
	}

	var parts []string
	if m.height >= 30 {
		parts = append(parts, components.CreateUploadStats(v.Records).Render(), "")
	}
	parts = append(parts, m.table.Render())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Dashboard) renderDetail() string {
	rec, ok := m.store.Find(m.detailID)
	if !ok {
		return m.styles.Render(m.styles.Muted, "Upload no longer in history. Press Esc to go back.")
	}

	width := min(max(m.width-4, 40), 100)
	rating := rec.SeverityRating()

	info := components.NewSummaryBox(emoji.GetEmoji("file")+" "+rec.Filename, width)
	info.AddKeyValue("ID", rec.ID.String())
	info.AddKeyValue("Status", m.styles.Render(m.styles.StatusStyle(rec.Status), string(rec.Status)))
	info.AddKeyValue("Uploaded", rec.UploadTime.Format(m.layout))
	info.AddKeyValue("Size", rec.SizeKB())
	info.AddKeyValue("Severity", m.styles.Render(m.styles.SeverityStyle(rating), upload.SeverityLabel(rating)))

	results := components.NewSummaryBox("Analysis Results", width)
	switch {
	case rec.Results != nil:
		res := rec.Results
		results.AddKeyValue("Issue Type", orNA(res.IssueType))
		results.AddKeyValue("Analyzed At", res.Timestamp.Format(m.layout))
		results.AddLine("")
		results.AddLine(emoji.GetEmoji("cause") + " Root Cause")
		results.AddLine(orNA(res.RootCause))
		results.AddLine("")
		results.AddLine(emoji.GetEmoji("fix") + " Suggested Fix")
		for _, line := range strings.Split(orNA(res.SuggestedFix), "\n") {
			results.AddLine(line)
		}
		if rating > 0 {
			bar := components.NewSeverityBar(20, rating)
			bar.NoColor = IsColorDisabled()
			results.AddLine("")
			results.AddLine("SEVERITY BREAKDOWN")
			results.AddLine(bar.Render())
		}
	case rec.Status.InProgress():
		spinner := components.NewSpinner("Analyzing log file...")
		spinner.Frame = m.spinner.Frame
		results.AddLine(spinner.Render())
	default:
		results.AddLine("No analysis results available.")
	}

	return lipgloss.JoinVertical(lipgloss.Left, info.Render(), results.Render())
}

func (m *Dashboard) renderConfirm() string {
	if m.pendingDelete == nil {
		return ""
	}
	text := fmt.Sprintf("%s Delete %s? (y/n)", emoji.GetEmoji("trash"), m.pendingDelete.Filename)
	return m.styles.Render(m.styles.Prompt, text)
}

func (m *Dashboard) renderUploadPrompt() string {
	lines := []string{
		emoji.GetEmoji("upload") + " Upload a log file (.log, .txt, .json, max 5MB)",
		"Path: " + m.input + "█",
	}
	if f, ok := m.uploader.Selected(); ok {
		lines = append(lines, m.styles.Render(m.styles.Muted,
			fmt.Sprintf("Selected: %s (%.2f KB), Enter with empty path to send it", f.Name, float64(f.Size)/1024)))
	}
	return m.styles.Render(m.styles.Prompt, strings.Join(lines, "\n"))
}

func (m *Dashboard) renderHelp() string {
	helpSections := []string{
		"Navigation:",
		"  ↑↓ or j/k    Move up/down",
		"  Enter        Show analysis for the selected upload",
		"  Esc          Go back",
		"",
		"Actions:",
		"  u            Upload a log file",
		"  d            Delete the selected upload",
		"  /            Search by filename, id, status or issue type",
		"  r            Refresh now",
		"",
		"Exit:",
		"  q            Quit",
		"  Ctrl+C       Force quit",
	}

	var lines []string
	for _, line := range helpSections {
		switch {
		case line == "":
			lines = append(lines, "")
		case strings.HasSuffix(line, ":"):
			lines = append(lines, m.styles.Render(m.styles.Header, line))
		default:
			lines = append(lines, m.styles.Render(m.styles.Muted, line))
		}
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Render(m.styles.Header, emoji.GetEmoji("help")+" LogTrack Help"),
		"",
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	)
	return m.styles.Render(m.styles.Box.Width(min(max(m.width-4, 40), 80)), content)
}

func (m *Dashboard) renderFooter() string {
	var keys string
	switch m.view {
	case ViewDetail:
		keys = "esc back • d delete • q quit"
	case ViewConfirmDelete:
		keys = "y confirm • any other key cancels"
	case ViewUploadPrompt:
		keys = "enter upload • esc cancel"
	case ViewSearch:
		keys = "enter apply • esc clear"
	case ViewHelp:
		keys = "esc back • q quit"
	default:
		keys = "↑↓ move • enter details • u upload • d delete • / search • ? help • q quit"
	}
	return m.styles.Render(m.styles.Muted, keys)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// Run starts the dashboard and blocks until the user quits
func Run(ctx context.Context, api API, opts Options) error {
	model := NewDashboard(ctx, api, opts)
	defer model.store.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
