package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yildizm/LogTrack/internal/emoji"
	"github.com/yildizm/LogTrack/internal/logger"
	"github.com/yildizm/LogTrack/internal/upload"
)

func newWatchCommand() *cobra.Command {
	var (
		include  []string
		settle   time.Duration
		existing bool
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Upload new log files as they appear in a directory",
		Long: `Watch a directory tree and upload every matching file once it stops
changing. Files are checked with the same rules as upload; a file that is
rewritten is uploaded again, an unchanged one is not.

Include patterns are doublestar globs relative to the watched directory.
Press Ctrl+C to stop watching.

Examples:
  logtrack watch ./logs
  logtrack watch --include '**/*.log' --settle 2s /var/log/myapp`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetGlobalConfig()
			if !cmd.Flags().Changed("include") {
				include = cfg.Watch.Include
			}
			if !cmd.Flags().Changed("settle") {
				settle = cfg.Watch.Settle
			}
			return runWatch(cmd, args[0], include, settle, existing)
		},
	}

	cmd.Flags().StringSliceVar(&include, "include", nil, "glob of files to upload (repeatable, default from config)")
	cmd.Flags().DurationVar(&settle, "settle", 0, "quiet period before a changed file is uploaded (default from config)")
	cmd.Flags().BoolVar(&existing, "existing", false, "also upload matching files already in the directory")

	return cmd
}

func runWatch(cmd *cobra.Command, dir string, include []string, settle time.Duration, existing bool) error {
	api, metrics, err := newAPIClient()
	if err != nil {
		return err
	}

	w, err := newDirWatcher(dir, include, settle, api, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer w.Close()

	if existing {
		if err := w.scheduleExisting(); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext(cmd)
	defer cancel()

	fmt.Fprintf(cmd.OutOrStdout(), "%s Watching %s for %s (Ctrl+C to stop)\n",
		emoji.GetEmoji("watch"), w.root, strings.Join(w.include, ", "))

	err = w.Run(ctx)
	printMetrics(cmd.OutOrStdout(), metrics)
	return err
}

// fileState identifies one version of a file on disk
type fileState struct {
	size    int64
	modTime time.Time
}

// dirWatcher uploads files under root once they settle
type dirWatcher struct {
	root    string
	include []string
	settle  time.Duration
	api     upload.Submitter
	out     io.Writer
	log     *logger.Logger
	fs      *fsnotify.Watcher

	mu     sync.Mutex
	timers map[string]*time.Timer

	// seen is only touched by the Run goroutine
	seen  map[string]fileState
	ready chan string
	done  chan struct{}
}

func newDirWatcher(dir string, include []string, settle time.Duration, api upload.Submitter, out io.Writer) (*dirWatcher, error) {
	if err := validateWatchDir(dir); err != nil {
		return nil, fmt.Errorf("invalid directory: %w", err)
	}
	if len(include) == 0 {
		return nil, fmt.Errorf("at least one include pattern is required")
	}
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %q", pattern)
		}
	}

	root, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &dirWatcher{
		root:    root,
		include: include,
		settle:  settle,
		api:     api,
		out:     out,
		log:     log.With("watch"),
		fs:      fsw,
		timers:  make(map[string]*time.Timer),
		seen:    make(map[string]fileState),
		ready:   make(chan string),
		done:    make(chan struct{}),
	}

	if err := w.addTree(root); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// Close stops pending timers and releases the watcher
func (w *dirWatcher) Close() {
	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()

	if err := w.fs.Close(); err != nil {
		w.log.Warn("failed to close watcher", logger.Err(err))
	}
}

// addTree watches dir and every directory below it
func (w *dirWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		w.log.Debug("watching directory", logger.F("path", path))
		return nil
	})
}

// scheduleExisting queues matching files already present under root
func (w *dirWatcher) scheduleExisting() error {
	return filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && w.matches(path) {
			w.schedule(path)
		}
		return nil
	})
}

// matches reports whether path, relative to root, matches an include glob
func (w *dirWatcher) matches(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// schedule (re)starts the settle timer for path
func (w *dirWatcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case w.ready <- path:
		case <-w.done:
		}
	})
}

func (w *dirWatcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
		delete(w.timers, path)
	}
}

// Run handles events until ctx is cancelled
func (w *dirWatcher) Run(ctx context.Context) error {
	defer close(w.done)

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("stopping watch")
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			w.handleWatchEvent(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.log.Warn("watcher error", logger.Err(err))

		case path := <-w.ready:
			w.submitFile(ctx, path)
		}
	}
}

// handleWatchEvent processes file system events
func (w *dirWatcher) handleWatchEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.cancel(path)
		delete(w.seen, path)
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		if event.Has(fsnotify.Create) {
			if err := w.addTree(path); err != nil {
				w.log.Warn("failed to watch new directory", logger.F("path", path), logger.Err(err))
			}
			// files written before the directory was added
			_ = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
				if err == nil && d.Type().IsRegular() && w.matches(p) {
					w.schedule(p)
				}
				return nil
			})
		}
		return
	}
	if info.Mode().IsRegular() && w.matches(path) {
		w.schedule(path)
	}
}

// submitFile validates and uploads one settled file. A version that was
// already handled is skipped; a failed upload is retried on the next change.
func (w *dirWatcher) submitFile(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	state := fileState{size: info.Size(), modTime: info.ModTime()}
	if prev, ok := w.seen[path]; ok && prev == state {
		return
	}

	f, err := upload.Stat(path)
	if err != nil {
		w.report(path, err)
		return
	}

	uploader := upload.NewUploader(w.api)
	if err := uploader.Select(f); err != nil {
		w.seen[path] = state
		w.report(path, err)
		return
	}

	res, err := uploader.Submit(ctx)
	if err != nil {
		w.report(path, err)
		return
	}

	w.seen[path] = state
	w.log.Debug("upload accepted", logger.F("upload_id", res.UploadID), logger.F("file", f.Name))
	fmt.Fprintf(w.out, "%s %s: %s\n", emoji.GetEmoji("success"), w.relative(path), res.Notice())
}

func (w *dirWatcher) report(path string, err error) {
	fmt.Fprintf(w.out, "%s %s: %s\n", emoji.GetEmoji("error"), w.relative(path), describeError(err))
}

func (w *dirWatcher) relative(path string) string {
	if rel, err := filepath.Rel(w.root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

// validateWatchDir validates that a path is a directory that can be watched
func validateWatchDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty directory path")
	}

	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot watch a file, must be a directory")
	}

	return nil
}
