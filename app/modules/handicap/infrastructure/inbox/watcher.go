package handicapinbox

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	handicapservice "github.com/Black-And-White-Club/fairway-bot/app/modules/handicap/application"
	"github.com/Black-And-White-Club/fairway-bot/config"
	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Importer stores the rounds on one scorecard.
type Importer interface {
	ImportScorecard(ctx context.Context, req handicapservice.ImportScorecardRequest) (*handicapservice.ImportResult, error)
}

// Watcher imports scorecards dropped into the inbox directory. Each file is imported
// once per distinct content; editing a file imports it again.
type Watcher struct {
	cfg      config.InboxConfig
	importer Importer
	logger   *slog.Logger
	fsw      *fsnotify.Watcher

	pendingMu sync.Mutex
	pending   map[string]struct{}

	hashMu sync.Mutex
	hashes map[string]string
}

// NewWatcher creates a watcher for cfg.Dir. Call Run to start it.
func NewWatcher(cfg config.InboxConfig, importer Importer, logger *slog.Logger) (*Watcher, error) {
	if cfg.Dir == "" {
		return nil, errors.New("inbox directory is required")
	}
	if !doublestar.ValidatePattern(cfg.Pattern) {
		return nil, fmt.Errorf("invalid inbox pattern %q", cfg.Pattern)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		cfg:      cfg,
		importer: importer,
		logger:   logger.With(attr.String("inbox", cfg.Dir)),
		fsw:      fsw,
		pending:  make(map[string]struct{}),
		hashes:   make(map[string]string),
	}, nil
}

// Run imports files already in the inbox, then imports new and changed files until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	if err := os.MkdirAll(w.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create inbox: %w", err)
	}
	if err := w.addWatches(); err != nil {
		return err
	}
	if _, err := w.Scan(ctx); err != nil {
		return err
	}

	w.logger.Info("Scorecard inbox started", attr.String("pattern", w.cfg.Pattern))

	ticker := time.NewTicker(w.cfg.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Inbox watcher error", attr.Error(err))
		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Scan imports every file in the inbox that matches the pattern and returns how many were imported.
func (w *Watcher) Scan(ctx context.Context) (int, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(w.cfg.Dir, filepath.FromSlash(w.cfg.Pattern)))
	if err != nil {
		return 0, fmt.Errorf("failed to scan inbox: %w", err)
	}

	imported := 0
	for _, match := range matches {
		if ctx.Err() != nil {
			return imported, nil
		}
		ok, err := w.process(ctx, match)
		if err != nil {
			w.logger.Warn("Failed to import inbox file", attr.String("path", match), attr.Error(err))
			continue
		}
		if ok {
			imported++
		}
	}
	return imported, nil
}

// addWatches watches the inbox root and each course directory below it.
func (w *Watcher) addWatches() error {
	if err := w.fsw.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("failed to watch inbox: %w", err)
	}
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		return fmt.Errorf("failed to read inbox: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			w.watchDir(filepath.Join(w.cfg.Dir, e.Name()))
		}
	}
	return nil
}

func (w *Watcher) watchDir(dir string) {
	if err := w.fsw.Add(dir); err != nil {
		w.logger.Warn("Failed to watch course directory", attr.String("path", dir), attr.Error(err))
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		if filepath.Dir(event.Name) == filepath.Clean(w.cfg.Dir) {
			w.watchDir(event.Name)
			// files may land before the watch is in place
			entries, _ := os.ReadDir(event.Name)
			for _, e := range entries {
				w.enqueue(filepath.Join(event.Name, e.Name()))
			}
		}
		return
	}
	w.enqueue(event.Name)
}

func (w *Watcher) enqueue(path string) {
	if !w.matches(path) {
		return
	}
	w.pendingMu.Lock()
	w.pending[path] = struct{}{}
	w.pendingMu.Unlock()
}

// flushPending imports files that changed since the last tick.
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	for _, p := range paths {
		if ctx.Err() != nil {
			return
		}
		if _, err := w.process(ctx, p); err != nil {
			w.logger.Warn("Failed to import inbox file", attr.String("path", p), attr.Error(err))
		}
	}
}

func (w *Watcher) matches(absPath string) bool {
	rel, err := filepath.Rel(w.cfg.Dir, absPath)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(w.cfg.Pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// process imports one file. It reports false without error when the content was already imported.
func (w *Watcher) process(ctx context.Context, absPath string) (bool, error) {
	rel, err := filepath.Rel(w.cfg.Dir, absPath)
	if err != nil {
		return false, err
	}
	rel = filepath.ToSlash(rel)

	loc, err := ParseInboxPath(rel)
	if err != nil {
		return false, err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", rel, err)
	}
	// still being written; the next write event brings it back
	if len(data) == 0 {
		return false, nil
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])
	w.hashMu.Lock()
	seen := w.hashes[rel] == hash
	w.hashes[rel] = hash
	w.hashMu.Unlock()
	if seen {
		return false, nil
	}

	res, err := w.importer.ImportScorecard(ctx, handicapservice.ImportScorecardRequest{
		CourseID: loc.CourseID,
		FileName: filepath.Base(absPath),
		Data:     data,
		PlayedOn: loc.PlayedOn,
		TeeName:  w.cfg.TeeName,
	})
	if err != nil {
		return false, fmt.Errorf("failed to import %s: %w", rel, err)
	}

	w.logger.Info("Imported scorecard from inbox",
		attr.String("path", rel),
		attr.String("course_id", loc.CourseID.String()),
		attr.Int("rounds", len(res.Rounds)),
		attr.Int("skipped", len(res.Skipped)),
	)
	return true, nil
}
