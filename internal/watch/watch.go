// Package watch is the filesystem half of the notification fabric: each
// coordinator runs one watcher per upstream role, polling that role's output
// directory and synthesizing update notifications for new or modified
// artifacts. Together with the push path this gives at-least-once delivery;
// the coordinator is expected to tolerate duplicates.
package watch

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jorge-barreto/mesh/internal/metrics"
	"github.com/jorge-barreto/mesh/internal/notify"
	"github.com/jorge-barreto/mesh/internal/role"
)

// Watcher polls one upstream role's output directory.
type Watcher struct {
	Source   role.Role // the upstream role that owns Dir
	Dir      string
	Interval time.Duration
	Dispatch notify.DispatchFunc

	seen map[string]time.Time // artifact path -> last observed mtime
}

// Run polls until ctx is cancelled. The first sweep primes the snapshot
// without dispatching so a restart does not replay artifacts that were
// already processed; only changes after startup produce notifications.
func (w *Watcher) Run(ctx context.Context) {
	w.seen = make(map[string]time.Time)
	w.sweep(true)

	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sweep(false)
		}
	}
}

// sweep walks the directory and dispatches a notification for every
// recognized artifact whose mtime moved. Missing directories are fine: the
// upstream role may simply not have run yet.
func (w *Watcher) sweep(prime bool) {
	filepath.WalkDir(w.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return filepath.SkipAll
		}
		if d.IsDir() || !recognized(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		prev, ok := w.seen[path]
		if ok && !info.ModTime().After(prev) {
			return nil
		}
		w.seen[path] = info.ModTime()
		if !prime {
			w.notify(path)
		}
		return nil
	})
}

// recognized reports whether a file counts as a completion artifact:
// structured-data files only, and never the owner's state record or an
// in-flight temp file.
func recognized(path string) bool {
	base := filepath.Base(path)
	if base == "state.json" || strings.HasSuffix(base, ".tmp") {
		return false
	}
	return strings.HasSuffix(base, ".json")
}

// notify synthesizes an update notification with the parsed file contents as
// a best-effort payload.
func (w *Watcher) notify(path string) {
	var payload json.RawMessage
	data, err := os.ReadFile(path)
	if err == nil && json.Valid(data) {
		payload = data
	} else {
		payload, _ = json.Marshal(map[string]string{"file": filepath.Base(path)})
	}

	metrics.NotificationsReceived.WithLabelValues("watch").Inc()
	w.Dispatch(notify.Notification{
		ID:        uuid.NewString(),
		Source:    w.Source,
		Kind:      notify.KindUpdate,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
}
