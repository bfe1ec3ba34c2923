// Package coordinator composes one role's daemon: the notification listener,
// the upstream watchers, the dispatch queue, and the
// generate→recover→extract→persist→broadcast pipeline.
package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jorge-barreto/mesh/internal/agent"
	"github.com/jorge-barreto/mesh/internal/config"
	"github.com/jorge-barreto/mesh/internal/extract"
	"github.com/jorge-barreto/mesh/internal/llm"
	"github.com/jorge-barreto/mesh/internal/metrics"
	"github.com/jorge-barreto/mesh/internal/notify"
	"github.com/jorge-barreto/mesh/internal/recovery"
	"github.com/jorge-barreto/mesh/internal/role"
	"github.com/jorge-barreto/mesh/internal/state"
	"github.com/jorge-barreto/mesh/internal/ux"
	"github.com/jorge-barreto/mesh/internal/watch"
)

// queueSize bounds how many accepted notifications can wait behind the
// in-flight run. Producers block when it fills rather than dropping.
const queueSize = 64

// Coordinator runs one role. Lifecycle: INIT (load state, start listener and
// watchers) then a WATCHING⇄PROCESSING loop consuming the dispatch queue.
// A processing failure is contained: it becomes an error broadcast and the
// loop keeps watching.
type Coordinator struct {
	Role  role.Role
	Cfg   *config.Config
	Graph *role.Graph

	// Gen calls the generation endpoint; replaceable in tests.
	Gen *llm.Client

	profile agent.Profile
	engine  *recovery.Engine
	push    *notify.Client
	st      *state.ServiceState
	queue   chan notify.Notification

	mu     sync.Mutex
	server *notify.Server
}

// New wires a coordinator for a role. The dependency graph is validated
// here; a bad graph is a startup bug and fails immediately.
func New(r role.Role, cfg *config.Config, g *role.Graph, gen *llm.Client) (*Coordinator, error) {
	if err := g.Check(); err != nil {
		return nil, err
	}
	return &Coordinator{
		Role:    r,
		Cfg:     cfg,
		Graph:   g,
		Gen:     gen,
		profile: agent.For(r),
		engine:  &recovery.Engine{MaxAttempts: cfg.MaxRecoveryAttempts},
		push:    notify.NewClient(r, cfg),
		queue:   make(chan notify.Notification, queueSize),
	}, nil
}

// Run starts the daemon and blocks until ctx is cancelled. Shutdown stops
// accepting new notifications and lets any in-flight run finish.
func (c *Coordinator) Run(ctx context.Context) error {
	outputDir := c.Cfg.OutputDir(c.Role)
	if err := state.EnsureDir(outputDir); err != nil {
		return err
	}

	// Persisted state is diagnostic only: missed notifications are not
	// replayed from it. The watchers pick up anything that changes from
	// here on.
	st, err := state.Load(outputDir, string(c.Role))
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	c.st = st

	server := &notify.Server{
		Role:      c.Role,
		Project:   c.Cfg.Project,
		OutputDir: outputDir,
		Dispatch:  c.Dispatch,
	}
	if err := server.Start(ctx, c.Cfg.Addr(c.Role)); err != nil {
		return err
	}
	c.mu.Lock()
	c.server = server
	c.mu.Unlock()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	watchCtx, stopWatchers := context.WithCancel(ctx)
	defer stopWatchers()
	for _, upstream := range c.Graph.Upstreams(c.Role) {
		w := &watch.Watcher{
			Source:   upstream,
			Dir:      c.Cfg.OutputDir(upstream),
			Interval: time.Duration(c.Cfg.WatchInterval) * time.Second,
			Dispatch: c.Dispatch,
		}
		go w.Run(watchCtx)
	}

	ux.ServiceHeader(string(c.Role), c.Cfg.Project, server.Addr())

	for {
		select {
		case <-ctx.Done():
			ux.ShuttingDown(string(c.Role))
			return nil
		case n := <-c.queue:
			metrics.QueueDepth.Set(float64(len(c.queue)))
			c.process(ctx, n)
		}
	}
}

// Addr returns the listener address once Run has started the server.
func (c *Coordinator) Addr() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.server == nil {
		return ""
	}
	return c.server.Addr()
}

// Dispatch is the single funnel for both delivery paths. It gates on the
// dependency graph and queues accepted notifications in arrival order.
// Duplicates are queued, not deduplicated: processing is idempotent and
// at-least-once delivery is the contract.
func (c *Coordinator) Dispatch(n notify.Notification) {
	if !c.accepts(n.Source) {
		metrics.NotificationsDropped.Inc()
		ux.Notification(string(n.Source), string(n.Kind), false)
		return
	}
	// Error notifications from upstreams are informational; processing on
	// garbage input would only cascade the failure.
	if n.Kind == notify.KindError {
		fmt.Printf("upstream %s reported an error: %s\n", n.Source, n.ErrorText())
		return
	}
	ux.Notification(string(n.Source), string(n.Kind), true)
	c.queue <- n
	metrics.QueueDepth.Set(float64(len(c.queue)))
}

// accepts implements the gating rule. A notification from the role itself is
// a manual trigger (how a role with no upstreams, like business, gets
// seeded); everything else must come from a declared upstream.
func (c *Coordinator) accepts(source role.Role) bool {
	if source == c.Role {
		return true
	}
	return c.Graph.DependsOn(c.Role, source)
}

// process runs one pipeline pass. It never returns an error: every failure
// is converted to an error broadcast and the coordinator goes back to
// watching.
func (c *Coordinator) process(ctx context.Context, n notify.Notification) {
	outputDir := c.Cfg.OutputDir(c.Role)
	start := time.Now()
	ux.RunStart(string(n.Source))

	c.st.SetStatus(state.StatusProcessing)
	if err := c.st.Save(outputDir); err != nil {
		fmt.Printf("warning: failed to save state: %v\n", err)
	}

	result, continuations, err := c.generate(ctx, n)
	if err != nil {
		c.fail(ctx, outputDir, err)
		return
	}

	if err := c.st.SetResult(result); err != nil {
		c.fail(ctx, outputDir, err)
		return
	}
	c.st.SetStatus(state.StatusCompleted)
	if err := c.st.Save(outputDir); err != nil {
		fmt.Printf("warning: failed to save state: %v\n", err)
	}
	if err := state.WriteResult(outputDir, result); err != nil {
		c.fail(ctx, outputDir, fmt.Errorf("writing result: %w", err))
		return
	}

	metrics.PipelineRuns.WithLabelValues("completed").Inc()
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	ux.RunComplete(time.Since(start), continuations)

	update, err := notify.NewUpdate(c.Role, result)
	if err != nil {
		fmt.Printf("warning: failed to build update notification: %v\n", err)
		return
	}
	c.broadcast(ctx, update)
}

// generate calls the endpoint, repairs truncation, and extracts the
// structured result.
func (c *Coordinator) generate(ctx context.Context, n notify.Notification) (map[string]any, int, error) {
	messages := c.profile.Messages(c.Cfg.Project, n)

	text, err := c.Gen.Complete(ctx, messages)
	if err != nil {
		return nil, 0, err
	}

	continueMessages := append(append([]llm.Message{}, messages...),
		llm.Message{Role: llm.RoleUser, Content: recovery.ContinuePrompt})
	text, continuations := c.engine.Recover(ctx, text, func(ctx context.Context) (string, error) {
		metrics.RecoveryContinuations.Inc()
		return c.Gen.Complete(ctx, continueMessages)
	})

	res := extract.Extract(text, c.profile.Mode)
	switch res.Kind {
	case extract.KindJSON:
		return map[string]any{
			"status": "success",
			"role":   string(c.Role),
			"data":   res.JSON,
		}, continuations, nil
	case extract.KindFiles:
		written, err := state.WriteFiles(c.Cfg.OutputDir(c.Role), res.Files)
		if err != nil {
			return nil, continuations, fmt.Errorf("saving files: %w", err)
		}
		return map[string]any{
			"status":     "success",
			"role":       string(c.Role),
			"files":      written,
			"file_count": len(written),
		}, continuations, nil
	default:
		// ParseFailure: keep the normalized text for diagnosis and treat
		// the run as failed. Dependents get no update from this run.
		ux.RawFallback()
		raw, _ := json.Marshal(map[string]string{"status": "error", "raw_content": res.Raw})
		c.st.LastResult = raw
		return nil, continuations, fmt.Errorf("no structured payload extracted")
	}
}

// fail records the error, broadcasts it, and returns the coordinator to
// watching. Failures here never escape.
func (c *Coordinator) fail(ctx context.Context, outputDir string, cause error) {
	ux.RunFail(cause)
	metrics.PipelineRuns.WithLabelValues("error").Inc()

	c.st.SetStatus(state.StatusError)
	c.st.Error = cause.Error()
	if err := c.st.Save(outputDir); err != nil {
		fmt.Printf("warning: failed to save state: %v\n", err)
	}

	c.broadcast(ctx, notify.NewError(c.Role, cause))
}

// broadcast fans out to every peer, logging per-peer failures.
func (c *Coordinator) broadcast(ctx context.Context, n notify.Notification) {
	for peer, err := range c.push.Broadcast(ctx, n) {
		ux.BroadcastFail(string(peer), err)
	}
}
