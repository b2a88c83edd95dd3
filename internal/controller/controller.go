// Package controller turns editor events into recommendation passes and
// keeps the resulting marks in step with the translation buffer.
//
// All state is owned by the goroutine running Run. Passes run on their own
// goroutines and hand their result back through the event queue; a result is
// applied only if no newer pass was started and nothing was cleared since.
package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/valpere/edithints/internal/annotation"
	"github.com/valpere/edithints/internal/translator"
)

// DefaultQueueSize is the capacity of the event queue.
const DefaultQueueSize = 64

var (
	ErrStopped        = errors.New("controller stopped")
	ErrAlreadyRunning = errors.New("controller already running")
)

type Options struct {
	Host        Host
	Sink        Sink
	Recommender PassRunner
	Settings    Settings
	Providers   *translator.Set
	Enabled     bool
	QueueSize   int
	Logger      *slog.Logger
}

type Controller struct {
	host     Host
	sink     Sink
	painter  MatchPainter
	runner   PassRunner
	settings Settings
	logger   *slog.Logger

	events  chan Event
	done    chan struct{}
	running atomic.Bool
	passes  sync.WaitGroup

	// Owned by the Run goroutine.
	tracker   *annotation.Tracker
	providers *translator.Set
	enabled   bool
	epoch     uint64
	lastMatch int
	haveMatch bool
}

func New(opts Options) *Controller {
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		host:      opts.Host,
		sink:      opts.Sink,
		runner:    opts.Recommender,
		settings:  opts.Settings,
		logger:    logger,
		events:    make(chan Event, opts.QueueSize),
		done:      make(chan struct{}),
		tracker:   annotation.NewTracker(),
		providers: opts.Providers,
		enabled:   opts.Enabled,
	}
	if p, ok := opts.Sink.(MatchPainter); ok {
		c.painter = p
	}
	return c
}

// Post enqueues ev. It blocks while the queue is full.
func (c *Controller) Post(ctx context.Context, ev Event) error {
	select {
	case <-c.done:
		return ErrStopped
	default:
	}
	select {
	case c.events <- ev:
		return nil
	case <-c.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run consumes events in arrival order until ctx is done. In-flight passes
// are waited for before Run returns.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer func() {
		close(c.done)
		c.passes.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-c.events:
			c.handle(ctx, ev)
		}
	}
}

func (c *Controller) handle(ctx context.Context, ev Event) {
	switch ev := ev.(type) {
	case EntryActivated:
		c.haveMatch = false
		c.invalidate()

	case MatchSelectionChanged:
		if c.haveMatch && ev.Index == c.lastMatch {
			return
		}
		c.lastMatch, c.haveMatch = ev.Index, true
		c.invalidate()
		c.trigger(ctx)

	case ProviderSetChanged:
		c.providers = ev.Providers
		if c.providers.Len() == 0 {
			c.invalidate()
			return
		}
		c.trigger(ctx)

	case FeatureToggled:
		c.enabled = ev.Enabled
		if !ev.Enabled {
			c.invalidate()
			return
		}
		c.trigger(ctx)

	case EditEvent:
		if c.tracker.State() == annotation.Empty {
			return
		}
		c.tracker.Apply(ev.Edit)
		c.render()

	case passCompleted:
		c.complete(ev)
	}
}

// invalidate clears the marks and makes every in-flight pass stale.
func (c *Controller) invalidate() {
	c.epoch++
	c.tracker.AdvanceEpoch(c.epoch)
	c.tracker.Clear()
	c.render()
	if c.painter != nil {
		c.painter.ClearMatch()
	}
}

func (c *Controller) trigger(ctx context.Context) {
	if !c.enabled || c.providers.Len() == 0 {
		return
	}
	match, ok := c.host.ActiveMatch()
	if !ok {
		return
	}

	c.epoch++
	epoch := c.epoch
	in := PassInput{
		Sentence:  c.host.ActiveSourceText(),
		Match:     match,
		Providers: c.providers,
		Settings:  c.settings,
	}
	c.logger.Debug("pass started", "epoch", epoch, "match", match.Index, "providers", c.providers.Names())

	c.passes.Add(1)
	go func() {
		defer c.passes.Done()
		res, err := c.recommend(ctx, in)
		select {
		case c.events <- passCompleted{epoch: epoch, result: res, err: err}:
		case <-ctx.Done():
		}
	}()
}

// recommend runs one pass, turning a panic into an error so a broken
// provider or oracle cannot take the host down.
func (c *Controller) recommend(ctx context.Context, in PassInput) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = Result{}, fmt.Errorf("recommendation pass panicked: %v", r)
		}
	}()
	return c.runner.Recommend(ctx, in)
}

func (c *Controller) complete(ev passCompleted) {
	if ev.epoch != c.epoch {
		c.logger.Debug("stale pass discarded", "epoch", ev.epoch, "latest", c.epoch)
		return
	}

	classes := ev.result.Classes
	if ev.err != nil {
		c.logger.Warn("recommendation pass failed", "epoch", ev.epoch, "error", ev.err)
		classes = nil
	}
	if !c.tracker.Recompute(classes, ev.result.Words, ev.epoch) {
		return
	}

	c.logger.Debug("pass applied", "epoch", ev.epoch, "marks", len(c.tracker.Marks()), "evidence", ev.result.Evidence)
	c.render()
	if c.painter != nil {
		if classes == nil {
			c.painter.ClearMatch()
		} else {
			c.painter.PaintMatch(ev.result.Match, ev.result.Words, classes)
		}
	}
}

func (c *Controller) render() {
	if c.sink != nil {
		c.sink.Render(c.tracker.Marks())
	}
}
