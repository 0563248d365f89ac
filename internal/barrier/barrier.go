// Package barrier decides when a mounted document is ready to be captured.
//
// Math typesetting and image decoding finish asynchronously after a
// document is mounted. A Barrier turns that into a single completion
// handle the export pipeline can wait on.
package barrier

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStopped is returned by Handle.Wait when the handle was stopped before it
// resolved.
var ErrStopped = errors.New("barrier stopped")

// Sheet barrier modes.
const (
	ModeFixed  = "fixed"
	ModeStable = "stable"
)

// Config holds the barrier delays. None of them are correctness bounds;
// they only trade export latency against the chance of capturing a
// half-settled layout.
type Config struct {
	// SheetDelay is the fixed wait for problem and answer sheets.
	SheetDelay time.Duration `yaml:"sheet_delay"`
	// DefaultDelay is the fixed wait for documents without their own barrier.
	DefaultDelay time.Duration `yaml:"default_delay"`
	// TypesetInitial is waited before asking the typesetter for completion.
	TypesetInitial time.Duration `yaml:"typeset_initial"`
	// TypesetSettle is waited after the typesetter reports completion.
	TypesetSettle time.Duration `yaml:"typeset_settle"`
	// TypesetFallback replaces the whole sequence when no typesetter is
	// available.
	TypesetFallback time.Duration `yaml:"typeset_fallback"`

	// Mode selects the sheet barrier: ModeFixed waits SheetDelay, ModeStable
	// polls the typesetter until its output stops changing.
	Mode string `yaml:"mode"`
	// StableInterval is the polling period in ModeStable.
	StableInterval time.Duration `yaml:"stable_interval"`
	// StableQuiet is how long the output must stay unchanged in ModeStable.
	StableQuiet time.Duration `yaml:"stable_quiet"`
}

// DefaultConfig returns the stock delays.
func DefaultConfig() Config {
	return Config{
		SheetDelay:      1200 * time.Millisecond,
		DefaultDelay:    500 * time.Millisecond,
		TypesetInitial:  500 * time.Millisecond,
		TypesetSettle:   500 * time.Millisecond,
		TypesetFallback: 1000 * time.Millisecond,
		Mode:            ModeFixed,
		StableInterval:  50 * time.Millisecond,
		StableQuiet:     300 * time.Millisecond,
	}
}

// Barrier produces a readiness handle for one mount.
type Barrier interface {
	Start(ctx context.Context) *Handle
}

// Handle is the completion signal of one started barrier.
type Handle struct {
	done   chan struct{}
	once   sync.Once
	ctx    context.Context
	cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

func newHandle(parent context.Context) *Handle {
	ctx, cancel := context.WithCancel(parent)
	return &Handle{done: make(chan struct{}), ctx: ctx, cancel: cancel}
}

// Done is closed exactly once, when the barrier resolves. It is never
// closed if the handle is stopped first.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Stop cancels any pending wait. It is safe to call more than once and
// after the handle resolved. Once Stop returns, Done is either already
// closed or never will be.
func (h *Handle) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cancel()
}

// Err returns the typesetting error observed while waiting, if any. It does
// not prevent the handle from resolving.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Wait blocks until the handle resolves, is stopped, or ctx ends.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-h.ctx.Done():
		select {
		case <-h.done:
			return nil
		default:
		}
		if err := context.Cause(h.ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handle) record(err error) {
	if err == nil {
		return
	}
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
}

func (h *Handle) resolve() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.ctx.Err() != nil {
		return
	}
	h.once.Do(func() { close(h.done) })
	h.cancel()
}

// sleep waits d or until ctx ends. It reports whether the full delay elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

type fixed time.Duration

// Fixed resolves d after Start.
func Fixed(d time.Duration) Barrier { return fixed(d) }

func (f fixed) Start(ctx context.Context) *Handle {
	h := newHandle(ctx)
	go func() {
		if sleep(h.ctx, time.Duration(f)) {
			h.resolve()
		}
	}()
	return h
}

// Confirmer reports typesetting completion. Promise delivers one value, nil
// on success.
type Confirmer interface {
	Promise(ctx context.Context) <-chan error
}

type typeset struct {
	confirm Confirmer
	cfg     Config
}

// Typeset waits cfg.TypesetInitial, then for confirm to report completion,
// then cfg.TypesetSettle. A failed confirmation is recorded on the handle and
// the barrier still resolves. With a nil confirm it resolves after
// cfg.TypesetFallback.
func Typeset(confirm Confirmer, cfg Config) Barrier {
	return typeset{confirm: confirm, cfg: cfg}
}

func (b typeset) Start(ctx context.Context) *Handle {
	h := newHandle(ctx)
	go func() {
		if b.confirm == nil {
			if sleep(h.ctx, b.cfg.TypesetFallback) {
				h.resolve()
			}
			return
		}
		if !sleep(h.ctx, b.cfg.TypesetInitial) {
			return
		}
		select {
		case err := <-b.confirm.Promise(h.ctx):
			h.record(err)
		case <-h.ctx.Done():
			return
		}
		if sleep(h.ctx, b.cfg.TypesetSettle) {
			h.resolve()
		}
	}()
	return h
}

// Versioner exposes a counter that changes whenever typeset output changes.
type Versioner interface {
	Version() uint64
}

// Sheet returns the barrier for problem and answer sheets. In ModeStable it
// polls confirm's version when confirm implements Versioner; otherwise it
// waits cfg.SheetDelay.
func Sheet(cfg Config, confirm Confirmer) Barrier {
	if cfg.Mode == ModeStable {
		if v, ok := confirm.(Versioner); ok {
			return Stable(v.Version, cfg.StableInterval, cfg.StableQuiet)
		}
	}
	return Fixed(cfg.SheetDelay)
}

type stable struct {
	version  func() uint64
	interval time.Duration
	quiet    time.Duration
}

// Stable polls version every interval and resolves once its value has not
// changed for quiet.
func Stable(version func() uint64, interval, quiet time.Duration) Barrier {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return stable{version: version, interval: interval, quiet: quiet}
}

func (b stable) Start(ctx context.Context) *Handle {
	h := newHandle(ctx)
	go func() {
		last := b.version()
		since := time.Now()
		tick := time.NewTicker(b.interval)
		defer tick.Stop()
		for {
			if time.Since(since) >= b.quiet {
				h.resolve()
				return
			}
			select {
			case <-tick.C:
			case <-h.ctx.Done():
				return
			}
			if v := b.version(); v != last {
				last, since = v, time.Now()
			}
		}
	}()
	return h
}
