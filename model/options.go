package model

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"mcpchat/api"
	"mcpchat/config"
)

// Gateway is the backend surface both stores depend on. *api.Client
// satisfies it.
type Gateway interface {
	InitializeMCP(ctx context.Context, req api.InitializeRequest) (*api.InitializeResponse, error)
	SendChatMessage(ctx context.Context, req api.ChatRequest) (*api.ChatResponse, error)
}

type options struct {
	now        func() time.Time
	latestOnly bool
}

type Option func(*options)

// WithClock replaces time.Now for timestamps and message ids.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithLatestOnly makes a store discard the result of an orchestration call
// once a newer call of the same kind has started. The newest call owns the
// loading flag.
func WithLatestOnly(enabled bool) Option {
	return func(o *options) {
		o.latestOnly = enabled
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// notifier fans a "state changed" signal out to subscribers. Each channel
// holds at most one pending signal, so slow readers see coalesced updates
// and never block a store.
type notifier struct {
	mu   sync.Mutex
	subs []chan struct{}
}

// Subscribe returns a channel that receives a value after state changes.
func (n *notifier) Subscribe() <-chan struct{} {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan struct{}, 1)
	n.subs = append(n.subs, ch)
	return ch
}

func (n *notifier) Unsubscribe(ch <-chan struct{}) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, sub := range n.subs {
		if sub == ch {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			return
		}
	}
}

func (n *notifier) notify() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// newOpID tags the debug log lines of one orchestration call.
func newOpID() string {
	return uuid.NewString()[:8]
}

func logf(format string, args ...any) {
	if config.DebugLog != nil {
		config.DebugLog.Printf(format, args...)
	}
}

func errorText(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
