// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about layout refreshes, payload loading, and API calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which keeps the layout
// engine free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRefreshHooks(&myRefreshHooks{})
//	    observability.SetSourceHooks(&mySourceHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Refresh().OnRefreshStart(ctx, runID, records)
//	// ... lay out ...
//	observability.Refresh().OnRefreshComplete(ctx, runID, path, groups, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Refresh Hooks
// =============================================================================

// RefreshHooks receives events from the layout orchestrator.
type RefreshHooks interface {
	// OnRefreshStart is called before a refresh. records is the size of the
	// new payload, or 0 when the refresh reuses the previous one.
	OnRefreshStart(ctx context.Context, runID string, records int)

	// OnRefreshComplete is called after every refresh, successful or not.
	OnRefreshComplete(ctx context.Context, runID, path string, groups int, duration time.Duration, err error)

	// OnRecordsRejected is called when a refresh dropped records.
	OnRecordsRejected(ctx context.Context, runID string, rejected int)
}

// =============================================================================
// Source Hooks
// =============================================================================

// SourceHooks receives events from payload sources.
type SourceHooks interface {
	// OnLoadStart records the start of a payload load.
	OnLoadStart(ctx context.Context, source, dataset string)

	// OnLoadComplete records the end of a payload load.
	OnLoadComplete(ctx context.Context, source, dataset string, records int, duration time.Duration, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest records an incoming HTTP request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response to a request.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnError records a request that failed with an error.
	OnError(ctx context.Context, method, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopRefreshHooks is a no-op implementation of RefreshHooks.
type NoopRefreshHooks struct{}

func (NoopRefreshHooks) OnRefreshStart(context.Context, string, int) {}
func (NoopRefreshHooks) OnRefreshComplete(context.Context, string, string, int, time.Duration, error) {
}
func (NoopRefreshHooks) OnRecordsRejected(context.Context, string, int) {}

// NoopSourceHooks is a no-op implementation of SourceHooks.
type NoopSourceHooks struct{}

func (NoopSourceHooks) OnLoadStart(context.Context, string, string) {}
func (NoopSourceHooks) OnLoadComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	refreshHooks RefreshHooks = NoopRefreshHooks{}
	sourceHooks  SourceHooks  = NoopSourceHooks{}
	httpHooks    HTTPHooks    = NoopHTTPHooks{}
	hooksMu      sync.RWMutex
)

// SetRefreshHooks registers custom refresh hooks.
// This should be called once at application startup before any refresh.
func SetRefreshHooks(h RefreshHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		refreshHooks = h
	}
}

// SetSourceHooks registers custom source hooks.
// This should be called once at application startup before any payload load.
func SetSourceHooks(h SourceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sourceHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before serving requests.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Refresh returns the registered refresh hooks.
func Refresh() RefreshHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return refreshHooks
}

// Source returns the registered source hooks.
func Source() SourceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sourceHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	refreshHooks = NoopRefreshHooks{}
	sourceHooks = NoopSourceHooks{}
	httpHooks = NoopHTTPHooks{}
}
