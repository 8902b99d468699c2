package swupdate

import (
	"sync"

	"github.com/google/uuid"
)

// The native scanner invokes fixed callback entry points rather than
// per-call closures, so each scan registers its handler under a call token
// and callbacks are routed by that token. Concurrent scans cannot
// cross-deliver.
type handlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]ScanHandler
}

var scanRegistry = &handlerRegistry{handlers: make(map[string]ScanHandler)}

func (r *handlerRegistry) register(h ScanHandler) string {
	token := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[token] = h

	return token
}

func (r *handlerRegistry) unregister(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, token)
}

func (r *handlerRegistry) lookup(token string) (ScanHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[token]

	return h, ok
}

// DispatchCount routes a record-count announcement to the handler registered
// under token. Callbacks for unknown tokens are dropped; a scan whose
// deadline passed may still be resolving natively.
func DispatchCount(token string, n uint) {
	if h, ok := scanRegistry.lookup(token); ok {
		h.Count(n)
	}
}

// DispatchField routes a flat field callback to the handler registered under
// token.
func DispatchField(token string, seq uint, key, value string) {
	if h, ok := scanRegistry.lookup(token); ok {
		h.Field(seq, key, value)
	}
}

// DispatchNestedField routes a nested field callback to the handler
// registered under token.
func DispatchNestedField(token string, seq uint, parentKey, key, value string) {
	if h, ok := scanRegistry.lookup(token); ok {
		h.NestedField(seq, parentKey, key, value)
	}
}
