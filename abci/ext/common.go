// Package ext provides the extended application collaborator pattern: a
// CommonApp holding shared, mutex-protected state plus a TxChecker
// (Mempool, pure) and TxKeeper (Consensus, drives the block-hash
// accumulator) that both reference it through HasRelatedApp.
package ext

import (
	"errors"
	"sync"
)

// ErrStateConflict is returned by UpdateAppState when two updates claim the
// same block height with different app hashes. That can only mean the
// consensus engine and this application have diverged.
var ErrStateConflict = errors.New("ext: state update conflict at matching height")

// ErrGenesisFailure is returned by TxKeeper.InitChain when init_chain carries
// non-empty app_state_bytes but the application supplied no LoadGenesisFunc
// to interpret them. Fatal: raised by the collaborator, not recoverable by
// retrying the same request.
var ErrGenesisFailure = errors.New("ext: non-empty app_state_bytes but load_genesis not overridden")

// AppState is the application's durable, versioned state as far as the
// ABCI engine is concerned: a height and the hash committed at that height.
// Applications embed this inside their own richer state type.
type AppState struct {
	BlockHeight int64
	AppHash     []byte
}

// Clone returns a deep copy safe to mutate independently of the original.
func (s AppState) Clone() AppState {
	hash := make([]byte, len(s.AppHash))
	copy(hash, s.AppHash)
	return AppState{BlockHeight: s.BlockHeight, AppHash: hash}
}

// Logger is the structured logging surface CommonApp writes through.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// HasAppState exposes the current application state.
type HasAppState interface {
	State() AppState
}

// HasAppLogger exposes the application's logger.
type HasAppLogger interface {
	AppLogger() Logger
}

// HasAppOptions exposes free-form application options, set once at
// construction (genesis parameters, feature flags, and the like).
type HasAppOptions interface {
	Options() map[string]any
}

// HasRelatedApp is implemented by collaborators (TxChecker, TxKeeper) that
// hold a reference back to the CommonApp they were built from.
type HasRelatedApp interface {
	App() *CommonApp
}

// CommonApp is the shared, mutex-guarded core of an extended ABCI
// application. TxChecker and TxKeeper both hold a reference to one
// CommonApp; it is the only place application state actually changes.
type CommonApp struct {
	logger  Logger
	options map[string]any

	mu    sync.RWMutex
	state AppState
	init  bool
}

// NewCommonApp builds a CommonApp with the given logger (nil becomes a
// no-op logger) and options.
func NewCommonApp(logger Logger, options map[string]any) *CommonApp {
	if logger == nil {
		logger = nopLogger{}
	}
	if options == nil {
		options = make(map[string]any)
	}
	return &CommonApp{logger: logger, options: options}
}

func (a *CommonApp) AppLogger() Logger          { return a.logger }
func (a *CommonApp) Options() map[string]any    { return a.options }
func (a *CommonApp) State() AppState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// UpdateAppState applies newState, enforcing the monotonic/idempotent
// invariant: a higher height always replaces the current state; an equal
// height is accepted only if its app hash matches what is already recorded
// (a harmless replay), and rejected with ErrStateConflict otherwise. A
// lower height is a no-op, since it can only be a stale replay.
func (a *CommonApp) UpdateAppState(newState AppState) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.init {
		a.state = newState.Clone()
		a.init = true
		return nil
	}

	switch {
	case newState.BlockHeight > a.state.BlockHeight:
		a.state = newState.Clone()
		return nil
	case newState.BlockHeight == a.state.BlockHeight:
		if !bytesEqual(newState.AppHash, a.state.AppHash) {
			return ErrStateConflict
		}
		return nil
	default:
		return nil
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
