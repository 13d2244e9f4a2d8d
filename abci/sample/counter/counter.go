// Package counter is a minimal extended ABCI application used to exercise
// the engine end to end: it accepts transactions that are a big-endian
// uint32, optionally enforcing that each one be the previous value plus one
// (the "serial" option), and answers info/query with the current counter,
// block height and app hash.
package counter

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/jeeves-cluster-organization/abci-core/abci/ext"
	"github.com/jeeves-cluster-organization/abci-core/abci/types"
)

// ResultCode values this sample application returns in Code fields. The
// engine itself never interprets these; they are purely an
// application-level convention.
const (
	ResultOK            uint32 = 0
	ResultEncodingError uint32 = 1
	ResultNonceError    uint32 = 2
)

// App is the counter application: an ext.TxChecker and ext.TxKeeper sharing
// one ext.CommonApp, plus the Info capability the engine requires of every
// classified application.
type App struct {
	*ext.TxChecker
	*ext.TxKeeper

	common *ext.CommonApp
	serial bool

	mu      sync.RWMutex
	counter uint32
}

// New builds a counter App. When serial is true, check_tx and deliver_tx
// both reject any tx whose value is not exactly one more than the current
// counter.
func New(logger ext.Logger, serial bool) *App {
	common := ext.NewCommonApp(logger, map[string]any{"serial": serial})
	a := &App{common: common, serial: serial}
	a.TxChecker = ext.NewTxChecker(common, a.checkTx)
	a.TxKeeper = ext.NewTxKeeper(common, a.deliverTx, a.loadGenesis)
	return a
}

func (a *App) checkTx(ctx context.Context, req *types.RequestCheckTx) (*types.ResponseCheckTx, error) {
	if len(req.Tx) != 4 {
		return &types.ResponseCheckTx{
			Code: ResultEncodingError,
			Log:  "encoded value must be a four-byte big-endian uint32",
		}, nil
	}
	value := binary.BigEndian.Uint32(req.Tx)

	a.mu.RLock()
	current := a.counter
	a.mu.RUnlock()

	if a.serial && value != current+1 {
		return &types.ResponseCheckTx{
			Code: ResultNonceError,
			Log:  fmt.Sprintf("invalid counter nonce: expected %d, got %d", current+1, value),
		}, nil
	}
	return &types.ResponseCheckTx{Code: ResultOK}, nil
}

func (a *App) deliverTx(ctx context.Context, req *types.RequestDeliverTx) (*types.ResponseDeliverTx, error) {
	if len(req.Tx) != 4 {
		return &types.ResponseDeliverTx{Code: ResultEncodingError}, nil
	}
	value := binary.BigEndian.Uint32(req.Tx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.serial && value != a.counter+1 {
		return &types.ResponseDeliverTx{
			Code: ResultNonceError,
			Log:  fmt.Sprintf("invalid counter nonce: expected %d, got %d", a.counter+1, value),
		}, nil
	}
	a.counter = value

	return &types.ResponseDeliverTx{Code: ResultOK}, nil
}

func (a *App) loadGenesis(ctx context.Context, appStateBytes []byte) ([]byte, error) {
	if len(appStateBytes) != 4 {
		return nil, fmt.Errorf("counter: genesis app_state_bytes must be a four-byte big-endian uint32, got %d bytes", len(appStateBytes))
	}
	a.mu.Lock()
	a.counter = binary.BigEndian.Uint32(appStateBytes)
	a.mu.Unlock()

	sum := sha256.Sum256(appStateBytes)
	return sum[:], nil
}

// Info implements abci.InfoHandler.
func (a *App) Info(ctx context.Context, req *types.RequestInfo) (*types.ResponseInfo, error) {
	state := a.common.State()
	return &types.ResponseInfo{
		Data:             "counter",
		Version:          "1.0.0",
		LastBlockHeight:  state.BlockHeight,
		LastBlockAppHash: state.AppHash,
	}, nil
}

// SetOption implements abci.InfoHandler. The counter app takes no runtime
// options through set_option; everything it needs is fixed at New.
func (a *App) SetOption(ctx context.Context, req *types.RequestSetOption) (*types.ResponseSetOption, error) {
	return &types.ResponseSetOption{}, nil
}

// Query implements abci.InfoHandler for paths "hash", "counter" and
// "height".
func (a *App) Query(ctx context.Context, req *types.RequestQuery) (*types.ResponseQuery, error) {
	switch req.Path {
	case "hash":
		return &types.ResponseQuery{Code: ResultOK, Value: a.common.State().AppHash}, nil
	case "counter":
		a.mu.RLock()
		v := a.counter
		a.mu.RUnlock()
		return &types.ResponseQuery{Code: ResultOK, Value: []byte(fmt.Sprintf("0x%08X", v))}, nil
	case "height":
		return &types.ResponseQuery{Code: ResultOK, Value: []byte(fmt.Sprintf("0x%08X", a.common.State().BlockHeight))}, nil
	default:
		return &types.ResponseQuery{Log: fmt.Sprintf("invalid query path. Expected `hash`, `counter` or `height`, got %q", req.Path)}, nil
	}
}
