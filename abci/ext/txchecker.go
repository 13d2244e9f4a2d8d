package ext

import (
	"context"

	"github.com/jeeves-cluster-organization/abci-core/abci/types"
)

// CheckTxFunc is the application-specific admissibility check a TxChecker
// delegates to. It must be pure: no application state may be mutated from
// the Mempool connection.
type CheckTxFunc func(ctx context.Context, req *types.RequestCheckTx) (*types.ResponseCheckTx, error)

// TxChecker implements the engine's MempoolHandler capability. It never
// mutates CommonApp state; it only reads it (through App()) to validate a
// candidate transaction ahead of consensus.
type TxChecker struct {
	app   *CommonApp
	check CheckTxFunc
}

// NewTxChecker builds a TxChecker bound to app, delegating the actual
// admissibility decision to check.
func NewTxChecker(app *CommonApp, check CheckTxFunc) *TxChecker {
	return &TxChecker{app: app, check: check}
}

// App returns the CommonApp this checker was built from.
func (c *TxChecker) App() *CommonApp { return c.app }

// CheckTx validates req.Tx against current application state and reports
// whether consensus should ever see it.
func (c *TxChecker) CheckTx(ctx context.Context, req *types.RequestCheckTx) (*types.ResponseCheckTx, error) {
	c.app.AppLogger().Debug("check_tx", "tx_len", len(req.Tx))
	return c.check(ctx, req)
}
