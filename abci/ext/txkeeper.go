package ext

import (
	"context"
	"fmt"

	"github.com/jeeves-cluster-organization/abci-core/abci/ext/bhasher"
	"github.com/jeeves-cluster-organization/abci-core/abci/types"
)

// Result codes are deliberately plain uint32 values: the engine treats ABCI
// result codes as an opaque value it forwards, never a closed enum it
// validates. 0 means success by ABCI convention; everything else is an
// application-defined failure code.
const ResultOK uint32 = 0

// DeliverTxFunc is the application-specific transaction-application logic a
// TxKeeper delegates to, after the tx's hash has already been folded into
// the block-hash accumulator.
type DeliverTxFunc func(ctx context.Context, req *types.RequestDeliverTx) (*types.ResponseDeliverTx, error)

// LoadGenesisFunc consumes init_chain's app_state_bytes, if present, to seed
// application state before the first block, and returns the genesis app_hash
// that seeds the block-hash accumulator and is returned to the consensus
// engine in ResponseInitChain.
type LoadGenesisFunc func(ctx context.Context, appStateBytes []byte) (appHash []byte, err error)

// BlockHasherFactory builds a fresh accumulator for each block. Tests can
// substitute a deterministic or instrumented hasher.
type BlockHasherFactory func() *bhasher.BlockHasher

// TxKeeper implements the engine's ConsensusHandler capability. It owns the
// block-hash accumulator across one block's begin_block -> deliver_tx* ->
// end_block -> commit sequence and is the only collaborator that calls
// CommonApp.UpdateAppState.
type TxKeeper struct {
	app *CommonApp
	bhf BlockHasherFactory

	deliver     DeliverTxFunc
	loadGenesis LoadGenesisFunc

	bh      *bhasher.BlockHasher
	working AppState
}

// NewTxKeeper builds a TxKeeper bound to app. deliver handles
// application-specific tx application; loadGenesis may be nil if the
// application has no genesis state to load.
func NewTxKeeper(app *CommonApp, deliver DeliverTxFunc, loadGenesis LoadGenesisFunc) *TxKeeper {
	return &TxKeeper{
		app:         app,
		bhf:         bhasher.NewBlockHasher,
		deliver:     deliver,
		loadGenesis: loadGenesis,
	}
}

// App returns the CommonApp this keeper was built from.
func (k *TxKeeper) App() *CommonApp { return k.app }

// State returns the in-progress state for the block currently being built,
// valid between BeginBlock and Commit.
func (k *TxKeeper) State() AppState { return k.working }

func (k *TxKeeper) InitChain(ctx context.Context, req *types.RequestInitChain) (*types.ResponseInitChain, error) {
	k.app.AppLogger().Debug("init_chain", "chain_id", req.ChainID)
	if len(req.AppStateBytes) == 0 {
		return &types.ResponseInitChain{}, nil
	}
	if k.loadGenesis == nil {
		return nil, fmt.Errorf("ext: init_chain: %w", ErrGenesisFailure)
	}

	appHash, err := k.loadGenesis(ctx, req.AppStateBytes)
	if err != nil {
		return nil, fmt.Errorf("ext: load_genesis: %w", err)
	}
	if k.bh == nil {
		k.bh = k.bhf()
	}
	if err := k.bh.WriteHash(appHash); err != nil {
		return nil, fmt.Errorf("ext: load_genesis: %w", err)
	}
	return &types.ResponseInitChain{AppHash: appHash}, nil
}

func (k *TxKeeper) BeginBlock(ctx context.Context, req *types.RequestBeginBlock) (*types.ResponseBeginBlock, error) {
	k.app.AppLogger().Debug("begin_block", "height", req.Height)
	k.working = k.app.State().Clone()
	k.bh = k.bhf()
	return &types.ResponseBeginBlock{}, nil
}

func (k *TxKeeper) DeliverTx(ctx context.Context, req *types.RequestDeliverTx) (*types.ResponseDeliverTx, error) {
	k.app.AppLogger().Debug("deliver_tx", "tx_len", len(req.Tx))
	if _, err := k.bh.WriteTx(req.Tx); err != nil {
		return nil, fmt.Errorf("ext: deliver_tx: %w", err)
	}
	return k.deliver(ctx, req)
}

func (k *TxKeeper) EndBlock(ctx context.Context, req *types.RequestEndBlock) (*types.ResponseEndBlock, error) {
	k.app.AppLogger().Debug("end_block", "height", req.Height)
	k.working.BlockHeight = req.Height
	return &types.ResponseEndBlock{}, nil
}

func (k *TxKeeper) Commit(ctx context.Context, req *types.RequestCommit) (*types.ResponseCommit, error) {
	k.working.AppHash = k.bh.Sum(nil)
	if err := k.app.UpdateAppState(k.working); err != nil {
		return nil, fmt.Errorf("ext: commit: %w", err)
	}
	k.app.AppLogger().Debug("commit", "height", k.working.BlockHeight, "app_hash", k.working.AppHash)
	return &types.ResponseCommit{Data: k.working.AppHash}, nil
}
