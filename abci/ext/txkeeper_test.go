package ext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeves-cluster-organization/abci-core/abci/ext/bhasher"
	"github.com/jeeves-cluster-organization/abci-core/abci/types"
)

func TestTxKeeper_FullBlockLifecycleUpdatesAppState(t *testing.T) {
	app := NewCommonApp(nil, nil)
	keeper := NewTxKeeper(app, func(ctx context.Context, req *types.RequestDeliverTx) (*types.ResponseDeliverTx, error) {
		return &types.ResponseDeliverTx{Code: ResultOK}, nil
	}, nil)

	_, err := keeper.BeginBlock(context.Background(), &types.RequestBeginBlock{Height: 1})
	require.NoError(t, err)

	for _, tx := range [][]byte{[]byte("a"), []byte("b"), []byte("c")} {
		resp, err := keeper.DeliverTx(context.Background(), &types.RequestDeliverTx{Tx: tx})
		require.NoError(t, err)
		assert.Equal(t, ResultOK, resp.Code)
	}

	_, err = keeper.EndBlock(context.Background(), &types.RequestEndBlock{Height: 1})
	require.NoError(t, err)

	commitResp, err := keeper.Commit(context.Background(), &types.RequestCommit{})
	require.NoError(t, err)
	assert.NotEmpty(t, commitResp.Data)
	assert.Equal(t, int64(1), app.State().BlockHeight)
	assert.Equal(t, commitResp.Data, app.State().AppHash)
}

func TestTxKeeper_DuplicateTxWithinBlockFails(t *testing.T) {
	app := NewCommonApp(nil, nil)
	keeper := NewTxKeeper(app, func(ctx context.Context, req *types.RequestDeliverTx) (*types.ResponseDeliverTx, error) {
		return &types.ResponseDeliverTx{Code: ResultOK}, nil
	}, nil)

	_, err := keeper.BeginBlock(context.Background(), &types.RequestBeginBlock{Height: 1})
	require.NoError(t, err)

	_, err = keeper.DeliverTx(context.Background(), &types.RequestDeliverTx{Tx: []byte("same")})
	require.NoError(t, err)

	_, err = keeper.DeliverTx(context.Background(), &types.RequestDeliverTx{Tx: []byte("same")})
	require.Error(t, err)
}

func TestTxKeeper_InitChainLoadsGenesis(t *testing.T) {
	app := NewCommonApp(nil, nil)
	var loaded []byte
	genesisHash := []byte("genesis-app-hash")
	keeper := NewTxKeeper(app, func(ctx context.Context, req *types.RequestDeliverTx) (*types.ResponseDeliverTx, error) {
		return &types.ResponseDeliverTx{}, nil
	}, func(ctx context.Context, appStateBytes []byte) ([]byte, error) {
		loaded = appStateBytes
		return genesisHash, nil
	})

	resp, err := keeper.InitChain(context.Background(), &types.RequestInitChain{AppStateBytes: []byte("genesis")})
	require.NoError(t, err)
	assert.Equal(t, []byte("genesis"), loaded)
	assert.Equal(t, genesisHash, resp.AppHash)
}

func TestTxKeeper_InitChainWithoutLoadGenesisFailsOnNonEmptyState(t *testing.T) {
	app := NewCommonApp(nil, nil)
	keeper := NewTxKeeper(app, func(ctx context.Context, req *types.RequestDeliverTx) (*types.ResponseDeliverTx, error) {
		return &types.ResponseDeliverTx{}, nil
	}, nil)

	_, err := keeper.InitChain(context.Background(), &types.RequestInitChain{AppStateBytes: []byte("genesis")})
	assert.ErrorIs(t, err, ErrGenesisFailure)
}

func TestTxKeeper_InitChainWithoutLoadGenesisOkOnEmptyState(t *testing.T) {
	app := NewCommonApp(nil, nil)
	keeper := NewTxKeeper(app, func(ctx context.Context, req *types.RequestDeliverTx) (*types.ResponseDeliverTx, error) {
		return &types.ResponseDeliverTx{}, nil
	}, nil)

	resp, err := keeper.InitChain(context.Background(), &types.RequestInitChain{})
	require.NoError(t, err)
	assert.Empty(t, resp.AppHash)
}

func TestTxKeeper_GenesisHashSeedsBlockHashAccumulatorAgainstDuplicates(t *testing.T) {
	app := NewCommonApp(nil, nil)
	genesisHash := []byte("genesis-app-hash")
	keeper := NewTxKeeper(app, func(ctx context.Context, req *types.RequestDeliverTx) (*types.ResponseDeliverTx, error) {
		return &types.ResponseDeliverTx{Code: ResultOK}, nil
	}, func(ctx context.Context, appStateBytes []byte) ([]byte, error) {
		return genesisHash, nil
	})

	_, err := keeper.InitChain(context.Background(), &types.RequestInitChain{AppStateBytes: []byte("genesis")})
	require.NoError(t, err)

	_, err = keeper.InitChain(context.Background(), &types.RequestInitChain{AppStateBytes: []byte("genesis")})
	assert.ErrorIs(t, err, bhasher.ErrDuplicateHash, "a second init_chain must not silently re-seed the same accumulator")
}
