package counter

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeves-cluster-organization/abci-core/abci/types"
)

func encodeUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func TestApp_CheckTx_RejectsWrongLength(t *testing.T) {
	app := New(nil, false)
	resp, err := app.CheckTx(context.Background(), &types.RequestCheckTx{Tx: []byte("bad")})
	require.NoError(t, err)
	assert.Equal(t, ResultEncodingError, resp.Code)
}

func TestApp_SerialMode_RejectsOutOfOrderTx(t *testing.T) {
	app := New(nil, true)
	resp, err := app.CheckTx(context.Background(), &types.RequestCheckTx{Tx: encodeUint32(5)})
	require.NoError(t, err)
	assert.Equal(t, ResultNonceError, resp.Code)

	resp, err = app.CheckTx(context.Background(), &types.RequestCheckTx{Tx: encodeUint32(1)})
	require.NoError(t, err)
	assert.Equal(t, ResultOK, resp.Code)
}

func TestApp_DeliverTxThenQueryCounter(t *testing.T) {
	app := New(nil, false)

	_, err := app.BeginBlock(context.Background(), &types.RequestBeginBlock{Height: 1})
	require.NoError(t, err)

	_, err = app.DeliverTx(context.Background(), &types.RequestDeliverTx{Tx: encodeUint32(7)})
	require.NoError(t, err)

	_, err = app.EndBlock(context.Background(), &types.RequestEndBlock{Height: 1})
	require.NoError(t, err)

	_, err = app.Commit(context.Background(), &types.RequestCommit{})
	require.NoError(t, err)

	resp, err := app.Query(context.Background(), &types.RequestQuery{Path: "counter"})
	require.NoError(t, err)
	assert.Equal(t, "0x00000007", string(resp.Value))

	resp, err = app.Query(context.Background(), &types.RequestQuery{Path: "height"})
	require.NoError(t, err)
	assert.Equal(t, "0x00000001", string(resp.Value))
}

func TestApp_Query_UnknownPath(t *testing.T) {
	app := New(nil, false)
	resp, err := app.Query(context.Background(), &types.RequestQuery{Path: "nonsense"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Log)
}

func TestApp_InitChain_LoadsGenesisCounterAndReturnsAppHash(t *testing.T) {
	app := New(nil, false)
	resp, err := app.InitChain(context.Background(), &types.RequestInitChain{AppStateBytes: encodeUint32(42)})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AppHash)

	queryResp, err := app.Query(context.Background(), &types.RequestQuery{Path: "counter"})
	require.NoError(t, err)
	assert.Equal(t, "0x0000002A", string(queryResp.Value))
}

func TestApp_InitChain_RejectsWrongLengthGenesisState(t *testing.T) {
	app := New(nil, false)
	_, err := app.InitChain(context.Background(), &types.RequestInitChain{AppStateBytes: []byte("bad")})
	assert.Error(t, err)
}

func TestApp_InitChain_EmptyAppStateBytesIsNoop(t *testing.T) {
	app := New(nil, false)
	resp, err := app.InitChain(context.Background(), &types.RequestInitChain{})
	require.NoError(t, err)
	assert.Empty(t, resp.AppHash)
}
