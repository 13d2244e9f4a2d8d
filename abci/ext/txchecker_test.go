package ext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeves-cluster-organization/abci-core/abci/types"
)

func TestTxChecker_DelegatesToCheckFunc(t *testing.T) {
	app := NewCommonApp(nil, nil)
	checker := NewTxChecker(app, func(ctx context.Context, req *types.RequestCheckTx) (*types.ResponseCheckTx, error) {
		if len(req.Tx) == 0 {
			return &types.ResponseCheckTx{Code: 1, Log: "empty tx"}, nil
		}
		return &types.ResponseCheckTx{Code: ResultOK}, nil
	})

	resp, err := checker.CheckTx(context.Background(), &types.RequestCheckTx{Tx: []byte("ok")})
	require.NoError(t, err)
	assert.Equal(t, ResultOK, resp.Code)

	resp, err = checker.CheckTx(context.Background(), &types.RequestCheckTx{})
	require.NoError(t, err)
	assert.Equal(t, uint32(1), resp.Code)
}

func TestTxChecker_AppAccessorReturnsBoundApp(t *testing.T) {
	app := NewCommonApp(nil, nil)
	checker := NewTxChecker(app, func(ctx context.Context, req *types.RequestCheckTx) (*types.ResponseCheckTx, error) {
		return &types.ResponseCheckTx{}, nil
	})
	assert.Same(t, app, checker.App())
}
