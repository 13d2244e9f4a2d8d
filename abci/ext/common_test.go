package ext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateAppState_FirstUpdateAlwaysAccepted(t *testing.T) {
	app := NewCommonApp(nil, nil)
	require.NoError(t, app.UpdateAppState(AppState{BlockHeight: 1, AppHash: []byte("a")}))
	assert.Equal(t, int64(1), app.State().BlockHeight)
}

func TestUpdateAppState_HigherHeightReplaces(t *testing.T) {
	app := NewCommonApp(nil, nil)
	require.NoError(t, app.UpdateAppState(AppState{BlockHeight: 1, AppHash: []byte("a")}))
	require.NoError(t, app.UpdateAppState(AppState{BlockHeight: 2, AppHash: []byte("b")}))
	assert.Equal(t, int64(2), app.State().BlockHeight)
	assert.Equal(t, []byte("b"), app.State().AppHash)
}

func TestUpdateAppState_SameHeightSameHashIsIdempotent(t *testing.T) {
	app := NewCommonApp(nil, nil)
	require.NoError(t, app.UpdateAppState(AppState{BlockHeight: 5, AppHash: []byte("x")}))
	require.NoError(t, app.UpdateAppState(AppState{BlockHeight: 5, AppHash: []byte("x")}))
	assert.Equal(t, int64(5), app.State().BlockHeight)
}

func TestUpdateAppState_SameHeightDifferentHashConflicts(t *testing.T) {
	app := NewCommonApp(nil, nil)
	require.NoError(t, app.UpdateAppState(AppState{BlockHeight: 5, AppHash: []byte("x")}))
	err := app.UpdateAppState(AppState{BlockHeight: 5, AppHash: []byte("y")})
	assert.ErrorIs(t, err, ErrStateConflict)
}

func TestUpdateAppState_LowerHeightIsNoop(t *testing.T) {
	app := NewCommonApp(nil, nil)
	require.NoError(t, app.UpdateAppState(AppState{BlockHeight: 5, AppHash: []byte("x")}))
	require.NoError(t, app.UpdateAppState(AppState{BlockHeight: 3, AppHash: []byte("stale")}))
	assert.Equal(t, int64(5), app.State().BlockHeight, "a stale replay must not roll state back")
}

func TestClone_IsIndependentOfOriginal(t *testing.T) {
	s := AppState{BlockHeight: 1, AppHash: []byte("a")}
	clone := s.Clone()
	clone.AppHash[0] = 'z'
	assert.Equal(t, byte('a'), s.AppHash[0], "mutating the clone must not affect the original")
}
