package recovery

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLogger struct {
	mu   sync.Mutex
	logs []string
}

func (l *testLogger) Error(msg string, keysAndValues ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logs = append(l.logs, msg)
}

func TestGo_RecoversPanic(t *testing.T) {
	logger := &testLogger{}
	recovered := make(chan any, 1)

	Go(logger, "test_op", func() {
		panic("boom")
	}, func(r any) {
		recovered <- r
	})

	select {
	case r := <-recovered:
		assert.Equal(t, "boom", r)
	case <-time.After(time.Second):
		t.Fatal("onPanic was not called")
	}

	logger.mu.Lock()
	defer logger.mu.Unlock()
	assert.Contains(t, logger.logs, "panic_recovered")
}

func TestGo_NormalCompletionNoPanic(t *testing.T) {
	logger := &testLogger{}
	done := make(chan struct{})

	Go(logger, "test_op", func() {
		close(done)
	}, func(r any) {
		t.Fatal("onPanic should not be called")
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fn did not run")
	}
}

func TestCall_RecoversPanicIntoError(t *testing.T) {
	logger := &testLogger{}
	result, err := Call(logger, "handler_invoke", func() (any, error) {
		panic("handler exploded")
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "handler exploded")
}

func TestCall_PassesThroughResult(t *testing.T) {
	result, err := Call(nil, "op", func() (any, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result)
}
