package tuteliq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWait = 2 * time.Second
	testTick = 5 * time.Millisecond
)

// recorder collects every published state so tests can assert the full
// transition sequence.
type recorder[Out any] struct {
	mu     sync.Mutex
	states []State[Out]
}

func (r *recorder[Out]) observe(s State[Out]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, s)
}

func (r *recorder[Out]) all() []State[Out] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State[Out](nil), r.states...)
}

func TestOperation_InitialState(t *testing.T) {
	op := NewOperation(func(ctx context.Context, in string) (*int, error) {
		return nil, nil
	})

	state := op.State()
	assert.Nil(t, state.Data)
	assert.False(t, state.Loading)
	assert.NoError(t, state.Err)
}

func TestOperation_LoadingBeforeSettle(t *testing.T) {
	release := make(chan struct{})
	op := NewOperation(func(ctx context.Context, in string) (*int, error) {
		<-release
		value := len(in)
		return &value, nil
	})

	loading := make(chan State[int], 1)
	cancel := op.Subscribe(func(s State[int]) {
		if s.Loading {
			loading <- s
		}
	})
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = op.Execute(context.Background(), "hello")
	}()

	// The loading transition is published before the wrapped call settles.
	observed := <-loading
	assert.True(t, observed.Loading)
	assert.Nil(t, observed.Data)
	assert.NoError(t, observed.Err)

	state := op.State()
	assert.True(t, state.Loading)
	assert.Nil(t, state.Data)

	close(release)
	<-done

	state = op.State()
	assert.False(t, state.Loading)
	require.NotNil(t, state.Data)
	assert.Equal(t, 5, *state.Data)
}

func TestOperation_Success(t *testing.T) {
	op := NewOperation(func(ctx context.Context, in int) (*string, error) {
		out := fmt.Sprintf("result-%d", in)
		return &out, nil
	})

	rec := &recorder[string]{}
	cancel := op.Subscribe(rec.observe)
	defer cancel()

	result, err := op.Execute(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "result-7", *result)

	// Returned value and published value are the same result.
	state := op.State()
	assert.Same(t, result, state.Data)
	assert.False(t, state.Loading)
	assert.NoError(t, state.Err)

	states := rec.all()
	require.Len(t, states, 2)
	assert.True(t, states[0].Loading)
	assert.False(t, states[1].Loading)
}

func TestOperation_Failure(t *testing.T) {
	t.Run("taxonomy error passes through", func(t *testing.T) {
		cause := &Error{Kind: KindAuthentication, Message: "invalid API key", StatusCode: 401}
		op := NewOperation(func(ctx context.Context, in string) (*int, error) {
			return nil, fmt.Errorf("failed to analyze: %w", cause)
		})

		_, err := op.Execute(context.Background(), "hello")
		require.Error(t, err)
		assert.Equal(t, KindAuthentication, KindOf(err))

		state := op.State()
		assert.Nil(t, state.Data)
		assert.False(t, state.Loading)
		// Dual propagation: the same normalized error in both channels.
		assert.Equal(t, err, state.Err)
	})

	t.Run("raw error is wrapped", func(t *testing.T) {
		op := NewOperation(func(ctx context.Context, in string) (*int, error) {
			return nil, errors.New("something exploded")
		})

		_, err := op.Execute(context.Background(), "hello")
		require.Error(t, err)

		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, KindUnknown, apiErr.Kind)
		assert.Equal(t, "something exploded", apiErr.Message)

		state := op.State()
		assert.Equal(t, err, state.Err)
		assert.Nil(t, state.Data)
	})
}

func TestOperation_Reset(t *testing.T) {
	op := NewOperation(func(ctx context.Context, in string) (*string, error) {
		out := in
		return &out, nil
	})

	_, err := op.Execute(context.Background(), "hello")
	require.NoError(t, err)
	require.NotNil(t, op.State().Data)

	op.Reset()
	state := op.State()
	assert.Nil(t, state.Data)
	assert.False(t, state.Loading)
	assert.NoError(t, state.Err)

	// Idempotent: a second reset leaves the same state.
	op.Reset()
	assert.Equal(t, state, op.State())
}

func TestOperation_ResetDoesNotCancelInFlight(t *testing.T) {
	release := make(chan struct{})
	op := NewOperation(func(ctx context.Context, in string) (*string, error) {
		<-release
		out := in
		return &out, nil
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = op.Execute(context.Background(), "late")
	}()

	// Wait for the loading state, then reset under it.
	require.Eventually(t, func() bool { return op.State().Loading }, testWait, testTick)
	op.Reset()
	assert.False(t, op.State().Loading)

	// The in-flight call still settles and overwrites the reset state.
	close(release)
	<-done

	state := op.State()
	require.NotNil(t, state.Data)
	assert.Equal(t, "late", *state.Data)
}

func TestOperation_OverlappingLastSettledWins(t *testing.T) {
	releases := map[string]chan struct{}{
		"first":  make(chan struct{}),
		"second": make(chan struct{}),
	}
	op := NewOperation(func(ctx context.Context, in string) (*string, error) {
		<-releases[in]
		out := "result-" + in
		return &out, nil
	})

	var wg sync.WaitGroup
	for _, in := range []string{"first", "second"} {
		in := in
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = op.Execute(context.Background(), in)
		}()
	}

	// Settle the first call, then the second: the second's write lands last
	// and wins, regardless of invocation order.
	close(releases["first"])
	require.Eventually(t, func() bool {
		s := op.State()
		return s.Data != nil && *s.Data == "result-first"
	}, testWait, testTick)

	close(releases["second"])
	wg.Wait()

	state := op.State()
	require.NotNil(t, state.Data)
	assert.Equal(t, "result-second", *state.Data)
	assert.False(t, state.Loading)
	assert.NoError(t, state.Err)
}

func TestOperation_SubscribeCancel(t *testing.T) {
	op := NewOperation(func(ctx context.Context, in string) (*string, error) {
		out := in
		return &out, nil
	})

	rec := &recorder[string]{}
	cancel := op.Subscribe(rec.observe)

	_, err := op.Execute(context.Background(), "one")
	require.NoError(t, err)
	require.Len(t, rec.all(), 2)

	cancel()
	_, err = op.Execute(context.Background(), "two")
	require.NoError(t, err)
	assert.Len(t, rec.all(), 2)
}
