package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulafin/finbot/internal/kv"
	"github.com/ulafin/finbot/internal/model"
)

func draft() model.PendingDraft {
	return model.PendingDraft{
		Amount:      decimal.NewFromInt(50000),
		Description: "обед в кафе",
		Currency:    "UZS",
		Kind:        model.KindExpense,
		Source:      model.SourceText,
	}
}

func TestPendingRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory())

	require.NoError(t, s.SetPending(ctx, 42, draft()))

	got, err := s.GetPending(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, "обед в кафе", got.Description)
	assert.Equal(t, model.KindExpense, got.Kind)

	popped, err := s.PopPending(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, popped)
	assert.Equal(t, *got, *popped)

	// второй pop — черновик уже потреблён
	again, err := s.PopPending(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestPopPendingMissing(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory())

	got, err := s.PopPending(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPopPendingConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory())

	require.NoError(t, s.SetPending(ctx, 1, draft()))

	const n = 32
	var wins atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			d, err := s.PopPending(ctx, 1)
			assert.NoError(t, err)
			if d != nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), wins.Load())
}

func TestWaitingCategory(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory())

	waiting, err := s.IsWaitingCategory(ctx, 100)
	require.NoError(t, err)
	assert.False(t, waiting)

	wd := model.WaitingDraft{PendingDraft: draft(), PromptID: 42}
	require.NoError(t, s.SetWaitingCategory(ctx, 100, wd))

	waiting, err = s.IsWaitingCategory(ctx, 100)
	require.NoError(t, err)
	assert.True(t, waiting)

	got, err := s.PopWaitingCategory(ctx, 100)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 42, got.PromptID)
	assert.Equal(t, "обед в кафе", got.Description)

	waiting, err = s.IsWaitingCategory(ctx, 100)
	require.NoError(t, err)
	assert.False(t, waiting)
}

func TestModeDefaultsToExpense(t *testing.T) {
	ctx := context.Background()
	s := NewStore(kv.NewMemory())

	mode, err := s.GetMode(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, model.KindExpense, mode)

	require.NoError(t, s.SetMode(ctx, 5, model.KindIncome))

	mode, err = s.GetMode(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, model.KindIncome, mode)
}
