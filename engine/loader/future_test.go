package loader

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-flock/engine/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFutureCompletesOnce(t *testing.T) {
	f := NewFuture()
	m := model.NewModel(model.WithName("a"))

	assert.True(t, f.Complete(m, nil))
	assert.False(t, f.Complete(nil, errors.New("late")))

	got, err := f.Result()
	require.NoError(t, err)
	assert.Same(t, m, got)
}

func TestFutureThenOrdering(t *testing.T) {
	f := NewFuture()
	var calls []string
	f.Then(func(m model.Model, err error) { calls = append(calls, "before:"+m.Name()) })

	f.Complete(model.NewModel(model.WithName("star")), nil)
	assert.Equal(t, []string{"before:star"}, calls)

	f.Then(func(m model.Model, err error) { calls = append(calls, "after:"+m.Name()) })
	assert.Equal(t, []string{"before:star", "after:star"}, calls)
}

func TestResolvedFutureIsDone(t *testing.T) {
	assert.False(t, NewFuture().Ready())

	want := errors.New("boom")
	done := Resolved(nil, want)
	assert.True(t, done.Ready())
	_, err := done.Result()
	assert.ErrorIs(t, err, want)
	select {
	case <-done.Done():
	default:
		t.Fatal("resolved future should be done")
	}
}
