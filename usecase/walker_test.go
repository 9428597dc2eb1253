package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkPages(t *testing.T) {
	ctx := context.Background()

	t.Run("DrainsAllPages", func(t *testing.T) {
		pages := map[string]struct {
			items []int
			next  string
		}{
			"":   {[]int{1, 2}, "p2"},
			"p2": {[]int{3, 4}, "p3"},
			"p3": {[]int{5}, "p4"},
			"p4": {nil, ""},
		}
		calls := 0
		got, err := walkPages(ctx, func(_ context.Context, token string) ([]int, string, error) {
			calls++
			p := pages[token]
			return p.items, p.next, nil
		})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
		assert.Equal(t, 4, calls)
	})

	t.Run("ErrorAborts", func(t *testing.T) {
		boom := errors.New("remote unhappy")
		_, err := walkPages(ctx, func(_ context.Context, token string) ([]int, string, error) {
			if token == "p2" {
				return nil, "", boom
			}
			return []int{1}, "p2", nil
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("RepeatedCursorStops", func(t *testing.T) {
		calls := 0
		got, err := walkPages(ctx, func(_ context.Context, _ string) ([]string, string, error) {
			calls++
			return []string{"x"}, "same", nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "x"}, got)
		assert.Equal(t, 2, calls)
	})

	t.Run("PageCapStopsRunawayServer", func(t *testing.T) {
		calls := 0
		_, err := walkPages(ctx, func(_ context.Context, _ string) ([]int, string, error) {
			calls++
			return []int{calls}, fmt.Sprintf("p%d", calls), nil
		})
		require.NoError(t, err)
		assert.Equal(t, maxWalkPages, calls)
	})
}
