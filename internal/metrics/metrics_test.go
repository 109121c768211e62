package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceDispatchesToRegisteredFetcher(t *testing.T) {
	source := NewSource()
	var gotQuery map[string]interface{}
	var gotWindow time.Duration
	source.Register("revenue", func(_ context.Context, query map[string]interface{}, window time.Duration) (Components, error) {
		gotQuery = query
		gotWindow = window
		return Components{Sum: 42, Count: 3}, nil
	})

	components, err := source.Fetch(context.Background(), "revenue",
		map[string]interface{}{"source": "stripe"}, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, 42.0, components.Sum)
	assert.Equal(t, 3.0, components.Count)
	assert.Equal(t, "stripe", gotQuery["source"])
	assert.Equal(t, time.Hour, gotWindow)
}

func TestSourceUnknownMetricType(t *testing.T) {
	source := NewSource()
	_, err := source.Fetch(context.Background(), "no_such_metric", nil, time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown metric type")
}

func TestSourcePropagatesFetcherError(t *testing.T) {
	source := NewSource()
	boom := errors.New("backend down")
	source.Register("revenue", func(_ context.Context, _ map[string]interface{}, _ time.Duration) (Components, error) {
		return Components{}, boom
	})

	_, err := source.Fetch(context.Background(), "revenue", nil, time.Hour)
	assert.ErrorIs(t, err, boom)
}

func TestSourceTypes(t *testing.T) {
	source := NewSource()
	source.Register("revenue", func(_ context.Context, _ map[string]interface{}, _ time.Duration) (Components, error) {
		return Components{}, nil
	})
	source.Register("new_users", func(_ context.Context, _ map[string]interface{}, _ time.Duration) (Components, error) {
		return Components{}, nil
	})

	assert.ElementsMatch(t, []string{"revenue", "new_users"}, source.Types())
}
