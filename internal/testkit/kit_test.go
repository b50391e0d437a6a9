package testkit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticLoader(t *testing.T) {
	loader := NewGeneratedLoader(12)

	first, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 12)
	first[0].Count = -99

	second, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, -99, second[0].Count)
	assert.Equal(t, 2, loader.Calls())
	assert.Equal(t, "generated.csv", loader.Source())

	loader.Err = errors.New("unreadable")
	_, err = loader.Load(context.Background())
	assert.EqualError(t, err, "unreadable")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = (&StaticLoader{}).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
