package credential

import (
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	store := NewStore(keyring.NewArrayKeyring(nil))

	_, err := store.Get(APIKeyItem)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, store.Set(APIKeyItem, "secret"))
	value, err := store.Get(APIKeyItem)
	require.NoError(t, err)
	assert.Equal(t, "secret", value)

	require.NoError(t, store.Delete(APIKeyItem))
	_, err = store.Get(APIKeyItem)
	assert.True(t, errors.Is(err, ErrNotFound))
}
