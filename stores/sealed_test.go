package stores

import (
	"testing"
	"time"

	"github.com/alexedwards/scs/v2/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealed_RoundTrip(t *testing.T) {
	inner := memstore.NewWithCleanupInterval(0)
	sealed, err := NewSealed(inner, "s3cret")
	require.NoError(t, err)

	require.NoError(t, sealed.Commit("tok", []byte("hello"), time.Now().Add(time.Hour)))

	raw, found, err := inner.Find("tok")
	require.NoError(t, err)
	require.True(t, found)
	assert.NotContains(t, string(raw), "hello", "data must be encrypted at rest")

	plain, found, err := sealed.Find("tok")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "hello", string(plain))

	require.NoError(t, sealed.Delete("tok"))
	_, found, err = sealed.Find("tok")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSealed_WrongSecretStartsAfresh(t *testing.T) {
	inner := memstore.NewWithCleanupInterval(0)
	a, err := NewSealed(inner, "first")
	require.NoError(t, err)
	b, err := NewSealed(inner, "second")
	require.NoError(t, err)

	require.NoError(t, a.Commit("tok", []byte("hello"), time.Now().Add(time.Hour)))
	_, found, err := b.Find("tok")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSealed_BoundToToken(t *testing.T) {
	s, err := NewSealed(memstore.NewWithCleanupInterval(0), "k")
	require.NoError(t, err)
	box, err := s.seal("tok-a", []byte("data"))
	require.NoError(t, err)

	_, err = s.open("tok-b", box)
	assert.ErrorIs(t, err, ErrUnsealable)
	_, err = s.open("tok-a", box[:3])
	assert.ErrorIs(t, err, ErrUnsealable)
}

func TestNewSealed_EmptySecret(t *testing.T) {
	_, err := NewSealed(memstore.New(), "")
	assert.Error(t, err)
}
