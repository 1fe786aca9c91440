package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lost-pets/internal/ports/kv"
)

func TestKV_GetMissing(t *testing.T) {
	s := NewKV()

	v, ok, err := s.Get(context.Background(), "pets_items")
	require.NoError(t, err)
	require.False(t, ok)
	require.Nil(t, v)
}

func TestKV_SetThenGet_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewKV()

	in := []byte(`[]`)
	require.NoError(t, s.Set(ctx, "pets_items", in))
	in[0] = 'x'

	v, ok, err := s.Get(ctx, "pets_items")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[]`, string(v))

	v[0] = 'y'
	again, _, _ := s.Get(ctx, "pets_items")
	require.Equal(t, `[]`, string(again))
}

func TestKV_Quota(t *testing.T) {
	ctx := context.Background()
	s := NewKV(WithQuota(16))

	require.NoError(t, s.Set(ctx, "k", []byte("0123456789")))

	// reemplazar el mismo slot no cuenta el valor anterior
	require.NoError(t, s.Set(ctx, "k", []byte("abcdefghij")))

	err := s.Set(ctx, "k", []byte("this value does not fit"))
	require.ErrorIs(t, err, kv.ErrQuotaExceeded)

	v, _, _ := s.Get(ctx, "k")
	require.Equal(t, "abcdefghij", string(v))
}

func TestKV_RejectsBlankKey(t *testing.T) {
	s := NewKV()
	require.Error(t, s.Set(context.Background(), " ", []byte("x")))
	_, _, err := s.Get(context.Background(), "")
	require.Error(t, err)
}
