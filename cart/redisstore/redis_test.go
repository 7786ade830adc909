package redisstore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRequiresAddr(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
}

func TestNewDefaultsKey(t *testing.T) {
	p, err := New(Config{Addr: "localhost:6379"})
	require.NoError(t, err)
	defer p.Close()
	require.Equal(t, "shop:cart:default", p.cfg.Key)
}

func TestNewKeepsProvidedKey(t *testing.T) {
	p, err := New(Config{Addr: "localhost:6379", Key: "shop:cart:user-42"})
	require.NoError(t, err)
	defer p.Close()
	require.Equal(t, "shop:cart:user-42", p.cfg.Key)
}
