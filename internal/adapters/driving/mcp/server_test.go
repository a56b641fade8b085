package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil retrieval service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingRetrievalService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})

	t.Run("intent port registers intent tool", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Retrieval: &mockRetrievalService{},
			Intent:    &mockIntentService{},
		})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingRetrievalService)
	assert.NoError(t, (&Ports{Retrieval: &mockRetrievalService{}}).Validate())
}

func TestServer_Handler(t *testing.T) {
	server, err := NewServer(&Ports{Retrieval: &mockRetrievalService{}})
	require.NoError(t, err)
	assert.NotNil(t, server.Handler())
}
