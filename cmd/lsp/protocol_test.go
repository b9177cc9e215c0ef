package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelopeRequest(t *testing.T) {
	env, err := parseEnvelope([]byte(`{"jsonrpc":"2.0","id":5,"method":"initialize","params":{"foo":1}}`))
	require.NoError(t, err)
	assert.True(t, env.hasID)
	assert.Equal(t, "5", string(env.idRaw))
	assert.Equal(t, "initialize", env.method)
	assert.True(t, env.hasParams)
	assert.Equal(t, `{"foo":1}`, string(env.paramsRaw))
}

func TestParseEnvelopeNotificationHasNoID(t *testing.T) {
	env, err := parseEnvelope([]byte(`{"jsonrpc":"2.0","method":"initialized","params":{}}`))
	require.NoError(t, err)
	assert.False(t, env.hasID)
}

func TestParseEnvelopeNullIDIsNotARequest(t *testing.T) {
	env, err := parseEnvelope([]byte(`{"jsonrpc":"2.0","id":null,"method":"exit"}`))
	require.NoError(t, err)
	assert.False(t, env.hasID, "a JSON-RPC id of null marks a notification, not a request")
}
