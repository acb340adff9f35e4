package jsonx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDynamicJSON(t *testing.T) {
	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	result, err := ToDynamicJSON(payload{Name: "lookup", Count: 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "lookup", "count": float64(2)}, result)
}

func TestToDynamicJSON_Error(t *testing.T) {
	_, err := ToDynamicJSON(func() {})
	require.Error(t, err)
}

func TestFromDynamicJSON(t *testing.T) {
	type target struct {
		Temperature *float64 `json:"temperature"`
		MaxTokens   int      `json:"max_tokens"`
	}

	var out target
	err := FromDynamicJSON(map[string]any{"temperature": 0.2, "max_tokens": 100, "unknown": true}, &out)
	require.NoError(t, err)
	require.NotNil(t, out.Temperature)
	assert.Equal(t, 0.2, *out.Temperature)
	assert.Equal(t, 100, out.MaxTokens)
}

func TestFromDynamicJSON_TypeMismatch(t *testing.T) {
	var out struct {
		Count int `json:"count"`
	}
	err := FromDynamicJSON(map[string]any{"count": "three"}, &out)
	require.Error(t, err)
}
