package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	t.Run("set and get", func(t *testing.T) {
		ctx := SetTraceID(context.Background())
		traceID := GetTraceID(ctx)

		require.NotEmpty(t, traceID)
		assert.Len(t, traceID, TraceIDLength*2)

		_, err := hex.DecodeString(traceID)
		assert.NoError(t, err, "trace ID must be valid hex")
	})

	t.Run("missing trace ID yields empty string", func(t *testing.T) {
		assert.Equal(t, "", GetTraceID(context.Background()))
	})

	t.Run("successive IDs differ", func(t *testing.T) {
		first := GetTraceID(SetTraceID(context.Background()))
		second := GetTraceID(SetTraceID(context.Background()))
		assert.NotEqual(t, first, second)
	})
}

func TestValidateRequest(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
	}

	t.Run("valid struct", func(t *testing.T) {
		assert.NoError(t, ValidateRequest(payload{Name: "Widget"}))
	})

	t.Run("invalid struct", func(t *testing.T) {
		assert.Error(t, ValidateRequest(payload{}))
	})
}
