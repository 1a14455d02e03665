package imaging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "roomalchemy/pkg/domain-errors"
)

func TestStrip(t *testing.T) {
	stripper := NewMetadataStripper()
	ctx := context.Background()

	t.Run("returns an independent copy", func(t *testing.T) {
		in := []byte{1, 2, 3}
		out, err := stripper.Strip(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, in, out)

		out[0] = 9
		assert.Equal(t, byte(1), in[0])
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := stripper.Strip(ctx, nil)
		require.Error(t, err)
		assert.True(t, derrors.Is(err, derrors.CodeInvalidImage))
	})
}

func TestScan(t *testing.T) {
	scanner := NewScanner(slog.New(slog.DiscardHandler))
	ctx := context.Background()

	t.Run("non-empty buffer passes", func(t *testing.T) {
		assert.NoError(t, scanner.Scan(ctx, []byte{1}))
	})

	t.Run("empty buffer rejected", func(t *testing.T) {
		err := scanner.Scan(ctx, nil)
		require.Error(t, err)
		assert.True(t, derrors.Is(err, derrors.CodeInvalidImage))
	})
}
