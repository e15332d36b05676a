package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger(t *testing.T) {
	t.Run("prod env defaults to info", func(t *testing.T) {
		require.NoError(t, InitLogger("prod", false))
		assert.False(t, Log.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, Log.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("debug flag lowers level", func(t *testing.T) {
		require.NoError(t, InitLogger("prod", true))
		assert.True(t, Log.Core().Enabled(zapcore.DebugLevel))
		assert.NotNil(t, Named("payment"))
	})
}
