package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "tasksync", cfg.Fields["service"])
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid json",
			cfg:  Config{Level: "debug", Format: "json"},
		},
		{
			name: "valid console",
			cfg:  Config{Level: "warn", Format: "console"},
		},
		{
			name:    "unknown level",
			cfg:     Config{Level: "verbose", Format: "json"},
			wantErr: true,
		},
		{
			name:    "unknown format",
			cfg:     Config{Level: "info", Format: "text"},
			wantErr: true,
		},
		{
			name:    "empty field key",
			cfg:     Config{Level: "info", Format: "json", Fields: map[string]string{"": "x"}},
			wantErr: true,
		},
		{
			name:    "empty field value",
			cfg:     Config{Level: "info", Format: "json", Fields: map[string]string{"service": ""}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	_, err = ParseLevel("shout")
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(NewDefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, logger.Underlying())

	_, err = NewLogger(&Config{Level: "nope", Format: "json"})
	require.Error(t, err)
}

func TestLoggerChildren(t *testing.T) {
	logger := NewNop()

	named := logger.Named("reconcile")
	require.NotNil(t, named)
	assert.NotSame(t, logger, named)

	withFields := logger.With(zap.String("run", "test"))
	require.NotNil(t, withFields)

	// nop loggers must absorb everything without panicking
	withFields.Debug("debug")
	withFields.Info("info")
	withFields.Warn("warn")
	withFields.Error("error")
	require.NoError(t, logger.Sync())
}
