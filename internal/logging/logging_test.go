// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/writing-desk/pkg/types"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.LoggingConfig
		enabled zapcore.Level
		wantErr bool
	}{
		{"default level is info", types.LoggingConfig{}, zapcore.InfoLevel, false},
		{"debug development", types.LoggingConfig{Level: "debug", Development: true}, zapcore.DebugLevel, false},
		{"warn", types.LoggingConfig{Level: "warn"}, zapcore.WarnLevel, false},
		{"bad level", types.LoggingConfig{Level: "loud"}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(tt.enabled))
			assert.False(t, l.Core().Enabled(tt.enabled-1))
		})
	}
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))
}
