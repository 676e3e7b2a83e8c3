package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	var testCases = []struct {
		description string
		config      Config
		expectErr   bool
	}{
		{description: "default", config: DefaultConfig()},
		{description: "empty", config: Config{}},
		{description: "json debug", config: Config{Level: "DEBUG", Format: "json"}},
		{description: "bad level", config: Config{Level: "loud"}, expectErr: true},
		{description: "bad format", config: Config{Format: "xml"}, expectErr: true},
	}
	for _, testCase := range testCases {
		err := testCase.config.Validate()
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
	}
}

func TestNew_FileOutput(t *testing.T) {
	for _, rotate := range []bool{false, true} {
		location := filepath.Join(t.TempDir(), "logs", "xfer.log")
		logger, err := New(Config{Level: "info", Format: "json", Outputs: []string{location}, Rotation: Rotation{Enable: rotate}})
		require.NoError(t, err)
		logger.Info("slot ready")
		logger.Debug("hidden")
		_ = logger.Sync()

		data, err := os.ReadFile(location)
		require.NoError(t, err)
		assert.Contains(t, string(data), "slot ready")
		assert.NotContains(t, string(data), "hidden")
	}
}

func TestNew_NoOutputs(t *testing.T) {
	logger, err := New(Config{})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = New(Config{Level: "loud"})
	assert.Error(t, err)
}
