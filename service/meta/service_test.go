package meta

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

type poolConfig struct {
	PoolSize int    `yaml:"poolSize"`
	Name     string `yaml:"name"`
}

func TestService_Load(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	baseURL := "mem://localhost/meta"
	require.NoError(t, fs.Upload(ctx, baseURL+"/pool.yaml", file.DefaultFileOsMode, bytes.NewReader([]byte("poolSize: 4\nname: ${env.XFER_META_NAME}\n"))))
	require.NoError(t, fs.Upload(ctx, baseURL+"/broken.yaml", file.DefaultFileOsMode, bytes.NewReader([]byte("poolSize: [\n"))))
	t.Setenv("XFER_META_NAME", "echo")

	srv := New(fs, baseURL)
	var testCases = []struct {
		description string
		URL         string
		expect      *poolConfig
	}{
		{description: "relative", URL: "pool.yaml", expect: &poolConfig{PoolSize: 4, Name: "echo"}},
		{description: "absolute", URL: baseURL + "/pool.yaml", expect: &poolConfig{PoolSize: 4, Name: "echo"}},
		{description: "missing", URL: "missing.yaml"},
		{description: "malformed", URL: "broken.yaml"},
	}
	for _, testCase := range testCases {
		actual := &poolConfig{}
		err := srv.Load(ctx, testCase.URL, actual)
		if testCase.expect == nil {
			assert.Error(t, err, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}
