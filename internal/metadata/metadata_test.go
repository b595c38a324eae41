package metadata_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/omview/internal/metadata"
)

const testCatalog = `[
  {"name": "Conv2D", "inputs": [{"name": "x"}, {"name": "filter"}], "outputs": [{"name": "y"}],
   "attributes": [{"name": "strides", "type": "int64[]"}, {"name": "hidden", "visible": false}]},
  {"name": "Relu", "category": "Activation", "inputs": [{"name": "features"}]}
]`

func TestLoad(t *testing.T) {
	c, err := metadata.Load(strings.NewReader(testCatalog))
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	conv := c.Type("Conv2D")
	require.NotNil(t, conv)
	name, ok := conv.InputName(1)
	assert.True(t, ok)
	assert.Equal(t, "filter", name)
	_, ok = conv.InputName(2)
	assert.False(t, ok)
	name, ok = conv.OutputName(0)
	assert.True(t, ok)
	assert.Equal(t, "y", name)

	strides := c.Attribute("Conv2D", "strides")
	require.NotNil(t, strides)
	assert.Equal(t, "int64[]", strides.Type)
	assert.True(t, strides.IsVisible())
	assert.False(t, c.Attribute("Conv2D", "hidden").IsVisible())

	assert.Nil(t, c.Attribute("Conv2D", "missing"))
	assert.Nil(t, c.Attribute("Relu", "strides"))
	assert.Nil(t, c.Attribute("Unknown", "strides"))
	assert.Nil(t, c.Type("Unknown"))
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{"},
		{"not an array", `{"name": "Relu"}`},
		{"missing name", `[{"inputs": []}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := metadata.Load(strings.NewReader(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDefault(t *testing.T) {
	c, err := metadata.Default()
	require.NoError(t, err)
	assert.Positive(t, c.Len())

	conv := c.Type("Conv2D")
	require.NotNil(t, conv)
	name, _ := conv.InputName(0)
	assert.Equal(t, "x", name)
	assert.NotNil(t, c.Attribute("Conv2D", "strides"))
	assert.NotNil(t, c.Type("Data"))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))

	c := metadata.Open(path)
	assert.Equal(t, 2, c.Len())

	// Missing and malformed files fall back to the built-in catalog.
	c = metadata.Open(filepath.Join(dir, "missing.json"))
	assert.NotNil(t, c.Type("MatMulV2"))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("["), 0o600))
	c = metadata.Open(bad)
	assert.NotNil(t, c.Type("MatMulV2"))

	c = metadata.Open("")
	assert.NotNil(t, c.Type("MatMulV2"))
}

func TestEmpty(t *testing.T) {
	var p metadata.Provider = metadata.Empty()
	assert.Nil(t, p.Type("Conv2D"))
	assert.Nil(t, p.Attribute("Conv2D", "strides"))
}

func TestDefaultShared(t *testing.T) {
	a, err := metadata.Default()
	require.NoError(t, err)
	b, err := metadata.Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}
