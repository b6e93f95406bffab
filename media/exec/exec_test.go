package exec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCapturesStdout(t *testing.T) {
	out, err := run(context.Background(), nil, "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestRunPipesStdin(t *testing.T) {
	out, err := run(context.Background(), []byte("data"), "cat")
	require.NoError(t, err)
	assert.Equal(t, "data", string(out))
}

func TestRunSurfacesStderrOnFailure(t *testing.T) {
	_, err := run(context.Background(), nil, "sh", "-c", "echo broken pipe >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}

func TestLastLines(t *testing.T) {
	assert.Equal(t, "c | d | e", lastLines("a\nb\nc\nd\ne", 3))
	assert.Equal(t, "a | b", lastLines("a\nb\n", 3))
	assert.Equal(t, "", lastLines("", 3))
}
