package support

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArgs(t *testing.T) {
	args, err := splitArgs(`run -n 3 -c 'echo hi'  --format json`)
	require.NoError(t, err)
	assert.Equal(t, []string{"run", "-n", "3", "-c", "echo hi", "--format", "json"}, args)

	args, err = splitArgs(`run -c ''`)
	require.NoError(t, err)
	assert.Equal(t, []string{"run", "-c", ""}, args)

	_, err = splitArgs(`run -c 'oops`)
	assert.Error(t, err)
}
