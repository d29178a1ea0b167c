package nrpucch

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs command with stdout redirected into a pipe.  Keep the output small,
// nothing drains the pipe until command returns.
func AssertOutputContains(t *testing.T, command func(), expectedOutputContains string) {
	t.Helper()

	var oldStdout = os.Stdout
	defer func() {
		os.Stdout = oldStdout
	}()

	var r, w, pipeErr = os.Pipe()
	require.NoError(t, pipeErr)

	os.Stdout = w

	command()

	w.Close() //nolint:gosec

	os.Stdout = oldStdout

	var outputBytes, readErr = io.ReadAll(r)

	require.NoError(t, readErr)

	assert.Contains(t, string(outputBytes), expectedOutputContains)
}
