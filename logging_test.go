package parking

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogNativeError(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(stumpy.L.New(stumpy.L.WithStumpy(stumpy.WithWriter(&buf), stumpy.WithTimeField(``))).Logger())
	defer SetLogger(nil)

	logNativeError(`test`, `wait`, errors.New(`some errno`))
	// rate limited, per category
	logNativeError(`test`, `wait`, errors.New(`some errno`))
	logNativeError(`test`, `wake`, errors.New(`another errno`))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2, buf.String())
	assert.Contains(t, lines[0], `"backend":"test"`)
	assert.Contains(t, lines[0], `"op":"wait"`)
	assert.Contains(t, lines[0], `"err":"some errno"`)
	assert.Contains(t, lines[1], `"op":"wake"`)
}

func TestLogNativeError_noLogger(t *testing.T) {
	SetLogger(nil)
	logNativeError(`test-nil`, `wait`, errors.New(`ignored`))
}
