package output

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithPrinter(context.Background(), &buf)

	FromContext(ctx).Println("hello")
	assert.Equal(t, "hello\n", buf.String())
}

func TestFromContext_DefaultsToStdout(t *testing.T) {
	t.Parallel()

	p := FromContext(context.Background())
	assert.Equal(t, os.Stdout, p.Writer())
}

func TestJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := New(&buf).JSON(map[string]int{"count": 2})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"count\": 2\n}\n", buf.String())
}
