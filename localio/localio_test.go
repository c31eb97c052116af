package localio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSourceSink(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	dst := filepath.Join(dir, "a", "b", "data.bin")
	data := []byte{0x00, 0x01, 0xff, '\r', '\n'}
	require.NoError(t, NewFileSink().WriteAll(ctx, dst, data))

	raw, err := NewFileSource().ReadAll(ctx, dst)
	assert.NoError(t, err)
	assert.Equal(t, data, raw)

	//no temp file left behind
	ents, err := os.ReadDir(filepath.Dir(dst))
	assert.NoError(t, err)
	assert.Len(t, ents, 1)
}

func TestFileSourceNotFound(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	_, err := NewFileSource().ReadAll(ctx, filepath.Join(dir, "missing"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	_, err = NewFileSource().ReadAll(ctx, dir)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileSinkOverwrite(t *testing.T) {
	ctx := context.Background()
	dst := filepath.Join(t.TempDir(), "f.txt")
	sink := NewFileSink()
	require.NoError(t, sink.WriteAll(ctx, dst, []byte("hello world")))
	require.NoError(t, sink.WriteAll(ctx, dst, []byte("hi")))
	raw, err := os.ReadFile(dst)
	assert.NoError(t, err)
	assert.Equal(t, "hi", string(raw))
}
