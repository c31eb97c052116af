package localio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileSource reads upload content from the local filesystem.
type FileSource struct{}

func NewFileSource() *FileSource {
	return &FileSource{}
}

// ReadAll returns the content of a regular file. Anything else, a directory
// or a missing path, is reported as os.ErrNotExist.
func (s *FileSource) ReadAll(ctx context.Context, path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("file not found, path:%s, err:%w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("not a regular file, path:%s, err:%w", path, os.ErrNotExist)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file failed, path:%s, err:%w", path, err)
	}
	return raw, nil
}

// FileSink writes downloaded content to the local filesystem.
type FileSink struct{}

func NewFileSink() *FileSink {
	return &FileSink{}
}

func (s *FileSink) WriteAll(ctx context.Context, path string, data []byte) error {
	return SafeSaveToFile(path, bytes.NewReader(data))
}

// SafeSaveToFile streams r into a temp file next to dst and renames it over
// dst once complete, so readers never observe a partial file.
func SafeSaveToFile(dst string, r io.Reader) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory failed, err:%w", err)
	}
	tmp := dst + "." + uuid.NewString() + ".temp"
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create tmp file failed, err:%w", err)
	}
	defer os.Remove(tmp)
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("copy stream to tmp file failed, err:%w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close tmp file failed, err:%w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("rename tmp file to target failed, err:%w", err)
	}
	return nil
}
