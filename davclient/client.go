package davclient

import (
	"context"
)

// IClient issues WebDAV requests against one remote endpoint.
// Connect must succeed before any other operation is used.
type IClient interface {
	Connect(ctx context.Context, location string, username string, password string) error
	IsConnected() bool
	BaseURL() string
	List(ctx context.Context, folder string) ([]string, error)
	Upload(ctx context.Context, data []byte, remotePath string) error
	UploadFile(ctx context.Context, localPath string, remoteFile string) error
	DeleteFile(ctx context.Context, remoteFile string) error
	CreateDirectory(ctx context.Context, dir string) error
	Download(ctx context.Context, file string) ([]byte, error)
	DownloadFile(ctx context.Context, file string, localPath string) error
}

// ByteSource produces the bytes stored under a local path.
type ByteSource interface {
	ReadAll(ctx context.Context, path string) ([]byte, error)
}

// ByteSink persists bytes under a local path.
type ByteSink interface {
	WriteAll(ctx context.Context, path string, data []byte) error
}
