// Package transfer copies whole directory trees between the local filesystem
// and a WebDAV server with a bounded number of parallel workers.
package transfer

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/retry"
	"github.com/xxxsen/davc/davclient"
	"github.com/xxxsen/davc/localio"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Stat struct {
	Dirs  int
	Files int
	Bytes int64
	Cost  time.Duration
}

type fileTask struct {
	local  string
	remote string
	size   int64
}

type Transfer struct {
	c *config
}

func New(opts ...Option) (*Transfer, error) {
	c := &config{
		Thread:        4,
		RetryTimes:    3,
		RetryInterval: 2 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.Factory == nil {
		return nil, fmt.Errorf("no client factory found")
	}
	if c.Thread <= 0 {
		c.Thread = 1
	}
	if c.RetryTimes <= 0 {
		c.RetryTimes = 1
	}
	return &Transfer{c: c}, nil
}

// remoteFolder normalizes dir into the "/a/b/" form List expects.
func remoteFolder(dir string) string {
	dir = strings.Trim(dir, "/")
	if len(dir) == 0 {
		return "/"
	}
	return "/" + dir + "/"
}

// Push uploads every regular file below localDir into remoteDir, creating
// the remote directories first.
func (t *Transfer) Push(ctx context.Context, localDir string, remoteDir string) (*Stat, error) {
	start := time.Now()
	st := &Stat{}
	dirs := make([]string, 0, 16)
	tasks := make([]*fileTask, 0, 64)
	base := remoteFolder(remoteDir)
	if base != "/" {
		dirs = append(dirs, base)
	}
	err := filepath.WalkDir(localDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(localDir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		remote := path.Join(base, filepath.ToSlash(rel))
		if d.IsDir() {
			dirs = append(dirs, remote)
			return nil
		}
		if !d.Type().IsRegular() {
			logutil.GetLogger(ctx).Debug("skip non-regular file", zap.String("path", p))
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		tasks = append(tasks, &fileTask{local: p, remote: remote, size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk local dir failed, dir:%s, err:%w", localDir, err)
	}
	pool, err := t.newClientPool(ctx)
	if err != nil {
		return nil, err
	}
	if err := t.createDirs(ctx, pool, dirs); err != nil {
		return nil, err
	}
	st.Dirs = len(dirs)
	if err := t.runTasks(ctx, pool, tasks, func(ctx context.Context, cli davclient.IClient, task *fileTask) error {
		return cli.UploadFile(ctx, task.local, task.remote)
	}); err != nil {
		return nil, err
	}
	for _, task := range tasks {
		st.Files++
		st.Bytes += task.size
	}
	st.Cost = time.Since(start)
	logutil.GetLogger(ctx).Info("push finish", zap.String("local", localDir), zap.String("remote", base),
		zap.Int("dirs", st.Dirs), zap.Int("files", st.Files), zap.String("size", humanize.IBytes(uint64(st.Bytes))),
		zap.Duration("cost", st.Cost))
	return st, nil
}

// Pull downloads every file below remoteDir into localDir.
func (t *Transfer) Pull(ctx context.Context, remoteDir string, localDir string) (*Stat, error) {
	start := time.Now()
	st := &Stat{}
	pool, err := t.newClientPool(ctx)
	if err != nil {
		return nil, err
	}
	cli := <-pool
	tasks, dirs, err := t.walkRemote(ctx, cli, remoteFolder(remoteDir), localDir)
	pool <- cli
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create local dir failed, dir:%s, err:%w", dir, err)
		}
	}
	st.Dirs = len(dirs)
	if err := t.runTasks(ctx, pool, tasks, func(ctx context.Context, cli davclient.IClient, task *fileTask) error {
		data, err := cli.Download(ctx, task.remote)
		if err != nil {
			return err
		}
		task.size = int64(len(data))
		return localio.NewFileSink().WriteAll(ctx, task.local, data)
	}); err != nil {
		return nil, err
	}
	for _, task := range tasks {
		st.Files++
		st.Bytes += task.size
	}
	st.Cost = time.Since(start)
	logutil.GetLogger(ctx).Info("pull finish", zap.String("remote", remoteDir), zap.String("local", localDir),
		zap.Int("files", st.Files), zap.String("size", humanize.IBytes(uint64(st.Bytes))), zap.Duration("cost", st.Cost))
	return st, nil
}

type remoteDir struct {
	remote string // escaped, as List expects
	local  string // relative to the pull target
}

// localName maps a listing entry to a local path strictly below parent, false
// if the entry would resolve to parent itself or outside of it.
func localName(parent string, item string) (string, bool) {
	raw := strings.TrimSuffix(item, "/")
	name, err := url.PathUnescape(raw)
	if err != nil {
		name = raw
	}
	name = filepath.Clean(filepath.FromSlash(name))
	if name == "." || !filepath.IsLocal(name) {
		return "", false
	}
	return filepath.Join(parent, name), true
}

func (t *Transfer) walkRemote(ctx context.Context, cli davclient.IClient, folder string, localDir string) ([]*fileTask, []string, error) {
	tasks := make([]*fileTask, 0, 64)
	dirs := []string{localDir}
	queue := []remoteDir{{remote: folder, local: "."}}
	for len(queue) > 0 {
		top := queue[0]
		queue = queue[1:]
		items, err := cli.List(ctx, top.remote)
		if err != nil {
			return nil, nil, fmt.Errorf("list remote folder failed, folder:%s, err:%w", top.remote, err)
		}
		for _, item := range items {
			if strings.HasPrefix(item, "/") || strings.Contains(item, "://") {
				logutil.GetLogger(ctx).Error("skip entry outside of folder", zap.String("folder", top.remote), zap.String("entry", item))
				continue
			}
			rel, ok := localName(top.local, item)
			if !ok {
				logutil.GetLogger(ctx).Error("skip entry escaping local dir", zap.String("folder", top.remote), zap.String("entry", item))
				continue
			}
			local := filepath.Join(localDir, rel)
			if strings.HasSuffix(item, "/") {
				queue = append(queue, remoteDir{remote: top.remote + item, local: rel})
				dirs = append(dirs, local)
				continue
			}
			tasks = append(tasks, &fileTask{local: local, remote: top.remote + item})
		}
	}
	return tasks, dirs, nil
}

func (t *Transfer) createDirs(ctx context.Context, pool chan davclient.IClient, dirs []string) error {
	cli := <-pool
	defer func() { pool <- cli }()
	for _, dir := range dirs {
		err := cli.CreateDirectory(ctx, dir)
		if code, ok := davclient.StatusCode(err); ok && code == http.StatusMethodNotAllowed {
			//collection exists already
			continue
		}
		if err != nil {
			return fmt.Errorf("create remote dir failed, dir:%s, err:%w", dir, err)
		}
	}
	return nil
}

func (t *Transfer) newClientPool(ctx context.Context) (chan davclient.IClient, error) {
	pool := make(chan davclient.IClient, t.c.Thread)
	for i := 0; i < t.c.Thread; i++ {
		cli, err := t.c.Factory(ctx)
		if err != nil {
			return nil, fmt.Errorf("create client failed, err:%w", err)
		}
		pool <- cli
	}
	return pool, nil
}

func (t *Transfer) runTasks(ctx context.Context, pool chan davclient.IClient, tasks []*fileTask,
	fn func(ctx context.Context, cli davclient.IClient, task *fileTask) error) error {
	eg, subctx := errgroup.WithContext(ctx)
	eg.SetLimit(t.c.Thread)
	for _, task := range tasks {
		task := task
		eg.Go(func() error {
			cli := <-pool
			defer func() { pool <- cli }()
			start := time.Now()
			if err := retry.RetryDo(subctx, uint32(t.c.RetryTimes), t.c.RetryInterval, func(ctx context.Context) error {
				if err := fn(ctx, cli, task); err != nil {
					logutil.GetLogger(ctx).Error("transfer file failed, wait retry", zap.Error(err), zap.String("remote", task.remote))
					return err
				}
				return nil
			}); err != nil {
				return fmt.Errorf("transfer file failed, local:%s, remote:%s, err:%w", task.local, task.remote, err)
			}
			logutil.GetLogger(ctx).Debug("transfer file finish", zap.String("remote", task.remote), zap.Duration("cost", time.Since(start)))
			return nil
		})
	}
	return eg.Wait()
}
