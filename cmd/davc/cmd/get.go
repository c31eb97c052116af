package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type getArgs struct {
	remote string
	file   string
}

func NewGetCmd(c *Context) *cobra.Command {
	args := &getArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "get",
		Short: "Download a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunGet(ctx, c, args, cmd.OutOrStdout())
		},
	}
	subc.PersistentFlags().StringVarP(&args.remote, "remote", "r", "", "remote file to download")
	subc.PersistentFlags().StringVarP(&args.file, "file", "f", "", "local file to save, print to stdout if empty")
	return subc
}

func onRunGet(ctx context.Context, c *Context, args *getArgs, w io.Writer) error {
	if len(args.remote) == 0 {
		return fmt.Errorf("no remote file found")
	}
	start := time.Now()
	if len(args.file) > 0 {
		if err := c.Client.DownloadFile(ctx, args.remote, args.file); err != nil {
			return fmt.Errorf("download file failed, err:%w", err)
		}
		logutil.GetLogger(ctx).Info("download file succ", zap.String("remote", args.remote), zap.String("file", args.file), zap.Duration("cost", time.Since(start)))
		return nil
	}
	data, err := c.Client.Download(ctx, args.remote)
	if err != nil {
		return fmt.Errorf("download file failed, err:%w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	logutil.GetLogger(ctx).Debug("download file succ", zap.String("remote", args.remote), zap.String("size", humanize.IBytes(uint64(len(data)))), zap.Duration("cost", time.Since(start)))
	return nil
}

func init() {
	register(NewGetCmd)
}
