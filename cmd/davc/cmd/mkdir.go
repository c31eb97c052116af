package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type mkdirArgs struct {
	remote string
}

func NewMkdirCmd(c *Context) *cobra.Command {
	args := &mkdirArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "mkdir",
		Short: "Create a remote folder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunMkdir(ctx, c, args)
		},
	}
	subc.PersistentFlags().StringVarP(&args.remote, "remote", "r", "", "remote folder to create")
	return subc
}

func onRunMkdir(ctx context.Context, c *Context, args *mkdirArgs) error {
	if len(args.remote) == 0 {
		return fmt.Errorf("no remote folder found")
	}
	if err := c.Client.CreateDirectory(ctx, args.remote); err != nil {
		return fmt.Errorf("create folder failed, err:%w", err)
	}
	logutil.GetLogger(ctx).Info("create folder succ", zap.String("remote", args.remote))
	return nil
}

func init() {
	register(NewMkdirCmd)
}
