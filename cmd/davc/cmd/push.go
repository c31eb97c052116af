package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type pushArgs struct {
	dir    string
	remote string
}

func NewPushCmd(c *Context) *cobra.Command {
	args := &pushArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "push",
		Short: "Upload a local directory tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunPush(ctx, c, args)
		},
	}
	subc.PersistentFlags().StringVarP(&args.dir, "dir", "d", "", "local directory to upload")
	subc.PersistentFlags().StringVarP(&args.remote, "remote", "r", "/", "remote folder")
	return subc
}

func onRunPush(ctx context.Context, c *Context, args *pushArgs) error {
	if len(args.dir) == 0 {
		return fmt.Errorf("no local dir found")
	}
	if _, err := c.Transfer.Push(ctx, args.dir, args.remote); err != nil {
		return fmt.Errorf("push dir failed, err:%w", err)
	}
	return nil
}

func init() {
	register(NewPushCmd)
}
