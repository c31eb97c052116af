package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type pullArgs struct {
	remote string
	dir    string
}

func NewPullCmd(c *Context) *cobra.Command {
	args := &pullArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "pull",
		Short: "Download a remote folder tree",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunPull(ctx, c, args)
		},
	}
	subc.PersistentFlags().StringVarP(&args.remote, "remote", "r", "/", "remote folder")
	subc.PersistentFlags().StringVarP(&args.dir, "dir", "d", ".", "local directory to save into")
	return subc
}

func onRunPull(ctx context.Context, c *Context, args *pullArgs) error {
	if _, err := c.Transfer.Pull(ctx, args.remote, args.dir); err != nil {
		return fmt.Errorf("pull folder failed, err:%w", err)
	}
	return nil
}

func init() {
	register(NewPullCmd)
}
