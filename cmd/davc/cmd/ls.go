package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type lsArgs struct {
	folder string
}

func NewLsCmd(c *Context) *cobra.Command {
	args := &lsArgs{}
	ctx := context.Background()
	subc := &cobra.Command{
		Use:   "ls",
		Short: "List a remote folder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return onRunLs(ctx, c, args, cmd.OutOrStdout())
		},
	}
	subc.PersistentFlags().StringVarP(&args.folder, "remote", "r", "/", "remote folder, must end with '/'")
	return subc
}

func onRunLs(ctx context.Context, c *Context, args *lsArgs, w io.Writer) error {
	items, err := c.Client.List(ctx, args.folder)
	if err != nil {
		return fmt.Errorf("list folder failed, err:%w", err)
	}
	for _, item := range items {
		fmt.Fprintln(w, item)
	}
	return nil
}

func init() {
	register(NewLsCmd)
}
