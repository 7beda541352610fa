package main

import (
	"github.com/spf13/cobra"

	"github.com/halcyonsync/filesync/internal/syncops"
)

func pullCmd() *cobra.Command {
	var archive bool

	cmd := &cobra.Command{
		Use:   "pull <src>... <dst>",
		Short: "Pull one or more remote files or directories to the local filesystem",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			sess, err := newSession(cmd.Flags())
			if err != nil {
				return err
			}
			defer sess.Close()

			srcs, dst := args[:len(args)-1], args[len(args)-1]
			return syncops.Pull(sess, srcs, dst, archive)
		},
	}
	cmd.Flags().BoolVarP(&archive, "archive", "a", false, "preserve mtime and permission bits on pulled files")
	return cmd
}
