package main

import (
	"github.com/spf13/cobra"

	"github.com/halcyonsync/filesync/internal/syncops"
)

func pushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push <src>... <dst>",
		Short: "Push one or more local files or directories to the remote",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			sess, err := newSession(cmd.Flags())
			if err != nil {
				return err
			}
			defer sess.Close()

			srcs, dst := args[:len(args)-1], args[len(args)-1]
			return syncops.Push(sess, srcs, dst)
		},
	}
}
