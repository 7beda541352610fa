package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/halcyonsync/filesync/internal/syncops"
)

func syncCmd() *cobra.Command {
	var listOnly bool

	cmd := &cobra.Command{
		Use:   "sync <local> <remote>",
		Short: "Incrementally mirror a local directory tree to the remote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			sess, err := newSession(cmd.Flags())
			if err != nil {
				return err
			}
			defer sess.Close()

			return syncops.Mirror(sess, args[0], args[1], listOnly, os.Stdout)
		},
	}
	cmd.Flags().BoolVarP(&listOnly, "dry-run", "n", false, "report what would be pushed without transferring")
	return cmd
}
