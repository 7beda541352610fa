package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/halcyonsync/filesync/internal/syncops"
)

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <remote>",
		Short: "List a remote directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			sess, err := newSession(cmd.Flags())
			if err != nil {
				return err
			}
			defer sess.Close()

			return syncops.List(sess, args[0], os.Stdout)
		},
	}
}
