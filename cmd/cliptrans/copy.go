package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCopyCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Put the latest translation on the clipboard",
		Long: `Asks the running daemon to write its latest successful translation to the
system clipboard. The daemon does not translate its own copy again.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := dialDaemon(v)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := rpcContext()
			defer cancel()
			text, err := client.Copy(ctx)
			if err != nil {
				return rpcError("copy", err)
			}
			if v.GetBool("print") {
				fmt.Fprintln(cmd.OutOrStdout(), text)
			}
			return nil
		},
	}
	cmd.Flags().Bool("print", false, "also print the copied text")
	addSocketFlag(cmd)
	addConfigFlag(cmd)
	return cmd
}
