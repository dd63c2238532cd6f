package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/cliptrans/internal/control"
)

func newOpenCmd() *cobra.Command {
	return newToggleCmd("open", "Open the translator and resume watching the clipboard", (*control.Client).Open)
}

func newHideCmd() *cobra.Command {
	return newToggleCmd("hide", "Hide the translator and stop watching the clipboard", (*control.Client).Hide)
}

func newToggleCmd(use, short string, call func(*control.Client, context.Context) (string, error)) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
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
			state, err := call(client, ctx)
			if err != nil {
				return rpcError(use, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), state)
			return nil
		},
	}
	addSocketFlag(cmd)
	addConfigFlag(cmd)
	return cmd
}
