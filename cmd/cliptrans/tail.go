package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/cliptrans/internal/control"
	"go.klb.dev/cliptrans/internal/translate"
	"go.klb.dev/cliptrans/internal/ui"
)

func newTailCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow the daemon's translations in the terminal",
		Long: `Prints the daemon's current translation, then every new one as it is
shown, until interrupted or the daemon exits.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runTail(cmd, v) },
	}
	cmd.Flags().Bool("new-only", false, "skip the current translation")
	addSocketFlag(cmd)
	addConfigFlag(cmd)
	return cmd
}

func runTail(cmd *cobra.Command, v *viper.Viper) error {
	client, err := dialDaemon(v)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, stop := signalContext()
	defer stop()

	out := cmd.OutOrStdout()
	err = client.Watch(ctx, control.WatchRequest{SkipLatest: v.GetBool("new-only")}, func(r translate.Result) error {
		_, err := fmt.Fprintln(out, ui.FormatResult(r))
		return err
	})
	if err != nil && ctx.Err() == nil {
		return rpcError("tail", err)
	}
	return nil
}
