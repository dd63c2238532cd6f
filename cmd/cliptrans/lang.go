package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/cliptrans/internal/translate"
)

func newLangCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "lang [code]",
		Short: "Show or change the daemon's target language",
		Long: `With no argument, prints the running daemon's target language. With a
language code, switches to it; the last captured text is translated again
into the new language.`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLang(cmd, v, args)
		},
	}
	addSocketFlag(cmd)
	addConfigFlag(cmd)
	return cmd
}

func runLang(cmd *cobra.Command, v *viper.Viper, args []string) error {
	client, err := dialDaemon(v)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := rpcContext()
	defer cancel()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		st, err := client.Status(ctx)
		if err != nil {
			return rpcError("status", err)
		}
		fmt.Fprintf(out, "%s (%s)\n", st.Language, translate.DisplayName(st.Language))
		return nil
	}

	resp, err := client.SetLanguage(ctx, args[0])
	if err != nil {
		return rpcError("lang", err)
	}
	if resp.Previous == resp.Language {
		fmt.Fprintf(out, "already %s\n", resp.Language)
		return nil
	}
	fmt.Fprintf(out, "%s → %s (%s)\n", resp.Previous, resp.Language, translate.DisplayName(resp.Language))
	return nil
}
