package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/cliptrans/internal/translate"
)

func newLanguagesCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the target languages",
		Long: `Lists the target languages the running daemon offers, marking the current
one. Without a daemon, lists the configured (or default) set.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runLanguages(cmd, v) },
	}
	cmd.Flags().StringSlice("languages", translate.DefaultLanguages, "target languages offered")
	cmd.Flags().String("lang", translate.DefaultLanguage, "target language")
	addSocketFlag(cmd)
	addConfigFlag(cmd)
	return cmd
}

func runLanguages(cmd *cobra.Command, v *viper.Viper) error {
	langs, err := translate.ParseLanguages(v.GetStringSlice("languages"))
	if err != nil {
		return err
	}
	current := translate.NormalizeCode(v.GetString("lang"))

	if client, err := dialDaemon(v); err == nil {
		defer client.Close()
		ctx, cancel := rpcContext()
		defer cancel()
		if st, err := client.Status(ctx); err == nil {
			langs, current = st.Languages, st.Language
		}
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 1, 0, 2, ' ', 0)
	for _, code := range langs {
		marker := ""
		if code == current {
			marker = "*"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", marker, code, translate.DisplayName(code))
	}
	return tw.Flush()
}
