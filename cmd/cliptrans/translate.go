package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/cliptrans/internal/translate"
)

func newTranslateCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "translate [text...]",
		Short: "Translate text once",
		Long: `Translates the arguments (joined by spaces), or stdin when there are none,
and prints the result. The running daemon's provider is used when one is
available; otherwise the provider flags below apply. The daemon's last
captured text is not changed.`,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, v, args)
		},
	}

	f := cmd.Flags()
	f.String("lang", "", "target language (default: the daemon's, or "+translate.DefaultLanguage+")")
	f.Bool("local", false, "never use the daemon")
	f.Bool("json", false, "output the result as JSON")
	addProviderFlags(cmd)
	addSocketFlag(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runTranslate(cmd *cobra.Command, v *viper.Viper, args []string) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(b)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return translate.ErrEmptyText
	}
	lang := v.GetString("lang")

	var res translate.Result
	client, err := dialDaemon(v)
	switch {
	case err == nil && !v.GetBool("local"):
		defer client.Close()
		ctx, cancel := rpcContext()
		defer cancel()
		r, err := client.Translate(ctx, text, lang)
		if err != nil {
			return rpcError("translate", err)
		}
		res = *r
	case err == nil, errors.Is(err, errNoDaemon):
		if client != nil {
			_ = client.Close()
		}
		res, err = translateLocal(v, text, lang)
		if err != nil {
			return err
		}
	default:
		return err
	}

	out := cmd.OutOrStdout()
	if v.GetBool("json") {
		enc, _ := json.MarshalIndent(res, "", "  ")
		fmt.Fprintln(out, string(enc))
	} else if !res.Failed() {
		fmt.Fprintln(out, res.TranslatedText)
	}
	if res.Failed() {
		return errors.New(res.Error)
	}
	return nil
}

func translateLocal(v *viper.Viper, text, lang string) (translate.Result, error) {
	langs, err := translate.ParseLanguages(v.GetStringSlice("languages"))
	if err != nil {
		return translate.Result{}, err
	}
	if lang == "" {
		lang = translate.DefaultLanguage
	}
	lang = translate.NormalizeCode(lang)
	if err := langs.Check(lang); err != nil {
		return translate.Result{}, err
	}
	p, err := providerFromViper(v)
	if err != nil {
		return translate.Result{}, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), v.GetDuration("timeout"))
	defer cancel()
	return translate.Do(ctx, p, langs, text, lang), nil
}
