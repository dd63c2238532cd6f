// cliptrans: clipboard translator.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	loadDotEnv()

	root := &cobra.Command{
		Use:   "cliptrans",
		Short: "Translate whatever is on the clipboard",
		Long: `cliptrans watches the system clipboard and translates every newly copied
text into the selected target language, showing the result in a small window,
a tray menu, or the terminal.

Run "cliptrans run" to start the translator. While it runs, the other commands
(lang, open, hide, copy, status, tail, translate) talk to it over a local
socket.

Config file search order (first found wins):
  /etc/cliptrans/cliptrans.toml
  $HOME/.config/cliptrans/cliptrans.toml
  path supplied via --config

All flags can be set via CLIPTRANS_<FLAG> env vars, config-file keys, or a
.env file in the working directory.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newRunCmd(),
		newTranslateCmd(),
		newLangCmd(),
		newOpenCmd(),
		newHideCmd(),
		newCopyCmd(),
		newStatusCmd(),
		newTailCmd(),
		newLanguagesCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("cliptrans %s\n", Version)
		},
	}
}
