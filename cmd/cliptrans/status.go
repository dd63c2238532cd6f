package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/cliptrans/internal/logging"
	"go.klb.dev/cliptrans/internal/session"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the running translator's state",
		Long: `Displays the daemon's watch state, target language, provider, counters and
connected displays, read over the local IPC socket.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runStatus(cmd, v) },
	}

	cmd.Flags().Bool("json", false, "output raw JSON")
	addSocketFlag(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runStatus(cmd *cobra.Command, v *viper.Viper) error {
	client, err := dialDaemon(v)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := rpcContext()
	defer cancel()
	st, err := client.Status(ctx)
	if err != nil {
		return rpcError("status", err)
	}

	out := cmd.OutOrStdout()
	if v.GetBool("json") {
		enc, _ := json.MarshalIndent(st, "", "  ")
		fmt.Fprintln(out, string(enc))
		return nil
	}

	printStatus(out, st, client.Path())
	return nil
}

func printStatus(out io.Writer, st *session.Status, transport string) {
	w := tabwriter.NewWriter(out, 1, 0, 2, ' ', 0)
	fmt.Fprintf(w, "State:\t%s\n", st.State)
	fmt.Fprintf(w, "Language:\t%s\n", st.Language)
	fmt.Fprintf(w, "Languages:\t%s\n", strings.Join(st.Languages, " "))
	fmt.Fprintf(w, "Provider:\t%s\n", st.Provider)
	fmt.Fprintf(w, "Clipboard:\t%s\n", st.Clipboard)
	fmt.Fprintf(w, "Interval:\t%s\n", st.Interval)
	fmt.Fprintf(w, "Transport:\tipc (%s)\n", transport)
	if !st.StartedAt.IsZero() {
		fmt.Fprintf(w, "Started:\t%s (%s)\n", st.StartedAt.UTC().Format(time.RFC3339), fmtAge(st.StartedAt))
	}
	s := st.Stats
	fmt.Fprintf(w, "Counters:\t%d ticks, %d skipped, %d read failures, %d translations, %d failed\n",
		s.Ticks, s.Skipped, s.ReadFailures, s.Translations, s.Failures)
	if st.LastSeen != "" {
		fmt.Fprintf(w, "Last text:\t%s\n", logging.Preview(oneLine(st.LastSeen), 60))
	}
	if r := st.Latest; r != nil {
		fmt.Fprintf(w, "Showing:\t%s\n", logging.Preview(oneLine(r.Display()), 60))
	}
	fmt.Fprintln(w)
	_ = w.Flush()

	if len(st.Subscribers) == 0 {
		fmt.Fprintln(out, "No displays attached.")
		return
	}

	tw := tabwriter.NewWriter(out, 1, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "ID\tKIND\tCONNECTED\n")
	_, _ = fmt.Fprintf(tw, "--\t----\t---------\n")
	for _, sub := range st.Subscribers {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", sub.ID, sub.Kind, fmtAge(sub.ConnectedAt))
	}
	_ = tw.Flush()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
