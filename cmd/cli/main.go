package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hamed0406/geocheck/internal/check"
	"github.com/hamed0406/geocheck/internal/domain"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	apiBase := os.Getenv("API_BASE")
	if apiBase == "" {
		apiBase = "http://localhost:8080"
	}

	root := &cobra.Command{
		Use:          "geocheck",
		Short:        "Request simulated reachability checks from chosen locations",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&apiBase, "api", apiBase, "API base URL (env API_BASE)")

	clientFn := func() *client { return newClient(apiBase) }
	root.AddCommand(newLocationsCmd(clientFn))
	root.AddCommand(newCheckCmd(clientFn))
	root.AddCommand(newListCmd(clientFn))
	return root
}

func newLocationsCmd(clientFn func() *client) *cobra.Command {
	return &cobra.Command{
		Use:   "locations [country]",
		Short: "List countries, or the cities of one country",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := clientFn().Locations(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				cities, err := dir.Cities(args[0])
				if err != nil {
					return err
				}
				for _, c := range cities {
					fmt.Fprintln(out, c)
				}
				return nil
			}
			for _, e := range dir.Entries() {
				fmt.Fprintf(out, "%s: %s\n", e.Country, strings.Join(e.Cities, ", "))
			}
			return nil
		},
	}
}

type checkCmd struct {
	url, country, city string
	wait               bool
	timeout            time.Duration
}

func (c *checkCmd) run(ctx context.Context, cl *client, out io.Writer) error {
	dir, err := cl.Locations(ctx)
	if err != nil {
		return err
	}

	raw := strings.TrimSpace(c.url)
	if raw != "" && !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	f := check.NewForm(dir)
	f.SetURL(raw)
	if err := f.SelectCountry(c.country); err != nil {
		return err
	}
	if err := f.SelectCity(c.city); err != nil {
		return err
	}

	a, err := f.Submit(ctx, cl)
	if err != nil {
		return err
	}
	if !c.wait {
		printAttempts(out, []domain.CheckAttempt{a})
		return nil
	}

	wctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	id := a.ID
	a, err = cl.Await(wctx, id, 250*time.Millisecond)
	if err != nil {
		return fmt.Errorf("waiting for %s: %w", id, err)
	}
	printAttempts(out, []domain.CheckAttempt{a})
	return nil
}

func newCheckCmd(clientFn func() *client) *cobra.Command {
	c := &checkCmd{}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Request a check of a URL from a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(cmd.Context(), clientFn(), cmd.OutOrStdout())
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&c.url, "url", "", "site URL, e.g. https://example.com")
	flags.StringVar(&c.country, "country", "", "country to check from")
	flags.StringVar(&c.city, "city", "", "city within the country")
	flags.BoolVar(&c.wait, "wait", false, "wait for the result")
	flags.DurationVar(&c.timeout, "timeout", 30*time.Second, "how long --wait may take")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("country")
	_ = cmd.MarkFlagRequired("city")
	return cmd
}

func newListCmd(clientFn func() *client) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List check attempts, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := clientFn().List(cmd.Context())
			if err != nil {
				return err
			}
			printAttempts(cmd.OutOrStdout(), all)
			return nil
		},
	}
}

func printAttempts(out io.Writer, all []domain.CheckAttempt) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tURL\tLocation\tStatus\tHTTP\tTime")
	for _, a := range all {
		code, ms := "-", "-"
		if a.HTTPStatusCode != nil {
			code = fmt.Sprint(*a.HTTPStatusCode)
		}
		if a.ResponseTimeMS != nil {
			ms = fmt.Sprintf("%dms", *a.ResponseTimeMS)
		}
		fmt.Fprintf(w, "%s\t%s\t%s, %s\t%s\t%s\t%s\n", a.ID, a.URL, a.City, a.Country, a.Status, code, ms)
	}
	w.Flush()
}
