// Package check implements the quiltring check subcommand, a link checker
// for the member roster.
package check

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/quiltring/quiltring/internal/conf"
	"github.com/quiltring/quiltring/internal/errors"
	"github.com/quiltring/quiltring/internal/roster"
)

// Command creates the check subcommand. It fetches the member index and
// every member's page, reporting members whose markup cannot be fetched.
// Stylesheet problems are reported as warnings only.
func Command(settings *conf.Settings) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify that all member pages are reachable",
		Long:  "Fetch the member index and every member's page from the static asset host, reporting broken pages.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			client := roster.NewClient(&settings.Roster, nil)
			defer client.Close()

			return runCheck(ctx, client, cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall timeout for the check run")

	return cmd
}

func runCheck(ctx context.Context, client *roster.Client, out io.Writer) error {
	slugs, err := client.FetchIndex(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch member index: %w", err)
	}

	if len(slugs) == 0 {
		fmt.Fprintln(out, "Member index is empty, nothing to check")
		return nil
	}

	fmt.Fprintf(out, "Checking %d member pages from %s\n", len(slugs), client.IndexURL())

	var broken, unstyled int
	for _, slug := range slugs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if _, err := client.FetchMarkup(ctx, slug); err != nil {
			broken++
			fmt.Fprintf(out, "BROKEN  %s: %v\n", slug, err)
			continue
		}

		if _, err := client.FetchStylesheet(ctx, slug); err != nil {
			unstyled++
			if isNotFound(err) {
				fmt.Fprintf(out, "WARN    %s: no stylesheet, page renders unstyled\n", slug)
			} else {
				fmt.Fprintf(out, "WARN    %s: stylesheet fetch failed, page renders unstyled: %v\n", slug, err)
			}
			continue
		}

		fmt.Fprintf(out, "OK      %s\n", slug)
	}

	fmt.Fprintf(out, "\n%d checked, %d broken, %d without stylesheet\n", len(slugs), broken, unstyled)

	if broken > 0 {
		return fmt.Errorf("%d member page(s) are broken", broken)
	}
	return nil
}

// isNotFound reports whether a fetch failure was a plain 404 on the host.
func isNotFound(err error) bool {
	var ee *errors.EnhancedError
	if !errors.As(err, &ee) {
		return false
	}
	code, ok := ee.GetContext()["status_code"].(int)
	return ok && code == http.StatusNotFound
}
