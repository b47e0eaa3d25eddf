package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pratik-mahalle/ytgate/pkg/client"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	errNeedsAuth  = errors.New("not logged in")
	errQuotaSpent = errors.New("free limit reached")
)

func newVideoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "video",
		Short: "YouTube video lookups",
	}

	cmd.AddCommand(newVideoInfoCmd())
	return cmd
}

func newVideoInfoCmd() *cobra.Command {
	var (
		apiKey  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "info <youtube-url>",
		Short: "Fetch metadata for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey != "" {
				if err := sessions.SetAPIKey(apiKey); err != nil {
					return fmt.Errorf("failed to save API key: %w", err)
				}
			} else {
				apiKey = sessions.APIKey()
			}
			if apiKey == "" {
				apiKey = promptInput("YouTube Data API key: ")
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			res := apiClient.FetchVideoInfo(ctx, args[0], apiKey)
			if _, ok := res.(client.NeedsAuth); ok {
				dropStaleSession(sessions, cmd.ErrOrStderr())
			}
			return renderFetchResult(cmd.OutOrStdout(), res, getOutputFormat())
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "YouTube Data API key (cached for later lookups)")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "request timeout")

	return cmd
}

// dropStaleSession forgets a session the server no longer accepts. A failed
// write is reported on w; the lookup result is still rendered.
func dropStaleSession(store *SessionStore, w io.Writer) {
	if _, had := store.Current(); !had {
		return
	}
	if err := store.Clear(); err != nil {
		fmt.Fprintf(w, "Warning: could not clear saved session in %s: %v\n", store.Path(), err)
	}
}

// renderFetchResult prints res and returns an error for every outcome but Ok
func renderFetchResult(w io.Writer, res client.FetchResult, format string) error {
	switch r := res.(type) {
	case client.Ok:
		return writePayload(w, r.Payload, format)

	case client.NeedsAuth:
		fmt.Fprintln(w, r.Message)
		fmt.Fprintln(w, "Run 'ytgate auth login' to start a new session.")
		return errNeedsAuth

	case client.QuotaExceeded:
		fmt.Fprintf(w, "You have used %d of %d free lookups. Upgrade to keep going:\n\n", r.Used, r.Limit)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PLAN\tPRICE\tPERIOD\tNOTE")
		for _, p := range r.Plans {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, p.Price, p.Period, p.Note)
		}
		tw.Flush()
		if r.CheckoutURL != "" {
			fmt.Fprintf(w, "\nCheckout: %s\n", r.CheckoutURL)
		}
		return errQuotaSpent

	case client.Failed:
		switch r.Kind {
		case client.KindDeadlineExceeded:
			return fmt.Errorf("request timed out: %s", r.Message)
		case client.KindUpstream:
			return fmt.Errorf("YouTube returned %d: %s", r.StatusCode, r.Message)
		case client.KindNotFound:
			return fmt.Errorf("video not found: %s", r.Message)
		default:
			return errors.New(r.Message)
		}

	default:
		return fmt.Errorf("unexpected result %T", res)
	}
}

func writePayload(w io.Writer, payload []byte, format string) error {
	if format == "yaml" {
		var v interface{}
		if err := json.Unmarshal(payload, &v); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, payload, "", "  "); err != nil {
		_, err = w.Write(payload)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}
