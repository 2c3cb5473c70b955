package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/abhisek/ivrit/internal/llm"
	"github.com/abhisek/ivrit/internal/store"
	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request/response events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		events, err := queryLLMEvents(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return err
		}
		if purpose != "" {
			events = slices.DeleteFunc(events, func(e store.LLMRequestEvent) bool { return e.Purpose != purpose })
		}
		if limit > 0 && len(events) > limit {
			events = events[len(events)-limit:]
		}

		if len(events) == 0 {
			fmt.Println("No LLM events found.")
			return nil
		}

		w := table(os.Stdout)
		fmt.Fprintln(w, "SEQ\tTIME\tPURPOSE\tMODEL\tIN\tOUT\tMS\tOK")
		for _, e := range events {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				e.Sequence, stamp(e.Timestamp), e.Purpose, truncate(e.Model, 28),
				e.InputTokens, e.OutputTokens, e.LatencyMs, mark(e.Success))
		}
		return w.Flush()
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <seq>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid sequence %q: %w", args[0], err)
		}

		events, err := queryLLMEvents(cmd.Context(), store.QueryOpts{After: seq - 1, Before: seq + 1, Limit: 1})
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return fmt.Errorf("event %d not found", seq)
		}
		e := events[0]

		w := table(os.Stdout)
		fmt.Fprintf(w, "Seq:\t%d\n", e.Sequence)
		fmt.Fprintf(w, "Time:\t%s\n", stamp(e.Timestamp))
		fmt.Fprintf(w, "Provider:\t%s\n", e.Provider)
		fmt.Fprintf(w, "Model:\t%s\n", e.Model)
		fmt.Fprintf(w, "Purpose:\t%s\n", e.Purpose)
		fmt.Fprintf(w, "Tokens:\t%d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Fprintf(w, "Latency:\t%dms\n", e.LatencyMs)
		fmt.Fprintf(w, "Result:\t%s %s\n", mark(e.Success), e.ErrorMessage)
		if err := w.Flush(); err != nil {
			return err
		}

		section("REQUEST", e.RequestBody)
		section("RESPONSE", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := queryLLMEvents(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return err
		}
		stats := usageBy(events, func(e store.LLMRequestEvent) string { return e.Purpose })

		if len(stats) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Println("Usage by purpose")
		w := table(os.Stdout)
		fmt.Fprintln(w, "PURPOSE\tCALLS\tINPUT\tOUTPUT\tTOTAL\tAVG MS")
		var all usage
		for _, st := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n",
				st.Key, st.Calls, st.InputTokens, st.OutputTokens, st.InputTokens+st.OutputTokens, st.AvgLatencyMs)
			all.Calls += st.Calls
			all.InputTokens += st.InputTokens
			all.OutputTokens += st.OutputTokens
		}
		fmt.Fprintf(w, "TOTAL\t%d\t%d\t%d\t%d\t\n",
			all.Calls, all.InputTokens, all.OutputTokens, all.InputTokens+all.OutputTokens)
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Println()
		fmt.Println("Estimated cost (USD)")
		w = table(os.Stdout)
		fmt.Fprintln(w, "MODEL\tCALLS\tINPUT\tOUTPUT\tCOST")
		var (
			total   float64
			unknown []string
		)
		for _, mu := range usageBy(events, func(e store.LLMRequestEvent) string { return e.Model }) {
			cost := "?"
			if price, ok := llm.PriceOf(mu.Key); ok {
				c := price.Cost(llm.Usage{InputTokens: mu.InputTokens, OutputTokens: mu.OutputTokens})
				total += c
				cost = formatCost(c)
			} else {
				unknown = append(unknown, mu.Key)
			}
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n",
				truncate(mu.Key, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, cost)
		}
		label := "TOTAL"
		if len(unknown) > 0 {
			label = "TOTAL (partial)"
		}
		fmt.Fprintf(w, "%s\t\t\t\t%s\n", label, formatCost(total))
		if err := w.Flush(); err != nil {
			return err
		}
		if len(unknown) > 0 {
			fmt.Printf("\nNo pricing for: %s\n", strings.Join(unknown, ", "))
		}
		return nil
	},
}

var probeSchema = &llm.Schema{
	Name:        "probe",
	Description: "Connectivity check",
	Definition: map[string]any{
		"type":                 "object",
		"required":             []any{"ok"},
		"additionalProperties": false,
		"properties":           map[string]any{"ok": map[string]any{"type": "boolean"}},
	},
}

var llmProbeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Send one small structured request to the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		provider, err := newProvider(cmd.Context(), d)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}
		ctx := llm.WithPurpose(cmd.Context(), llm.PurposeProbe)
		resp, err := provider.Generate(ctx, llm.Request{
			Messages:  []llm.Message{{Role: llm.RoleUser, Content: `Reply with {"ok": true}.`}},
			Schema:    probeSchema,
			MaxTokens: 32,
		})
		if err != nil {
			return err
		}
		fmt.Printf("%s answered %s (%d tokens)\n", resp.Model, resp.Content, resp.Usage.Total())
		return nil
	},
}

// usage aggregates LLM events sharing a key.
type usage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// usageBy groups events by key in first-seen order.
func usageBy(events []store.LLMRequestEvent, key func(store.LLMRequestEvent) string) []usage {
	var out []usage
	index := map[string]int{}
	var latency []int64
	for _, e := range events {
		k := key(e)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, usage{Key: k})
			latency = append(latency, 0)
		}
		out[i].Calls++
		out[i].InputTokens += e.InputTokens
		out[i].OutputTokens += e.OutputTokens
		latency[i] += e.LatencyMs
	}
	for i := range out {
		out[i].AvgLatencyMs = latency[i] / int64(out[i].Calls)
	}
	return out
}

// queryLLMEvents opens the store and reads LLM events.
func queryLLMEvents(ctx context.Context, opts store.QueryOpts) ([]store.LLMRequestEvent, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	events, err := s.EventRepo().QueryLLMRequests(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return events, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. level-draft)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
	llmCmd.AddCommand(llmProbeCmd)
}

func table(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
}

func stamp(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04:05")
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// section prints a titled block, or "(not captured)" for an empty body.
func section(title, body string) {
	if body == "" {
		body = "(not captured)"
	}
	rule := strings.Repeat("─", 60)
	fmt.Printf("\n%s\n%s\n%s\n%s\n", rule, title, rule, body)
}
