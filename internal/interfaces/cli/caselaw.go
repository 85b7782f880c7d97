package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/JurisCompare/internal/domain/caselaw"
)

type searchView []caselaw.SearchResult

func (v searchView) TableHeaders() []string {
	return []string{"Rank", "Score", "ID", "Case", "Court", "Date", "Topic"}
}

func (v searchView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for i, r := range v {
		d := r.Decision
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.2f", r.Score),
			d.ID,
			truncateString(d.CaseNumber, 24),
			string(d.CourtLevel),
			d.Date.Format("2006-01-02"),
			d.Topic,
		})
	}
	return rows
}

func (v searchView) Text() string {
	if len(v) == 0 {
		return "No matching decisions."
	}
	var sb strings.Builder
	for i, r := range v {
		fmt.Fprintf(&sb, "%2d. [%.2f] %s %s (%s, %s)\n", i+1, r.Score, r.Decision.ID,
			r.Decision.CaseNumber, r.Decision.CourtLevel, r.Decision.Date.Format("2006-01-02"))
		fmt.Fprintf(&sb, "    %s\n", truncateString(r.Decision.Summary, 100))
	}
	return sb.String()
}

func newSearchCmd() *cobra.Command {
	var q caselaw.Query
	var court string
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the case law index",
		Example: "  jurisctl search --keywords negligence,duty --court supreme --limit 5",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			svc, err := cc.Service(ctx)
			if err != nil {
				return err
			}
			q.CourtLevel = caselaw.CourtLevel(court)
			results, err := svc.Search(ctx, q)
			if err != nil {
				return err
			}
			if results == nil {
				results = []caselaw.SearchResult{}
			}
			return PrintResult(cmd, searchView(results))
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&q.Keywords, "keywords", "k", nil, "search keywords, comma-separated or repeated")
	f.StringVar(&court, "court", "", "court level filter (supreme, appellate, district)")
	f.StringVar(&q.Topic, "topic", "", "topic filter")
	f.IntVar(&q.Limit, "limit", 0, "maximum number of results (0 means the default)")
	return cmd
}

type decisionView struct {
	*caselaw.Decision
}

func (v decisionView) Text() string {
	d := v.Decision
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s  %s\n", d.ID, d.CaseNumber)
	if d.Title != "" {
		fmt.Fprintf(&sb, "%s\n", d.Title)
	}
	fmt.Fprintf(&sb, "Court: %s %s  Date: %s", d.CourtLevel, d.Court, d.Date.Format("2006-01-02"))
	if d.Jurisdiction != "" {
		fmt.Fprintf(&sb, "  Jurisdiction: %s", d.Jurisdiction)
	}
	if d.Outcome != "" {
		fmt.Fprintf(&sb, "  Outcome: %s", d.Outcome)
	}
	fmt.Fprintf(&sb, "\n\n%s\n", d.Summary)
	for i, h := range d.Holdings {
		fmt.Fprintf(&sb, "\nHolding %d: %s\n  %s\n", i+1, h.Issue, h.Conclusion)
	}
	return sb.String()
}

func newDecisionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decision",
		Short: "Inspect court decisions",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get ID",
		Short: "Show a decision by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			svc, err := cc.Service(ctx)
			if err != nil {
				return err
			}
			d, err := svc.GetDecision(ctx, args[0])
			if err != nil {
				return err
			}
			if cc.OutputFormat == OutputJSON {
				return PrintResult(cmd, d)
			}
			return PrintResult(cmd, decisionView{d})
		},
	})
	return cmd
}

//Personal.AI order the ending
