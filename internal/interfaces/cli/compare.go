package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/JurisCompare/internal/application/comparative"
	"github.com/turtacn/JurisCompare/internal/domain/comparison"
)

// compareView renders a comparison.Result.
type compareView struct {
	*comparison.Result
	report string
}

func (v compareView) Text() string { return v.report }

func (v compareView) TableHeaders() []string {
	return []string{"Jurisdiction", "Rule", "Position"}
}

func (v compareView) TableRows() [][]string {
	position := make(map[string]string, len(v.ByJurisdiction))
	if v.Majority != nil {
		for _, code := range v.Majority.Jurisdictions {
			position[code] = "majority"
		}
	}
	for _, p := range v.Minority {
		for _, code := range p.Jurisdictions {
			position[code] = "minority"
		}
	}

	rows := make([][]string, 0, len(v.Jurisdictions)+len(v.Unknown))
	for _, id := range v.Jurisdictions {
		variant := v.ByJurisdiction[id.Code]
		if variant == nil {
			continue
		}
		rows = append(rows, []string{id.String(), truncateString(variant.Describe(), 60), position[id.Code]})
	}
	for _, code := range v.Unknown {
		rows = append(rows, []string{code, "unknown", "-"})
	}
	return rows
}

func newCompareCmd() *cobra.Command {
	var (
		topic string
		codes []string
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a topic's rule across jurisdictions",
		Example: "  jurisctl compare --topic comparative_negligence --jurisdictions US-CA,US-AL,US-NY\n" +
			"  jurisctl compare --topic punitive_damages -j US-CA -j US-TX -o table",
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
			res, err := svc.Compare(ctx, topic, codes)
			if err != nil {
				return err
			}
			if cc.OutputFormat == OutputJSON {
				return PrintResult(cmd, res)
			}
			return PrintResult(cmd, compareView{Result: res, report: svc.GenerateReport(res)})
		},
	}
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "legal topic (see `jurisctl topics`)")
	cmd.Flags().StringSliceVarP(&codes, "jurisdictions", "j", nil, "jurisdiction codes, comma-separated or repeated")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("jurisdictions")
	return cmd
}

func newReportCmd() *cobra.Command {
	var (
		topic string
		codes []string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the comparison report for a topic",
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
			report, err := svc.CompareReport(ctx, topic, codes)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), ensureNewline(report))
			return err
		},
	}
	cmd.Flags().StringVarP(&topic, "topic", "t", "", "legal topic")
	cmd.Flags().StringSliceVarP(&codes, "jurisdictions", "j", nil, "jurisdiction codes, comma-separated or repeated")
	_ = cmd.MarkFlagRequired("topic")
	_ = cmd.MarkFlagRequired("jurisdictions")
	return cmd
}

type topicsView []comparative.TopicInfo

func (v topicsView) TableHeaders() []string {
	return []string{"Topic", "Category", "Kind", "Description"}
}

func (v topicsView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, t := range v {
		rows = append(rows, []string{string(t.Topic), string(t.Category), string(t.Kind), t.Description})
	}
	return rows
}

func (v topicsView) Text() string {
	var sb strings.Builder
	for _, t := range v {
		fmt.Fprintf(&sb, "%-32s %-10s %s\n", t.Topic, t.Category, t.Description)
	}
	return sb.String()
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "topics",
		Short: "List the comparison topics",
		Args:  cobra.NoArgs,
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
			topics := svc.Topics()
			sort.Slice(topics, func(i, j int) bool { return topics[i].Topic < topics[j].Topic })
			return PrintResult(cmd, topicsView(topics))
		},
	}
}

//Personal.AI order the ending
