package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/JurisCompare/internal/application/comparative"
	"github.com/turtacn/JurisCompare/internal/domain/choiceoflaw"
	"github.com/turtacn/JurisCompare/pkg/errors"
)

type analysisView struct {
	*choiceoflaw.Result
}

func (v analysisView) Text() string {
	var sb strings.Builder
	sb.WriteString(v.Summary())
	sb.WriteString("\n")
	if v.Conflict != choiceoflaw.ConflictNone {
		fmt.Fprintf(&sb, "Conflict: %s\n", v.Conflict)
	}
	if len(v.Excluded) > 0 {
		fmt.Fprintf(&sb, "Excluded: %s\n", strings.Join(v.Excluded, ", "))
	}
	if v.Reasoning != "" {
		sb.WriteString("\n")
		sb.WriteString(ensureNewline(v.Reasoning))
	}
	return sb.String()
}

func (v analysisView) TableHeaders() []string {
	return []string{"Factor", "Jurisdiction", "Weight", "Contribution", "Note"}
}

func (v analysisView) TableRows() [][]string {
	rows := make([][]string, 0, len(v.Trace)+1)
	for _, t := range v.Trace {
		rows = append(rows, []string{
			t.Factor,
			t.Jurisdiction,
			fmt.Sprintf("%.2f", t.Weight),
			fmt.Sprintf("%.2f", t.Contribution),
			truncateString(t.Note, 50),
		})
	}
	rows = append(rows, []string{"selected", v.Selected.Code, "", colorizeConfidence(v.Confidence), string(v.Approach)})
	return rows
}

func newAnalyzeCmd() *cobra.Command {
	var (
		category  string
		topic     string
		factors   []string
		interests []string
		notes     []string
		forum     string
		approach  string
		qualities []string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Determine the governing law of a fact pattern",
		Example: "  jurisctl analyze --category tort --forum US-NY \\\n" +
			"    --factor place_of_injury=US-CA --factor place_of_conduct=US-NY \\\n" +
			"    --interest US-CA:compensation --approach interest_analysis",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			input, err := buildChoiceOfLawInput(category, topic, factors, interests, notes, forum, approach, qualities)
			if err != nil {
				return err
			}

			cc, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			svc, err := cc.Service(ctx)
			if err != nil {
				return err
			}
			res, err := svc.AnalyzeChoiceOfLaw(ctx, input)
			if err != nil {
				return err
			}
			if cc.OutputFormat == OutputJSON {
				return PrintResult(cmd, res)
			}
			return PrintResult(cmd, analysisView{res})
		},
	}
	f := cmd.Flags()
	f.StringVar(&category, "category", "", "claim category (tort, contract, property)")
	f.StringVar(&topic, "topic", "", "legal topic; implies the category when --category is omitted")
	f.StringArrayVar(&factors, "factor", nil, "contacting factor as kind=CODE (repeatable)")
	f.StringArrayVar(&interests, "interest", nil, "governmental interest as CODE[:policy]; prefix CODE with ! for an illegitimate one (repeatable)")
	f.StringArrayVar(&notes, "note", nil, "policy note (repeatable)")
	f.StringVar(&forum, "forum", "", "forum jurisdiction code")
	f.StringVar(&approach, "approach", "", "approach; defaults to the forum's")
	f.StringArrayVar(&qualities, "quality", nil, "better-law quality as CODE=0.8 (repeatable)")
	_ = cmd.MarkFlagRequired("forum")
	return cmd
}

func buildChoiceOfLawInput(category, topic string, factors, interests, notes []string, forum, approach string, qualities []string) (*comparative.ChoiceOfLawInput, error) {
	in := &comparative.ChoiceOfLawInput{
		Category:    category,
		Topic:       topic,
		PolicyNotes: notes,
		Forum:       forum,
		Approach:    approach,
	}
	for _, raw := range factors {
		kind, code, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(kind) == "" || strings.TrimSpace(code) == "" {
			return nil, errors.New(errors.ErrCodeInvalidFactor, "factor must be kind=CODE").WithDetail("factor=" + raw)
		}
		in.Factors = append(in.Factors, comparative.FactorInput{Kind: strings.TrimSpace(kind), Jurisdiction: strings.TrimSpace(code)})
	}
	for _, raw := range interests {
		code, policy, _ := strings.Cut(raw, ":")
		code = strings.TrimSpace(code)
		legitimate := !strings.HasPrefix(code, "!")
		code = strings.TrimPrefix(code, "!")
		if code == "" {
			return nil, errors.New(errors.ErrCodeBadRequest, "interest must be CODE[:policy]").WithDetail("interest=" + raw)
		}
		in.Interests = append(in.Interests, comparative.InterestInput{
			Jurisdiction: code,
			Policy:       strings.TrimSpace(policy),
			Legitimate:   legitimate,
		})
	}
	for _, raw := range qualities {
		code, val, ok := strings.Cut(raw, "=")
		q, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if !ok || err != nil || strings.TrimSpace(code) == "" {
			return nil, errors.New(errors.ErrCodeBadRequest, "quality must be CODE=number").WithDetail("quality=" + raw)
		}
		if in.Qualities == nil {
			in.Qualities = make(map[string]float64)
		}
		in.Qualities[strings.TrimSpace(code)] = q
	}
	return in, nil
}

type approachesView []choiceoflaw.Approach

func (v approachesView) TableHeaders() []string { return []string{"Approach"} }

func (v approachesView) TableRows() [][]string {
	rows := make([][]string, 0, len(v))
	for _, a := range v {
		rows = append(rows, []string{string(a)})
	}
	return rows
}

func (v approachesView) Text() string {
	lines := make([]string, 0, len(v))
	for _, a := range v {
		lines = append(lines, string(a))
	}
	return strings.Join(lines, "\n")
}

func newApproachesCmd() *cobra.Command {
	var forum string
	cmd := &cobra.Command{
		Use:   "approaches",
		Short: "List the choice-of-law approaches, or the one a forum follows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if forum == "" {
				return PrintResult(cmd, approachesView(choiceoflaw.AllApproaches()))
			}

			cc, ctx, cancel, err := commandContext(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			svc, err := cc.Service(ctx)
			if err != nil {
				return err
			}
			sel, err := svc.SelectApproach(ctx, forum)
			if err != nil {
				return err
			}
			if cc.OutputFormat == OutputJSON {
				return PrintResult(cmd, sel)
			}
			note := ""
			if !sel.Listed {
				note = " (default)"
			}
			return PrintResult(cmd, fmt.Sprintf("%s: %s%s", sel.Forum, sel.Approach, note))
		},
	}
	cmd.Flags().StringVar(&forum, "forum", "", "show the approach this forum follows")
	return cmd
}

//Personal.AI order the ending
