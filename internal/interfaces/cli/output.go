package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// tableProvider is implemented by results that render as a table.
type tableProvider interface {
	TableHeaders() []string
	TableRows() [][]string
}

// textProvider is implemented by results with a dedicated text rendering.
type textProvider interface {
	Text() string
}

// PrintResult writes data in the format selected by --output.
func PrintResult(cmd *cobra.Command, data interface{}) error {
	format := OutputJSON
	if cc, err := GetCLIContext(cmd); err == nil {
		format = cc.OutputFormat
	}
	out := cmd.OutOrStdout()

	switch format {
	case OutputJSON:
		return printJSON(out, data)
	case OutputTable:
		if tp, ok := data.(tableProvider); ok {
			renderTable(out, tp.TableHeaders(), tp.TableRows())
			return nil
		}
	}
	return printText(out, data)
}

func printJSON(w io.Writer, data interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func printText(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case textProvider:
		_, err := fmt.Fprint(w, ensureNewline(v.Text()))
		return err
	case tableProvider:
		renderTable(w, v.TableHeaders(), v.TableRows())
		return nil
	case string:
		_, err := fmt.Fprint(w, ensureNewline(v))
		return err
	case fmt.Stringer:
		_, err := fmt.Fprintln(w, v.String())
		return err
	default:
		return printJSON(w, v)
	}
}

func renderTable(w io.Writer, headers []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.AppendBulk(rows)
	table.Render()
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// PrintError writes err to stderr.
func PrintError(cmd *cobra.Command, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", color.RedString("Error:"), err.Error())
}

// PrintSuccess writes a one-line confirmation to stdout.
func PrintSuccess(cmd *cobra.Command, msg string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", color.GreenString("OK:"), msg)
}

// colorizeConfidence highlights a 0..1 confidence.
func colorizeConfidence(c float64) string {
	s := fmt.Sprintf("%.2f", c)
	switch {
	case c >= 0.8:
		return color.GreenString(s)
	case c >= 0.5:
		return color.YellowString(s)
	default:
		return color.RedString(s)
	}
}

func truncateString(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

//Personal.AI order the ending
