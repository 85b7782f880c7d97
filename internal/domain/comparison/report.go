package comparison

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/turtacn/JurisCompare/internal/domain/rule"
)

const reportTemplate = `COMPARATIVE RULE REPORT
Topic: {{ .Topic }} ({{ .Topic.Description }})
Jurisdictions ({{ len .Jurisdictions }}):
{{- range .Jurisdictions }}
  - {{ . }}{{ if .Tradition }} [{{ .Tradition }}]{{ end }}: {{ describe (index $.ByJurisdiction .Code) }}
{{- end }}

Majority rule:
{{- if .Majority }}
  {{ .Majority.Variant.Describe }} (count {{ .Majority.Count }}: {{ join .Majority.Jurisdictions }})
{{- else }}
  none (no jurisdiction has a known rule)
{{- end }}

Minority rules ({{ len .Minority }}):
{{- range .Minority }}
  - {{ .Variant.Describe }} (count {{ .Count }}: {{ join .Jurisdictions }})
{{- else }}
  none
{{- end }}

Unknown ({{ len .Unknown }}):{{ if .Unknown }} {{ join .Unknown }}{{ else }} none{{ end }}
{{- if .Unregistered }}
Unregistered: {{ join .Unregistered }}
{{- end }}

Similarity matrix:
{{ matrix . }}`

var reportTmpl = template.Must(template.New("comparison-report").Funcs(template.FuncMap{
	"join":     func(s []string) string { return strings.Join(s, ", ") },
	"describe": describeVariant,
	"matrix":   renderMatrix,
}).Parse(reportTemplate))

// GenerateReport renders r as plain structured text.  The output names the
// topic and every compared jurisdiction and contains the majority, each
// minority with its holders, the unknowns and the full similarity matrix.
func GenerateReport(r *Result) string {
	if r == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, r); err != nil {
		// the template is fixed and only reads fields of r
		return fmt.Sprintf("report rendering failed: %v", err)
	}
	return buf.String()
}

func describeVariant(v *rule.Variant) string {
	if v == nil {
		return "unknown"
	}
	return v.Describe()
}

func renderMatrix(r *Result) string {
	codes := make([]string, len(r.Jurisdictions))
	width := 4
	for i, id := range r.Jurisdictions {
		codes[i] = id.Code
		if len(id.Code) > width {
			width = len(id.Code)
		}
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-*s", width, "")
	for _, c := range codes {
		fmt.Fprintf(&sb, " %*s", width, c)
	}
	sb.WriteByte('\n')
	for i, row := range r.Similarity {
		fmt.Fprintf(&sb, "%-*s", width, codes[i])
		for _, v := range row {
			fmt.Fprintf(&sb, " %*.2f", width, v)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

//Personal.AI order the ending
