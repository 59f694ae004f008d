// Copyright © 2025 CoReason, Inc.

package bundler

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"
	"time"

	"github.com/coreason-ai/publisher/pkg/model"
)

const certificateTemplate = `# Certificate of Analysis

**Status:** {{ .Status }}

**Timestamp:** {{ .Timestamp }}

## Review Council

| Role | Member |
|------|--------|
{{ range .Council }}| {{ .Role }} | {{ .Member }} |
{{ end }}
## Results

* **Score:** {{ .Score }}
* **Pass:** {{ .Pass }}
`

type councilRow struct {
	Role   string
	Member string
}

type certificateContext struct {
	Status    string
	Timestamp string
	Council   []councilRow
	Score     float64
	Pass      string
}

var certificate = template.Must(template.New("certificate").Parse(certificateTemplate))

// renderCertificate produces the certificate of analysis for a report.
func renderCertificate(report *model.AssayReport, now time.Time) (string, error) {
	council, err := report.Council()
	if err != nil {
		return "", err
	}
	results, err := report.Results()
	if err != nil {
		return "", err
	}

	rows := make([]councilRow, 0, len(council))
	for role, member := range council {
		rows = append(rows, councilRow{Role: role, Member: fmt.Sprintf("%v", member)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Role < rows[j].Role })

	ctx := certificateContext{
		Status:    "PASSED",
		Timestamp: now.Format(time.RFC3339),
		Council:   rows,
		Score:     results.Score,
		Pass:      "True",
	}
	if !results.Pass {
		ctx.Status = "FAILED"
		ctx.Pass = "False"
	}

	var buf bytes.Buffer
	if err := certificate.Execute(&buf, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}
