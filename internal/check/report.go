package check

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Reporter writes check results as text or JSON
type Reporter struct {
	writer     io.Writer
	jsonOutput bool
}

// NewReporter creates a Reporter writing to w
func NewReporter(w io.Writer, jsonOutput bool) *Reporter {
	return &Reporter{writer: w, jsonOutput: jsonOutput}
}

type jsonResult struct {
	*Result
	ResponseTimeMs int64 `json:"responseTimeMs"`
}

// Report writes all results
func (r *Reporter) Report(results []*Result) error {
	if r.jsonOutput {
		out := make([]jsonResult, 0, len(results))
		for _, res := range results {
			out = append(out, jsonResult{Result: res, ResponseTimeMs: res.ResponseTime.Milliseconds()})
		}
		encoder := json.NewEncoder(r.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	var sb strings.Builder
	for i, res := range results {
		if i > 0 {
			sb.WriteString("\n")
		}
		writeText(&sb, res)
	}
	_, err := io.WriteString(r.writer, sb.String())
	return err
}

func writeText(sb *strings.Builder, res *Result) {
	fmt.Fprintf(sb, "%s %s (%s, %s)\n", verdict(res.Level), res.Profile, res.Provider, res.Model)
	for _, c := range res.Checks {
		emoji := "✅"
		if !c.Passed {
			emoji = "⚠️ "
			if c.Critical {
				emoji = "❌"
			}
		}
		fmt.Fprintf(sb, "   %s %s: %s\n", emoji, c.Name, c.Message)
	}
	if res.ResponseTime > 0 {
		fmt.Fprintf(sb, "   ⏱️  Response time: %dms\n", res.ResponseTime.Milliseconds())
	}
}

func verdict(level string) string {
	switch level {
	case LevelReady:
		return "✅ Ready:"
	case LevelPartial:
		return "⚠️  Degraded:"
	default:
		return "❌ Not ready:"
	}
}
