// Package render produces output from a finished EvaluationResult for the
// persistence and export collaborators and for terminal display.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/catalog"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
)

// JSON produces a pretty-printed JSON representation of the result. The
// output round-trips through json.Unmarshal back to an equal result.
func JSON(result *schema.EvaluationResult) ([]byte, error) {
	if result == nil {
		return nil, fmt.Errorf("render: nil result")
	}
	b, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("render: json marshal: %w", err)
	}
	return b, nil
}

// Markdown produces a Markdown summary of the result, suitable for terminal
// output or export. Every criterion in the result appears in the output.
func Markdown(result *schema.EvaluationResult) string {
	if result == nil {
		return ""
	}
	ar := result.Language == schema.LangArabic
	var sb strings.Builder

	if ar {
		sb.WriteString("## نتيجة التقييم\n\n")
		fmt.Fprintf(&sb, "**الدرجة الكلية:** %.1f/4  \n", result.TotalScore)
	} else {
		sb.WriteString("## Evaluation Result\n\n")
		fmt.Fprintf(&sb, "**Total score:** %.1f/4  \n", result.TotalScore)
	}
	if result.Fallback {
		if ar {
			sb.WriteString("**تنبيه:** نتيجة أولية دون استدعاء النموذج.\n")
		} else {
			sb.WriteString("**Notice:** preliminary result, no model call.\n")
		}
	}
	sb.WriteString("\n")

	if ar {
		sb.WriteString("| المعيار | الوصف | الدرجة | التبرير |\n")
	} else {
		sb.WriteString("| Criterion | Description | Score | Justification |\n")
	}
	sb.WriteString("|---|---|---|---|\n")
	for _, c := range result.Criteria {
		label := ""
		if cat, ok := catalog.ByID(c.ID); ok {
			label = cat.Label(result.Language)
		}
		fmt.Fprintf(&sb, "| %s | %s | %d | %s |\n",
			c.ID, mdEscape(label), c.Score, mdEscape(c.Justification))
	}
	sb.WriteString("\n")

	if result.Recommendations != "" {
		sb.WriteString(result.Recommendations)
		sb.WriteString("\n")
	}
	return sb.String()
}

// mdEscape neutralizes pipe characters and newlines inside table cells.
func mdEscape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
