package render

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
)

func sampleResult() *schema.EvaluationResult {
	return &schema.EvaluationResult{
		Criteria: []schema.CriterionResult{
			{ID: "A1", Score: 4, Justification: "well | done"},
			{ID: "B4", Score: 1, Justification: "no rubric\nshown"},
		},
		TotalScore:      2.5,
		Recommendations: "## Strengths\n\n- **A1** (4/4)",
		Language:        schema.LangEnglish,
	}
}

func TestJSONRoundTrip(t *testing.T) {
	in := sampleResult()
	b, err := JSON(in)
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out schema.EvaluationResult
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("round-trip unmarshal: %v", err)
	}
	if !reflect.DeepEqual(*in, out) {
		t.Errorf("round trip changed the result:\n in: %+v\nout: %+v", *in, out)
	}
}

func TestJSONNil(t *testing.T) {
	if _, err := JSON(nil); err == nil {
		t.Error("JSON(nil) returned no error")
	}
}

func TestMarkdownContainsEveryCriterion(t *testing.T) {
	md := Markdown(sampleResult())
	for _, want := range []string{"A1", "B4", "2.5", "## Evaluation Result"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMarkdownEscapesTableCells(t *testing.T) {
	md := Markdown(sampleResult())
	if !strings.Contains(md, `well \| done`) {
		t.Error("pipe character not escaped in table cell")
	}
	if strings.Contains(md, "no rubric\nshown") {
		t.Error("newline not flattened in table cell")
	}
}

func TestMarkdownFallbackNotice(t *testing.T) {
	r := sampleResult()
	r.Fallback = true
	if !strings.Contains(Markdown(r), "preliminary result") {
		t.Error("fallback notice missing")
	}
}

func TestMarkdownArabic(t *testing.T) {
	r := sampleResult()
	r.Language = schema.LangArabic
	md := Markdown(r)
	if !strings.Contains(md, "نتيجة التقييم") {
		t.Error("Arabic heading missing")
	}
}

func TestMarkdownNil(t *testing.T) {
	if got := Markdown(nil); got != "" {
		t.Errorf("Markdown(nil) = %q, want empty", got)
	}
}
