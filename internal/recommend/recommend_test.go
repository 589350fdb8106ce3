package recommend

import (
	"strings"
	"testing"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/catalog"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
)

func allEnvs() []string { return catalog.EnvironmentIDs() }

func TestClassifyBands(t *testing.T) {
	results := []schema.CriterionResult{
		{ID: "A1", Score: 4},
		{ID: "A2", Score: 1},
		{ID: "A3", Score: 2},
		{ID: "A4", Score: 3},
	}
	cl := Classify(results, allEnvs())
	if len(cl.Strengths) != 1 || cl.Strengths[0].ID != "A1" {
		t.Errorf("Strengths = %+v, want [A1]", cl.Strengths)
	}
	if len(cl.Weaknesses) != 2 {
		t.Errorf("Weaknesses = %+v, want A2 and A3", cl.Weaknesses)
	}
	if len(cl.Improvable) != 2 {
		t.Errorf("Improvable = %+v, want the weaknesses", cl.Improvable)
	}
}

func TestClassifyStrengthsCap(t *testing.T) {
	var results []schema.CriterionResult
	for _, c := range catalog.Criteria() {
		results = append(results, schema.CriterionResult{ID: c.ID, Score: 4})
	}
	cl := Classify(results, allEnvs())
	if len(cl.Strengths) != maxStrengthsShown {
		t.Errorf("Strengths = %d entries, want cap %d", len(cl.Strengths), maxStrengthsShown)
	}
	if len(cl.Improvable) != 0 {
		t.Errorf("Improvable = %+v, want empty when everything scored 4", cl.Improvable)
	}
}

func TestClassifyEscalatesToMidBand(t *testing.T) {
	results := []schema.CriterionResult{
		{ID: "A1", Score: 3},
		{ID: "A2", Score: 3},
		{ID: "A3", Score: 4},
	}
	cl := Classify(results, allEnvs())
	if len(cl.Weaknesses) != 0 {
		t.Fatalf("Weaknesses = %+v, want none", cl.Weaknesses)
	}
	if len(cl.Improvable) != 2 {
		t.Errorf("Improvable = %+v, want the two 3-scored criteria", cl.Improvable)
	}
}

func TestClassifyWeaknessesUnbounded(t *testing.T) {
	var results []schema.CriterionResult
	for _, c := range catalog.Criteria() {
		results = append(results, schema.CriterionResult{ID: c.ID, Score: 1})
	}
	cl := Classify(results, allEnvs())
	if len(cl.Weaknesses) != len(catalog.Criteria()) {
		t.Errorf("Weaknesses = %d, want all %d (no cap)", len(cl.Weaknesses), len(catalog.Criteria()))
	}
}

func TestClassifyFiltersSelection(t *testing.T) {
	results := []schema.CriterionResult{
		{ID: "A1", Score: 1},
		{ID: "B1", Score: 1},
	}
	cl := Classify(results, []string{"B"})
	if len(cl.Weaknesses) != 1 || cl.Weaknesses[0].ID != "B1" {
		t.Errorf("Weaknesses = %+v, want only B1", cl.Weaknesses)
	}
}

func TestSuggestionSpecificAndFallback(t *testing.T) {
	specific := Suggestion("B4", 1, schema.LangEnglish)
	if !strings.Contains(specific, "rubric") {
		t.Errorf("B4 low suggestion = %q, want the expert rubric text", specific)
	}
	generic := Suggestion("C2", 2, schema.LangEnglish)
	if generic != genericSuggestions[BandLow].en {
		t.Errorf("C2 low suggestion = %q, want the generic fallback", generic)
	}
	if got := Suggestion("B4", 4, schema.LangEnglish); got != "" {
		t.Errorf("score-4 suggestion = %q, want empty", got)
	}
}

func TestSuggestionArabic(t *testing.T) {
	got := Suggestion("B4", 2, schema.LangArabic)
	if !strings.Contains(got, "سلم تقدير") {
		t.Errorf("Arabic B4 suggestion = %q", got)
	}
}

func TestBandOf(t *testing.T) {
	cases := []struct {
		score  int
		band   Band
		hasOne bool
	}{
		{1, BandLow, true},
		{2, BandLow, true},
		{3, BandMid, true},
		{4, "", false},
	}
	for _, c := range cases {
		band, ok := BandOf(c.score)
		if band != c.band || ok != c.hasOne {
			t.Errorf("BandOf(%d) = %q, %v; want %q, %v", c.score, band, ok, c.band, c.hasOne)
		}
	}
}

func TestSynthesizeSections(t *testing.T) {
	results := []schema.CriterionResult{
		{ID: "A1", Score: 4},
		{ID: "B4", Score: 1},
	}
	markup := Synthesize(results, allEnvs(), schema.LangEnglish)
	for _, want := range []string{"## Strengths", "## Weaknesses", "## Improvement Suggestions", "A1", "B4"} {
		if !strings.Contains(markup, want) {
			t.Errorf("markup missing %q:\n%s", want, markup)
		}
	}
}

func TestSynthesizeAllStrengthsOmitsImprovement(t *testing.T) {
	results := []schema.CriterionResult{{ID: "A1", Score: 4}}
	markup := Synthesize(results, allEnvs(), schema.LangEnglish)
	if strings.Contains(markup, "Improvement") {
		t.Errorf("improvement section emitted for all-4 results:\n%s", markup)
	}
}

func TestSynthesizeArabicHeadings(t *testing.T) {
	results := []schema.CriterionResult{
		{ID: "A1", Score: 4},
		{ID: "B4", Score: 1},
	}
	markup := Synthesize(results, allEnvs(), schema.LangArabic)
	for _, want := range []string{"نقاط القوة", "نقاط الضعف", "مقترحات التحسين"} {
		if !strings.Contains(markup, want) {
			t.Errorf("Arabic markup missing %q", want)
		}
	}
}

func TestRefreshRewritesClassification(t *testing.T) {
	results := []schema.CriterionResult{
		{ID: "A1", Score: 1},
		{ID: "B1", Score: 4},
	}
	markup := Synthesize(results, allEnvs(), schema.LangEnglish)
	if !strings.Contains(markup, "## Weaknesses") {
		t.Fatalf("precondition: A1 at 1 must list under weaknesses:\n%s", markup)
	}

	results[0].Score = 4
	refreshed := Refresh(markup, results, allEnvs(), schema.LangEnglish)
	if strings.Contains(refreshed, "## Weaknesses") {
		t.Errorf("weaknesses section survives after the last weakness was raised:\n%s", refreshed)
	}
	if !strings.Contains(refreshed, "(4/4)") || strings.Contains(refreshed, "(1/4)") {
		t.Errorf("refreshed markup does not reflect the new score:\n%s", refreshed)
	}
}

func TestRefreshPreservesSurroundingSections(t *testing.T) {
	results := []schema.CriterionResult{{ID: "A1", Score: 1}}
	notice := "The model provider was unreachable; preliminary scores shown."
	notes := "## Overall Notes\n\nStudents were engaged throughout."
	composed := notice + "\n\n" + Synthesize(results, allEnvs(), schema.LangEnglish) + "\n\n" + notes

	results[0].Score = 4
	refreshed := Refresh(composed, results, allEnvs(), schema.LangEnglish)
	if !strings.HasPrefix(refreshed, notice) {
		t.Errorf("leading notice lost:\n%s", refreshed)
	}
	if !strings.Contains(refreshed, notes) {
		t.Errorf("trailing notes section lost:\n%s", refreshed)
	}
	if !strings.Contains(refreshed, "## Strengths") || strings.Contains(refreshed, "## Weaknesses") {
		t.Errorf("classification not rewritten:\n%s", refreshed)
	}
}

func TestRefreshWithoutExistingSections(t *testing.T) {
	results := []schema.CriterionResult{{ID: "A1", Score: 4}}
	got := Refresh("", results, allEnvs(), schema.LangEnglish)
	if got != Synthesize(results, allEnvs(), schema.LangEnglish) {
		t.Errorf("Refresh over empty markup = %q, want plain synthesis", got)
	}
}
