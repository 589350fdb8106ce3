package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/catalog"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/clarify"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
)

// narrativeWithRubric carries keyword evidence for both override families.
const narrativeWithRubric = "The teacher displayed a rubric and explained the assessment criteria to the class."

func allEnvs() []string { return catalog.EnvironmentIDs() }

func setScore(v int) schema.FlexScore { return schema.FlexScore{Value: v, Set: true} }

func criteriaResponse(entries ...schema.CriterionRaw) *schema.RawResponse {
	return &schema.RawResponse{Criteria: entries}
}

func TestValidateMissingArrays(t *testing.T) {
	for _, resp := range []*schema.RawResponse{nil, {}} {
		_, _, err := Validate(Input{
			Response:             resp,
			Narrative:            narrativeWithRubric,
			Language:             schema.LangEnglish,
			SelectedEnvironments: allEnvs(),
		})
		if !errors.Is(err, ErrMissingCriteria) {
			t.Errorf("Validate(%+v) err = %v, want ErrMissingCriteria", resp, err)
		}
	}
}

func TestValidateRangeInvariant(t *testing.T) {
	resp := criteriaResponse(
		schema.CriterionRaw{ID: "A1", Score: setScore(0), Justification: "zero"},
		schema.CriterionRaw{ID: "A2", Score: setScore(9), Justification: "nine"},
		schema.CriterionRaw{ID: "A3", Justification: "unset"},
		schema.CriterionRaw{ID: "A4", Score: setScore(2), Justification: "valid"},
	)
	result, _, err := Validate(Input{
		Response:             resp,
		Narrative:            narrativeWithRubric,
		Language:             schema.LangEnglish,
		SelectedEnvironments: []string{"A"},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, c := range result.Criteria {
		if c.Score < schema.MinScore || c.Score > schema.MaxScore {
			t.Errorf("criterion %s score %d out of range", c.ID, c.Score)
		}
	}
	byID := map[string]int{}
	for _, c := range result.Criteria {
		byID[c.ID] = c.Score
	}
	for _, id := range []string{"A1", "A2", "A3"} {
		if byID[id] != schema.DefaultScore {
			t.Errorf("criterion %s score = %d, want default %d", id, byID[id], schema.DefaultScore)
		}
	}
	if byID["A4"] != 2 {
		t.Errorf("criterion A4 score = %d, want 2", byID["A4"])
	}
}

func TestValidateFiltersToSelection(t *testing.T) {
	resp := criteriaResponse(
		schema.CriterionRaw{ID: "A1", Score: setScore(4)},
		schema.CriterionRaw{ID: "G1", Score: setScore(4)},
		schema.CriterionRaw{ID: "ZZ", Score: setScore(4)},
	)
	result, _, err := Validate(Input{
		Response:             resp,
		Narrative:            narrativeWithRubric,
		Language:             schema.LangEnglish,
		SelectedEnvironments: []string{"A"},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, c := range result.Criteria {
		if catalog.EnvironmentOf(c.ID) != "A" {
			t.Errorf("criterion %s outside selected environment A", c.ID)
		}
	}
}

func TestValidateFillsMissingCriteria(t *testing.T) {
	resp := criteriaResponse(schema.CriterionRaw{ID: "D1", Score: setScore(4)})
	result, _, err := Validate(Input{
		Response:             resp,
		Narrative:            narrativeWithRubric,
		Language:             schema.LangEnglish,
		SelectedEnvironments: []string{"D"},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(result.Criteria) != 3 {
		t.Fatalf("got %d criteria, want all 3 of environment D", len(result.Criteria))
	}
	for _, c := range result.Criteria {
		if c.ID != "D1" && c.Score != schema.DefaultScore {
			t.Errorf("filled criterion %s score = %d, want default", c.ID, c.Score)
		}
	}
}

func TestValidateDuplicateKeepsFirst(t *testing.T) {
	resp := criteriaResponse(
		schema.CriterionRaw{ID: "D1", Score: setScore(4), Justification: "first"},
		schema.CriterionRaw{ID: "D1", Score: setScore(1), Justification: "second"},
	)
	result, _, err := Validate(Input{
		Response:             resp,
		Narrative:            narrativeWithRubric,
		Language:             schema.LangEnglish,
		SelectedEnvironments: []string{"D"},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, c := range result.Criteria {
		if c.ID == "D1" && c.Score != 4 {
			t.Errorf("duplicate handling kept score %d, want first occurrence 4", c.Score)
		}
	}
}

func TestValidateEnvironmentShapeFanOut(t *testing.T) {
	three := 3.0
	resp := &schema.RawResponse{
		Environments: []schema.EnvRaw{
			{EnvCode: "D", EnvScore: setScore(2), JustificationEn: "little activity", JustificationAr: "نشاط قليل"},
		},
		TotalScore: &three,
	}
	result, _, err := Validate(Input{
		Response:             resp,
		Narrative:            narrativeWithRubric,
		Language:             schema.LangArabic,
		SelectedEnvironments: []string{"D"},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if len(result.Criteria) != 3 {
		t.Fatalf("fan-out produced %d criteria, want 3", len(result.Criteria))
	}
	for _, c := range result.Criteria {
		if c.Score != 2 {
			t.Errorf("criterion %s score = %d, want 2", c.ID, c.Score)
		}
		if c.Justification != "نشاط قليل" {
			t.Errorf("criterion %s justification = %q, want Arabic text", c.ID, c.Justification)
		}
	}
	if result.TotalScore != 3.0 {
		t.Errorf("TotalScore = %v, want passthrough 3.0", result.TotalScore)
	}
}

func TestOverrideNoKeywordEvidence(t *testing.T) {
	resp := criteriaResponse(
		schema.CriterionRaw{ID: "B4", Score: setScore(4), Justification: "model claims a rubric was used"},
		schema.CriterionRaw{ID: "B5", Score: setScore(4)},
	)
	result, overrides, err := Validate(Input{
		Response:             resp,
		Narrative:            "Students copied notes from the board for the whole period.",
		Language:             schema.LangEnglish,
		SelectedEnvironments: []string{"B"},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	byID := map[string]schema.CriterionResult{}
	for _, c := range result.Criteria {
		byID[c.ID] = c
	}
	for _, id := range []string{"B4", "B5"} {
		if byID[id].Score != schema.MinScore {
			t.Errorf("%s score = %d, want forced minimum %d", id, byID[id].Score, schema.MinScore)
		}
		if !strings.Contains(byID[id].Justification, "minimum") {
			t.Errorf("%s justification does not reference the override: %q", id, byID[id].Justification)
		}
	}
	if len(overrides) != 2 {
		t.Fatalf("got %d override records, want 2", len(overrides))
	}
	if overrides[0].From != 4 || overrides[0].To != 1 {
		t.Errorf("override record = %+v, want From 4 To 1", overrides[0])
	}
}

func TestOverrideNegativeAnswerBeatsKeyword(t *testing.T) {
	// Narrative mentions a rubric, but the observer explicitly said no.
	resp := criteriaResponse(schema.CriterionRaw{ID: "B4", Score: setScore(3)})
	result, overrides, err := Validate(Input{
		Response:             resp,
		Narrative:            narrativeWithRubric,
		Answers:              []schema.ClarificationAnswer{{Key: clarify.KeyRubric, Value: "no"}},
		Language:             schema.LangEnglish,
		SelectedEnvironments: []string{"B"},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, c := range result.Criteria {
		if c.ID == "B4" && c.Score != schema.MinScore {
			t.Errorf("B4 score = %d, want 1 on explicit negative answer", c.Score)
		}
	}
	if len(overrides) == 0 {
		t.Error("no override record despite forced score")
	}
}

func TestOverrideYesAnswerLiftsNoEvidenceCondition(t *testing.T) {
	resp := criteriaResponse(schema.CriterionRaw{ID: "B4", Score: setScore(3), Justification: "rubric confirmed"})
	result, overrides, err := Validate(Input{
		Response:             resp,
		Narrative:            "Nothing about assessment artifacts in this text.",
		Answers:              []schema.ClarificationAnswer{{Key: clarify.KeyRubric, Value: "yes"}},
		Language:             schema.LangEnglish,
		SelectedEnvironments: []string{"B"},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, c := range result.Criteria {
		if c.ID == "B4" && c.Score != 3 {
			t.Errorf("B4 score = %d, want model score 3 preserved on yes answer", c.Score)
		}
	}
	for _, o := range overrides {
		if o.CriterionID == "B4" {
			t.Error("override recorded for B4 despite yes answer")
		}
	}
}

func TestOverrideUnclearAnswerForces(t *testing.T) {
	resp := criteriaResponse(schema.CriterionRaw{ID: "B5", Score: setScore(4)})
	result, _, err := Validate(Input{
		Response:             resp,
		Narrative:            narrativeWithRubric,
		Answers:              []schema.ClarificationAnswer{{Key: clarify.KeyAssessment, Value: "غير واضح"}},
		Language:             schema.LangArabic,
		SelectedEnvironments: []string{"B"},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, c := range result.Criteria {
		if c.ID == "B5" && c.Score != schema.MinScore {
			t.Errorf("B5 score = %d, want 1 on unclear answer", c.Score)
		}
	}
}

func TestOverrideAlreadyMinimumNoRecord(t *testing.T) {
	resp := criteriaResponse(schema.CriterionRaw{ID: "B4", Score: setScore(1)})
	_, overrides, err := Validate(Input{
		Response:             resp,
		Narrative:            "No artifacts mentioned.",
		Language:             schema.LangEnglish,
		SelectedEnvironments: []string{"B"},
	})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, o := range overrides {
		if o.CriterionID == "B4" {
			t.Errorf("override record emitted for an already-minimum score: %+v", o)
		}
	}
}

func TestSanitizeText(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain text", "plain text"},
		{"<b>bold</b> claim", "bold claim"},
		{"&lt;i&gt;escaped&lt;/i&gt; markup", "escaped markup"},
		{"a &amp; b", "a & b"},
		{"  padded  ", "padded"},
		{"", ""},
	}
	for _, c := range cases {
		if got := sanitizeText(c.in, 100); got != c.want {
			t.Errorf("sanitizeText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeTextCapsRunes(t *testing.T) {
	long := strings.Repeat("ع", 700)
	got := sanitizeText(long, maxJustificationRunes)
	if n := len([]rune(got)); n != maxJustificationRunes {
		t.Errorf("capped length = %d runes, want %d", n, maxJustificationRunes)
	}
}
