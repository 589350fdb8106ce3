package schema

import (
	"encoding/json"
	"testing"
)

func TestFlexScoreUnmarshal(t *testing.T) {
	cases := []struct {
		in    string
		value int
		set   bool
	}{
		{`3`, 3, true},
		{`"2"`, 2, true},
		{`4.0`, 4, true},
		{`"1 "`, 1, true},
		{`3.7`, 0, false}, // fractional: unusable, validator substitutes
		{`"three"`, 0, false},
		{`null`, 0, false},
		{`true`, 0, false},
	}
	for _, c := range cases {
		var s FlexScore
		if err := json.Unmarshal([]byte(c.in), &s); err != nil {
			t.Errorf("Unmarshal(%s) unexpected error: %v", c.in, err)
			continue
		}
		if s.Set != c.set || (c.set && s.Value != c.value) {
			t.Errorf("Unmarshal(%s) = {%d %v}, want {%d %v}", c.in, s.Value, s.Set, c.value, c.set)
		}
	}
}

func TestFlexScoreInsideDocument(t *testing.T) {
	// A garbage score must not fail the surrounding parse.
	payload := `{"criteria":[{"id":"A1","score":"not a number","justification":"x"}]}`
	r, err := Decode([]byte(payload))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if r.Criteria[0].Score.Set {
		t.Error("garbage score parsed as set")
	}
}

func TestFlexScoreMarshal(t *testing.T) {
	b, err := json.Marshal(FlexScore{Value: 2, Set: true})
	if err != nil || string(b) != "2" {
		t.Errorf("Marshal set = %s, %v; want 2", b, err)
	}
	b, err = json.Marshal(FlexScore{})
	if err != nil || string(b) != "null" {
		t.Errorf("Marshal unset = %s, %v; want null", b, err)
	}
}

func TestLanguageValid(t *testing.T) {
	if !LangArabic.Valid() || !LangEnglish.Valid() {
		t.Error("supported languages reported invalid")
	}
	if Language("fr").Valid() {
		t.Error("unsupported language reported valid")
	}
}

func TestDecodeBothShapes(t *testing.T) {
	criteria := `{"criteria":[{"id":"B4","score":1,"justification":"x"}]}`
	r, err := Decode([]byte(criteria))
	if err != nil || len(r.Criteria) != 1 {
		t.Errorf("Decode criteria shape: %+v, %v", r, err)
	}

	envs := `{"environments":[{"env_code":"C","env_score":3,"justification_ar":"جيد","evidence_ar":"ملاحظ"}]}`
	r, err = Decode([]byte(envs))
	if err != nil || len(r.Environments) != 1 {
		t.Fatalf("Decode environments shape: %+v, %v", r, err)
	}
	if r.Environments[0].JustificationAr != "جيد" {
		t.Errorf("justification_ar = %q", r.Environments[0].JustificationAr)
	}
}
