// Package schema defines the canonical data types exchanged between the
// evaluation pipeline stages and the wire shapes returned by model providers.
package schema

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Language selects which of the two rubric languages a result is produced in.
type Language string

const (
	LangArabic  Language = "ar"
	LangEnglish Language = "en"
)

// Valid reports whether l is one of the two supported languages.
func (l Language) Valid() bool {
	return l == LangArabic || l == LangEnglish
}

// Score bounds for a single criterion. Every CriterionResult that leaves the
// validator satisfies MinScore <= Score <= MaxScore.
const (
	MinScore = 1
	MaxScore = 4

	// DefaultScore replaces a missing, non-numeric, or out-of-range score.
	// Neutral ("not clearly evidenced") rather than worst-case.
	DefaultScore = 3
)

// Metadata carries the administrative context of one classroom visit. It is
// embedded in the user prompt verbatim and never interpreted by the pipeline.
type Metadata struct {
	TeacherName string `json:"teacher_name"`
	Subject     string `json:"subject"`
	Grade       string `json:"grade"`
	Segment     string `json:"segment"`
	Date        string `json:"date"`
}

// ClarificationQuestion is a disambiguating question generated by the
// clarification gate for one criterion family. Ephemeral: it lives for a
// single evaluation request.
type ClarificationQuestion struct {
	Key     string   `json:"key"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

// ClarificationAnswer pairs a question key with the option the observer chose.
type ClarificationAnswer struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Canonical clarification answer values. The gate emits language-appropriate
// option labels, but answers are stored in canonical form.
const (
	AnswerYes     = "yes"
	AnswerNo      = "no"
	AnswerUnclear = "unclear"
)

// CriterionResult is one scored rubric line item after validation.
type CriterionResult struct {
	ID            string `json:"id"`
	Score         int    `json:"score"`
	Justification string `json:"justification"`
	Improvement   string `json:"improvement,omitempty"`
}

// EvaluationResult is the pipeline's final product for one narrative.
type EvaluationResult struct {
	Criteria        []CriterionResult `json:"criteria"`
	TotalScore      float64           `json:"total_score"`
	Recommendations string            `json:"recommendations"`
	Language        Language          `json:"language"`
	// Fallback marks results synthesized without a model call.
	Fallback bool `json:"fallback,omitempty"`
}

// FlexScore tolerates the score encodings models actually produce: a JSON
// number, a numeric string ("3"), or garbage. Garbage parses the surrounding
// document successfully and leaves Set false so the validator can substitute
// DefaultScore instead of rejecting the whole response.
type FlexScore struct {
	Value int
	Set   bool
}

// UnmarshalJSON accepts a number, a quoted number, or null. Anything else
// leaves the score unset without failing the parse.
func (s *FlexScore) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	raw = strings.TrimSpace(raw)
	// Models occasionally emit "3.0"; accept it when the fraction is exact.
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		n := int(f)
		if float64(n) == f {
			s.Value = n
			s.Set = true
		}
	}
	return nil
}

// MarshalJSON writes the score as a plain number, or null when unset.
func (s FlexScore) MarshalJSON() ([]byte, error) {
	if !s.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(s.Value)), nil
}

// CriterionRaw is one entry of the primary (criteria-shaped) provider
// response, before validation.
type CriterionRaw struct {
	ID            string    `json:"id"`
	Score         FlexScore `json:"score"`
	Justification string    `json:"justification"`
	Improvement   string    `json:"improvement,omitempty"`
}

// EnvRaw is one entry of the secondary (environment-shaped) provider
// response. Justification and evidence arrive per language.
type EnvRaw struct {
	EnvCode         string    `json:"env_code"`
	EnvScore        FlexScore `json:"env_score"`
	JustificationAr string    `json:"justification_ar,omitempty"`
	JustificationEn string    `json:"justification_en,omitempty"`
	EvidenceAr      string    `json:"evidence_ar,omitempty"`
	EvidenceEn      string    `json:"evidence_en,omitempty"`
}

// RawResponse is the union of both provider wire shapes:
//
//	{ "criteria": [{id, score, justification, improvement?}], "recommendations"?, "total_score"? }
//	{ "environments": [{env_code, env_score, justification_xx, evidence_xx}] }
//
// Exactly one of Criteria or Environments is expected to be present. The
// validator's normalization step folds both into []CriterionRaw so shape
// branching never leaks past it.
type RawResponse struct {
	Criteria     []CriterionRaw `json:"criteria"`
	Environments []EnvRaw       `json:"environments"`
	// Recommendations and TotalScore pass through when the model supplies
	// them; the aggregator recomputes TotalScore otherwise.
	Recommendations string   `json:"recommendations,omitempty"`
	TotalScore      *float64 `json:"total_score,omitempty"`
}

// Decode parses a raw JSON payload into a RawResponse. It does not decide
// whether the response is structurally usable; that is the validator's job.
func Decode(data []byte) (*RawResponse, error) {
	var r RawResponse
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
