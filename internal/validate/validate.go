// Package validate checks structural validity of a provider response,
// normalizes both wire shapes into canonical criterion results, clamps
// scores, sanitizes free text, and enforces the override protocol. Nothing
// the model returned survives this package unchecked.
package validate

import (
	"errors"
	"fmt"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/catalog"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/clarify"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
)

// ErrMissingCriteria is returned when the response carries neither a criteria
// nor an environments array. This is the one case validation does not absorb:
// the caller is responsible for invoking the fallback generator.
var ErrMissingCriteria = errors.New("validate: response has no criteria or environments array")

// OverrideRecord is the audit record emitted whenever the override protocol
// replaces a model-provided score. Informational, not a failure.
type OverrideRecord struct {
	CriterionID string
	From        int
	To          int
	Reason      string
}

// Input gathers everything validation needs for one response.
type Input struct {
	Response             *schema.RawResponse
	Narrative            string
	Answers              []schema.ClarificationAnswer
	Language             schema.Language
	SelectedEnvironments []string
	// Gate supplies the same evidence heuristic the clarification step used.
	// Nil gets a default keyword gate.
	Gate *clarify.Gate
}

// Validate produces an EvaluationResult from a parsed provider response.
//
// Per criterion: unknown ids and ids outside the selected environments are
// dropped, duplicate ids keep the first occurrence, missing criteria of
// selected environments are filled with the neutral default score, unusable
// scores are replaced with the default, text fields are sanitized and
// length-capped. Finally the override protocol is applied.
//
// TotalScore passes through when the model supplied one; otherwise it is
// left zero for the aggregator to compute.
func Validate(in Input) (*schema.EvaluationResult, []OverrideRecord, error) {
	resp := in.Response
	if resp == nil || (len(resp.Criteria) == 0 && len(resp.Environments) == 0) {
		return nil, nil, ErrMissingCriteria
	}

	gate := in.Gate
	if gate == nil {
		gate = clarify.New(nil)
	}

	raws := normalize(resp, in.Language)

	selected := make(map[string]bool, len(in.SelectedEnvironments))
	for _, id := range in.SelectedEnvironments {
		selected[id] = true
	}

	byID := make(map[string]schema.CriterionRaw, len(raws))
	for _, r := range raws {
		if _, known := catalog.ByID(r.ID); !known {
			continue
		}
		if !selected[catalog.EnvironmentOf(r.ID)] {
			continue
		}
		if _, dup := byID[r.ID]; dup {
			continue
		}
		byID[r.ID] = r
	}

	var results []schema.CriterionResult
	for _, c := range catalog.Criteria() {
		if !selected[c.EnvironmentID] {
			continue
		}
		raw, ok := byID[c.ID]
		if !ok {
			// The model skipped a criterion it was asked to score. Neutral
			// default rather than worst case.
			results = append(results, schema.CriterionResult{
				ID:            c.ID,
				Score:         schema.DefaultScore,
				Justification: notEvaluatedText(in.Language),
			})
			continue
		}
		score := schema.DefaultScore
		if raw.Score.Set && raw.Score.Value >= schema.MinScore && raw.Score.Value <= schema.MaxScore {
			score = raw.Score.Value
		}
		results = append(results, schema.CriterionResult{
			ID:            c.ID,
			Score:         score,
			Justification: sanitizeText(raw.Justification, maxJustificationRunes),
			Improvement:   sanitizeText(raw.Improvement, maxImprovementRunes),
		})
	}

	overrides := ApplyOverrides(results, in.Narrative, in.Answers, in.Language, gate)

	result := &schema.EvaluationResult{
		Criteria:        results,
		Recommendations: sanitizeText(resp.Recommendations, maxJustificationRunes),
		Language:        in.Language,
	}
	if resp.TotalScore != nil {
		result.TotalScore = *resp.TotalScore
	}
	return result, overrides, nil
}

// normalize folds both wire shapes into criterion-level entries. Environment
// shaped entries fan out to every criterion of that environment, carrying the
// justification and evidence text of the requested language.
func normalize(resp *schema.RawResponse, lang schema.Language) []schema.CriterionRaw {
	if len(resp.Criteria) > 0 {
		return resp.Criteria
	}

	var raws []schema.CriterionRaw
	for _, e := range resp.Environments {
		justification := e.JustificationEn
		evidence := e.EvidenceEn
		if lang == schema.LangArabic {
			justification = e.JustificationAr
			evidence = e.EvidenceAr
		}
		for _, env := range catalog.Environments() {
			if env.ID != e.EnvCode {
				continue
			}
			for _, c := range env.Criteria {
				raws = append(raws, schema.CriterionRaw{
					ID:            c.ID,
					Score:         e.EnvScore,
					Justification: justification,
					Improvement:   evidence,
				})
			}
		}
	}
	return raws
}

// overrideFamilies maps the two override-protocol criteria to the
// clarification family whose evidence governs them.
var overrideFamilies = []struct {
	criterionID string
	familyKey   string
}{
	{catalog.CriterionRubricPresence, clarify.KeyRubric},
	{catalog.CriterionAssessmentUnderstanding, clarify.KeyAssessment},
}

// ApplyOverrides enforces the override protocol in place: the two governed
// criteria are unconditionally forced to the minimum score when the observer
// answered negative or unclear, or, absent an answer, when the narrative
// carries no keyword evidence for the family. An explicit "yes" answer lifts
// the no-evidence condition. Every change is recorded for the audit log.
//
// The protocol binds every result handed to the caller, fallback-generated
// ones included, which is why it is callable outside Validate. A nil gate
// gets the default keyword gate.
func ApplyOverrides(
	results []schema.CriterionResult,
	narrative string,
	answers []schema.ClarificationAnswer,
	lang schema.Language,
	gate *clarify.Gate,
) []OverrideRecord {
	if gate == nil {
		gate = clarify.New(nil)
	}
	answerFor := func(key string) (string, bool) {
		for _, a := range answers {
			if a.Key == key {
				return clarify.ParseAnswer(a.Value), true
			}
		}
		return "", false
	}

	var records []OverrideRecord
	for _, of := range overrideFamilies {
		forced := false
		reason := ""
		if ans, ok := answerFor(of.familyKey); ok {
			if ans != schema.AnswerYes {
				forced = true
				reason = fmt.Sprintf("clarification answer %q for %s", ans, of.familyKey)
			}
		} else if !gate.HasFamilyEvidence(of.familyKey, narrative) {
			forced = true
			reason = fmt.Sprintf("no %s keyword evidence in narrative", of.familyKey)
		}
		if !forced {
			continue
		}
		for i := range results {
			if results[i].ID != of.criterionID {
				continue
			}
			if results[i].Score != schema.MinScore {
				records = append(records, OverrideRecord{
					CriterionID: of.criterionID,
					From:        results[i].Score,
					To:          schema.MinScore,
					Reason:      reason,
				})
				results[i].Score = schema.MinScore
			}
			results[i].Justification = overrideText(of.criterionID, lang)
		}
	}
	return records
}

func overrideText(criterionID string, lang schema.Language) string {
	if lang == schema.LangArabic {
		return fmt.Sprintf("تم تثبيت درجة المعيار %s على الحد الأدنى: لا يوجد دليل في السرد أو في إجابات التوضيح على تحققه.", criterionID)
	}
	return fmt.Sprintf("Score for criterion %s was set to the minimum: neither the narrative nor the clarification answers show evidence for it.", criterionID)
}

func notEvaluatedText(lang schema.Language) string {
	if lang == schema.LangArabic {
		return "لم يقدّم النموذج تقييماً لهذا المعيار؛ تم اعتماد الدرجة المحايدة."
	}
	return "The model returned no evaluation for this criterion; the neutral default score was applied."
}
