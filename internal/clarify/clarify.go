// Package clarify implements the clarification gate: a keyword heuristic that
// decides whether a narrative carries enough evidence to score, and generates
// disambiguating questions where it does not.
//
// The gate is deliberately conservative: the presence of any listed keyword
// for a family suppresses that family's question, with no semantic check.
// The keyword lists and the clarification threshold are heuristic constants,
// not derived rules.
package clarify

import (
	"strings"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
)

// ClarifyThreshold is the number of unanswered families at which the pipeline
// must pause for user answers before evaluating. Tunable, not derived.
const ClarifyThreshold = 2

// Question keys, stable across languages. Clarification answers are keyed by
// these and matched back to families by the override enforcer.
const (
	KeyRubric          = "rubric"
	KeyAssessment      = "assessment"
	KeyTechnology      = "technology"
	KeyGroupWork       = "groupwork"
	KeyFeedback        = "feedback"
	KeyDifferentiation = "differentiation"
)

// EvidenceDetector decides whether a narrative contains evidence for a
// keyword family. The default is a crude substring match; the interface
// exists so a more principled classifier can replace it without touching
// pipeline control flow.
type EvidenceDetector interface {
	HasEvidence(narrative string, keywords []string) bool
}

// KeywordDetector is the default EvidenceDetector: case-insensitive
// substring containment against the bilingual keyword list.
type KeywordDetector struct{}

// HasEvidence reports whether any keyword occurs anywhere in the narrative.
func (KeywordDetector) HasEvidence(narrative string, keywords []string) bool {
	lowered := strings.ToLower(narrative)
	for _, kw := range keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// family ties a question key to its criterion, keyword evidence list, and
// bilingual question text.
type family struct {
	key         string
	criterionID string
	keywords    []string
	questionEn  string
	questionAr  string
}

// families is scanned in order; question order in the output is stable.
var families = []family{
	{
		key:         KeyRubric,
		criterionID: "B4",
		keywords: []string{
			"rubric", "scoring guide", "exemplar", "success criteria", "assessment criteria",
			"روبرك", "سلم تقدير", "سلم التقدير", "معايير التقييم", "معايير النجاح", "نموذج إجابة",
		},
		questionEn: "Did the teacher share a rubric, success criteria, or exemplars of high-quality work with the students?",
		questionAr: "هل عرض المعلم على الطلاب سلم تقدير (روبرك) أو معايير نجاح أو نماذج لأعمال عالية الجودة؟",
	},
	{
		key:         KeyAssessment,
		criterionID: "B5",
		keywords: []string{
			"assess", "grading", "marking", "how work will be evaluated", "evaluation criteria",
			"تقييم", "تقويم", "درجات", "تصحيح",
		},
		questionEn: "Did the students appear to understand how their work would be assessed?",
		questionAr: "هل بدا أن الطلاب يدركون كيف سيتم تقييم أعمالهم؟",
	},
	{
		key:         KeyTechnology,
		criterionID: "G1",
		keywords: []string{
			"technology", "digital", "computer", "laptop", "tablet", "projector", "smartboard", "device", "app",
			"تقنية", "رقمي", "حاسوب", "جهاز", "أجهزة", "السبورة الذكية", "تطبيق",
		},
		questionEn: "Did the students use any digital tools or devices during the lesson?",
		questionAr: "هل استخدم الطلاب أي أدوات أو أجهزة رقمية خلال الدرس؟",
	},
	{
		key:         KeyGroupWork,
		criterionID: "F4",
		keywords: []string{
			"group", "pair", "team", "collaborat",
			"مجموعات", "مجموعة", "ثنائي", "تعاون", "فرق",
		},
		questionEn: "Did the lesson include group or pair work?",
		questionAr: "هل تضمن الدرس عملاً جماعياً أو ثنائياً؟",
	},
	{
		key:         KeyFeedback,
		criterionID: "E2",
		keywords: []string{
			"feedback", "praised", "corrected",
			"تغذية راجعة", "تعزيز", "صحح",
		},
		questionEn: "Did the teacher give students feedback on the quality of their work?",
		questionAr: "هل قدم المعلم للطلاب تغذية راجعة حول جودة أعمالهم؟",
	},
	{
		key:         KeyDifferentiation,
		criterionID: "A1",
		keywords: []string{
			"differentiat", "tiered", "ability level", "individualized",
			"متمايز", "تمايز", "مستويات", "فروق فردية",
		},
		questionEn: "Were the learning activities differentiated for different ability levels?",
		questionAr: "هل كانت أنشطة التعلم متمايزة بحسب مستويات الطلاب؟",
	},
}

// Options returns the fixed option set for clarification questions in the
// requested language. The canonical values (yes/no/unclear) are recovered
// with ParseAnswer.
func Options(lang schema.Language) []string {
	if lang == schema.LangArabic {
		return []string{"نعم", "لا", "غير واضح"}
	}
	return []string{"Yes", "No", "Unclear"}
}

// ParseAnswer maps a localized or free-form option back to its canonical
// value. Unrecognized input maps to unclear; treating garbage as "unclear"
// keeps the override protocol conservative.
func ParseAnswer(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case schema.AnswerYes, "y", "نعم":
		return schema.AnswerYes
	case schema.AnswerNo, "n", "لا":
		return schema.AnswerNo
	default:
		return schema.AnswerUnclear
	}
}

// Gate runs the evidence scan. Zero value is not usable; construct with New.
type Gate struct {
	detector EvidenceDetector
}

// New returns a Gate using the given detector, or the default
// KeywordDetector when detector is nil.
func New(detector EvidenceDetector) *Gate {
	if detector == nil {
		detector = KeywordDetector{}
	}
	return &Gate{detector: detector}
}

// Questions scans the narrative and returns one question per family with no
// keyword evidence, in stable family order. Pure function of its inputs.
func (g *Gate) Questions(narrative string, lang schema.Language) []schema.ClarificationQuestion {
	var qs []schema.ClarificationQuestion
	for _, f := range families {
		if g.detector.HasEvidence(narrative, f.keywords) {
			continue
		}
		prompt := f.questionEn
		if lang == schema.LangArabic {
			prompt = f.questionAr
		}
		qs = append(qs, schema.ClarificationQuestion{
			Key:     f.key,
			Prompt:  prompt,
			Options: Options(lang),
		})
	}
	return qs
}

// NeedsClarification reports whether the question count reaches the pause
// threshold. Below the threshold the pipeline proceeds directly.
func NeedsClarification(questions []schema.ClarificationQuestion) bool {
	return len(questions) >= ClarifyThreshold
}

// HasFamilyEvidence reports whether the narrative contains keyword evidence
// for the named family. Used by the override enforcer, which must apply the
// same heuristic the gate used.
func (g *Gate) HasFamilyEvidence(key, narrative string) bool {
	for _, f := range families {
		if f.key == key {
			return g.detector.HasEvidence(narrative, f.keywords)
		}
	}
	return false
}

// CriterionFor returns the criterion id a question key maps to.
func CriterionFor(key string) (string, bool) {
	for _, f := range families {
		if f.key == key {
			return f.criterionID, true
		}
	}
	return "", false
}
