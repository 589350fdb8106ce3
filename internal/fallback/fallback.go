// Package fallback synthesizes a structurally valid evaluation when the
// model call cannot be completed. The shape is contracted (every selected
// criterion present, every score in range); the values are not — no model
// call occurred, so reproducibility is not promised on this path.
package fallback

import (
	"math/rand"
	"time"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/catalog"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
)

// Generator produces synthetic criterion results.
type Generator struct {
	rng *rand.Rand
}

// New returns a time-seeded Generator.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed, for tests.
func NewSeeded(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate returns one result per criterion of the selected environments,
// in rubric order, with scores drawn uniformly from the valid range and a
// language-appropriate placeholder justification that marks the result as
// produced without model analysis.
func (g *Generator) Generate(selectedEnvironments []string, lang schema.Language) []schema.CriterionResult {
	selected := make(map[string]bool, len(selectedEnvironments))
	for _, id := range selectedEnvironments {
		selected[id] = true
	}

	var out []schema.CriterionResult
	for _, c := range catalog.Criteria() {
		if !selected[c.EnvironmentID] {
			continue
		}
		out = append(out, schema.CriterionResult{
			ID:            c.ID,
			Score:         g.rng.Intn(schema.MaxScore-schema.MinScore+1) + schema.MinScore,
			Justification: placeholderJustification(lang),
			Improvement:   placeholderImprovement(lang),
		})
	}
	return out
}

func placeholderJustification(lang schema.Language) string {
	if lang == schema.LangArabic {
		return "تقدير أولي تم إنشاؤه دون تحليل نموذج لغوي؛ يرجى مراجعة الدرجة يدوياً."
	}
	return "Preliminary score generated without model analysis; please review manually."
}

func placeholderImprovement(lang schema.Language) string {
	if lang == schema.LangArabic {
		return "أعد المحاولة عند توفر الاتصال بمزود النموذج للحصول على تقييم مبني على السرد."
	}
	return "Re-run the evaluation when the model provider is reachable for a narrative-based score."
}
