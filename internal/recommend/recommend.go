// Package recommend classifies validated criterion results into strengths
// and weaknesses and renders bilingual recommendation markup. Classification
// filters by the selected environments with exactly the same rule as the
// score aggregator; the two must never disagree about which criteria count.
package recommend

import (
	"fmt"
	"strings"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/catalog"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
)

// maxStrengthsShown caps the strengths section. Weaknesses are never capped.
const maxStrengthsShown = 5

// Classification buckets criteria by score band.
type Classification struct {
	// Strengths holds criteria scored 4, capped at maxStrengthsShown.
	Strengths []schema.CriterionResult
	// Weaknesses holds criteria scored 1 or 2, unbounded.
	Weaknesses []schema.CriterionResult
	// Improvable holds the criteria feeding the improvement section:
	// the weaknesses, or the 3-scored criteria when nothing scored 1 or 2.
	Improvable []schema.CriterionResult
}

// Classify buckets the results restricted to the selected environments.
func Classify(results []schema.CriterionResult, selectedEnvironments []string) Classification {
	selected := make(map[string]bool, len(selectedEnvironments))
	for _, id := range selectedEnvironments {
		selected[id] = true
	}

	var cl Classification
	var mid []schema.CriterionResult
	for _, r := range results {
		if !selected[catalog.EnvironmentOf(r.ID)] {
			continue
		}
		switch {
		case r.Score == schema.MaxScore:
			if len(cl.Strengths) < maxStrengthsShown {
				cl.Strengths = append(cl.Strengths, r)
			}
		case r.Score <= 2:
			cl.Weaknesses = append(cl.Weaknesses, r)
		case r.Score == 3:
			mid = append(mid, r)
		}
	}

	// Escalate to the next-lowest band when nothing is critically weak.
	// When everything scored 4 the improvement section stays empty.
	if len(cl.Weaknesses) > 0 {
		cl.Improvable = cl.Weaknesses
	} else {
		cl.Improvable = mid
	}
	return cl
}

// Synthesize renders the recommendation markup for the results in the
// requested language.
func Synthesize(results []schema.CriterionResult, selectedEnvironments []string, lang schema.Language) string {
	cl := Classify(results, selectedEnvironments)
	var sb strings.Builder

	if len(cl.Strengths) > 0 {
		sb.WriteString(heading(lang, "Strengths", "نقاط القوة"))
		for _, r := range cl.Strengths {
			writeCriterionLine(&sb, r, lang, "")
		}
		sb.WriteString("\n")
	}

	if len(cl.Weaknesses) > 0 {
		sb.WriteString(heading(lang, "Weaknesses", "نقاط الضعف"))
		for _, r := range cl.Weaknesses {
			writeCriterionLine(&sb, r, lang, "")
		}
		sb.WriteString("\n")
	}

	if len(cl.Improvable) > 0 {
		sb.WriteString(heading(lang, "Improvement Suggestions", "مقترحات التحسين"))
		for _, r := range cl.Improvable {
			writeCriterionLine(&sb, r, lang, Suggestion(r.ID, r.Score, lang))
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// sectionHeadings are the headings Synthesize emits. Refresh uses them to
// locate the synthesized block inside previously composed markup.
var sectionHeadings = []string{
	"## Strengths", "## Weaknesses", "## Improvement Suggestions",
	"## نقاط القوة", "## نقاط الضعف", "## مقترحات التحسين",
}

// Refresh replaces the synthesized sections inside existing markup with a
// fresh synthesis over the given results. Text before the first synthesized
// section (a degradation notice) and any section the caller appended after
// the block (the model's own notes) survive unchanged. Used after a score
// edit so the displayed classification never disagrees with the scores.
func Refresh(existing string, results []schema.CriterionResult, selectedEnvironments []string, lang schema.Language) string {
	fresh := Synthesize(results, selectedEnvironments, lang)

	start := -1
	for _, h := range sectionHeadings {
		if i := strings.Index(existing, h); i >= 0 && (start < 0 || i < start) {
			start = i
		}
	}
	if start < 0 {
		if existing == "" {
			return fresh
		}
		if fresh == "" {
			return existing
		}
		return existing + "\n\n" + fresh
	}

	prefix := existing[:start]
	suffix := foreignSection(existing[start:])

	out := prefix + fresh
	if suffix != "" {
		out += "\n\n" + suffix
	}
	return out
}

// foreignSection returns the tail of block starting at the first "## "
// heading that Synthesize does not emit, or "" when every heading is ours.
func foreignSection(block string) string {
	for off := 0; ; {
		j := strings.Index(block[off:], "\n## ")
		if j < 0 {
			return ""
		}
		head := block[off+j+1:]
		ours := false
		for _, h := range sectionHeadings {
			if strings.HasPrefix(head, h) {
				ours = true
				break
			}
		}
		if !ours {
			return head
		}
		off += j + 1
	}
}

func heading(lang schema.Language, en, ar string) string {
	if lang == schema.LangArabic {
		return "## " + ar + "\n\n"
	}
	return "## " + en + "\n\n"
}

func writeCriterionLine(sb *strings.Builder, r schema.CriterionResult, lang schema.Language, suggestion string) {
	label := r.ID
	if c, ok := catalog.ByID(r.ID); ok {
		label = fmt.Sprintf("%s — %s", r.ID, c.Label(lang))
	}
	if suggestion == "" {
		fmt.Fprintf(sb, "- **%s** (%d/4)\n", label, r.Score)
		return
	}
	fmt.Fprintf(sb, "- **%s** (%d/4): %s\n", label, r.Score, suggestion)
}
