// Package prompt assembles the system and user prompts for the model call.
// Both builders are pure functions; all model-call parameters (temperature,
// token ceiling, timeout) live in the llm package.
package prompt

import (
	"fmt"
	"strings"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/catalog"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/clarify"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
)

// Request carries everything the builders need for one evaluation.
type Request struct {
	Narrative            string
	Language             schema.Language
	Metadata             schema.Metadata
	SelectedEnvironments []string // normalized, rubric order
	Answers              []schema.ClarificationAnswer
}

// outputSchema fixes the output contract shown to the model.
const outputSchema = `Output schema (JSON only):
{
  "criteria": [
    {
      "id": "A1",
      "score": 1,
      "justification": "evidence-based justification in the requested language",
      "improvement": "optional concrete improvement suggestion"
    }
  ],
  "recommendations": "optional overall recommendations",
  "total_score": 3.2
}
`

// BuildSystemPrompt assembles the system instruction: the evaluator role,
// the structural output contract, and the scoring rules.
func BuildSystemPrompt(lang schema.Language) string {
	var sb strings.Builder

	sb.WriteString("You are an instructional-quality evaluator for classroom observations.\n\n")

	sb.WriteString("Output ONLY valid JSON conforming to the schema below. " +
		"No prose, no markdown, no explanation outside the JSON.\n\n")

	sb.WriteString("Score every criterion as an integer from 1 (not observed) to 4 " +
		"(very evident). Base every score strictly on evidence present in the " +
		"observation narrative; do not invent events that are not described.\n\n")

	switch lang {
	case schema.LangArabic:
		sb.WriteString("Write every justification, improvement, and recommendation " +
			"in Arabic only. Do not mix in English text.\n\n")
	default:
		sb.WriteString("Write every justification, improvement, and recommendation " +
			"in English only. Do not mix in Arabic text.\n\n")
	}

	sb.WriteString(outputSchema)

	return sb.String()
}

// BuildUserPrompt assembles the user instruction: administrative metadata,
// the rubric restricted to the selected environments, the narrative, and the
// expanded clarification statements.
func BuildUserPrompt(req Request) string {
	var sb strings.Builder

	sb.WriteString("CLASSROOM VISIT:\n")
	fmt.Fprintf(&sb, "  Teacher: %s\n", req.Metadata.TeacherName)
	fmt.Fprintf(&sb, "  Subject: %s\n", req.Metadata.Subject)
	fmt.Fprintf(&sb, "  Grade: %s\n", req.Metadata.Grade)
	fmt.Fprintf(&sb, "  Segment: %s\n", req.Metadata.Segment)
	fmt.Fprintf(&sb, "  Date: %s\n", req.Metadata.Date)

	sb.WriteString("\nRUBRIC:\n")
	selected := make(map[string]bool, len(req.SelectedEnvironments))
	for _, id := range req.SelectedEnvironments {
		selected[id] = true
	}
	for _, env := range catalog.Environments() {
		if !selected[env.ID] {
			continue
		}
		fmt.Fprintf(&sb, "  Environment %s: %s\n", env.ID, env.Label(req.Language))
		for _, c := range env.Criteria {
			fmt.Fprintf(&sb, "    %s: %s\n", c.ID, c.Label(req.Language))
		}
	}

	if len(req.SelectedEnvironments) < len(catalog.Environments()) {
		fmt.Fprintf(&sb, "\nEvaluate ONLY criteria belonging to environments %s. "+
			"Do not score criteria of any other environment.\n",
			strings.Join(req.SelectedEnvironments, ", "))
	}

	sb.WriteString("\nOBSERVATION NARRATIVE:\n")
	sb.WriteString(req.Narrative)
	sb.WriteString("\n")

	if stmts := ExpandAnswers(req.Answers, req.Language); len(stmts) > 0 {
		sb.WriteString("\nADDITIONAL FACTS CONFIRMED BY THE OBSERVER:\n")
		for _, s := range stmts {
			fmt.Fprintf(&sb, "  - %s\n", s)
		}
	}

	sb.WriteString("\nProduce the JSON evaluation now.")

	return sb.String()
}

// statement is one bilingual declarative sentence.
type statement struct {
	en, ar string
}

func (s statement) in(lang schema.Language) string {
	if lang == schema.LangArabic {
		return s.ar
	}
	return s.en
}

// expansions maps (question key, canonical answer) to the declarative
// sentence appended to the narrative. A terse "No" is not trusted to be
// weighted correctly by the model, so each answer becomes an explicit,
// unambiguous statement of fact.
var expansions = map[string]map[string]statement{
	clarify.KeyRubric: {
		schema.AnswerYes: {
			en: "The teacher shared a rubric or exemplars of high-quality work with the students.",
			ar: "عرض المعلم على الطلاب سلم تقدير أو نماذج لأعمال عالية الجودة.",
		},
		schema.AnswerNo: {
			en: "No rubric, success criteria, or exemplars were shown to the students at any point in the lesson.",
			ar: "لم يُعرض على الطلاب أي سلم تقدير أو معايير نجاح أو نماذج في أي جزء من الدرس.",
		},
		schema.AnswerUnclear: {
			en: "There is no evidence that a rubric or exemplars were shown to the students.",
			ar: "لا يوجد دليل على أنه عُرض على الطلاب سلم تقدير أو نماذج.",
		},
	},
	clarify.KeyAssessment: {
		schema.AnswerYes: {
			en: "The students understood how their work would be assessed.",
			ar: "كان الطلاب يدركون كيف سيتم تقييم أعمالهم.",
		},
		schema.AnswerNo: {
			en: "The students did not know how their work would be assessed.",
			ar: "لم يكن الطلاب يعرفون كيف سيتم تقييم أعمالهم.",
		},
		schema.AnswerUnclear: {
			en: "There is no evidence the students knew how their work would be assessed.",
			ar: "لا يوجد دليل على أن الطلاب كانوا يعرفون كيف سيتم تقييم أعمالهم.",
		},
	},
	clarify.KeyTechnology: {
		schema.AnswerYes: {
			en: "The students used digital tools or devices during the lesson.",
			ar: "استخدم الطلاب أدوات أو أجهزة رقمية خلال الدرس.",
		},
		schema.AnswerNo: {
			en: "No digital tools or devices were used by the students during the lesson.",
			ar: "لم يستخدم الطلاب أي أدوات أو أجهزة رقمية خلال الدرس.",
		},
		schema.AnswerUnclear: {
			en: "There is no evidence of digital tool use during the lesson.",
			ar: "لا يوجد دليل على استخدام أدوات رقمية خلال الدرس.",
		},
	},
	clarify.KeyGroupWork: {
		schema.AnswerYes: {
			en: "The lesson included group or pair work.",
			ar: "تضمن الدرس عملاً جماعياً أو ثنائياً.",
		},
		schema.AnswerNo: {
			en: "The lesson included no group or pair work; students worked individually throughout.",
			ar: "لم يتضمن الدرس أي عمل جماعي أو ثنائي؛ عمل الطلاب فرادى طوال الوقت.",
		},
		schema.AnswerUnclear: {
			en: "There is no evidence of group or pair work in the lesson.",
			ar: "لا يوجد دليل على عمل جماعي أو ثنائي في الدرس.",
		},
	},
	clarify.KeyFeedback: {
		schema.AnswerYes: {
			en: "The teacher gave students feedback on the quality of their work.",
			ar: "قدم المعلم للطلاب تغذية راجعة حول جودة أعمالهم.",
		},
		schema.AnswerNo: {
			en: "The teacher gave the students no feedback on the quality of their work.",
			ar: "لم يقدم المعلم للطلاب أي تغذية راجعة حول جودة أعمالهم.",
		},
		schema.AnswerUnclear: {
			en: "There is no evidence the teacher gave feedback on student work.",
			ar: "لا يوجد دليل على تقديم المعلم تغذية راجعة حول أعمال الطلاب.",
		},
	},
	clarify.KeyDifferentiation: {
		schema.AnswerYes: {
			en: "The learning activities were differentiated for different ability levels.",
			ar: "كانت أنشطة التعلم متمايزة بحسب مستويات الطلاب.",
		},
		schema.AnswerNo: {
			en: "All students received identical tasks with no differentiation by ability level.",
			ar: "تلقى جميع الطلاب المهام نفسها دون أي تمايز بحسب المستويات.",
		},
		schema.AnswerUnclear: {
			en: "There is no evidence of differentiation in the learning activities.",
			ar: "لا يوجد دليل على تمايز في أنشطة التعلم.",
		},
	},
}

// directives name the criteria that must receive the minimum score when the
// observer's answer is negative or unclear. They cover the two override
// criteria only; the validator enforces the same rule post hoc because the
// model cannot be trusted to apply it.
var directives = map[string]statement{
	clarify.KeyRubric: {
		en: "Therefore criterion B4 must receive a score of 1.",
		ar: "وبناءً على ذلك يجب أن يحصل المعيار B4 على الدرجة 1.",
	},
	clarify.KeyAssessment: {
		en: "Therefore criterion B5 must receive a score of 1.",
		ar: "وبناءً على ذلك يجب أن يحصل المعيار B5 على الدرجة 1.",
	},
}

// ExpandAnswers converts clarification answers into explicit declarative
// sentences in the requested language, appending the minimum-score directive
// for negative or unclear answers to override-protocol families. Unknown
// keys are skipped.
func ExpandAnswers(answers []schema.ClarificationAnswer, lang schema.Language) []string {
	var out []string
	for _, a := range answers {
		byValue, ok := expansions[a.Key]
		if !ok {
			continue
		}
		value := clarify.ParseAnswer(a.Value)
		stmt, ok := byValue[value]
		if !ok {
			continue
		}
		line := stmt.in(lang)
		if value != schema.AnswerYes {
			if d, ok := directives[a.Key]; ok {
				line += " " + d.in(lang)
			}
		}
		out = append(out, line)
	}
	return out
}
