package recommend

import "github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"

// Band separates the expert suggestion texts: low covers scores 1–2, mid
// covers score 3.
type Band string

const (
	BandLow Band = "low"
	BandMid Band = "mid"
)

// BandOf maps a score to its suggestion band. Scores of 4 have no band;
// nothing is suggested for a strength.
func BandOf(score int) (Band, bool) {
	switch {
	case score <= 2:
		return BandLow, true
	case score == 3:
		return BandMid, true
	default:
		return "", false
	}
}

type text struct {
	en, ar string
}

func (t text) in(lang schema.Language) string {
	if lang == schema.LangArabic {
		return t.ar
	}
	return t.en
}

// suggestions holds the expert-authored improvement texts keyed by criterion
// id and band. Kept as data, not code branches, so it stays testable and
// localizable independent of the classification logic.
var suggestions = map[string]map[Band]text{
	"A1": {
		BandLow: {
			en: "Plan tiered tasks and offer at least two levels of challenge so every learner works within reach of their ability.",
			ar: "خطط لمهام متدرجة وقدم مستويين من التحدي على الأقل بحيث يعمل كل متعلم ضمن حدود قدرته.",
		},
		BandMid: {
			en: "Extend the existing differentiation to assessment tasks, not only practice activities.",
			ar: "وسّع التمايز القائم ليشمل مهام التقييم وليس أنشطة التدريب فقط.",
		},
	},
	"B2": {
		BandLow: {
			en: "Replace recall questions with prompts that require learners to compare, justify, or predict.",
			ar: "استبدل أسئلة الاستذكار بمثيرات تتطلب من المتعلمين المقارنة أو التبرير أو التنبؤ.",
		},
		BandMid: {
			en: "Add one open-ended problem per lesson that has more than one defensible answer.",
			ar: "أضف مشكلة مفتوحة واحدة في كل درس تقبل أكثر من إجابة مقبولة.",
		},
	},
	"B4": {
		BandLow: {
			en: "Share a rubric or an exemplar of high-quality work before learners start the task, and refer back to it while they work.",
			ar: "اعرض سلم تقدير أو نموذجاً لعمل عالي الجودة قبل أن يبدأ المتعلمون المهمة، وارجع إليه أثناء عملهم.",
		},
		BandMid: {
			en: "Have learners use the rubric to self-assess a draft before submitting final work.",
			ar: "اطلب من المتعلمين استخدام سلم التقدير لتقييم مسودة أعمالهم قبل التسليم النهائي.",
		},
	},
	"B5": {
		BandLow: {
			en: "State the assessment criteria aloud and in writing at the start of the task, and check that learners can restate them.",
			ar: "اذكر معايير التقييم شفهياً وكتابياً في بداية المهمة وتحقق من قدرة المتعلمين على إعادة صياغتها.",
		},
		BandMid: {
			en: "Ask two or three learners to explain in their own words how their work will be graded.",
			ar: "اطلب من اثنين أو ثلاثة من المتعلمين شرح كيفية تقييم أعمالهم بكلماتهم الخاصة.",
		},
	},
	"D3": {
		BandLow: {
			en: "Cut teacher talk into shorter segments and insert a hands-on or discussion task after each one.",
			ar: "قسّم حديث المعلم إلى مقاطع أقصر وأدرج مهمة عملية أو نقاشية بعد كل مقطع.",
		},
		BandMid: {
			en: "Rotate which learners lead activities so engagement is not carried by the same few students.",
			ar: "ناوب بين المتعلمين في قيادة الأنشطة حتى لا يقتصر الانخراط على الطلاب أنفسهم.",
		},
	},
	"E2": {
		BandLow: {
			en: "Give specific, task-level feedback during work time instead of only a grade at the end.",
			ar: "قدم تغذية راجعة محددة على مستوى المهمة أثناء وقت العمل بدلاً من درجة فقط في النهاية.",
		},
		BandMid: {
			en: "Pair verbal feedback with one written next step the learner can act on immediately.",
			ar: "اقرن التغذية الراجعة الشفهية بخطوة مكتوبة واحدة يمكن للمتعلم تنفيذها فوراً.",
		},
	},
	"F4": {
		BandLow: {
			en: "Assign roles within groups and hold each member accountable for a visible part of the product.",
			ar: "وزع الأدوار داخل المجموعات وحمّل كل عضو مسؤولية جزء ظاهر من المنتج.",
		},
		BandMid: {
			en: "Add a brief group self-review at the end of collaborative tasks.",
			ar: "أضف مراجعة ذاتية قصيرة للمجموعة في نهاية المهام التعاونية.",
		},
	},
	"G1": {
		BandLow: {
			en: "Introduce at least one digital tool for gathering or checking information, even a shared classroom device.",
			ar: "أدخل أداة رقمية واحدة على الأقل لجمع المعلومات أو التحقق منها، ولو عبر جهاز صفي مشترك.",
		},
		BandMid: {
			en: "Move from teacher-operated technology to learner-operated technology for part of the lesson.",
			ar: "انتقل من تقنية يشغلها المعلم إلى تقنية يشغلها المتعلمون في جزء من الدرس.",
		},
	},
}

// genericSuggestions is the fallback when no expert entry exists for a
// criterion and band.
var genericSuggestions = map[Band]text{
	BandLow: {
		en: "Plan an explicit strategy for this criterion and make the expected learner behavior observable in the next lesson.",
		ar: "خطط لاستراتيجية صريحة لهذا المعيار واجعل سلوك المتعلمين المتوقع قابلاً للملاحظة في الدرس القادم.",
	},
	BandMid: {
		en: "The criterion is partially evident; make the practice routine rather than occasional.",
		ar: "المعيار متحقق جزئياً؛ اجعل الممارسة روتينية بدلاً من كونها عرضية.",
	},
}

// Suggestion returns the improvement text for a criterion at the given
// score, falling back to the generic band text when no specific entry
// exists. Empty for scores with no band.
func Suggestion(criterionID string, score int, lang schema.Language) string {
	band, ok := BandOf(score)
	if !ok {
		return ""
	}
	if byBand, ok := suggestions[criterionID]; ok {
		if t, ok := byBand[band]; ok {
			return t.in(lang)
		}
	}
	return genericSuggestions[band].in(lang)
}
