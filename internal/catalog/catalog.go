// Package catalog is the read-only registry of the observation rubric:
// seven environments (A–G) and their criteria, with Arabic and English
// labels. Every other pipeline component depends on it; nothing writes to it.
package catalog

import (
	"fmt"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
)

// Criterion is a single scorable rubric line item. Its ID starts with the
// ID of the environment it belongs to (e.g. "B3" belongs to "B").
type Criterion struct {
	ID            string
	EnvironmentID string
	LabelEn       string
	LabelAr       string
}

// Label returns the criterion label in the requested language.
func (c Criterion) Label(lang schema.Language) string {
	if lang == schema.LangArabic {
		return c.LabelAr
	}
	return c.LabelEn
}

// Environment is one of the seven top-level rubric categories.
type Environment struct {
	ID       string
	LabelEn  string
	LabelAr  string
	Criteria []Criterion
}

// Label returns the environment label in the requested language.
func (e Environment) Label(lang schema.Language) string {
	if lang == schema.LangArabic {
		return e.LabelAr
	}
	return e.LabelEn
}

// The two criteria subject to the override protocol: when the narrative and
// clarification answers show no rubric was shared with learners, these are
// forced to the minimum score regardless of model output.
const (
	CriterionRubricPresence          = "B4"
	CriterionAssessmentUnderstanding = "B5"
)

// environments is the static rubric content, loaded once at process start.
var environments = []Environment{
	{
		ID: "A", LabelEn: "Equitable Learning", LabelAr: "بيئة التعلم المنصفة",
		Criteria: []Criterion{
			{ID: "A1", LabelEn: "Learners engage in differentiated learning opportunities matched to their needs.", LabelAr: "ينخرط المتعلمون في فرص تعلم متمايزة تلائم احتياجاتهم."},
			{ID: "A2", LabelEn: "Learners have equal access to classroom discussion, materials, and support.", LabelAr: "يحصل المتعلمون على فرص متساوية للمشاركة في النقاش والمواد والدعم."},
			{ID: "A3", LabelEn: "Learners are treated in a fair and respectful manner.", LabelAr: "يُعامل المتعلمون بعدل واحترام."},
			{ID: "A4", LabelEn: "Learners show no barriers to learning linked to gender or background.", LabelAr: "لا تظهر على المتعلمين عوائق تعلم مرتبطة بالجنس أو الخلفية."},
		},
	},
	{
		ID: "B", LabelEn: "High Expectations", LabelAr: "بيئة التوقعات العالية",
		Criteria: []Criterion{
			{ID: "B1", LabelEn: "Learners strive to meet the high expectations set by the teacher.", LabelAr: "يسعى المتعلمون لتحقيق التوقعات العالية التي يضعها المعلم."},
			{ID: "B2", LabelEn: "Learners engage in activities and discussions that demand higher-order thinking.", LabelAr: "ينخرط المتعلمون في أنشطة ونقاشات تتطلب مهارات تفكير عليا."},
			{ID: "B3", LabelEn: "Learners take responsibility for the quality of their own work.", LabelAr: "يتحمل المتعلمون مسؤولية جودة أعمالهم."},
			{ID: "B4", LabelEn: "Learners are provided a rubric or exemplars of high-quality work.", LabelAr: "يُزوَّد المتعلمون بسلم تقدير أو نماذج لأعمال عالية الجودة."},
			{ID: "B5", LabelEn: "Learners understand how their work will be assessed.", LabelAr: "يدرك المتعلمون كيف سيتم تقييم أعمالهم."},
		},
	},
	{
		ID: "C", LabelEn: "Supportive Learning", LabelAr: "بيئة التعلم الداعمة",
		Criteria: []Criterion{
			{ID: "C1", LabelEn: "Learners demonstrate positive attitudes and relationships with peers and the teacher.", LabelAr: "يُظهر المتعلمون اتجاهات وعلاقات إيجابية مع أقرانهم ومع المعلم."},
			{ID: "C2", LabelEn: "Learners take risks in learning without fear of negative feedback.", LabelAr: "يجازف المتعلمون في التعلم دون خوف من ردود سلبية."},
			{ID: "C3", LabelEn: "Learners receive support from the teacher tailored to their needs.", LabelAr: "يتلقى المتعلمون دعماً من المعلم يلائم احتياجاتهم."},
			{ID: "C4", LabelEn: "Learners are supported by peers in their learning.", LabelAr: "يحظى المتعلمون بدعم أقرانهم في تعلمهم."},
		},
	},
	{
		ID: "D", LabelEn: "Active Learning", LabelAr: "بيئة التعلم النشط",
		Criteria: []Criterion{
			{ID: "D1", LabelEn: "Learners engage in discussions with the teacher and peers about their learning.", LabelAr: "يشارك المتعلمون في نقاشات مع المعلم والأقران حول تعلمهم."},
			{ID: "D2", LabelEn: "Learners make connections between the lesson and real-life experiences.", LabelAr: "يربط المتعلمون بين الدرس وخبرات الحياة الواقعية."},
			{ID: "D3", LabelEn: "Learners are actively engaged in the learning activities rather than passive.", LabelAr: "ينخرط المتعلمون بنشاط في أنشطة التعلم بدلاً من التلقي السلبي."},
		},
	},
	{
		ID: "E", LabelEn: "Progress Monitoring and Feedback", LabelAr: "بيئة متابعة التقدم والتغذية الراجعة",
		Criteria: []Criterion{
			{ID: "E1", LabelEn: "Learners monitor their own progress or have it monitored by the teacher.", LabelAr: "يتابع المتعلمون تقدمهم بأنفسهم أو يتابعه المعلم لهم."},
			{ID: "E2", LabelEn: "Learners receive timely feedback on the quality of their work.", LabelAr: "يتلقى المتعلمون تغذية راجعة فورية حول جودة أعمالهم."},
			{ID: "E3", LabelEn: "Learners are asked questions that verify their understanding.", LabelAr: "تُطرح على المتعلمين أسئلة تتحقق من فهمهم."},
			{ID: "E4", LabelEn: "Learners adjust their work based on feedback.", LabelAr: "يعدّل المتعلمون أعمالهم بناءً على التغذية الراجعة."},
		},
	},
	{
		ID: "F", LabelEn: "Well-Managed Learning", LabelAr: "بيئة التعلم المنظمة",
		Criteria: []Criterion{
			{ID: "F1", LabelEn: "Learners understand and follow classroom rules and routines.", LabelAr: "يفهم المتعلمون قواعد الصف وإجراءاته ويلتزمون بها."},
			{ID: "F2", LabelEn: "Learners transition smoothly between activities with minimal lost time.", LabelAr: "ينتقل المتعلمون بسلاسة بين الأنشطة بأقل وقت ضائع."},
			{ID: "F3", LabelEn: "Learners use their time on purposeful learning tasks.", LabelAr: "يستثمر المتعلمون وقتهم في مهام تعلم هادفة."},
			{ID: "F4", LabelEn: "Learners collaborate effectively during group work.", LabelAr: "يتعاون المتعلمون بفاعلية أثناء العمل الجماعي."},
		},
	},
	{
		ID: "G", LabelEn: "Digital Learning", LabelAr: "بيئة التعلم الرقمي",
		Criteria: []Criterion{
			{ID: "G1", LabelEn: "Learners use digital tools to gather, evaluate, or use information.", LabelAr: "يستخدم المتعلمون أدوات رقمية لجمع المعلومات أو تقييمها أو توظيفها."},
			{ID: "G2", LabelEn: "Learners use technology to conduct research, solve problems, or create work.", LabelAr: "يوظف المتعلمون التقنية للبحث أو حل المشكلات أو إنتاج أعمال."},
			{ID: "G3", LabelEn: "Learners communicate or collaborate through digital resources.", LabelAr: "يتواصل المتعلمون أو يتعاونون عبر موارد رقمية."},
		},
	},
}

// byID indexes every criterion for O(1) lookup.
var byID = func() map[string]Criterion {
	m := make(map[string]Criterion)
	for ei := range environments {
		env := &environments[ei]
		for ci := range env.Criteria {
			env.Criteria[ci].EnvironmentID = env.ID
			m[env.Criteria[ci].ID] = env.Criteria[ci]
		}
	}
	return m
}()

// Environments returns all seven environments in rubric order.
func Environments() []Environment {
	return environments
}

// EnvironmentIDs returns the ids "A" through "G" in rubric order.
func EnvironmentIDs() []string {
	ids := make([]string, 0, len(environments))
	for _, e := range environments {
		ids = append(ids, e.ID)
	}
	return ids
}

// Criteria returns every criterion across all environments in rubric order.
func Criteria() []Criterion {
	var all []Criterion
	for _, e := range environments {
		all = append(all, e.Criteria...)
	}
	return all
}

// ByID returns the criterion with the given id.
func ByID(id string) (Criterion, bool) {
	c, ok := byID[id]
	return c, ok
}

// EnvironmentOf returns the environment id a criterion id belongs to.
// Criterion ids are constructed so the first character is the environment.
func EnvironmentOf(criterionID string) string {
	if criterionID == "" {
		return ""
	}
	return criterionID[:1]
}

// ValidEnvironmentID reports whether id names one of the seven environments.
func ValidEnvironmentID(id string) bool {
	return len(id) == 1 && id[0] >= 'A' && id[0] <= 'G'
}

// NormalizeSelection validates and de-duplicates a selected-environment set,
// preserving rubric order. An unknown id is an error rather than silently
// dropped; the aggregate must never be computed over a guessed set.
func NormalizeSelection(ids []string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !ValidEnvironmentID(id) {
			return nil, fmt.Errorf("catalog: unknown environment id %q", id)
		}
		seen[id] = true
	}
	var out []string
	for _, e := range environments {
		if seen[e.ID] {
			out = append(out, e.ID)
		}
	}
	return out, nil
}
