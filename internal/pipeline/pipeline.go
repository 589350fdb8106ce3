// Package pipeline orchestrates one evaluation: pre-validation gates,
// clarification, cache lookup, prompt construction, the model call,
// validation and override enforcement, aggregation, and recommendation
// synthesis. Every failure from the model call onward terminates in a
// structurally valid result by way of the fallback generator.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/catalog"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/clarify"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/config"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/events"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/fallback"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/llm"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/prompt"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/recommend"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/score"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/validate"
)

// MinNarrativeWords is the minimum narrative length accepted for evaluation.
const MinNarrativeWords = 50

// Request is one evaluation request as received from the UI layer.
type Request struct {
	Narrative    string
	Language     schema.Language
	Metadata     schema.Metadata
	Environments []string
	Answers      []schema.ClarificationAnswer
	// SkipClarification proceeds even when the gate wants answers.
	SkipClarification bool
}

// Pipeline runs evaluations. It is request-per-evaluation and single
// threaded; the only suspending operation is the model call, bounded by the
// configured timeout.
type Pipeline struct {
	settings config.Settings
	gate     *clarify.Gate
	fb       *fallback.Generator
	cache    *resultCache
	ring     *events.Ring
	log      *slog.Logger
}

// New returns a Pipeline with the default keyword gate, a time-seeded
// fallback generator, and a fresh cache. A nil logger discards nothing; it
// defaults to slog.Default().
func New(settings config.Settings, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		settings: settings,
		gate:     clarify.New(nil),
		fb:       fallback.New(),
		cache:    newResultCache(),
		ring:     events.NewRing(events.DefaultCapacity),
		log:      logger,
	}
}

// Questions runs only the clarification gate, for UIs that want to collect
// answers before submitting an evaluation.
func (p *Pipeline) Questions(narrative string, lang schema.Language) []schema.ClarificationQuestion {
	return p.gate.Questions(narrative, lang)
}

// Events returns a snapshot of the pipeline stage transitions recorded so
// far, oldest first.
func (p *Pipeline) Events() []events.Event {
	return p.ring.Snapshot()
}

// ClearCache empties the evaluation cache.
func (p *Pipeline) ClearCache() {
	p.cache.clear()
}

// Evaluate runs the full pipeline for one request.
//
// It returns an error only before any model call is attempted: a too-short
// narrative, an empty or invalid environment selection, an invalid language,
// or a pending clarification. Afterward every failure path degrades to the
// fallback generator so the caller always receives a valid result.
func (p *Pipeline) Evaluate(ctx context.Context, req Request) (*schema.EvaluationResult, error) {
	if !req.Language.Valid() {
		req.Language = schema.LangEnglish
	}

	if words := len(strings.Fields(req.Narrative)); words < MinNarrativeWords {
		return nil, fmt.Errorf("%w: %d words, need at least %d", ErrEmptyInput, words, MinNarrativeWords)
	}
	selected, err := catalog.NormalizeSelection(req.Environments)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, ErrNoCriteriaSelected
	}

	if !req.SkipClarification {
		qs := unanswered(p.gate.Questions(req.Narrative, req.Language), req.Answers)
		if clarify.NeedsClarification(qs) {
			p.record(events.StageClarificationTriggered, fmt.Sprintf("%d questions", len(qs)))
			return nil, &ClarificationRequired{Questions: qs}
		}
	}

	key := cacheKey(req.Narrative, req.Answers, req.Language, selected)
	if cached, ok := p.cache.get(key); ok {
		p.record(events.StageCacheHit, key[:12])
		return cached, nil
	}

	systemPrompt := prompt.BuildSystemPrompt(req.Language)
	userPrompt := prompt.BuildUserPrompt(prompt.Request{
		Narrative:            req.Narrative,
		Language:             req.Language,
		Metadata:             req.Metadata,
		SelectedEnvironments: selected,
		Answers:              req.Answers,
	})

	p.record(events.StageModelInvoked, p.settings.Provider)
	resp, raw, err := llm.Invoke(ctx, p.settings, systemPrompt, userPrompt)
	if err != nil {
		return p.fallbackResult(llm.Classify(err), err, raw, req, selected), nil
	}

	result, overrides, err := validate.Validate(validate.Input{
		Response:             resp,
		Narrative:            req.Narrative,
		Answers:              req.Answers,
		Language:             req.Language,
		SelectedEnvironments: selected,
		Gate:                 p.gate,
	})
	if err != nil {
		// Missing criteria array: structurally unusable, same class as a
		// parse failure.
		return p.fallbackResult(llm.KindMalformed, err, raw, req, selected), nil
	}

	p.recordOverrides(overrides)

	if result.TotalScore == 0 {
		result.TotalScore = score.Total(result.Criteria, selected)
	}
	result.Recommendations = p.recommendations(result, selected, req.Language)

	p.cache.put(key, result)
	p.record(events.StageCompleted, fmt.Sprintf("total %.1f", result.TotalScore))
	return result, nil
}

// recommendations synthesizes the recommendation markup, appending the
// model's own overall notes when it volunteered any. The synthesized part
// filters by the selected environments exactly as the aggregator does.
func (p *Pipeline) recommendations(result *schema.EvaluationResult, selected []string, lang schema.Language) string {
	markup := recommend.Synthesize(result.Criteria, selected, lang)
	if result.Recommendations != "" {
		heading := "## Overall Notes"
		if lang == schema.LangArabic {
			heading = "## ملاحظات عامة"
		}
		markup = markup + "\n\n" + heading + "\n\n" + result.Recommendations
	}
	return markup
}

// fallbackResult synthesizes a complete result after an invocation or
// validation failure. The failure is classified, logged, and recorded; it is
// never surfaced as a raw error. The override protocol binds fallback
// results exactly as model-backed ones, so it runs over the generated
// criteria before aggregation.
func (p *Pipeline) fallbackResult(kind llm.FailureKind, cause error, raw string, req Request, selected []string) *schema.EvaluationResult {
	lang := req.Language
	msg := userMessage(kind, lang)
	logArgs := []any{"kind", string(kind), "error", cause.Error()}
	if kind == llm.KindMalformed && raw != "" {
		logArgs = append(logArgs, "raw_prefix", llm.RawPrefix(raw, 200))
	}
	if errors.Is(cause, config.ErrCredentialMissing) {
		p.log.Warn("model call skipped", logArgs...)
	} else {
		p.log.Error("model call failed", logArgs...)
	}
	p.record(events.StageFallbackUsed, string(kind))

	criteria := p.fb.Generate(selected, lang)
	p.recordOverrides(validate.ApplyOverrides(criteria, req.Narrative, req.Answers, lang, p.gate))
	result := &schema.EvaluationResult{
		Criteria:   criteria,
		TotalScore: score.Total(criteria, selected),
		Language:   lang,
		Fallback:   true,
	}
	markup := recommend.Synthesize(criteria, selected, lang)
	result.Recommendations = msg + "\n\n" + markup
	return result
}

func (p *Pipeline) recordOverrides(overrides []validate.OverrideRecord) {
	for _, o := range overrides {
		p.record(events.StageOverrideApplied,
			fmt.Sprintf("%s: %d -> %d (%s)", o.CriterionID, o.From, o.To, o.Reason))
		p.log.Info("override applied",
			"criterion", o.CriterionID, "from", o.From, "to", o.To, "reason", o.Reason)
	}
}

// unanswered drops the questions whose key already has an answer. A partial
// answer set does not suppress the pause: the remaining families still count
// against the threshold.
func unanswered(qs []schema.ClarificationQuestion, answers []schema.ClarificationAnswer) []schema.ClarificationQuestion {
	if len(answers) == 0 {
		return qs
	}
	answered := make(map[string]bool, len(answers))
	for _, a := range answers {
		answered[a.Key] = true
	}
	var rest []schema.ClarificationQuestion
	for _, q := range qs {
		if !answered[q.Key] {
			rest = append(rest, q)
		}
	}
	return rest
}

func (p *Pipeline) record(stage events.Stage, detail string) {
	p.ring.Append(stage, detail)
	p.log.Debug("pipeline stage", "stage", string(stage), "detail", detail)
}
