package pipeline

import (
	"errors"
	"fmt"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/llm"
	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
)

// Pre-invocation validation errors. These are the only errors that block an
// evaluation entirely; every failure from the model call onward ends in the
// fallback generator instead.
var (
	// ErrEmptyInput rejects a narrative below the minimum word count.
	ErrEmptyInput = errors.New("pipeline: narrative missing or too short")
	// ErrNoCriteriaSelected rejects an empty environment selection.
	ErrNoCriteriaSelected = errors.New("pipeline: no environments selected")
)

// ClarificationRequired pauses the pipeline when the gate found too many
// unanswered evidence families. The caller must answer the questions (or
// explicitly skip) and call Evaluate again.
type ClarificationRequired struct {
	Questions []schema.ClarificationQuestion
}

func (e *ClarificationRequired) Error() string {
	return fmt.Sprintf("pipeline: %d clarification questions require answers before evaluating", len(e.Questions))
}

// userMessage maps a failure kind to a language-appropriate notice with
// remediation guidance. It accompanies the fallback result; it is never a
// hard error surfaced on its own.
func userMessage(kind llm.FailureKind, lang schema.Language) string {
	ar := lang == schema.LangArabic
	switch kind {
	case llm.KindCredentialMissing:
		if ar {
			return "لم يتم ضبط مفتاح واجهة برمجة التطبيقات؛ تم إنشاء تقييم أولي دون استدعاء النموذج. أضف المفتاح في الإعدادات ثم أعد المحاولة."
		}
		return "No API credential is configured; a preliminary result was generated without a model call. Add the credential in settings and re-run."
	case llm.KindUnauthorized:
		if ar {
			return "رفض المزود مفتاح الوصول (401). تحقق من صلاحية المفتاح في الإعدادات."
		}
		return "The provider rejected the credential (401). Check that the key in settings is valid."
	case llm.KindQuotaExceeded:
		if ar {
			return "تم تجاوز حصة الاستخدام لدى المزود (429). انتظر قليلاً أو ارفع حد الاستخدام ثم أعد المحاولة."
		}
		return "The provider usage quota was exceeded (429). Wait a moment or raise the quota, then re-run."
	case llm.KindTimeout:
		if ar {
			return "انتهت مهلة الاتصال بمزود النموذج. تحقق من الاتصال بالشبكة ثم أعد المحاولة."
		}
		return "The model call timed out. Check the network connection and re-run."
	case llm.KindNetworkError:
		if ar {
			return "تعذر الوصول إلى مزود النموذج بسبب مشكلة في الشبكة. تحقق من الاتصال ثم أعد المحاولة."
		}
		return "The model provider could not be reached due to a network problem. Check connectivity and re-run."
	case llm.KindMalformed:
		if ar {
			return "أعاد المزود استجابة غير قابلة للتحليل؛ تم إنشاء تقييم أولي بدلاً منها."
		}
		return "The provider returned an unparseable response; a preliminary result was generated instead."
	default:
		if ar {
			return "حدث خطأ لدى مزود النموذج؛ تم إنشاء تقييم أولي بدلاً من ذلك."
		}
		return "The model provider returned an error; a preliminary result was generated instead."
	}
}
