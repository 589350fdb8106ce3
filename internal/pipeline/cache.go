package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/computeranjalteacher-lgtm/eleot-main-sub000/internal/schema"
)

// cacheCapacity bounds the evaluation cache; the LRU evicts oldest-used
// entries beyond it.
const cacheCapacity = 64

// resultCache guarantees that identical inputs never re-invoke the external
// model and always return an identical result. Fallback results are never
// stored: they carry no model output worth pinning, and a transient failure
// must not shadow a later successful call.
type resultCache struct {
	lru *lru.Cache[string, *schema.EvaluationResult]
}

func newResultCache() *resultCache {
	c, err := lru.New[string, *schema.EvaluationResult](cacheCapacity)
	if err != nil {
		// lru.New fails only on a non-positive size.
		panic(err)
	}
	return &resultCache{lru: c}
}

// cacheKey derives the lookup key from everything that affects the model
// call: narrative, canonicalized answers, language, and the selected
// environment set.
func cacheKey(narrative string, answers []schema.ClarificationAnswer, lang schema.Language, selected []string) string {
	pairs := make([]string, 0, len(answers))
	for _, a := range answers {
		pairs = append(pairs, a.Key+"="+a.Value)
	}
	sort.Strings(pairs)

	envs := append([]string(nil), selected...)
	sort.Strings(envs)

	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s", narrative, strings.Join(pairs, ";"), lang, strings.Join(envs, ""))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *resultCache) get(key string) (*schema.EvaluationResult, bool) {
	r, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return copyResult(r), true
}

func (c *resultCache) put(key string, r *schema.EvaluationResult) {
	c.lru.Add(key, copyResult(r))
}

func (c *resultCache) clear() {
	c.lru.Purge()
}

// copyResult protects cached entries from later user edits; the cache must
// keep returning the result as originally computed.
func copyResult(r *schema.EvaluationResult) *schema.EvaluationResult {
	out := *r
	out.Criteria = append([]schema.CriterionResult(nil), r.Criteria...)
	return &out
}
