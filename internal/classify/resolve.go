package classify

import (
	"context"
	"strings"

	"github.com/cleared-dev/plsense/internal/categorizer"
	"github.com/cleared-dev/plsense/internal/fuzzy"
	"github.com/cleared-dev/plsense/internal/logger"
	"github.com/cleared-dev/plsense/internal/model"
	"github.com/cleared-dev/plsense/internal/taxonomy"
)

const (
	// FuzzyThreshold is the minimum token-sort score for a fuzzy category.
	FuzzyThreshold = 70.0
	// AIMinConfidence is the confidence below which fuzzy matching is tried
	// on top of a categorizer answer.
	AIMinConfidence = 0.7
)

// Mapping is the resolved category of one account name.
type Mapping struct {
	Category     model.Category
	Subcategory  string
	Confidence   float64
	Method       model.MappingMethod
	SubtotalHint bool
}

type reference struct {
	category model.Category
	name     string
	tokens   string
}

// Resolver maps account names to taxonomy categories.
type Resolver struct {
	categorizer categorizer.Categorizer
	opts        categorizer.Options
	taxonomy    *taxonomy.Taxonomy
	refs        []reference
}

// NewResolver creates a Resolver. A nil categorizer or opts.UseAI=false
// means fuzzy matching only.
func NewResolver(tax *taxonomy.Taxonomy, c categorizer.Categorizer, opts categorizer.Options) *Resolver {
	if tax == nil {
		tax = taxonomy.Default()
	}
	refs := make([]reference, 0, len(tax.All()))
	for _, a := range tax.All() {
		refs = append(refs, reference{category: a.Category, name: a.Name, tokens: fuzzy.SortTokens(a.Name)})
	}
	return &Resolver{categorizer: c, opts: opts, taxonomy: tax, refs: refs}
}

// Resolve maps each distinct trimmed name. Empty names are skipped. A
// categorizer failure is logged and resolution continues with fuzzy
// matching alone.
func (r *Resolver) Resolve(ctx context.Context, names []string) map[string]Mapping {
	distinct := distinctNames(names)
	out := make(map[string]Mapping, len(distinct))

	var suggestions map[string]categorizer.Suggestion
	if r.categorizer != nil && r.opts.UseAI && len(distinct) > 0 {
		var err error
		suggestions, err = r.categorizer.Categorize(ctx, distinct, r.opts)
		if err != nil {
			log := logger.FromContext(ctx)
			log.Warn().Err(err).Str("provider", string(r.opts.Provider)).
				Int("names", len(distinct)).Msg("categorizer failed, using fuzzy matching")
			suggestions = nil
		}
	}

	for _, name := range distinct {
		m, ok := r.fromSuggestion(suggestions, name)
		if ok && m.Confidence >= AIMinConfidence {
			out[name] = m
			continue
		}
		if f := r.Fuzzy(name); !ok || f.Confidence > m.Confidence {
			m = f
		}
		out[name] = m
	}
	return out
}

func (r *Resolver) fromSuggestion(suggestions map[string]categorizer.Suggestion, name string) (Mapping, bool) {
	s, ok := suggestions[name]
	if !ok {
		return Mapping{}, false
	}
	cat, ok := model.ParseCategory(s.Category)
	if !ok || !r.taxonomy.Has(cat) {
		return Mapping{}, false
	}
	return Mapping{
		Category:     cat,
		Subcategory:  s.Subcategory,
		Confidence:   s.Confidence,
		Method:       model.MethodAI,
		SubtotalHint: s.IsSubtotal,
	}, true
}

// Fuzzy scores name against every reference account; the first best pair
// wins. Scores under FuzzyThreshold map to Uncategorized.
func (r *Resolver) Fuzzy(name string) Mapping {
	name = strings.TrimSpace(name)
	if name == "" {
		return Mapping{Category: model.CategoryUncategorized, Method: model.MethodNone}
	}

	tokens := fuzzy.SortTokens(name)
	best, bestScore := -1, -1.0
	for i, ref := range r.refs {
		if score := fuzzy.Ratio(tokens, ref.tokens); score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return Mapping{Category: model.CategoryUncategorized, Method: model.MethodNone}
	}

	m := Mapping{Confidence: bestScore / 100, Method: model.MethodFuzzy}
	if bestScore < FuzzyThreshold {
		m.Category = model.CategoryUncategorized
		return m
	}
	m.Category = r.refs[best].category
	m.Subcategory = r.refs[best].name
	return m
}

func distinctNames(names []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
