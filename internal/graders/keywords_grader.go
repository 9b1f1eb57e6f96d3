package graders

import (
	"context"
	"fmt"
	"strings"

	"github.com/spboyer/introscore/internal/lexical"
	"github.com/spboyer/introscore/internal/models"
	"github.com/spboyer/introscore/internal/semantic"
)

const (
	mustHavePoints   = 4
	goodToHavePoints = 2
)

// Category is a named group of keywords; any one of them marks the
// category as covered.
type Category struct {
	Name     string   `mapstructure:"category"`
	Keywords []string `mapstructure:"keywords"`
}

// DefaultMustHave returns the required categories, 4 points each.
func DefaultMustHave() []Category {
	return []Category{
		{Name: "Name", Keywords: []string{"my name is", "myself", "i am"}},
		{Name: "Age", Keywords: []string{"years old", "age is"}},
		{Name: "School/Class", Keywords: []string{"studying in", "class", "grade", "school"}},
		{Name: "Family", Keywords: []string{"family", "parents", "mother", "father"}},
		{Name: "Hobbies", Keywords: []string{"hobby", "hobbies", "playing", "enjoy"}},
	}
}

// DefaultGoodToHave returns the optional categories, 2 points each.
func DefaultGoodToHave() []Category {
	return []Category{
		{Name: "Origin", Keywords: []string{"from", "live in"}},
		{Name: "Ambition", Keywords: []string{"goal", "dream", "ambition"}},
		{Name: "Unique", Keywords: []string{"fact", "special", "unique"}},
	}
}

// KeywordsGraderArgs holds the arguments for creating a keywords grader.
type KeywordsGraderArgs struct {
	// Name is the display name, "Keywords" by default.
	Name string
	// MustHave lists the required categories. Empty means [DefaultMustHave].
	MustHave []Category `mapstructure:"must_have"`
	// GoodToHave lists the optional categories. Empty means [DefaultGoodToHave].
	GoodToHave []Category `mapstructure:"good_to_have"`
	// Threshold overrides the semantic acceptance threshold when > 0.
	Threshold float64 `mapstructure:"threshold"`
	// Fallback checks required categories that have no lexical match.
	// Nil disables the semantic fallback.
	Fallback *semantic.Fallback `mapstructure:"-"`
}

// keywordsGrader scores content coverage. Required categories try a lexical
// match first, then the semantic fallback; optional categories are lexical only.
type keywordsGrader struct {
	name       string
	mustHave   []Category
	goodToHave []Category
	fallback   *semantic.Fallback
}

// NewKeywordsGrader creates a [keywordsGrader].
func NewKeywordsGrader(args KeywordsGraderArgs) (*keywordsGrader, error) {
	mustHave, err := normalizeCategories(args.MustHave, DefaultMustHave())
	if err != nil {
		return nil, fmt.Errorf("must_have: %w", err)
	}
	goodToHave, err := normalizeCategories(args.GoodToHave, DefaultGoodToHave())
	if err != nil {
		return nil, fmt.Errorf("good_to_have: %w", err)
	}

	return &keywordsGrader{
		name:       nameOr(args.Name, "Keywords"),
		mustHave:   mustHave,
		goodToHave: goodToHave,
		fallback:   args.Fallback,
	}, nil
}

func (kg *keywordsGrader) Name() string               { return kg.name }
func (kg *keywordsGrader) Kind() models.CriterionKind { return models.CriterionKeywords }
func (kg *keywordsGrader) Max() int                   { return MaxPoints(models.CriterionKeywords) }

func (kg *keywordsGrader) Grade(ctx context.Context, gradingContext *Context) (*models.CriterionResult, error) {
	t := gradingContext.Transcript
	text := t.Lower()

	score := 0
	var marks, missing []string
	similarities := map[string]float64{}

	// The transcript is encoded lazily and at most once per pass.
	var textVec []float32
	useFallback := kg.fallback != nil && !t.IsBlank()

	for _, c := range kg.mustHave {
		found := lexical.ContainsAny(text, c.Keywords)

		if !found && useFallback {
			if textVec == nil {
				vec, err := kg.fallback.Encode(ctx, t.Text())
				if err != nil {
					return nil, fmt.Errorf("encoding transcript: %w", err)
				}
				textVec = vec
			}

			sim, ok, err := kg.fallback.Accepts(ctx, "my "+c.Name, textVec)
			if err != nil {
				return nil, fmt.Errorf("semantic check for %q: %w", c.Name, err)
			}
			similarities[c.Name] = sim
			found = ok
		}

		if found {
			score += mustHavePoints
			marks = append(marks, "✅ "+c.Name)
		} else {
			marks = append(marks, "❌ "+c.Name)
			missing = append(missing, c.Name)
		}
	}

	var optional []string
	for _, c := range kg.goodToHave {
		if lexical.ContainsAny(text, c.Keywords) {
			score += goodToHavePoints
			marks = append(marks, "✅ "+c.Name)
			optional = append(optional, c.Name)
		}
	}

	details := map[string]any{
		"missing":          missing,
		"good_to_have_hit": optional,
	}
	if len(similarities) > 0 {
		details["semantic_similarity"] = similarities
		details["semantic_threshold"] = kg.fallback.Threshold()
	}

	return result(kg, min(kg.Max(), score), strings.Join(marks, ", "), details), nil
}

func normalizeCategories(categories, fallback []Category) ([]Category, error) {
	if len(categories) == 0 {
		categories = fallback
	}

	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.Name == "" {
			return nil, fmt.Errorf("category name is required")
		}
		if len(c.Keywords) == 0 {
			return nil, fmt.Errorf("category %q has no keywords", c.Name)
		}
		out = append(out, Category{Name: c.Name, Keywords: lowerAll(c.Keywords)})
	}
	return out, nil
}
