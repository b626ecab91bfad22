package compat

// Category names one compatibility dimension.
type Category string

const (
	Love          Category = "love"
	Communication Category = "communication"
	Trust         Category = "trust"
	Intimacy      Category = "intimacy"
	Values        Category = "values"
	Activities    Category = "activities"
)

// categories is the display order of every match result.
var categories = [...]Category{Love, Communication, Trust, Intimacy, Values, Activities}

var categoryLabels = map[Category]string{
	Love:          "Love",
	Communication: "Communication",
	Trust:         "Trust",
	Intimacy:      "Intimacy",
	Values:        "Values",
	Activities:    "Activities",
}

var categoryIcons = map[Category]string{
	Love:          "♥",
	Communication: "✉",
	Trust:         "⚓",
	Intimacy:      "✦",
	Values:        "⚖",
	Activities:    "⚑",
}

// Categories returns the fixed category set in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories[:])
	return out
}

// Label is the human-readable (and translation key) form.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Icon is a single glyph shown next to the category's bar.
func (c Category) Icon() string {
	return categoryIcons[c]
}

func categoryIndex(c Category) int {
	for i, cc := range categories {
		if cc == c {
			return i
		}
	}
	return -1
}
