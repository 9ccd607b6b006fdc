package domain

import "strings"

// noteCategories maps the short category codes used in note tags to their
// display names. The map is fixed at startup and never mutated.
var noteCategories = map[string]string{
	"ai":       "AI",
	"book":     "Books",
	"cloud":    "Cloud",
	"data":     "Data",
	"database": "Databases",
	"dev":      "Programming",
	"devops":   "DevOps",
	"lowcode":  "LowCode",
	"misc":     "Miscellaneous",
	"oss":      "Open Source",
	"podcast":  "Podcasts",
	"top":      "Suggestion of the week",
	"del":      "del",
}

// DefaultCategory is used for unrecognized or absent category codes.
const DefaultCategory = "Miscellaneous"

// GetCategory resolves a short category code to its display name. The lookup
// is case-insensitive and falls back to DefaultCategory.
func GetCategory(category string) string {
	if name, ok := noteCategories[strings.ToLower(category)]; ok {
		return name
	}
	return DefaultCategory
}

// Categories lists the known display names, for pickers and grouping UIs.
func Categories() []string {
	return []string{
		"AI",
		"Books",
		"Cloud",
		"Data",
		"Databases",
		"DevOps",
		"LowCode",
		"Miscellaneous",
		"Open Source",
		"Podcasts",
		"Programming",
		"Suggestion of the week",
		"del",
	}
}
