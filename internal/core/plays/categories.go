package plays

// Play types the provider reports for passing plays.
var PassPlayTypes = []string{
	"Pass Incompletion",
	"Pass Reception",
	"Passing Touchdown",
	"Sack",
	"Pass Interception Return",
	"Interception",
	"Interception Return Touchdown",
	"Pass",
	"Pass Completion",
	"Pass Interception",
	"Two Point Pass",
}

// Play types the provider reports for rushing plays.
var RushPlayTypes = []string{
	"Rush",
	"Rushing Touchdown",
	"Two Point Rush",
}

// DefaultCategories is All, Pass and Rush.
func DefaultCategories() []Category {
	return []Category{
		{Label: "All"},
		{Label: "Pass", PlayTypes: append([]string(nil), PassPlayTypes...)},
		{Label: "Rush", PlayTypes: append([]string(nil), RushPlayTypes...)},
	}
}
