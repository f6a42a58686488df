package repository

import "github.com/sudosnarky/lifequest-app/internal/domain"

// categoryColumns is the explicit category -> users column mapping. Column
// names are never built from request input; anything outside this map is
// rejected before SQL is assembled.
var categoryColumns = map[domain.Category]string{
	domain.CategoryAcademics:   "academics_xp",
	domain.CategoryFitness:     "fitness_xp",
	domain.CategoryCreativity:  "creativity_xp",
	domain.CategoryExploration: "exploration_xp",
	domain.CategoryWellness:    "wellness_xp",
}

// CategoryColumn resolves the users table column holding XP for a category.
func CategoryColumn(c domain.Category) (string, bool) {
	col, ok := categoryColumns[c]
	return col, ok
}
