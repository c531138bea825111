package pipeline

import (
	"slices"

	"github.com/mmcdole/marquee/internal/domain"
)

// KindIn keeps items of the given kinds. No kinds means every kind.
func KindIn(kinds ...domain.Kind) Predicate {
	if len(kinds) == 0 {
		return func(domain.CatalogItem) bool { return true }
	}
	set := make(map[domain.Kind]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return func(item domain.CatalogItem) bool {
		return set[item.Kind()]
	}
}

// MinRating keeps items rated at least min. Items without a rating fail.
func MinRating(min float64) Predicate {
	return func(item domain.CatalogItem) bool {
		rating, ok := domain.RatingOf(item)
		return ok && rating >= min
	}
}

// MinVotes keeps items with at least min votes; a missing count is 0
func MinVotes(min int) Predicate {
	return func(item domain.CatalogItem) bool {
		return domain.VotesOf(item) >= min
	}
}

// HasGenre keeps movies and shows tagged with the genre
func HasGenre(genreID int) Predicate {
	return func(item domain.CatalogItem) bool {
		return slices.Contains(domain.GenresOf(item), genreID)
	}
}

// ReleaseYear keeps items released in year. Undated items fail.
func ReleaseYear(year int) Predicate {
	return func(item domain.CatalogItem) bool {
		return domain.YearOf(item) == year
	}
}

// GenderIs keeps people of the given gender. Non-people fail.
func GenderIs(g domain.Gender) Predicate {
	return func(item domain.CatalogItem) bool {
		p, ok := item.(*domain.Person)
		return ok && p.Gender == g
	}
}

// DepartmentIs keeps people known for the department. Non-people fail.
func DepartmentIs(department string) Predicate {
	return func(item domain.CatalogItem) bool {
		p, ok := item.(*domain.Person)
		return ok && p.KnownForDepartment == department
	}
}

// All combines predicates into one that passes only when every one passes
func All(preds ...Predicate) Predicate {
	return func(item domain.CatalogItem) bool {
		return passes(item, preds)
	}
}
