package timeoff

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// CATEGORY KEYS
// =============================================================================

var keyPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// NormalizeKey turns a user supplied name ("Asuntos propios", "bridge-day")
// into a catalog key ("ASUNTOS_PROPIOS", "BRIDGE_DAY"). Accents are stripped,
// spaces and hyphens become underscores. Anything else that is not an ASCII
// letter, digit or underscore makes the key invalid.
func NormalizeKey(raw string) (CategoryKey, bool) {
	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		strings.TrimSpace(raw),
	)
	if err != nil {
		return "", false
	}

	key := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' {
			return '_'
		}
		return unicode.ToUpper(r)
	}, stripped)

	if !keyPattern.MatchString(key) {
		return "", false
	}
	return CategoryKey(key), true
}

// =============================================================================
// DEFAULT CATALOG
// =============================================================================

// Base allowances before tenure adjustments.
const (
	BaseVacationDays      = 22
	BasePersonalLeaveDays = 6
)

// DefaultCatalog returns the catalog every new employee starts from.
func DefaultCatalog() Catalog {
	return Catalog{
		CategoryVacation: {
			Label:           "Vacances",
			Color:           "bg-blue-500",
			TextColor:       "text-white",
			AnnualAllowance: BaseVacationDays,
		},
		CategoryPersonalLeave: {
			Label:           "Assumptes Personals",
			Color:           "bg-green-500",
			TextColor:       "text-white",
			AnnualAllowance: BasePersonalLeaveDays,
		},
		CategoryBridgeDay: {
			Label:           "Pont",
			Color:           "bg-yellow-500",
			TextColor:       "text-gray-800",
			AnnualAllowance: 2,
		},
		CategorySickLeave: {
			Label:     "Baixa Mèdica",
			Color:     "bg-red-500",
			TextColor: "text-white",
		},
		CategoryOther: {
			Label:     "Altres",
			Color:     "bg-purple-500",
			TextColor: "text-white",
		},
	}
}

// MergeCatalogs unions catalogs left to right; for a key present in several
// catalogs the last definition wins. The inputs are not modified.
func MergeCatalogs(catalogs ...Catalog) Catalog {
	out := Catalog{}
	for _, c := range catalogs {
		for k, v := range c {
			out[k] = v
		}
	}
	return out
}

// =============================================================================
// CATALOG OPERATIONS ON A LEDGER
// =============================================================================

// AddType adds a new category under the normalized form of rawKey.
func (l Ledger) AddType(rawKey string, lt LeaveType) (Ledger, CategoryKey, Outcome) {
	key, ok := NormalizeKey(rawKey)
	if !ok {
		return l, "", OutcomeInvalidKey
	}
	if lt.AnnualAllowance < 0 {
		return l, key, OutcomeInvalidAllowance
	}
	if _, exists := l.catalog[key]; exists || key.IsProtected() {
		return l, key, OutcomeDuplicateKey
	}

	next := l.clone()
	next.catalog[key] = lt
	return next, key, OutcomeApplied
}

// UpdateType replaces the definition of an existing category. Protected
// categories may be edited.
func (l Ledger) UpdateType(key CategoryKey, lt LeaveType) (Ledger, Outcome) {
	if lt.AnnualAllowance < 0 {
		return l, OutcomeInvalidAllowance
	}
	current, exists := l.catalog[key]
	if !exists {
		return l, OutcomeAbsent
	}
	if current == lt {
		return l, OutcomeUnchanged
	}

	next := l.clone()
	next.catalog[key] = lt
	return next, OutcomeApplied
}

// RemoveType deletes a category that is neither protected nor referenced by
// any entry.
func (l Ledger) RemoveType(key CategoryKey) (Ledger, Outcome) {
	if key.IsProtected() {
		return l, OutcomeProtected
	}
	if _, exists := l.catalog[key]; !exists {
		return l, OutcomeAbsent
	}
	for _, e := range l.entries {
		if e.CategoryKey == key {
			return l, OutcomeInUse
		}
	}

	next := l.clone()
	delete(next.catalog, key)
	return next, OutcomeApplied
}

// SetWorkWeek replaces the employee's working weekdays.
func (l Ledger) SetWorkWeek(week WorkWeek) (Ledger, Outcome) {
	if l.week == week {
		return l, OutcomeUnchanged
	}
	next := l.clone()
	next.week = week
	return next, OutcomeApplied
}
