package schema

import (
	"strings"
	"unicode"
)

// FileNameForID flattens a document identifier into a single filename
// segment. Two escaping rules, applied in order:
//
//  1. An identifier beginning with a digit is prefixed with an
//     underscore, so the generated name can never read as a numeric
//     literal.
//  2. Every path separator is replaced with a double underscore, so
//     hierarchical identifiers flatten without nesting.
//
// Injectivity over the identifiers in one snapshot is checked by the
// planner; this function by itself is not injective (the identifier
// "a__b" and "a/b" flatten to the same name).
func FileNameForID(id string) string {
	name := id
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return strings.ReplaceAll(name, "/", "__")
}

// ImportNameForID derives the local import binding used for a document
// inside a generated barrel. Starts from the escaped filename and
// replaces any remaining non-identifier character with an underscore.
func ImportNameForID(id string) string {
	escaped := FileNameForID(id)
	var b strings.Builder
	b.Grow(len(escaped))
	for _, r := range escaped {
		switch {
		case r == '_' || r == '$':
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// VarName computes the exported variable name for a type: singleton
// types export the singularized type name lowercased at the first
// character; collection types export "all" plus the pluralized type
// name uppercased at the first character.
//
//	Post (collection)     -> allPosts
//	Category (collection) -> allCategories
//	Settings (singleton)  -> settings
func VarName(def TypeDef) string {
	if def.Singleton {
		return LowerFirst(Singularize(def.Name))
	}
	return "all" + UpperFirst(Pluralize(def.Name))
}

// uncountable words keep the same form in singular and plural.
var uncountable = map[string]struct{}{
	"settings": {},
	"news":     {},
	"series":   {},
	"species":  {},
	"data":     {},
	"metadata": {},
	"info":     {},
	"media":    {},
}

// Pluralize returns the English plural of a (type) name. Names already
// ending in "s" are treated as plural and returned unchanged.
func Pluralize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if _, ok := uncountable[lower]; ok {
		return s
	}
	switch {
	case strings.HasSuffix(lower, "s"):
		return s
	case strings.HasSuffix(lower, "y") && !endsInVowelY(lower):
		return s[:len(s)-1] + "ies"
	case strings.HasSuffix(lower, "x"),
		strings.HasSuffix(lower, "z"),
		strings.HasSuffix(lower, "ch"),
		strings.HasSuffix(lower, "sh"):
		return s + "es"
	default:
		return s + "s"
	}
}

// Singularize returns the English singular of a (type) name.
func Singularize(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	if _, ok := uncountable[lower]; ok {
		return s
	}
	switch {
	case strings.HasSuffix(lower, "ies") && len(s) > 3:
		return s[:len(s)-3] + "y"
	case strings.HasSuffix(lower, "xes"),
		strings.HasSuffix(lower, "zes"),
		strings.HasSuffix(lower, "ches"),
		strings.HasSuffix(lower, "shes"),
		strings.HasSuffix(lower, "sses"):
		return s[:len(s)-2]
	case strings.HasSuffix(lower, "ss"):
		return s
	case strings.HasSuffix(lower, "s"):
		return s[:len(s)-1]
	default:
		return s
	}
}

// endsInVowelY reports whether s ends with a vowel followed by "y"
// ("day" pluralizes to "days", not "daies").
func endsInVowelY(lower string) bool {
	if len(lower) < 2 || !strings.HasSuffix(lower, "y") {
		return false
	}
	return strings.ContainsRune("aeiou", rune(lower[len(lower)-2]))
}

// LowerFirst lowercases the first character of s.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// UpperFirst uppercases the first character of s.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// IsIdentifier reports whether s is a valid identifier in the generated
// output: a letter, underscore or dollar sign followed by letters,
// digits, underscores or dollar signs.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		valid := r == '_' || r == '$' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r))
		if !valid {
			return false
		}
	}
	return true
}
