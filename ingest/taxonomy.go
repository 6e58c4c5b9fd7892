package ingest

import (
	"strings"

	"lanyard/utils"
)

// Taxonomy maps role and interest tags to directory categories. The
// derived category list is part of the stored Actor shape, so changes
// here reshape the public directory.
var Taxonomy = map[string][]string{
	"founder":        {"business", "startup"},
	"ceo":            {"business"},
	"investor":       {"finance", "startup"},
	"developer":      {"engineering"},
	"engineer":       {"engineering"},
	"designer":       {"design"},
	"researcher":     {"science"},
	"student":        {"community"},
	"press":          {"media"},
	"journalist":     {"media"},
	"marketing":      {"growth"},
	"sales":          {"growth"},
	"ai":             {"deep-tech"},
	"ml":             {"deep-tech"},
	"blockchain":     {"deep-tech"},
	"fintech":        {"finance"},
	"healthtech":     {"health"},
	"sustainability": {"impact"},
	"hardware":       {"deep-tech"},
	"gaming":         {"entertainment"},
}

// DeriveCategories unions the taxonomy lookups for every role and
// interest tag. Tags without a taxonomy entry contribute nothing.
func DeriveCategories(roles, interests []string) []string {
	var out []string
	for _, tag := range append(append([]string{}, roles...), interests...) {
		if cats, ok := Taxonomy[strings.ToLower(tag)]; ok {
			out = utils.UnionTags(out, cats)
		}
	}
	return out
}
