package utils

import (
	"encoding/json"
	rndm "math/rand"
	"net/http"
	"strings"
)

var digitRunes = []rune("0123456789")

// GenerateRandomDigitString creates a random numeric string of length n.
func GenerateRandomDigitString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = digitRunes[rndm.Intn(len(digitRunes))]
	}
	return string(b)
}

// --- HTTP Response Helpers ---

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

// Sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

type M map[string]interface{}

// SplitTags takes a delimiter-separated string and returns a cleaned,
// deduplicated []string. Empty tokens are dropped.
func SplitTags(input, sep string) []string {
	if input == "" {
		return []string{}
	}
	parts := strings.Split(input, sep)
	var tags []string
	seen := make(map[string]bool)

	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if tag == "" {
			continue
		}
		if !seen[tag] {
			tags = append(tags, tag)
			seen[tag] = true
		}
	}
	return tags
}

// UnionTags merges b into a, preserving a's order and deduplicating.
func UnionTags(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, t := range a {
		if !seen[t] {
			out = append(out, t)
			seen[t] = true
		}
	}
	for _, t := range b {
		if !seen[t] {
			out = append(out, t)
			seen[t] = true
		}
	}
	return out
}
