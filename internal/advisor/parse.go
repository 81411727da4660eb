package advisor

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/icz3us/medical-inv-v2/domain"
)

var (
	descriptionRe = regexp.MustCompile(`(?i)DESCRIPTION:\s*(.+)`)
	categoryRe    = regexp.MustCompile(`(?i)CATEGORY:\s*(.+)`)
	jsonArrayRe   = regexp.MustCompile(`(?s)\[.*\]`)
	jsonObjectRe  = regexp.MustCompile(`(?s)\{.*\}`)
)

// FallbackDescription is the deterministic description used whenever the
// text service is unavailable or its answer cannot be parsed.
func FallbackDescription(itemName string) string {
	return fmt.Sprintf("Medical %s for healthcare use", strings.ToLower(itemName))
}

// parseEnrichment extracts the labeled DESCRIPTION/CATEGORY lines from a
// free-text answer, substituting the deterministic fallbacks for anything
// missing or invalid.
func parseEnrichment(itemName, text string) Enrichment {
	enrichment := Enrichment{
		Description: FallbackDescription(itemName),
		Category:    domain.CategorySupplies,
	}

	if m := descriptionRe.FindStringSubmatch(text); m != nil {
		if description := strings.TrimSpace(m[1]); description != "" {
			enrichment.Description = description
		}
	}
	if m := categoryRe.FindStringSubmatch(text); m != nil {
		enrichment.Category = domain.NormalizeCategory(m[1])
	}
	return enrichment
}

// extractStringArray pulls the first JSON array out of a free-text answer.
func extractStringArray(text string) ([]string, bool) {
	var names []string
	if !extractArray(text, &names) {
		return nil, false
	}
	return names, true
}

func extractArray(text string, dest any) bool {
	m := jsonArrayRe.FindString(text)
	if m == "" {
		return false
	}
	return json.Unmarshal([]byte(m), dest) == nil
}

func extractJSON(text string, dest any) bool {
	m := jsonObjectRe.FindString(text)
	if m == "" {
		return false
	}
	return json.Unmarshal([]byte(m), dest) == nil
}
