package advisor

import (
	"testing"

	"github.com/icz3us/medical-inv-v2/domain"
)

func TestParseEnrichment(t *testing.T) {
	text := "DESCRIPTION: Sterile gauze pads for wound dressing and absorption.\nCATEGORY: supplies"
	got := parseEnrichment("Gauze", text)
	if got.Description != "Sterile gauze pads for wound dressing and absorption." {
		t.Errorf("unexpected description: %q", got.Description)
	}
	if got.Category != domain.CategorySupplies {
		t.Errorf("unexpected category: %q", got.Category)
	}
}

func TestParseEnrichmentCaseInsensitiveLabels(t *testing.T) {
	text := "description: Digital thermometer for clinical temperature readings.\ncategory: Diagnostic"
	got := parseEnrichment("Thermometer", text)
	if got.Description != "Digital thermometer for clinical temperature readings." {
		t.Errorf("unexpected description: %q", got.Description)
	}
	if got.Category != domain.CategoryDiagnostic {
		t.Errorf("unexpected category: %q", got.Category)
	}
}

func TestParseEnrichmentInvalidCategory(t *testing.T) {
	text := "DESCRIPTION: Something useful.\nCATEGORY: gadgets"
	got := parseEnrichment("Widget", text)
	if got.Category != domain.CategorySupplies {
		t.Errorf("invalid category should fall back to supplies, got %q", got.Category)
	}
}

func TestParseEnrichmentMissingLabels(t *testing.T) {
	got := parseEnrichment("Gauze", "I cannot help with that.")
	if got.Description != "Medical gauze for healthcare use" {
		t.Errorf("unexpected fallback description: %q", got.Description)
	}
	if got.Category != domain.CategorySupplies {
		t.Errorf("unexpected fallback category: %q", got.Category)
	}
}

func TestFallbackDescription(t *testing.T) {
	if got := FallbackDescription("Gauze"); got != "Medical gauze for healthcare use" {
		t.Errorf("FallbackDescription(\"Gauze\") = %q", got)
	}
	if got := FallbackDescription("IV Drip Set"); got != "Medical iv drip set for healthcare use" {
		t.Errorf("FallbackDescription(\"IV Drip Set\") = %q", got)
	}
}

func TestExtractStringArray(t *testing.T) {
	text := "Here are my picks:\n[\"bandages\", \"saline\", \"gloves\"]\nHope that helps."
	names, ok := extractStringArray(text)
	if !ok {
		t.Fatal("expected an array to be extracted")
	}
	if len(names) != 3 || names[0] != "bandages" || names[2] != "gloves" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestExtractStringArrayNoArray(t *testing.T) {
	if _, ok := extractStringArray("no list here"); ok {
		t.Error("expected extraction to fail")
	}
	if _, ok := extractStringArray("[not json"); ok {
		t.Error("expected invalid JSON to fail")
	}
}

func TestExtractJSONObject(t *testing.T) {
	text := "```json\n{\"forecast\": 120, \"reorderPoint\": 40, \"orderQuantity\": 100, \"riskLevel\": \"medium\", \"analysis\": \"steady usage\"}\n```"
	var forecast Forecast
	if !extractJSON(text, &forecast) {
		t.Fatal("expected an object to be extracted")
	}
	if forecast.Forecast != 120 || forecast.ReorderPoint != 40 || forecast.RiskLevel != "medium" {
		t.Errorf("unexpected forecast: %+v", forecast)
	}
}
