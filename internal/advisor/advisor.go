// Package advisor wraps the external text-generation service behind a
// narrow prompt-in, structured-result-out interface. Calls are single-shot
// with an explicit timeout and deterministic fallbacks; there are no
// retries and no caching of prior answers.
package advisor

import (
	"context"
	"log"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/icz3us/medical-inv-v2/domain"
)

// Enrichment is a machine-generated description and category for an item.
type Enrichment struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Insight is one actionable observation about the inventory as a whole.
type Insight struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	Priority       string `json:"priority"`
	Recommendation string `json:"recommendation"`
}

// Forecast is a 14-day demand prediction for one item. Field names mirror
// the JSON shape the model is asked to answer with.
type Forecast struct {
	Forecast      int    `json:"forecast"`
	ReorderPoint  int    `json:"reorderPoint"`
	OrderQuantity int    `json:"orderQuantity"`
	RiskLevel     string `json:"riskLevel"`
	Analysis      string `json:"analysis"`
	ItemID        string `json:"item_id"`
	ItemName      string `json:"item_name"`
}

// Advisor holds the text generator and the per-call timeout.
type Advisor struct {
	gen     TextGenerator
	timeout time.Duration
}

func New(gen TextGenerator, timeout time.Duration) *Advisor {
	return &Advisor{gen: gen, timeout: timeout}
}

func (a *Advisor) generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.gen.Generate(ctx, prompt)
}

// DescribeAndCategorize produces a short description and a category for a
// free-text item name. It never fails: any service or parse problem yields
// the deterministic fallback description and the "supplies" category.
func (a *Advisor) DescribeAndCategorize(ctx context.Context, itemName string) Enrichment {
	fallback := Enrichment{
		Description: FallbackDescription(itemName),
		Category:    domain.CategorySupplies,
	}
	if len(strings.TrimSpace(itemName)) < 2 {
		return fallback
	}

	text, err := a.generate(ctx, enrichmentPrompt(itemName))
	if err != nil {
		log.Printf("advisor: description generation failed: %v", err)
		return fallback
	}
	return parseEnrichment(itemName, text)
}

// RecommendForCondition asks for up to five item names relevant to a
// medical condition.
func (a *Advisor) RecommendForCondition(ctx context.Context, condition string) ([]string, error) {
	return a.recommend(ctx, conditionPrompt(condition))
}

// RecommendForProcedure asks for up to five item names relevant to a
// medical procedure.
func (a *Advisor) RecommendForProcedure(ctx context.Context, procedure string) ([]string, error) {
	return a.recommend(ctx, procedurePrompt(procedure))
}

func (a *Advisor) recommend(ctx context.Context, prompt string) ([]string, error) {
	text, err := a.generate(ctx, prompt)
	if err != nil {
		log.Printf("advisor: recommendation failed: %v", err)
		return []string{}, err
	}
	names, ok := extractStringArray(text)
	if !ok {
		return []string{}, nil
	}
	if len(names) > 5 {
		names = names[:5]
	}
	return names, nil
}

// SummarizeInsights asks for up to four inventory-wide insights.
func (a *Advisor) SummarizeInsights(ctx context.Context, items []domain.InventoryItem) ([]Insight, error) {
	if len(items) == 0 {
		return []Insight{}, nil
	}
	text, err := a.generate(ctx, insightsPrompt(items))
	if err != nil {
		log.Printf("advisor: insights generation failed: %v", err)
		return []Insight{}, err
	}
	var insights []Insight
	if !extractArray(text, &insights) {
		return []Insight{}, nil
	}
	if len(insights) > 4 {
		insights = insights[:4]
	}
	return insights, nil
}

// ForecastDemand predicts 14-day demand for one item. The 30-day usage
// history fed to the model is synthesized from the current quantity; no
// real usage telemetry exists in this system.
func (a *Advisor) ForecastDemand(ctx context.Context, item domain.InventoryItem) (Forecast, error) {
	text, err := a.generate(ctx, forecastPrompt(item, usageHistory(item.Quantity, 30)))
	if err != nil {
		log.Printf("advisor: demand forecast failed: %v", err)
		return Forecast{}, err
	}
	var forecast Forecast
	if !extractJSON(text, &forecast) {
		return Forecast{}, nil
	}
	forecast.ItemID = item.ID
	forecast.ItemName = item.Name
	return forecast, nil
}

func usageHistory(quantity int64, days int) []usagePoint {
	points := make([]usagePoint, 0, days+1)
	now := timeNow()
	for i := days; i >= 0; i-- {
		usage := int64(math.Floor(float64(quantity) * (0.8 + rand.Float64()*0.4)))
		if usage < 0 {
			usage = 0
		}
		points = append(points, usagePoint{
			Date:  now.AddDate(0, 0, -i).Format("2006-01-02"),
			Usage: usage,
		})
	}
	return points
}
