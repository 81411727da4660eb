package advisor

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/icz3us/medical-inv-v2/domain"
)

func enrichmentPrompt(itemName string) string {
	return fmt.Sprintf(`Analyze this medical item name and provide:
1. A concise professional description (under 150 characters)
2. The most appropriate category from: %s

Item: %q

Respond in this exact format:
DESCRIPTION: [description here]
CATEGORY: [category here]`, strings.Join(domain.Categories, ", "), itemName)
}

func conditionPrompt(condition string) string {
	return fmt.Sprintf(`As a medical inventory expert, recommend essential medical supplies for the following condition: %q

Consider common treatments, medications, and equipment needed.

Respond with a JSON array of item names only, like:
["item1", "item2", "item3"]

Provide exactly 5 items that would be most relevant.`, condition)
}

func procedurePrompt(procedure string) string {
	return fmt.Sprintf(`As a medical inventory expert, recommend essential medical supplies for the following medical procedure: %q

Consider all equipment, medications, and disposables typically needed.

Respond with a JSON array of item names only, like:
["item1", "item2", "item3"]

Provide exactly 5 items that would be most relevant.`, procedure)
}

type itemSummary struct {
	Name         string `json:"name"`
	Category     string `json:"category"`
	Quantity     int64  `json:"quantity"`
	CostPerUnit  string `json:"cost_per_unit"`
	ExpiryDate   string `json:"expiry_date,omitempty"`
	MinThreshold int64  `json:"min_threshold"`
}

func insightsPrompt(items []domain.InventoryItem) string {
	summaries := make([]itemSummary, 0, len(items))
	for _, item := range items {
		summary := itemSummary{
			Name:         item.Name,
			Category:     item.Category,
			Quantity:     item.Quantity,
			CostPerUnit:  item.CostPerUnit.String(),
			MinThreshold: item.MinThreshold,
		}
		if item.ExpiryDate != nil {
			summary.ExpiryDate = item.ExpiryDate.Format("2006-01-02")
		}
		summaries = append(summaries, summary)
	}
	data, _ := json.MarshalIndent(summaries, "", "  ")

	return fmt.Sprintf(`As a healthcare inventory management expert, analyze the following medical inventory data and provide actionable insights for a hospital administrator:

Inventory Data:
%s

Please provide exactly 4 insights in this JSON format:
[
  {
    "title": "brief title of insight",
    "description": "detailed explanation of the insight and why it matters",
    "category": "optimization|cost_savings|risk_management|efficiency",
    "priority": "high|medium|low",
    "recommendation": "specific actionable recommendation"
  }
]

Focus on:
1. Inventory optimization opportunities
2. Cost saving recommendations
3. Risk management (expiring items, low stock, etc.)
4. Efficiency improvements`, data)
}

type usagePoint struct {
	Date  string
	Usage int64
}

func forecastPrompt(item domain.InventoryItem, history []usagePoint) string {
	lines := make([]string, 0, len(history))
	for _, point := range history {
		lines = append(lines, fmt.Sprintf("%s: %d units", point.Date, point.Usage))
	}

	return fmt.Sprintf(`Based on the following 30-day usage history for a medical inventory item, predict demand for the next 14 days and recommend optimal reorder points:

Item: %s
Current Quantity: %d
Minimum Threshold: %d
Unit: %s
Category: %s

Usage History (last 30 days):
%s

Please provide:
1. Demand forecast for the next 14 days (total predicted usage)
2. Recommended reorder point (when to place new order)
3. Recommended order quantity
4. Risk level (low/medium/high) for stockout in next 14 days

Respond in this exact JSON format:
{
  "forecast": 0,
  "reorderPoint": 0,
  "orderQuantity": 0,
  "riskLevel": "low",
  "analysis": "brief explanation"
}`, item.Name, item.Quantity, item.MinThreshold, item.Unit, item.Category, strings.Join(lines, "\n"))
}

var timeNow = time.Now
