package domain

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var checklistCatalogYAML []byte

// ChecklistCatalog returns the standard renewable-energy DD checklist
// template. Items come back in catalog order with status not_started.
func ChecklistCatalog() ([]ChecklistItem, error) {
	var items []ChecklistItem
	if err := yaml.Unmarshal(checklistCatalogYAML, &items); err != nil {
		return nil, fmt.Errorf("decode checklist catalog: %w", err)
	}
	for i := range items {
		if items[i].Status == "" {
			items[i].Status = ChecklistNotStarted
		}
	}
	return items, nil
}

// ComputeChecklistStatus derives completion stats from checklist items.
// An item is completed once approved; not_applicable does not count.
func ComputeChecklistStatus(items []ChecklistItem) ChecklistStatus {
	status := ChecklistStatus{
		TotalItems: len(items),
		ByCategory: make(map[string]CategoryCompletion),
	}
	for _, item := range items {
		cc := status.ByCategory[item.Category]
		cc.Total++
		if item.Status == ChecklistApproved {
			cc.Completed++
			status.CompletedItems++
		}
		status.ByCategory[item.Category] = cc
	}
	if status.TotalItems > 0 {
		pct := float64(status.CompletedItems) / float64(status.TotalItems) * 100
		status.CompletionPercentage = roundTo(pct, 1)
	}
	return status
}
