package domain

import "time"

// RiskRating is the deterministic overall project risk bucket.
type RiskRating string

const (
	RiskHigh      RiskRating = "HIGH"
	RiskMedium    RiskRating = "MEDIUM"
	RiskMediumLow RiskRating = "MEDIUM-LOW"
	RiskLow       RiskRating = "LOW"
)

// ActionItem is one rule-generated next step in the executive summary.
type ActionItem struct {
	Priority string `json:"priority"`
	Action   string `json:"action"`
	Owner    string `json:"owner"`
	Deadline string `json:"deadline"`
}

// SummaryMetrics are the deterministic numbers behind an executive
// summary: checklist completion, issue counts by severity, and the
// revenue estimate when capacity, price and term are all known.
type SummaryMetrics struct {
	CompletionPercentage   float64 `json:"completion_percentage"`
	DocumentsReviewed      int     `json:"documents_reviewed"`
	TotalDocumentsRequired int     `json:"total_documents_required"`
	CriticalIssues         int     `json:"critical_issues"`
	HighIssues             int     `json:"high_issues"`
	MediumIssues           int     `json:"medium_issues"`
	TotalIssues            int     `json:"total_issues"`

	EstimatedAnnualRevenueUSD   float64 `json:"estimated_annual_revenue_usd,omitempty"`
	EstimatedLifetimeRevenueUSD float64 `json:"estimated_lifetime_revenue_usd,omitempty"`
}

// ExecutiveSummary is generated fresh per request and never cached.
// Everything except Narrative is computed deterministically.
type ExecutiveSummary struct {
	GeneratedAt       time.Time      `json:"generated_at"`
	Narrative         string         `json:"narrative"`
	Metrics           SummaryMetrics `json:"metrics"`
	DealBreakers      []string       `json:"deal_breakers"`
	ActionItems       []ActionItem   `json:"action_items"`
	OverallRiskRating RiskRating     `json:"overall_risk_rating"`
	Recommendation    string         `json:"recommendation"`
}
