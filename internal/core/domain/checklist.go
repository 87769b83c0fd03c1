package domain

// ChecklistItemStatus is the workflow state of a checklist item.
type ChecklistItemStatus string

const (
	ChecklistNotStarted    ChecklistItemStatus = "not_started"
	ChecklistPending       ChecklistItemStatus = "pending"
	ChecklistReceived      ChecklistItemStatus = "received"
	ChecklistUnderReview   ChecklistItemStatus = "under_review"
	ChecklistApproved      ChecklistItemStatus = "approved"
	ChecklistRejected      ChecklistItemStatus = "rejected"
	ChecklistNotApplicable ChecklistItemStatus = "not_applicable"
)

// ChecklistPriority ranks how blocking a checklist item is.
type ChecklistPriority string

const (
	PriorityCritical ChecklistPriority = "critical"
	PriorityHigh     ChecklistPriority = "high"
	PriorityMedium   ChecklistPriority = "medium"
	PriorityLow      ChecklistPriority = "low"
)

// ResponsibleParty says who must provide or review an item.
type ResponsibleParty string

const (
	PartySeller     ResponsibleParty = "seller"
	PartyBuyer      ResponsibleParty = "buyer"
	PartyThirdParty ResponsibleParty = "third_party"
)

// ChecklistItem is one entry of the DD checklist. The catalog fields
// (everything except Status, Notes and DocumentIDs) are static reference
// data and never mutate after seeding.
type ChecklistItem struct {
	ID               string              `json:"id" yaml:"id"`
	Category         string              `json:"category" yaml:"category"`
	Subcategory      string              `json:"subcategory" yaml:"subcategory"`
	ItemName         string              `json:"item_name" yaml:"item_name"`
	Description      string              `json:"description" yaml:"description"`
	Priority         ChecklistPriority   `json:"priority" yaml:"priority"`
	ResponsibleParty ResponsibleParty    `json:"responsible_party" yaml:"responsible_party"`
	Status           ChecklistItemStatus `json:"status" yaml:"status,omitempty"`
	DocumentIDs      []string            `json:"document_ids" yaml:"document_ids,omitempty"`
	Notes            string              `json:"notes" yaml:"notes,omitempty"`

	RequiresLegalReview     bool `json:"requires_legal_review" yaml:"requires_legal_review,omitempty"`
	RequiresTechnicalReview bool `json:"requires_technical_review" yaml:"requires_technical_review,omitempty"`
	RequiresFinancialReview bool `json:"requires_financial_review" yaml:"requires_financial_review,omitempty"`
}

// ChecklistUpdate is a partial update to one checklist item. Nil fields
// are left untouched.
type ChecklistUpdate struct {
	Status      *ChecklistItemStatus `json:"status,omitempty"`
	Notes       *string              `json:"notes,omitempty"`
	DocumentIDs []string             `json:"document_ids,omitempty"`
}

// CategoryCompletion counts approved items within one category.
type CategoryCompletion struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// ChecklistStatus is the completion read model the summary generator
// consumes. An item counts as completed once approved.
type ChecklistStatus struct {
	TotalItems           int                           `json:"total_items"`
	CompletedItems       int                           `json:"completed_items"`
	CompletionPercentage float64                       `json:"completion_percentage"`
	ByCategory           map[string]CategoryCompletion `json:"by_category"`
}
