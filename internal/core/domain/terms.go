package domain

// PPATerms holds structured terms pulled out of a power purchase
// agreement. Nearly everything is optional: pattern rules and the model
// each fill what they can, and absent fields stay nil/empty.
type PPATerms struct {
	// Parties
	Seller string `json:"seller,omitempty"`
	Buyer  string `json:"buyer,omitempty"`

	// Project
	ProjectName        string   `json:"project_name,omitempty"`
	ProjectLocation    string   `json:"project_location,omitempty"`
	TechnologyType     string   `json:"technology_type,omitempty"`
	ContractCapacityMW *float64 `json:"contract_capacity_mw,omitempty"`

	// Dates
	EffectiveDate           string   `json:"effective_date,omitempty"`
	CommercialOperationDate string   `json:"commercial_operation_date,omitempty"`
	DeliveryTermStart       string   `json:"delivery_term_start,omitempty"`
	DeliveryTermYears       *int     `json:"delivery_term_years,omitempty"`
	ContractEndDate         string   `json:"contract_end_date,omitempty"`
	ExtractedDates          []string `json:"extracted_dates,omitempty"`

	// Pricing
	EnergyPrice     string `json:"energy_price,omitempty"`
	PriceEscalation string `json:"price_escalation,omitempty"`
	CapacityPayment string `json:"capacity_payment,omitempty"`

	// Delivery
	DeliveryPoint          string   `json:"delivery_point,omitempty"`
	DeliveryObligations    string   `json:"delivery_obligations,omitempty"`
	AnnualContractQuantity *float64 `json:"annual_contract_quantity,omitempty"`

	// RECs and environmental attributes
	RECTransfer             *bool  `json:"rec_transfer,omitempty"`
	EnvironmentalAttributes string `json:"environmental_attributes,omitempty"`

	// Performance and guarantees
	GuaranteedCapacityFactor *float64 `json:"guaranteed_capacity_factor,omitempty"`
	PerformanceRequirements  string   `json:"performance_requirements,omitempty"`
	LiquidatedDamages        string   `json:"liquidated_damages,omitempty"`

	// Curtailment
	CurtailmentProvisions   string `json:"curtailment_provisions,omitempty"`
	CurtailmentCompensation string `json:"curtailment_compensation,omitempty"`

	// Credit support
	SellerCollateral string `json:"seller_collateral,omitempty"`
	BuyerCollateral  string `json:"buyer_collateral,omitempty"`

	// Termination
	TerminationProvisions string `json:"termination_provisions,omitempty"`
	EarlyTerminationFee   string `json:"early_termination_fee,omitempty"`

	// Other
	ForceMajeure   string `json:"force_majeure,omitempty"`
	ChangeInLaw    string `json:"change_in_law,omitempty"`
	DispatchRights string `json:"dispatch_rights,omitempty"`

	// RawModelOutput keeps the model reply when it cannot be parsed as
	// JSON, so a degraded extraction still surfaces what the model said.
	RawModelOutput string `json:"raw_model_output,omitempty"`

	RedFlags []string `json:"red_flags"`
	KeyRisks []string `json:"key_risks"`
}

// PPAMetrics are revenue figures derived from extracted terms. All three
// inputs (capacity, term, price) must be present or the struct is zero.
type PPAMetrics struct {
	EstimatedAnnualEnergyMWh    float64 `json:"estimated_annual_energy_mwh,omitempty"`
	EstimatedAnnualRevenueUSD   float64 `json:"estimated_annual_revenue_usd,omitempty"`
	EstimatedLifetimeRevenueUSD float64 `json:"estimated_lifetime_revenue_usd,omitempty"`
}

// Finding is one reviewed-document result fed into the executive summary.
type Finding struct {
	DocumentID   string       `json:"document_id"`
	DocumentType DocumentType `json:"document_type"`
	Summary      string       `json:"summary"`
}

// IssueSeverity buckets issues for summary metrics.
type IssueSeverity string

const (
	SeverityCritical IssueSeverity = "Critical"
	SeverityHigh     IssueSeverity = "High"
	SeverityMedium   IssueSeverity = "Medium"
	SeverityLow      IssueSeverity = "Low"
)

// Issue is a recorded DD problem or red flag on a project.
type Issue struct {
	ID          string        `json:"id"`
	ProjectID   string        `json:"project_id"`
	Severity    IssueSeverity `json:"severity"`
	Description string        `json:"description"`
}
