package domain

// DocumentType is the controlled taxonomy for renewable-energy DD documents.
type DocumentType string

const (
	// Commercial
	TypePPA               DocumentType = "ppa"
	TypeOfftakeAgreement  DocumentType = "offtake_agreement"
	TypeMerchantAgreement DocumentType = "merchant_agreement"

	// Legal
	TypeLandLease            DocumentType = "land_lease"
	TypeEasement             DocumentType = "easement"
	TypeDevelopmentAgreement DocumentType = "development_agreement"
	TypeEPCContract          DocumentType = "epc_contract"
	TypeCorporateDocs        DocumentType = "corporate_documents"

	// Technical
	TypeInterconnectionAgreement DocumentType = "interconnection_agreement"
	TypeInterconnectionStudy     DocumentType = "interconnection_study"
	TypeTechnicalSpecs           DocumentType = "technical_specifications"
	TypeEquipmentSpecs           DocumentType = "equipment_specifications"
	TypeProductionData           DocumentType = "production_data"
	TypeResourceAssessment       DocumentType = "resource_assessment"

	// O&M
	TypeOMContract        DocumentType = "om_contract"
	TypeEquipmentWarranty DocumentType = "equipment_warranty"
	TypeServiceAgreement  DocumentType = "service_agreement"

	// Environmental
	TypeEnvironmentalAssessment DocumentType = "environmental_assessment"
	TypeEnvironmentalPermit     DocumentType = "environmental_permit"
	TypeEnvironmentalStudy      DocumentType = "environmental_study"

	// Financial
	TypeFinancialModel  DocumentType = "financial_model"
	TypeAuditReport     DocumentType = "audit_report"
	TypeTaxDocument     DocumentType = "tax_document"
	TypeInsurancePolicy DocumentType = "insurance_policy"
	TypeDebtAgreement   DocumentType = "debt_agreement"
	TypeTaxEquityDocs   DocumentType = "tax_equity_documents"

	// Permits and approvals
	TypeBuildingPermit     DocumentType = "building_permit"
	TypeZoningApproval     DocumentType = "zoning_approval"
	TypeRegulatoryApproval DocumentType = "regulatory_approval"

	// Other
	TypeTitleReport DocumentType = "title_report"
	TypeAppraisal   DocumentType = "appraisal"
	TypePhaseIESA   DocumentType = "phase_i_esa"
	TypeUnknown     DocumentType = "unknown"
)

// DocumentCategory is the high-level review bucket a document belongs to.
type DocumentCategory string

const (
	CategoryLegal         DocumentCategory = "Legal"
	CategoryTechnical     DocumentCategory = "Technical"
	CategoryFinancial     DocumentCategory = "Financial"
	CategoryEnvironmental DocumentCategory = "Environmental"
	CategoryCommercial    DocumentCategory = "Commercial"
)

// AllDocumentTypes lists every taxonomy type in declaration order.
// The order is load-bearing: keyword classification breaks score ties by
// taking the first declared type, and the LLM prompt enumerates types in
// this order.
var AllDocumentTypes = []DocumentType{
	TypePPA, TypeOfftakeAgreement, TypeMerchantAgreement,
	TypeLandLease, TypeEasement, TypeDevelopmentAgreement, TypeEPCContract, TypeCorporateDocs,
	TypeInterconnectionAgreement, TypeInterconnectionStudy, TypeTechnicalSpecs,
	TypeEquipmentSpecs, TypeProductionData, TypeResourceAssessment,
	TypeOMContract, TypeEquipmentWarranty, TypeServiceAgreement,
	TypeEnvironmentalAssessment, TypeEnvironmentalPermit, TypeEnvironmentalStudy,
	TypeFinancialModel, TypeAuditReport, TypeTaxDocument, TypeInsurancePolicy,
	TypeDebtAgreement, TypeTaxEquityDocs,
	TypeBuildingPermit, TypeZoningApproval, TypeRegulatoryApproval,
	TypeTitleReport, TypeAppraisal, TypePhaseIESA,
	TypeUnknown,
}

// typeCategories maps document types to review categories. The map is
// deliberately partial: TypeUnknown has no category, and unmapped types
// must stay unmapped.
var typeCategories = map[DocumentType]DocumentCategory{
	TypePPA:               CategoryCommercial,
	TypeOfftakeAgreement:  CategoryCommercial,
	TypeMerchantAgreement: CategoryCommercial,

	TypeLandLease:            CategoryLegal,
	TypeEasement:             CategoryLegal,
	TypeDevelopmentAgreement: CategoryLegal,
	TypeEPCContract:          CategoryLegal,
	TypeCorporateDocs:        CategoryLegal,

	TypeInterconnectionAgreement: CategoryTechnical,
	TypeInterconnectionStudy:     CategoryTechnical,
	TypeTechnicalSpecs:           CategoryTechnical,
	TypeEquipmentSpecs:           CategoryTechnical,
	TypeProductionData:           CategoryTechnical,
	TypeResourceAssessment:       CategoryTechnical,

	TypeOMContract:        CategoryTechnical,
	TypeEquipmentWarranty: CategoryTechnical,
	TypeServiceAgreement:  CategoryTechnical,

	TypeEnvironmentalAssessment: CategoryEnvironmental,
	TypeEnvironmentalPermit:     CategoryEnvironmental,
	TypeEnvironmentalStudy:      CategoryEnvironmental,
	TypePhaseIESA:               CategoryEnvironmental,

	TypeFinancialModel:  CategoryFinancial,
	TypeAuditReport:     CategoryFinancial,
	TypeTaxDocument:     CategoryFinancial,
	TypeInsurancePolicy: CategoryFinancial,
	TypeDebtAgreement:   CategoryFinancial,
	TypeTaxEquityDocs:   CategoryFinancial,

	TypeBuildingPermit:     CategoryLegal,
	TypeZoningApproval:     CategoryLegal,
	TypeRegulatoryApproval: CategoryLegal,
	TypeTitleReport:        CategoryLegal,
	TypeAppraisal:          CategoryFinancial,
}

// CategoryFor resolves the review category of a document type. The second
// return is false for types intentionally left without a category.
func CategoryFor(t DocumentType) (DocumentCategory, bool) {
	c, ok := typeCategories[t]
	return c, ok
}

// ParseDocumentType maps a raw token back to a taxonomy type.
// Unrecognized tokens resolve to TypeUnknown with ok=false.
func ParseDocumentType(raw string) (DocumentType, bool) {
	for _, t := range AllDocumentTypes {
		if string(t) == raw {
			return t, true
		}
	}
	return TypeUnknown, false
}
