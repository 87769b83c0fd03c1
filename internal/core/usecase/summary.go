package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/renewintel/ddroom/internal/core/domain"
	"github.com/renewintel/ddroom/internal/core/ports"
)

const summarySystemPrompt = `You are an expert renewable energy investment advisor creating executive summaries for due diligence.

Create a concise, professional executive summary that includes:
1. Project Overview (technology, capacity, location)
2. Due Diligence Status
3. Key Findings (positive and negative)
4. Critical Risks and Red Flags
5. Deal Breakers (if any)
6. Recommended Next Steps

Use clear, executive-level language. Be direct about risks.
Format in markdown with clear sections.`

const summaryUserPrompt = `Create an executive summary for this renewable energy project DD:

Project Information:
%s

DD Completion Status:
%s

Key Documents Reviewed:
%s

Extracted Terms and Findings:
%s

Issues and Red Flags:
%s
`

// dealBreakerKeywords flag critical issues that should stop a deal.
var dealBreakerKeywords = []string{
	"no interconnection agreement",
	"no ppa",
	"land lease expired",
	"no environmental permit",
	"title issue",
	"litigation",
	"bankruptcy",
	"force majeure",
	"terminated",
}

// SummaryUseCase assembles the executive summary: everything except the
// narrative is computed deterministically from stored state, and a
// failed narrative call fails the whole request.
type SummaryUseCase struct {
	projects  ports.ProjectRepository
	checklist ports.ChecklistStore
	findings  ports.FindingStore
	issues    ports.IssueStore
	llm       ports.CompletionClient
}

func NewSummaryUseCase(
	projects ports.ProjectRepository,
	checklist ports.ChecklistStore,
	findings ports.FindingStore,
	issues ports.IssueStore,
	llm ports.CompletionClient,
) *SummaryUseCase {
	return &SummaryUseCase{
		projects:  projects,
		checklist: checklist,
		findings:  findings,
		issues:    issues,
		llm:       llm,
	}
}

func (uc *SummaryUseCase) Generate(ctx context.Context, projectID string) (*domain.ExecutiveSummary, error) {
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("fetch project: %w", err)
	}
	items, err := uc.checklist.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list checklist: %w", err)
	}
	findings, err := uc.findings.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list findings: %w", err)
	}
	issues, err := uc.issues.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}

	return uc.build(ctx, project, domain.ComputeChecklistStatus(items), findings, issues)
}

func (uc *SummaryUseCase) build(
	ctx context.Context,
	project *domain.Project,
	checklist domain.ChecklistStatus,
	findings []domain.Finding,
	issues []domain.Issue,
) (*domain.ExecutiveSummary, error) {
	user := fmt.Sprintf(summaryUserPrompt,
		formatProjectInfo(project),
		formatCompletionStatus(checklist),
		formatDocumentsSummary(findings),
		formatFindings(findings),
		formatIssues(issues),
	)

	narrative, err := uc.llm.Complete(ctx, summarySystemPrompt, user)
	if err != nil {
		return nil, fmt.Errorf("generate narrative: %w", err)
	}

	metrics := calculateSummaryMetrics(project, checklist, issues)
	dealBreakers := identifyDealBreakers(issues)

	return &domain.ExecutiveSummary{
		GeneratedAt:       time.Now().UTC(),
		Narrative:         narrative,
		Metrics:           metrics,
		DealBreakers:      dealBreakers,
		ActionItems:       generateActionItems(checklist, issues),
		OverallRiskRating: calculateRiskRating(metrics),
		Recommendation:    generateRecommendation(dealBreakers, metrics),
	}, nil
}

func formatProjectInfo(project *domain.Project) string {
	var info []string
	info = append(info, "Project Name: "+orNA(project.Name))
	info = append(info, "Technology: "+orNA(project.TechnologyType))
	info = append(info, "Capacity: "+orNAFloat(project.CapacityMW)+" MW")
	info = append(info, "Location: "+orNA(project.Location))
	info = append(info, "Expected COD: "+orNA(project.COD))

	if ppa := project.PPATerms; ppa != nil {
		info = append(info, "PPA Price: "+orNA(ppa.EnergyPrice))
		term := "N/A"
		if ppa.DeliveryTermYears != nil {
			term = strconv.Itoa(*ppa.DeliveryTermYears)
		}
		info = append(info, "PPA Term: "+term+" years")
		info = append(info, "Offtaker: "+orNA(ppa.Buyer))
	}

	return strings.Join(info, "\n")
}

func formatCompletionStatus(status domain.ChecklistStatus) string {
	lines := []string{
		fmt.Sprintf("Overall Completion: %v%%", status.CompletionPercentage),
		fmt.Sprintf("Total Items: %d", status.TotalItems),
		fmt.Sprintf("Completed: %d", status.CompletedItems),
	}

	if len(status.ByCategory) > 0 {
		lines = append(lines, "\nBy Category:")
		categories := make([]string, 0, len(status.ByCategory))
		for category := range status.ByCategory {
			categories = append(categories, category)
		}
		sort.Strings(categories)
		for _, category := range categories {
			cc := status.ByCategory[category]
			pct := 0.0
			if cc.Total > 0 {
				pct = float64(cc.Completed) / float64(cc.Total) * 100
			}
			lines = append(lines, fmt.Sprintf("  %s: %.0f%% (%d/%d)", category, pct, cc.Completed, cc.Total))
		}
	}

	return strings.Join(lines, "\n")
}

func formatDocumentsSummary(findings []domain.Finding) string {
	if len(findings) == 0 {
		return "No documents reviewed yet."
	}

	var order []domain.DocumentType
	counts := make(map[domain.DocumentType]int)
	for _, finding := range findings {
		docType := finding.DocumentType
		if docType == "" {
			docType = "Unknown"
		}
		if counts[docType] == 0 {
			order = append(order, docType)
		}
		counts[docType]++
	}

	lines := make([]string, 0, len(order))
	for _, docType := range order {
		lines = append(lines, fmt.Sprintf("%d %s document(s)", counts[docType], docType))
	}
	return strings.Join(lines, "\n")
}

func formatFindings(findings []domain.Finding) string {
	if len(findings) == 0 {
		return "No significant findings yet."
	}

	if len(findings) > 10 {
		findings = findings[:10]
	}
	lines := make([]string, 0, len(findings))
	for i, finding := range findings {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, orNA(finding.Summary)))
	}
	return strings.Join(lines, "\n")
}

func formatIssues(issues []domain.Issue) string {
	if len(issues) == 0 {
		return "No issues identified."
	}

	lines := make([]string, 0, len(issues))
	for _, issue := range issues {
		severity := issue.Severity
		if severity == "" {
			severity = domain.SeverityMedium
		}
		lines = append(lines, fmt.Sprintf("[%s] %s", strings.ToUpper(string(severity)), orNA(issue.Description)))
	}
	return strings.Join(lines, "\n")
}

func calculateSummaryMetrics(project *domain.Project, checklist domain.ChecklistStatus, issues []domain.Issue) domain.SummaryMetrics {
	metrics := domain.SummaryMetrics{
		CompletionPercentage:   checklist.CompletionPercentage,
		DocumentsReviewed:      checklist.CompletedItems,
		TotalDocumentsRequired: checklist.TotalItems,
		TotalIssues:            len(issues),
	}
	for _, issue := range issues {
		switch issue.Severity {
		case domain.SeverityCritical:
			metrics.CriticalIssues++
		case domain.SeverityHigh:
			metrics.HighIssues++
		case domain.SeverityMedium:
			metrics.MediumIssues++
		}
	}

	if project.CapacityMW > 0 && project.PPATerms != nil && project.PPATerms.EnergyPrice != "" {
		if m := numericPrice.FindStringSubmatch(project.PPATerms.EnergyPrice); m != nil {
			if price, err := strconv.ParseFloat(m[1], 64); err == nil {
				term := 20
				if project.PPATerms.DeliveryTermYears != nil {
					term = *project.PPATerms.DeliveryTermYears
				}

				// Same flat 30% capacity factor as the PPA metrics,
				// regardless of the configured per-technology factors.
				annualEnergy := project.CapacityMW * 8760 * 0.30
				annualRevenue := annualEnergy * price
				lifetimeRevenue := annualRevenue * float64(term)

				metrics.EstimatedAnnualRevenueUSD = math.Trunc(annualRevenue)
				metrics.EstimatedLifetimeRevenueUSD = math.Trunc(lifetimeRevenue)
			}
		}
	}

	return metrics
}

// identifyDealBreakers surfaces critical issues whose description hits a
// deal-breaker keyword. The description is returned verbatim.
func identifyDealBreakers(issues []domain.Issue) []string {
	var dealBreakers []string
	for _, issue := range issues {
		if issue.Severity != domain.SeverityCritical {
			continue
		}
		description := strings.ToLower(issue.Description)
		for _, keyword := range dealBreakerKeywords {
			if strings.Contains(description, keyword) {
				dealBreakers = append(dealBreakers, issue.Description)
				break
			}
		}
	}
	return dealBreakers
}

func generateActionItems(checklist domain.ChecklistStatus, issues []domain.Issue) []domain.ActionItem {
	var items []domain.ActionItem

	if checklist.CompletionPercentage < 100 {
		items = append(items, domain.ActionItem{
			Priority: "High",
			Action:   "Complete outstanding DD checklist items",
			Owner:    "Seller",
			Deadline: "Before closing",
		})
	}

	critical := 0
	for _, issue := range issues {
		if issue.Severity != domain.SeverityCritical {
			continue
		}
		items = append(items, domain.ActionItem{
			Priority: "Critical",
			Action:   "Resolve: " + truncate(orNA(issue.Description), 100),
			Owner:    "Seller",
			Deadline: "Immediate",
		})
		critical++
		if critical == 3 {
			break
		}
	}

	if checklist.CompletionPercentage > 75 {
		items = append(items,
			domain.ActionItem{
				Priority: "Medium",
				Action:   "Schedule technical site visit",
				Owner:    "Buyer",
				Deadline: "Next 2 weeks",
			},
			domain.ActionItem{
				Priority: "Medium",
				Action:   "Engage independent engineer for technical review",
				Owner:    "Buyer",
				Deadline: "Next 2 weeks",
			},
		)
	}

	return items
}

// calculateRiskRating buckets overall risk. Branch order matters: the
// first matching bucket wins.
func calculateRiskRating(metrics domain.SummaryMetrics) domain.RiskRating {
	switch {
	case metrics.CriticalIssues > 3 || metrics.CompletionPercentage < 50:
		return domain.RiskHigh
	case metrics.CriticalIssues > 0 || metrics.HighIssues > 5 || metrics.CompletionPercentage < 75:
		return domain.RiskMedium
	case metrics.HighIssues > 0 || metrics.CompletionPercentage < 90:
		return domain.RiskMediumLow
	default:
		return domain.RiskLow
	}
}

func generateRecommendation(dealBreakers []string, metrics domain.SummaryMetrics) string {
	if len(dealBreakers) > 0 {
		return "DO NOT PROCEED - Critical deal breakers identified"
	}

	switch {
	case metrics.CriticalIssues > 3:
		return "CAUTION - Multiple critical issues require resolution before proceeding"
	case metrics.CompletionPercentage < 70:
		return "CONTINUE DD - Substantial information still required"
	case metrics.CompletionPercentage > 90 && metrics.CriticalIssues == 0:
		return "PROCEED TO CLOSING - DD substantially complete with manageable risks"
	default:
		return "CONTINUE DD - Complete outstanding items and address identified issues"
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func orNAFloat(v float64) string {
	if v == 0 {
		return "N/A"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
