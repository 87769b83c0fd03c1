package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"github.com/renewintel/ddroom/internal/core/domain"
	"github.com/renewintel/ddroom/internal/core/ports"
)

var (
	pricePattern      = regexp.MustCompile(`(?i)\$(\d+\.?\d*)\s*(?:per|/)\s*MWh`)
	capacityPattern   = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(?:MW|megawatt)`)
	termPattern       = regexp.MustCompile(`(?i)(?:term of|period of|duration of)\s*(\d+)\s*years?`)
	escalationPattern = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*%\s*(?:per year|annual|annually)`)
	recPattern        = regexp.MustCompile(`(?i)renewable energy credit|(?:^|\s)REC(?:s|\s)`)
	recTransferHint   = regexp.MustCompile(`(?i)transfer.*REC|REC.*transfer|buyer.*entitled.*REC`)
	sellerPattern     = regexp.MustCompile(`(?:Seller|Generator|Developer):\s*([A-Z][A-Za-z\s&,\.]+(?:LLC|Inc|Corp|Company))`)
	buyerPattern      = regexp.MustCompile(`(?:Buyer|Offtaker|Purchaser):\s*([A-Z][A-Za-z\s&,\.]+(?:LLC|Inc|Corp|Company))`)
	numericPrice      = regexp.MustCompile(`\$?(\d+\.?\d*)`)

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`),
		regexp.MustCompile(`(\d{4}-\d{2}-\d{2})`),
		regexp.MustCompile(`(?i)(January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}`),
	}
)

const extractSystemPrompt = `You are an expert in renewable energy Power Purchase Agreements.
Extract key terms and provisions from the PPA text provided.

Focus on:
1. Parties and project details
2. Contract dates and term
3. Pricing structure and escalation
4. Delivery obligations and points
5. REC and environmental attribute transfer
6. Performance guarantees and damages
7. Curtailment provisions
8. Credit support requirements
9. Termination provisions
10. Key risks and red flags

For numerical values, extract exact numbers.
For dates, use format: YYYY-MM-DD or "Not specified"
For boolean fields, use true/false or null if unclear.

Identify RED FLAGS such as:
- Unfavorable pricing terms
- Short contract duration (<10 years)
- Excessive liquidated damages
- Unclear delivery obligations
- Unfavorable curtailment terms
- Excessive collateral requirements
- Broad termination rights for buyer`

// criticalTerms must all be present or the extraction gets an aggregate
// missing-terms red flag. Order fixed: the flag lists them in this order.
var criticalTerms = []string{
	"seller", "buyer", "energy_price", "delivery_term_years",
	"commercial_operation_date", "delivery_point",
}

// ExtractTermsUseCase pulls structured terms out of PPA text with
// pattern rules, optionally enriched by a model pass. It never fails on
// model or parse errors: callers always get a (possibly degraded) result.
type ExtractTermsUseCase struct {
	llm      ports.CompletionClient
	maxChars int
}

func NewExtractTermsUseCase(llm ports.CompletionClient, maxChars int) *ExtractTermsUseCase {
	return &ExtractTermsUseCase{llm: llm, maxChars: maxChars}
}

func (uc *ExtractTermsUseCase) Extract(ctx context.Context, text string, useLLM bool) (domain.PPATerms, error) {
	terms := extractWithRules(text)

	if useLLM && uc.llm != nil {
		for key, value := range uc.extractWithModel(ctx, text) {
			terms[key] = value
		}
	}

	terms["red_flags"] = identifyRedFlags(terms)

	return decodeTerms(terms), nil
}

// extractWithRules runs the deterministic pattern rules. Each rule is
// independent: a rule that finds nothing simply leaves its field absent.
func extractWithRules(text string) map[string]any {
	terms := make(map[string]any)

	if m := pricePattern.FindStringSubmatch(text); m != nil {
		terms["energy_price"] = fmt.Sprintf("$%s/MWh", m[1])
	}

	if m := capacityPattern.FindStringSubmatch(text); m != nil {
		if capacity, err := strconv.ParseFloat(m[1], 64); err == nil {
			terms["contract_capacity_mw"] = capacity
		}
	}

	if m := termPattern.FindStringSubmatch(text); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			terms["delivery_term_years"] = years
		}
	}

	var dates []string
	for _, pattern := range datePatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			dates = append(dates, m[1])
		}
	}
	if len(dates) > 0 {
		if len(dates) > 5 {
			dates = dates[:5]
		}
		terms["extracted_dates"] = dates
	}

	if m := escalationPattern.FindStringSubmatch(text); m != nil {
		terms["price_escalation"] = fmt.Sprintf("%s%% per year", m[1])
	}

	// REC transfer is only ever asserted, never denied, by the rules:
	// both the REC mention and a transfer phrasing must co-occur.
	if recPattern.MatchString(text) && recTransferHint.MatchString(text) {
		terms["rec_transfer"] = true
	}

	if m := sellerPattern.FindStringSubmatch(text); m != nil {
		terms["seller"] = strings.TrimSpace(m[1])
	}
	if m := buyerPattern.FindStringSubmatch(text); m != nil {
		terms["buyer"] = strings.TrimSpace(m[1])
	}

	return terms
}

// extractWithModel asks the model for a JSON rendition of the terms.
// Malformed JSON goes through a repair pass; if that also fails the raw
// reply is preserved under raw_model_output. Transport errors yield an
// empty map so the rule results stand untouched.
func (uc *ExtractTermsUseCase) extractWithModel(ctx context.Context, text string) map[string]any {
	if len(text) > uc.maxChars {
		text = text[:uc.maxChars]
	}

	user := fmt.Sprintf("PPA Text:\n\n%s\n\nExtract the key terms in JSON format.", text)
	reply, err := uc.llm.Complete(ctx, extractSystemPrompt, user)
	if err != nil {
		return map[string]any{}
	}

	var extracted map[string]any
	if err := json.Unmarshal([]byte(reply), &extracted); err == nil {
		return extracted
	}
	if repaired, err := jsonrepair.RepairJSON(reply); err == nil {
		if err := json.Unmarshal([]byte(repaired), &extracted); err == nil {
			return extracted
		}
	}

	return map[string]any{"raw_model_output": reply}
}

// identifyRedFlags inspects the merged terms. Every flag traces back to
// exactly one rule.
func identifyRedFlags(terms map[string]any) []string {
	var redFlags []string

	if years, ok := termYears(terms); ok && years < 10 {
		redFlags = append(redFlags, fmt.Sprintf(
			"Short contract term (%d years) - may impact project financing", years))
	}

	if priceStr, ok := terms["energy_price"].(string); ok && priceStr != "" {
		if m := numericPrice.FindStringSubmatch(priceStr); m != nil {
			if price, err := strconv.ParseFloat(m[1], 64); err == nil && price < 20 {
				redFlags = append(redFlags, fmt.Sprintf(
					"Low energy price ($%s/MWh) - verify market conditions",
					strconv.FormatFloat(price, 'f', -1, 64)))
			}
		}
	}

	if recTransfer, ok := terms["rec_transfer"].(bool); ok && !recTransfer {
		redFlags = append(redFlags, "RECs not transferred to buyer - impacts project economics")
	}

	var missing []string
	for _, term := range criticalTerms {
		if !presentTerm(terms[term]) {
			missing = append(missing, term)
		}
	}
	if len(missing) > 0 {
		redFlags = append(redFlags, fmt.Sprintf(
			"Missing critical terms: %s", strings.Join(missing, ", ")))
	}

	return redFlags
}

// Metrics estimates contract revenue when capacity, term and a parseable
// price are all present; otherwise it returns the zero struct.
func Metrics(terms domain.PPATerms) domain.PPAMetrics {
	if terms.ContractCapacityMW == nil || terms.DeliveryTermYears == nil || terms.EnergyPrice == "" {
		return domain.PPAMetrics{}
	}

	m := numericPrice.FindStringSubmatch(terms.EnergyPrice)
	if m == nil {
		return domain.PPAMetrics{}
	}
	price, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return domain.PPAMetrics{}
	}

	// Conservative flat capacity factor; escalation is ignored.
	const capacityFactor = 0.30

	annualEnergy := *terms.ContractCapacityMW * 8760 * capacityFactor
	annualRevenue := annualEnergy * price
	lifetimeRevenue := annualRevenue * float64(*terms.DeliveryTermYears)

	return domain.PPAMetrics{
		EstimatedAnnualEnergyMWh:    roundWhole(annualEnergy),
		EstimatedAnnualRevenueUSD:   roundWhole(annualRevenue),
		EstimatedLifetimeRevenueUSD: roundWhole(lifetimeRevenue),
	}
}

// decodeTerms maps the merged key/value form onto the typed struct.
// Fields the model invented and type mismatches are dropped, keeping
// whatever decoded cleanly.
func decodeTerms(terms map[string]any) domain.PPATerms {
	var result domain.PPATerms
	encoded, err := json.Marshal(terms)
	if err != nil {
		return result
	}
	_ = json.Unmarshal(encoded, &result)
	if result.RedFlags == nil {
		result.RedFlags = []string{}
	}
	if result.KeyRisks == nil {
		result.KeyRisks = []string{}
	}
	return result
}

func roundWhole(v float64) float64 {
	return math.Round(v)
}

func termYears(terms map[string]any) (int, bool) {
	switch v := terms["delivery_term_years"].(type) {
	case int:
		return v, v != 0
	case float64:
		return int(v), v != 0
	default:
		return 0, false
	}
}

// presentTerm mirrors truthiness: empty strings, zero numbers, false and
// nil all count as missing.
func presentTerm(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return val != ""
	case bool:
		return val
	case int:
		return val != 0
	case float64:
		return val != 0
	default:
		return true
	}
}
