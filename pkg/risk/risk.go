package risk

import "sourcevia/internal/common/errs"

// Category buckets a vendor's risk score.
type Category string

const (
	CategoryLow      Category = "low"
	CategoryMedium   Category = "medium"
	CategoryHigh     Category = "high"
	CategoryVeryHigh Category = "very_high"
)

// Required registration fields. Each one missing adds its weight to the
// score.
const (
	FieldTradeLicense = "trade_license"
	FieldLicenseValid = "license_valid"
	FieldBankIBAN     = "bank_iban"
	FieldBankName     = "bank_name"
	FieldTaxNumber    = "tax_number"
	FieldDocuments    = "documents"
	FieldContactEmail = "contact_email"
)

// Due-diligence questionnaire categories. Two questions per category. Once
// the questionnaire has been started, a skipped or negative answer counts
// as risky; a questionnaire not yet begun contributes nothing either way.
var QuestionnaireCategories = []string{
	"business_continuity",
	"anti_fraud",
	"operational",
	"cyber",
	"safety",
	"hr",
	"legal",
	"regulatory",
	"conflict_of_interest",
}

// Policy holds every weight and threshold in one place. The numbers are
// business policy, not derived values; deployments that need different cut
// points substitute their own Policy.
type Policy struct {
	FieldWeights  map[string]int
	AnswerWeight  int
	QuestionCount int
	// Safe-percentage cut points: a vendor at or above LowPct of the safe
	// maximum is low risk, and so on down. Below HighPct is very_high.
	LowPct    int
	MediumPct int
	HighPct   int
}

// DefaultPolicy is the stock Sourcevia scoring table.
func DefaultPolicy() Policy {
	return Policy{
		FieldWeights: map[string]int{
			FieldTradeLicense: 20,
			FieldLicenseValid: 10,
			FieldBankIBAN:     20,
			FieldBankName:     5,
			FieldTaxNumber:    10,
			FieldDocuments:    20,
			FieldContactEmail: 5,
		},
		AnswerWeight:  5,
		QuestionCount: len(QuestionnaireCategories) * 2,
		LowPct:        80,
		MediumPct:     60,
		HighPct:       40,
	}
}

// Validate rejects malformed policies at startup.
func (p Policy) Validate() error {
	if len(p.FieldWeights) == 0 || p.AnswerWeight <= 0 || p.QuestionCount <= 0 {
		return errs.Configuration("risk policy is missing weights")
	}
	if !(p.LowPct > p.MediumPct && p.MediumPct > p.HighPct && p.HighPct > 0 && p.LowPct <= 100) {
		return errs.Configuration("risk policy thresholds must satisfy 0 < high < medium < low <= 100, got %d/%d/%d",
			p.HighPct, p.MediumPct, p.LowPct)
	}
	return nil
}

// Input is the scoring-relevant slice of a vendor, assembled by the vendor
// service from the stored record. MissingFields holds field names from the
// Field* constants; Answered is the number of questionnaire answers on
// record and SafeAnswers counts those where the control is confirmed in
// place.
type Input struct {
	MissingFields []string
	Answered      int
	SafeAnswers   int
}

// Score is deterministic: identical input yields an identical result. It is
// recomputed wholesale on every mutation of scoring-relevant fields, never
// incrementally patched. The questionnaire only enters the calculation once
// at least one answer exists; before that, both the score and the safe
// maximum are registration-only.
func Score(in Input, p Policy) (int, Category) {
	score := 0
	for _, f := range in.MissingFields {
		score += p.FieldWeights[f]
	}

	max := 0
	for _, w := range p.FieldWeights {
		max += w
	}

	if in.Answered > 0 {
		safe := in.SafeAnswers
		if safe > p.QuestionCount {
			safe = p.QuestionCount
		}
		score += (p.QuestionCount - safe) * p.AnswerWeight
		max += p.QuestionCount * p.AnswerWeight
	}

	safePct := 100 - score*100/max
	switch {
	case safePct >= p.LowPct:
		return score, CategoryLow
	case safePct >= p.MediumPct:
		return score, CategoryMedium
	case safePct >= p.HighPct:
		return score, CategoryHigh
	default:
		return score, CategoryVeryHigh
	}
}

// DDRequired derives the due-diligence flag from the risk category and any
// outsourcing classification on a linked contract.
func DDRequired(category Category, outsourcing bool) bool {
	return category == CategoryHigh || category == CategoryVeryHigh || outsourcing
}
