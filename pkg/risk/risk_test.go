package risk

import "testing"

func TestScoreDeterministic(t *testing.T) {
	policy := DefaultPolicy()
	in := Input{
		MissingFields: []string{FieldBankIBAN, FieldDocuments},
		Answered:      policy.QuestionCount,
		SafeAnswers:   7,
	}

	score1, cat1 := Score(in, policy)
	score2, cat2 := Score(in, policy)
	if score1 != score2 || cat1 != cat2 {
		t.Errorf("Score not deterministic: (%d, %s) vs (%d, %s)", score1, cat1, score2, cat2)
	}
}

func TestScoreCategories(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name string
		in   Input
		want Category
	}{
		{
			name: "complete registration and questionnaire",
			in: Input{
				Answered:    policy.QuestionCount,
				SafeAnswers: policy.QuestionCount,
			},
			want: CategoryLow,
		},
		{
			name: "complete registration, questionnaire not started",
			in:   Input{},
			want: CategoryLow,
		},
		{
			name: "one light field missing",
			in: Input{
				MissingFields: []string{FieldBankName},
				Answered:      policy.QuestionCount,
				SafeAnswers:   policy.QuestionCount - 2,
			},
			want: CategoryLow,
		},
		{
			name: "several risky answers",
			in: Input{
				Answered:    policy.QuestionCount,
				SafeAnswers: policy.QuestionCount - 10,
			},
			want: CategoryMedium,
		},
		{
			name: "no questionnaire, two missing registration fields",
			in: Input{
				MissingFields: []string{FieldDocuments, FieldBankIBAN},
			},
			want: CategoryHigh,
		},
		{
			name: "everything missing",
			in: Input{
				MissingFields: []string{
					FieldTradeLicense, FieldLicenseValid, FieldBankIBAN,
					FieldBankName, FieldTaxNumber, FieldDocuments, FieldContactEmail,
				},
				SafeAnswers: 0,
			},
			want: CategoryVeryHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := Score(tt.in, policy)
			if got != tt.want {
				t.Errorf("Score() category = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestScoreZeroForPerfectVendor(t *testing.T) {
	policy := DefaultPolicy()
	score, cat := Score(Input{Answered: policy.QuestionCount, SafeAnswers: policy.QuestionCount}, policy)
	if score != 0 || cat != CategoryLow {
		t.Errorf("perfect vendor scored (%d, %s), want (0, low)", score, cat)
	}

	// Over-reporting answers must not push the score negative.
	score, _ = Score(Input{Answered: policy.QuestionCount, SafeAnswers: policy.QuestionCount + 5}, policy)
	if score != 0 {
		t.Errorf("clamped score = %d, want 0", score)
	}
}

func TestScoreAbsentQuestionnaireNotRisky(t *testing.T) {
	policy := DefaultPolicy()

	// A questionnaire that has not been started contributes nothing; only
	// the registration fields count.
	score, cat := Score(Input{}, policy)
	if score != 0 || cat != CategoryLow {
		t.Errorf("fresh complete vendor scored (%d, %s), want (0, low)", score, cat)
	}

	// Once answers exist, skipped questions count against the vendor.
	withAnswers, _ := Score(Input{Answered: 1, SafeAnswers: 1}, policy)
	if withAnswers <= score {
		t.Errorf("partial questionnaire score = %d, want above %d", withAnswers, score)
	}
}

func TestDDRequired(t *testing.T) {
	tests := []struct {
		category    Category
		outsourcing bool
		want        bool
	}{
		{CategoryLow, false, false},
		{CategoryMedium, false, false},
		{CategoryHigh, false, true},
		{CategoryVeryHigh, false, true},
		{CategoryLow, true, true},
		{CategoryMedium, true, true},
	}

	for _, tt := range tests {
		if got := DDRequired(tt.category, tt.outsourcing); got != tt.want {
			t.Errorf("DDRequired(%s, %v) = %v, want %v", tt.category, tt.outsourcing, got, tt.want)
		}
	}
}

func TestPolicyValidate(t *testing.T) {
	good := DefaultPolicy()
	if err := good.Validate(); err != nil {
		t.Errorf("DefaultPolicy().Validate() = %v", err)
	}

	bad := DefaultPolicy()
	bad.MediumPct = 90 // above LowPct
	if err := bad.Validate(); err == nil {
		t.Error("inverted thresholds accepted")
	}

	empty := Policy{}
	if err := empty.Validate(); err == nil {
		t.Error("empty policy accepted")
	}
}
