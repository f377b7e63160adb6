package models

// Change records one field's before/after values for the audit trail.
type Change struct {
	Old interface{} `bson:"old,omitempty" json:"old,omitempty"`
	New interface{} `bson:"new,omitempty" json:"new,omitempty"`
}

// Filter is one client-supplied list/search predicate.
type Filter struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"` // eq, ne, gt, gte, lt, lte, contains, in
	Value    interface{} `json:"value"`
}

// SearchRequest is the body of every module's POST /search endpoint.
type SearchRequest struct {
	Filters []Filter `json:"filters"`
	Page    int64    `json:"page"`
	Limit   int64    `json:"limit"`
}

func (r *SearchRequest) Normalize() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 200 {
		r.Limit = 50
	}
}
