package filter

import (
	"reflect"
	"testing"
	"time"

	"sourcevia/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		filters []models.Filter
		want    bson.M
		wantErr bool
	}{
		{
			name:    "simple equality",
			filters: []models.Filter{{Field: "status", Operator: "eq", Value: "active"}},
			want:    bson.M{"status": "active"},
		},
		{
			name:    "greater than",
			filters: []models.Filter{{Field: "risk_score", Operator: "gt", Value: 40.0}},
			want:    bson.M{"risk_score": bson.M{"$gt": 40.0}},
		},
		{
			name:    "contains",
			filters: []models.Filter{{Field: "name", Operator: "contains", Value: "steel"}},
			want:    bson.M{"name": bson.M{"$regex": primitive.Regex{Pattern: "steel", Options: "i"}}},
		},
		{
			name:    "in list",
			filters: []models.Filter{{Field: "status", Operator: "in", Value: []interface{}{"draft", "approved"}}},
			want:    bson.M{"status": bson.M{"$in": []interface{}{"draft", "approved"}}},
		},
		{
			name: "range on one field merges",
			filters: []models.Filter{
				{Field: "risk_score", Operator: "gte", Value: 10.0},
				{Field: "risk_score", Operator: "lt", Value: 50.0},
			},
			want: bson.M{"risk_score": bson.M{"$gte": 10.0, "$lt": 50.0}},
		},
		{
			name:    "unknown operator",
			filters: []models.Filter{{Field: "status", Operator: "like", Value: "x"}},
			wantErr: true,
		},
		{
			name:    "empty field",
			filters: []models.Filter{{Operator: "eq", Value: "x"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.filters)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Compile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Compile() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCompileResolvesDates(t *testing.T) {
	got, err := Compile([]models.Filter{{Field: "created_at", Operator: "gte", Value: "2026-01-01T00:00:00Z"}})
	if err != nil {
		t.Fatal(err)
	}
	cond := got["created_at"].(bson.M)
	ts, ok := cond["$gte"].(time.Time)
	if !ok {
		t.Fatalf("date string not resolved to time.Time: %#v", cond["$gte"])
	}
	if ts.Year() != 2026 {
		t.Errorf("resolved year = %d", ts.Year())
	}
}
