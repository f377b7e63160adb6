package filter

import (
	"fmt"
	"time"

	"sourcevia/internal/common/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile turns client list filters into a Mongo query document. Unknown
// operators are rejected rather than ignored so a typo never widens a
// result set.
func Compile(filters []models.Filter) (bson.M, error) {
	query := bson.M{}
	for _, f := range filters {
		if f.Field == "" {
			return nil, fmt.Errorf("filter with empty field")
		}
		cond, err := compileOne(f)
		if err != nil {
			return nil, err
		}
		// Multiple filters on the same field AND together.
		if existing, ok := query[f.Field]; ok {
			merged, okM := existing.(bson.M)
			addition, okA := cond.(bson.M)
			if okM && okA {
				for k, v := range addition {
					merged[k] = v
				}
				continue
			}
			return nil, fmt.Errorf("conflicting filters on field %q", f.Field)
		}
		query[f.Field] = cond
	}
	return query, nil
}

func compileOne(f models.Filter) (interface{}, error) {
	val := resolveValue(f.Value)

	switch f.Operator {
	case "", "eq":
		return val, nil
	case "ne":
		return bson.M{"$ne": val}, nil
	case "gt":
		return bson.M{"$gt": val}, nil
	case "gte":
		return bson.M{"$gte": val}, nil
	case "lt":
		return bson.M{"$lt": val}, nil
	case "lte":
		return bson.M{"$lte": val}, nil
	case "contains":
		s, ok := f.Value.(string)
		if !ok {
			return nil, fmt.Errorf("contains filter on %q requires a string value", f.Field)
		}
		return bson.M{"$regex": primitive.Regex{Pattern: s, Options: "i"}}, nil
	case "in":
		list, ok := f.Value.([]interface{})
		if !ok {
			return nil, fmt.Errorf("in filter on %q requires a list value", f.Field)
		}
		return bson.M{"$in": list}, nil
	default:
		return nil, fmt.Errorf("unknown filter operator %q", f.Operator)
	}
}

// resolveValue upgrades RFC3339 strings to times so range operators compare
// chronologically rather than lexically.
func resolveValue(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return v
}
