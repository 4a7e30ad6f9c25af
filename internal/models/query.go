package models

import (
	"go.mongodb.org/mongo-driver/bson"
)

type Operator string

const (
	OpEq  Operator = "$eq"
	OpGt  Operator = "$gt"
	OpGte Operator = "$gte"
	OpLt  Operator = "$lt"
	OpLte Operator = "$lte"
)

type Condition struct {
	Field string
	Op    Operator
	Value any
}

// Query is a conjunction of field conditions with an optional sort.
type Query struct {
	Conditions []Condition
	OrderBy    string
	Descending bool
}

func Where(field string, op Operator, value any) Query {
	return Query{}.Where(field, op, value)
}

func (q Query) Where(field string, op Operator, value any) Query {
	conds := make([]Condition, len(q.Conditions), len(q.Conditions)+1)
	copy(conds, q.Conditions)
	q.Conditions = append(conds, Condition{Field: field, Op: op, Value: value})
	return q
}

func (q Query) Order(field string, descending bool) Query {
	q.OrderBy = field
	q.Descending = descending
	return q
}

// Filter renders the conditions as a MongoDB filter document.
func (q Query) Filter() bson.M {
	filter := bson.M{}
	for _, c := range q.Conditions {
		ops, ok := filter[c.Field].(bson.M)
		if !ok {
			ops = bson.M{}
			filter[c.Field] = ops
		}
		ops[string(c.Op)] = c.Value
	}
	return filter
}

// Sort renders the ordering as a MongoDB sort document, or nil when unordered.
func (q Query) Sort() bson.D {
	if q.OrderBy == "" {
		return nil
	}
	dir := 1
	if q.Descending {
		dir = -1
	}
	return bson.D{{Key: q.OrderBy, Value: dir}}
}
