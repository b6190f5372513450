package database

import (
	"fmt"
	"strings"
)

const (
	columnAnnotationID = "aid"
	columnProjectID    = "pid"
	columnTimestamp    = "timestamp_seconds"
	columnText         = "text"
)

const maxLimit = 1000

// QueryBuilder helps build WHERE clauses safely.
// Column names come from the constants above; values are always bound as $n.
type QueryBuilder struct {
	conditions []string
	args       []interface{}
	argCount   int
}

func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{
		conditions: []string{},
		args:       []interface{}{},
		argCount:   1,
	}
}

func (qb *QueryBuilder) AddCondition(column string, value interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf("%s = $%d", column, qb.argCount))
	qb.args = append(qb.args, value)
	qb.argCount++
}

// AddRange adds inclusive bounds on column. Nil bounds are skipped.
func (qb *QueryBuilder) AddRange(column string, from, to *float64) error {
	if from != nil && to != nil && *from > *to {
		return fmt.Errorf("invalid range: from %.3f is after to %.3f", *from, *to)
	}

	if from != nil {
		qb.conditions = append(qb.conditions, fmt.Sprintf("%s >= $%d", column, qb.argCount))
		qb.args = append(qb.args, *from)
		qb.argCount++
	}

	if to != nil {
		qb.conditions = append(qb.conditions, fmt.Sprintf("%s <= $%d", column, qb.argCount))
		qb.args = append(qb.args, *to)
		qb.argCount++
	}

	return nil
}

func (qb *QueryBuilder) AddFullTextSearch(column, tsQuery string) {
	qb.conditions = append(qb.conditions,
		fmt.Sprintf("to_tsvector('english', %s) @@ to_tsquery('english', $%d)", column, qb.argCount))
	qb.args = append(qb.args, tsQuery)
	qb.argCount++
}

// Page returns the LIMIT/OFFSET tail for a listing and binds its values.
// A non-positive limit leaves the listing unbounded.
func (qb *QueryBuilder) Page(limit, offset int) string {
	limit, offset = pageBounds(limit, offset)

	var clause string
	if limit > 0 {
		clause += fmt.Sprintf(" LIMIT $%d", qb.argCount)
		qb.args = append(qb.args, limit)
		qb.argCount++
	}
	if offset > 0 {
		clause += fmt.Sprintf(" OFFSET $%d", qb.argCount)
		qb.args = append(qb.args, offset)
		qb.argCount++
	}
	return clause
}

func (qb *QueryBuilder) WhereClause() string {
	if len(qb.conditions) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(qb.conditions, " AND ")
}

func (qb *QueryBuilder) Args() []interface{} {
	return qb.args
}

func (qb *QueryBuilder) NextArgNum() int {
	return qb.argCount
}

// Helper functions

// pageBounds normalizes caller paging. A zero limit means no limit.
func pageBounds(limit, offset int) (int, int) {
	if limit < 0 {
		limit = 0
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
