package types

import (
	"encoding/json"
	"fmt"
)

// Condition is one of the fixed adaptation conditions a teacher can request.
type Condition string

const (
	ConditionDI          Condition = "DI"
	ConditionTEA         Condition = "TEA"
	ConditionDislexia    Condition = "DISLEXIA"
	ConditionDisgrafia   Condition = "DISGRAFIA"
	ConditionDiscalculia Condition = "DISCALCULIA"
	ConditionTDAH        Condition = "TDAH"
)

var AllConditions = []Condition{
	ConditionDI,
	ConditionTEA,
	ConditionDislexia,
	ConditionDisgrafia,
	ConditionDiscalculia,
	ConditionTDAH,
}

func (c Condition) Valid() bool {
	for _, known := range AllConditions {
		if c == known {
			return true
		}
	}
	return false
}

// ParseConditions decodes the JSON condition list submitted with the intake
// form. The list must be non-empty and contain only known conditions.
func ParseConditions(raw string) ([]Condition, error) {
	var conditions []Condition
	if err := json.Unmarshal([]byte(raw), &conditions); err != nil {
		return nil, fmt.Errorf("invalid condition list: %w", err)
	}
	if len(conditions) == 0 {
		return nil, fmt.Errorf("at least one condition is required")
	}
	for _, c := range conditions {
		if !c.Valid() {
			return nil, fmt.Errorf("unknown condition %q", c)
		}
	}
	return conditions, nil
}

// HasCondition reports whether the answer-dependent (or any other) condition
// is part of the requested set.
func HasCondition(conditions []Condition, target Condition) bool {
	for _, c := range conditions {
		if c == target {
			return true
		}
	}
	return false
}
