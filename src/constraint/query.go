package constraint

import (
	"fmt"

	"typeshift/src/config"
)

// ConditionType names a filter comparison.
type ConditionType string

const (
	ConditionEquals        ConditionType = "eq"
	ConditionNotEquals     ConditionType = "neq"
	ConditionLowerThan     ConditionType = "lt"
	ConditionLowerThanEq   ConditionType = "lte"
	ConditionGreaterThan   ConditionType = "gt"
	ConditionGreaterThanEq ConditionType = "gte"
	ConditionBetween       ConditionType = "between"
	ConditionNotBetween    ConditionType = "notBetween"
	ConditionIsEmpty       ConditionType = "empty"
	ConditionNotEmpty      ConditionType = "notEmpty"
)

// ConditionValue is one operand of a filter condition.
type ConditionValue struct {
	Type  string      `json:"type,omitempty" yaml:"type,omitempty"`
	Value interface{} `json:"value" yaml:"value"`
}

// AttributeFilter restricts one attribute of a resource.
type AttributeFilter struct {
	AttributeID     string           `json:"attributeId" yaml:"attributeId"`
	Condition       ConditionType    `json:"condition" yaml:"condition"`
	ConditionValues []ConditionValue `json:"conditionValues" yaml:"conditionValues"`
}

// CollectionAttributeFilter filters documents of a collection.
type CollectionAttributeFilter struct {
	CollectionID    string `json:"collectionId" yaml:"collectionId"`
	AttributeFilter `yaml:",inline"`
}

// LinkAttributeFilter filters link instances of a link type.
type LinkAttributeFilter struct {
	LinkTypeID      string `json:"linkTypeId" yaml:"linkTypeId"`
	AttributeFilter `yaml:",inline"`
}

// QueryStage is one step of a query.
type QueryStage struct {
	CollectionID string                      `json:"collectionId,omitempty" yaml:"collectionId,omitempty"`
	LinkTypeIDs  []string                    `json:"linkTypeIds,omitempty" yaml:"linkTypeIds,omitempty"`
	Filters      []CollectionAttributeFilter `json:"filters,omitempty" yaml:"filters,omitempty"`
	LinkFilters  []LinkAttributeFilter       `json:"linkFilters,omitempty" yaml:"linkFilters,omitempty"`
	Fulltexts    []string                    `json:"fulltexts,omitempty" yaml:"fulltexts,omitempty"`
}

// Query is a structured search over collections and link types. This
// package only transforms its filter values; it never executes it.
type Query struct {
	Stages    []QueryStage `json:"stages" yaml:"stages"`
	Fulltexts []string     `json:"fulltexts,omitempty" yaml:"fulltexts,omitempty"`
	Page      *int         `json:"page,omitempty" yaml:"page,omitempty"`
	PageSize  *int         `json:"pageSize,omitempty" yaml:"pageSize,omitempty"`
}

// EncodeQuery returns a copy of q with every filter value encoded under the
// constraint of the filtered attribute.
func (m *Manager) EncodeQuery(q Query, collections []config.Collection, linkTypes []config.LinkType) (Query, error) {
	return processQuery(q, collections, linkTypes, m.EncodeConstraint)
}

// DecodeQuery returns a copy of q with every filter value decoded under the
// constraint of the filtered attribute.
func (m *Manager) DecodeQuery(q Query, collections []config.Collection, linkTypes []config.LinkType) (Query, error) {
	return processQuery(q, collections, linkTypes, m.Decode)
}

func processQuery(q Query, collections []config.Collection, linkTypes []config.LinkType, process valueProcessor) (Query, error) {
	collectionConstraints := make(map[string]map[string]*config.Constraint, len(collections))
	for _, c := range collections {
		collectionConstraints[c.ID] = config.Constraints(c)
	}
	linkTypeConstraints := make(map[string]map[string]*config.Constraint, len(linkTypes))
	for _, l := range linkTypes {
		linkTypeConstraints[l.ID] = config.Constraints(l)
	}

	result := q
	result.Stages = make([]QueryStage, len(q.Stages))
	for i, stage := range q.Stages {
		processed := stage

		processed.Filters = make([]CollectionAttributeFilter, len(stage.Filters))
		for j, f := range stage.Filters {
			filter, err := processFilter(f.AttributeFilter, collectionConstraints[f.CollectionID], process)
			if err != nil {
				return Query{}, fmt.Errorf("collection %s filter: %w", f.CollectionID, err)
			}
			processed.Filters[j] = CollectionAttributeFilter{CollectionID: f.CollectionID, AttributeFilter: filter}
		}

		processed.LinkFilters = make([]LinkAttributeFilter, len(stage.LinkFilters))
		for j, f := range stage.LinkFilters {
			filter, err := processFilter(f.AttributeFilter, linkTypeConstraints[f.LinkTypeID], process)
			if err != nil {
				return Query{}, fmt.Errorf("link type %s filter: %w", f.LinkTypeID, err)
			}
			processed.LinkFilters[j] = LinkAttributeFilter{LinkTypeID: f.LinkTypeID, AttributeFilter: filter}
		}

		result.Stages[i] = processed
	}
	return result, nil
}

func processFilter(f AttributeFilter, constraints map[string]*config.Constraint, process valueProcessor) (AttributeFilter, error) {
	result := f
	result.ConditionValues = make([]ConditionValue, len(f.ConditionValues))
	for i, cv := range f.ConditionValues {
		value, err := process(cv.Value, constraints[f.AttributeID])
		if err != nil {
			return AttributeFilter{}, err
		}
		result.ConditionValues[i] = ConditionValue{Type: cv.Type, Value: value}
	}
	return result, nil
}
