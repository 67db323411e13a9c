package filter

import (
	"strconv"

	"github.com/ellucian-developer/integration-sdk-go/pkg/ethoserr"
)

// NamedQuery is a self-contained filter: it carries its own gateway
// query-parameter name and renders the full "?name={...}" string.
type NamedQuery struct {
	Name  string
	Key   string
	Value string
}

// NewNamedQuery validates name and key are non-empty.
func NewNamedQuery(name, key, value string) (*NamedQuery, error) {
	if name == "" {
		return nil, ethoserr.InvalidArg("NamedQuery", "name", "name must not be empty")
	}
	if key == "" {
		return nil, ethoserr.InvalidArg("NamedQuery", "key", "key must not be empty")
	}
	return &NamedQuery{Name: name, Key: key, Value: value}, nil
}

// Render returns the full "?name={...}" query string.
func (q *NamedQuery) Render() (string, error) {
	if q.Name == "" {
		return "", ethoserr.InvalidArg("NamedQuery", "name", "name must not be empty")
	}
	c, err := NewSimpleCriteria(q.Key, q.Value, false)
	if err != nil {
		return "", err
	}
	inner, err := c.Render()
	if err != nil {
		return "", err
	}
	return "?" + q.Name + "={" + inner + "}", nil
}

// NamedQueryObject renders "?name={\"label\":{\"key\":\"value\"}}".
type NamedQueryObject struct {
	Name  string
	Label string
	Key   string
	Value string
}

// NewNamedQueryObject validates name, label, and key are non-empty.
func NewNamedQueryObject(name, label, key, value string) (*NamedQueryObject, error) {
	if name == "" {
		return nil, ethoserr.InvalidArg("NamedQueryObject", "name", "name must not be empty")
	}
	if label == "" {
		return nil, ethoserr.InvalidArg("NamedQueryObject", "label", "label must not be empty")
	}
	if key == "" {
		return nil, ethoserr.InvalidArg("NamedQueryObject", "key", "key must not be empty")
	}
	return &NamedQueryObject{Name: name, Label: label, Key: key, Value: value}, nil
}

// Render returns the full "?name={...}" query string.
func (q *NamedQueryObject) Render() (string, error) {
	obj, err := NewSimpleCriteriaObject(q.Label, &SimpleCriteria{Key: q.Key, Value: q.Value})
	if err != nil {
		return "", err
	}
	inner, err := obj.Render()
	if err != nil {
		return "", err
	}
	return "?" + q.Name + "={" + inner + "}", nil
}

// NamedQueryCombination combines a NamedQuery with an optional
// SimpleCriteriaObject appended as an additional field.
type NamedQueryCombination struct {
	Query *NamedQuery
	Extra *SimpleCriteriaObject
}

// NewNamedQueryCombination requires a valid base query; extra may be nil.
func NewNamedQueryCombination(query *NamedQuery, extra *SimpleCriteriaObject) (*NamedQueryCombination, error) {
	if query == nil {
		return nil, ethoserr.InvalidArg("NamedQueryCombination", "query", "query must not be nil")
	}
	return &NamedQueryCombination{Query: query, Extra: extra}, nil
}

// Render returns the full "?name={...}" query string.
func (c *NamedQueryCombination) Render() (string, error) {
	base, err := NewSimpleCriteria(c.Query.Key, c.Query.Value, false)
	if err != nil {
		return "", err
	}
	baseRendered, err := base.Render()
	if err != nil {
		return "", err
	}

	fields := []string{baseRendered}
	if c.Extra != nil {
		extraRendered, err := c.Extra.Render()
		if err != nil {
			return "", err
		}
		fields = append(fields, extraRendered)
	}
	return "?" + c.Query.Name + "={" + joinFields(fields) + "}", nil
}

// NamedQueryObjectArrayCombination combines a NamedQueryObject with an
// additional array-valued field.
type NamedQueryObjectArrayCombination struct {
	Object     *NamedQueryObject
	ArrayLabel string
	Items      []*SimpleCriteriaObject
}

// NewNamedQueryObjectArrayCombination validates object and arrayLabel.
func NewNamedQueryObjectArrayCombination(object *NamedQueryObject, arrayLabel string, items ...*SimpleCriteriaObject) (*NamedQueryObjectArrayCombination, error) {
	if object == nil {
		return nil, ethoserr.InvalidArg("NamedQueryObjectArrayCombination", "object", "object must not be nil")
	}
	if arrayLabel == "" {
		return nil, ethoserr.InvalidArg("NamedQueryObjectArrayCombination", "arrayLabel", "arrayLabel must not be empty")
	}
	return &NamedQueryObjectArrayCombination{Object: object, ArrayLabel: arrayLabel, Items: items}, nil
}

// Render returns the full "?name={...}" query string.
func (c *NamedQueryObjectArrayCombination) Render() (string, error) {
	innerObj, err := NewSimpleCriteriaObject(c.Object.Label, &SimpleCriteria{Key: c.Object.Key, Value: c.Object.Value})
	if err != nil {
		return "", err
	}
	innerRendered, err := innerObj.Render()
	if err != nil {
		return "", err
	}

	var elems []string
	for _, item := range c.Items {
		r, err := item.Render()
		if err != nil {
			return "", err
		}
		elems = append(elems, "{"+r+"}")
	}
	arrayField := strconv.Quote(c.ArrayLabel) + ":[" + joinFields(elems) + "]"

	return "?" + c.Object.Name + "={" + joinFields([]string{innerRendered, arrayField}) + "}", nil
}
