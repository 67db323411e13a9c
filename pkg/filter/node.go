// Package filter implements the gateway's composable filter expression
// tree: a set of builder types that validate their inputs and render
// the exact JSON fragments the gateway's query-string filters expect.
package filter

import (
	"strconv"
	"strings"

	"github.com/ellucian-developer/integration-sdk-go/pkg/ethoserr"
)

// Node is a composable criteria fragment: it renders to a bare JSON
// fragment (no "?criteria=" or "?name=" prefix) so it can be nested
// inside a CriteriaFilter, NamedQueryFilter, or another Node.
type Node interface {
	Render() (string, error)
}

func quoteValue(value string, numeric bool) string {
	if numeric {
		return value
	}
	return strconv.Quote(value)
}

func joinFields(fields []string) string {
	return strings.Join(fields, ",")
}

// SimpleCriteria renders "key":"value", or "key":value when Numeric is
// set (skipping JSON quoting for numeric literals).
type SimpleCriteria struct {
	Key     string
	Value   string
	Numeric bool
}

// NewSimpleCriteria validates key is non-empty and returns a SimpleCriteria.
func NewSimpleCriteria(key, value string, numeric bool) (*SimpleCriteria, error) {
	if key == "" {
		return nil, ethoserr.InvalidArg("SimpleCriteria", "key", "key must not be empty")
	}
	return &SimpleCriteria{Key: key, Value: value, Numeric: numeric}, nil
}

// Render implements Node.
func (c *SimpleCriteria) Render() (string, error) {
	if c.Key == "" {
		return "", ethoserr.InvalidArg("SimpleCriteria", "key", "key must not be empty")
	}
	return strconv.Quote(c.Key) + ":" + quoteValue(c.Value, c.Numeric), nil
}

// SimpleCriteriaObject renders "label":{f1,f2,...} from a set of inner
// SimpleCriteria fields.
type SimpleCriteriaObject struct {
	Label  string
	Fields []*SimpleCriteria
}

// NewSimpleCriteriaObject validates label is non-empty.
func NewSimpleCriteriaObject(label string, fields ...*SimpleCriteria) (*SimpleCriteriaObject, error) {
	if label == "" {
		return nil, ethoserr.InvalidArg("SimpleCriteriaObject", "label", "label must not be empty")
	}
	return &SimpleCriteriaObject{Label: label, Fields: fields}, nil
}

// Render implements Node.
func (o *SimpleCriteriaObject) Render() (string, error) {
	if o.Label == "" {
		return "", ethoserr.InvalidArg("SimpleCriteriaObject", "label", "label must not be empty")
	}
	rendered, err := renderAll(o.Fields)
	if err != nil {
		return "", err
	}
	return strconv.Quote(o.Label) + ":{" + joinFields(rendered) + "}", nil
}

// SimpleCriteriaArray renders "label":[{c},...] from a list of
// SimpleCriteria, each wrapped as its own object.
type SimpleCriteriaArray struct {
	Label string
	Items []*SimpleCriteria
}

// NewSimpleCriteriaArray validates label is non-empty.
func NewSimpleCriteriaArray(label string, items ...*SimpleCriteria) (*SimpleCriteriaArray, error) {
	if label == "" {
		return nil, ethoserr.InvalidArg("SimpleCriteriaArray", "label", "label must not be empty")
	}
	return &SimpleCriteriaArray{Label: label, Items: items}, nil
}

// Render implements Node.
func (a *SimpleCriteriaArray) Render() (string, error) {
	if a.Label == "" {
		return "", ethoserr.InvalidArg("SimpleCriteriaArray", "label", "label must not be empty")
	}
	var elems []string
	for _, item := range a.Items {
		r, err := item.Render()
		if err != nil {
			return "", err
		}
		elems = append(elems, "{"+r+"}")
	}
	return strconv.Quote(a.Label) + ":[" + joinFields(elems) + "]", nil
}

// SimpleCriteriaValueArray renders "key":["v1","v2",...]. Unlike the
// other variants, an empty value in Values is explicitly rejected.
type SimpleCriteriaValueArray struct {
	Key    string
	Values []string
}

// NewSimpleCriteriaValueArray validates key is non-empty and rejects
// any blank value.
func NewSimpleCriteriaValueArray(key string, values ...string) (*SimpleCriteriaValueArray, error) {
	if key == "" {
		return nil, ethoserr.InvalidArg("SimpleCriteriaValueArray", "key", "key must not be empty")
	}
	for _, v := range values {
		if v == "" {
			return nil, ethoserr.InvalidArg("SimpleCriteriaValueArray", "values", "value entries must not be empty")
		}
	}
	return &SimpleCriteriaValueArray{Key: key, Values: values}, nil
}

// Render implements Node.
func (a *SimpleCriteriaValueArray) Render() (string, error) {
	if a.Key == "" {
		return "", ethoserr.InvalidArg("SimpleCriteriaValueArray", "key", "key must not be empty")
	}
	var elems []string
	for _, v := range a.Values {
		if v == "" {
			return "", ethoserr.InvalidArg("SimpleCriteriaValueArray", "values", "value entries must not be empty")
		}
		elems = append(elems, strconv.Quote(v))
	}
	return strconv.Quote(a.Key) + ":[" + joinFields(elems) + "]", nil
}

// SimpleCriteriaObjectArray renders "label":[{o},...] from a list of
// SimpleCriteriaObject, each re-wrapped as its own object.
type SimpleCriteriaObjectArray struct {
	Label string
	Items []*SimpleCriteriaObject
}

// NewSimpleCriteriaObjectArray validates label is non-empty.
func NewSimpleCriteriaObjectArray(label string, items ...*SimpleCriteriaObject) (*SimpleCriteriaObjectArray, error) {
	if label == "" {
		return nil, ethoserr.InvalidArg("SimpleCriteriaObjectArray", "label", "label must not be empty")
	}
	return &SimpleCriteriaObjectArray{Label: label, Items: items}, nil
}

// Render implements Node.
func (a *SimpleCriteriaObjectArray) Render() (string, error) {
	if a.Label == "" {
		return "", ethoserr.InvalidArg("SimpleCriteriaObjectArray", "label", "label must not be empty")
	}
	var elems []string
	for _, item := range a.Items {
		r, err := item.Render()
		if err != nil {
			return "", err
		}
		elems = append(elems, "{"+r+"}")
	}
	return strconv.Quote(a.Label) + ":[" + joinFields(elems) + "]", nil
}

// MultiCriteriaObject renders "label":{c,c,...} when Label is set, or
// a bare {c,c,...} object when Label is empty — the empty-label form
// is what lets MultiCriteriaObjectArray decide whether to re-wrap its
// elements.
type MultiCriteriaObject struct {
	Label string
	Items []*SimpleCriteria
}

// NewMultiCriteriaObject builds a MultiCriteriaObject. Label is
// optional — pass "" for an unlabeled object.
func NewMultiCriteriaObject(label string, items ...*SimpleCriteria) (*MultiCriteriaObject, error) {
	return &MultiCriteriaObject{Label: label, Items: items}, nil
}

// Render implements Node.
func (m *MultiCriteriaObject) Render() (string, error) {
	rendered, err := renderAll(m.Items)
	if err != nil {
		return "", err
	}
	body := "{" + joinFields(rendered) + "}"
	if m.Label == "" {
		return body, nil
	}
	return strconv.Quote(m.Label) + ":" + body, nil
}

// MultiCriteriaObjectArray renders "label":[{o},...] when the inner
// MultiCriteriaObject carries its own label (re-wrapping it as an
// object), or "label":[o,...] when the inner object is already bare.
type MultiCriteriaObjectArray struct {
	Label string
	Items []*MultiCriteriaObject
}

// NewMultiCriteriaObjectArray validates label is non-empty.
func NewMultiCriteriaObjectArray(label string, items ...*MultiCriteriaObject) (*MultiCriteriaObjectArray, error) {
	if label == "" {
		return nil, ethoserr.InvalidArg("MultiCriteriaObjectArray", "label", "label must not be empty")
	}
	return &MultiCriteriaObjectArray{Label: label, Items: items}, nil
}

// Render implements Node.
func (a *MultiCriteriaObjectArray) Render() (string, error) {
	if a.Label == "" {
		return "", ethoserr.InvalidArg("MultiCriteriaObjectArray", "label", "label must not be empty")
	}
	var elems []string
	for _, item := range a.Items {
		r, err := item.Render()
		if err != nil {
			return "", err
		}
		if item.Label != "" {
			elems = append(elems, "{"+r+"}")
		} else {
			elems = append(elems, r)
		}
	}
	return strconv.Quote(a.Label) + ":[" + joinFields(elems) + "]", nil
}

func renderAll(items []*SimpleCriteria) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		r, err := item.Render()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
