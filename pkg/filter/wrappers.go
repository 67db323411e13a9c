package filter

import (
	"net/url"

	"github.com/ellucian-developer/integration-sdk-go/pkg/ethoserr"
)

// CriteriaFilter wraps one or more Nodes and emits "?criteria={...}".
// An empty CriteriaFilter emits "?criteria={}" rather than failing.
type CriteriaFilter struct {
	Nodes []Node
}

// NewCriteriaFilter builds a CriteriaFilter over zero or more nodes.
func NewCriteriaFilter(nodes ...Node) *CriteriaFilter {
	return &CriteriaFilter{Nodes: nodes}
}

// Render returns the full "?criteria={...}" query string.
func (f *CriteriaFilter) Render() (string, error) {
	body, err := renderNodes(f.Nodes)
	if err != nil {
		return "", err
	}
	return "?criteria={" + body + "}", nil
}

// NamedQueryFilter wraps one or more Nodes under a caller-chosen query
// parameter name and emits "?<queryName>={...}".
type NamedQueryFilter struct {
	QueryName string
	Nodes     []Node
}

// NewNamedQueryFilter validates queryName is non-empty.
func NewNamedQueryFilter(queryName string, nodes ...Node) (*NamedQueryFilter, error) {
	if queryName == "" {
		return nil, ethoserr.InvalidArg("NamedQueryFilter", "queryName", "queryName must not be empty")
	}
	return &NamedQueryFilter{QueryName: queryName, Nodes: nodes}, nil
}

// Render returns the full "?<queryName>={...}" query string.
func (f *NamedQueryFilter) Render() (string, error) {
	if f.QueryName == "" {
		return "", ethoserr.InvalidArg("NamedQueryFilter", "queryName", "queryName must not be empty")
	}
	body, err := renderNodes(f.Nodes)
	if err != nil {
		return "", err
	}
	return "?" + f.QueryName + "={" + body + "}", nil
}

func renderNodes(nodes []Node) (string, error) {
	var fields []string
	for _, n := range nodes {
		r, err := n.Render()
		if err != nil {
			return "", err
		}
		fields = append(fields, r)
	}
	return joinFields(fields), nil
}

// FilterMap emits a flat "?k1=v1&k2=v2..." query string. Map iteration
// order is not preserved — the gateway does not require one.
type FilterMap struct {
	entries map[string]string
}

// NewFilterMap builds an empty FilterMap.
func NewFilterMap() *FilterMap {
	return &FilterMap{entries: make(map[string]string)}
}

// Put validates key is non-empty and adds/overwrites an entry.
func (m *FilterMap) Put(key, value string) error {
	if key == "" {
		return ethoserr.InvalidArg("FilterMap", "key", "key must not be empty")
	}
	m.entries[key] = value
	return nil
}

// Render returns the full "?k1=v1&k2=v2..." query string.
func (m *FilterMap) Render() (string, error) {
	if len(m.entries) == 0 {
		return "", nil
	}
	q := url.Values{}
	for k, v := range m.entries {
		q.Set(k, v)
	}
	return "?" + q.Encode(), nil
}
