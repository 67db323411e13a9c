package filter_test

import (
	"testing"

	"github.com/ellucian-developer/integration-sdk-go/pkg/filter"
)

func TestCriteriaFilter_Render(t *testing.T) {
	c, _ := filter.NewSimpleCriteria("lastName", "Smith", false)
	f := filter.NewCriteriaFilter(c)
	got, err := f.Render()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `?criteria={"lastName":"Smith"}`; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestCriteriaFilter_EmptyStillRenders(t *testing.T) {
	f := filter.NewCriteriaFilter()
	got, err := f.Render()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "?criteria={}"; got != want {
		t.Errorf("empty CriteriaFilter.Render() = %q, want %q", got, want)
	}
}

func TestNamedQueryFilter_RejectsEmptyName(t *testing.T) {
	if _, err := filter.NewNamedQueryFilter(""); err == nil {
		t.Error("expected error for empty queryName")
	}
}

func TestFilterMap_Render(t *testing.T) {
	m := filter.NewFilterMap()
	if err := m.Put("lastName", "Smith"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := m.Render()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "?lastName=Smith"; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestFilterMap_EmptyRendersBlank(t *testing.T) {
	m := filter.NewFilterMap()
	got, err := m.Render()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("empty FilterMap.Render() = %q, want empty string", got)
	}
}

func TestFilterMap_RejectsEmptyKey(t *testing.T) {
	m := filter.NewFilterMap()
	if err := m.Put("", "v"); err == nil {
		t.Error("expected error for empty key")
	}
}
