package filter_test

import (
	"testing"

	"github.com/ellucian-developer/integration-sdk-go/pkg/filter"
)

func TestSimpleCriteria_Render(t *testing.T) {
	c, err := filter.NewSimpleCriteria("lastName", "Smith", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := c.Render()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := `"lastName":"Smith"`; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestSimpleCriteria_Numeric(t *testing.T) {
	c, _ := filter.NewSimpleCriteria("age", "42", true)
	got, _ := c.Render()
	if want := `"age":42`; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestSimpleCriteria_RejectsEmptyKey(t *testing.T) {
	if _, err := filter.NewSimpleCriteria("", "v", false); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestSimpleCriteriaObject_Render(t *testing.T) {
	f1, _ := filter.NewSimpleCriteria("firstName", "Jane", false)
	f2, _ := filter.NewSimpleCriteria("lastName", "Doe", false)
	o, err := filter.NewSimpleCriteriaObject("name", f1, f2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := o.Render()
	want := `"name":{"firstName":"Jane","lastName":"Doe"}`
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestSimpleCriteriaValueArray_RejectsEmptyValue(t *testing.T) {
	if _, err := filter.NewSimpleCriteriaValueArray("ids", "1", "", "3"); err == nil {
		t.Error("expected error for blank value entry")
	}
}

func TestSimpleCriteriaValueArray_Render(t *testing.T) {
	a, err := filter.NewSimpleCriteriaValueArray("ids", "1", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := a.Render()
	if want := `"ids":["1","2"]`; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestMultiCriteriaObject_UnlabeledIsBare(t *testing.T) {
	f, _ := filter.NewSimpleCriteria("status", "active", false)
	m, _ := filter.NewMultiCriteriaObject("", f)
	got, _ := m.Render()
	if want := `{"status":"active"}`; got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestSimpleCriteriaArray_Render(t *testing.T) {
	c1, _ := filter.NewSimpleCriteria("code", "UG", false)
	c2, _ := filter.NewSimpleCriteria("code", "GR", false)
	a, err := filter.NewSimpleCriteriaArray("levels", c1, c2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := a.Render()
	want := `"levels":[{"code":"UG"},{"code":"GR"}]`
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestSimpleCriteriaArray_RejectsEmptyLabel(t *testing.T) {
	if _, err := filter.NewSimpleCriteriaArray(""); err == nil {
		t.Error("expected error for empty label")
	}
}

func TestSimpleCriteriaObjectArray_Render(t *testing.T) {
	f1, _ := filter.NewSimpleCriteria("firstName", "Jane", false)
	o1, _ := filter.NewSimpleCriteriaObject("name", f1)
	f2, _ := filter.NewSimpleCriteria("firstName", "Sam", false)
	o2, _ := filter.NewSimpleCriteriaObject("name", f2)

	arr, err := filter.NewSimpleCriteriaObjectArray("names", o1, o2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := arr.Render()
	want := `"names":[{"name":{"firstName":"Jane"}},{"name":{"firstName":"Sam"}}]`
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestSimpleCriteriaObjectArray_RejectsEmptyLabel(t *testing.T) {
	if _, err := filter.NewSimpleCriteriaObjectArray(""); err == nil {
		t.Error("expected error for empty label")
	}
}

func TestMultiCriteriaObjectArray_MixedLabeling(t *testing.T) {
	f1, _ := filter.NewSimpleCriteria("status", "active", false)
	f2, _ := filter.NewSimpleCriteria("type", "student", false)

	unlabeled, _ := filter.NewMultiCriteriaObject("", f1)
	labeled, _ := filter.NewMultiCriteriaObject("role", f2)

	arr, err := filter.NewMultiCriteriaObjectArray("filters", unlabeled, labeled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := arr.Render()
	want := `"filters":[{"status":"active"},{"role":{"type":"student"}}]`
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}
