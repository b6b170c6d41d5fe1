package forms

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/awslabs/lisa-admin/internal/schema"
)

// testSchema requires a non-empty name and a non-empty url on every entry of
// the servers array.
func testSchema() Schema {
	return SchemaFunc(func(doc map[string]interface{}) []schema.Issue {
		var issues []schema.Issue

		if name, _ := doc["name"].(string); name == "" {
			issues = append(issues, schema.Issue{Path: "name", Message: "name is required"})
		}

		servers, _ := doc["servers"].([]interface{})
		for i, s := range servers {
			entry, _ := s.(map[string]interface{})
			if url, _ := entry["url"].(string); url == "" {
				issues = append(issues, schema.Issue{
					Path:    "servers[" + strconv.Itoa(i) + "].url",
					Message: "url is required",
				})
			}
		}
		return issues
	})
}

func TestSetFields_SetAndMerge(t *testing.T) {
	st := New(testSchema(), map[string]interface{}{"name": "dev"})

	if err := st.SetFields("connection", map[string]interface{}{"url": "http://a", "timeout": 5}, OpSet); err != nil {
		t.Fatal(err)
	}
	if err := st.SetFields("connection", map[string]interface{}{"timeout": 10}, OpMerge); err != nil {
		t.Fatal(err)
	}

	got, _ := st.Get("connection")
	want := map[string]interface{}{"url": "http://a", "timeout": 10}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("merge result = %v, want %v", got, want)
	}
}

func TestSetFields_UnsetArrayIndexShiftsTail(t *testing.T) {
	st := New(nil, map[string]interface{}{
		"servers": []interface{}{
			map[string]interface{}{"url": "http://a"},
			map[string]interface{}{"url": "http://b"},
			map[string]interface{}{"url": "http://c"},
		},
	})

	if err := st.SetFields("servers[1]", nil, OpUnset); err != nil {
		t.Fatal(err)
	}

	servers, _ := st.Get("servers")
	arr := servers.([]interface{})
	if len(arr) != 2 {
		t.Fatalf("len = %d, want 2", len(arr))
	}

	first := arr[0].(map[string]interface{})["url"]
	second := arr[1].(map[string]interface{})["url"]
	if first != "http://a" || second != "http://c" {
		t.Errorf("after unset: [%v, %v], want [http://a, http://c]", first, second)
	}
}

func TestSetFields_AppendToArray(t *testing.T) {
	st := New(nil, map[string]interface{}{"tags": []interface{}{"a"}})

	if err := st.SetFields("tags[1]", "b", OpSet); err != nil {
		t.Fatal(err)
	}
	if err := st.SetFields("tags[5]", "c", OpSet); err == nil {
		t.Error("expected out-of-range error for tags[5]")
	}

	tags, _ := st.Get("tags")
	if !reflect.DeepEqual(tags, []interface{}{"a", "b"}) {
		t.Errorf("tags = %v, want [a b]", tags)
	}
}

func TestSetFields_CreatesIntermediateObjects(t *testing.T) {
	st := New(nil, map[string]interface{}{})

	if err := st.SetFields("autoScaling.minCapacity", 2, OpSet); err != nil {
		t.Fatal(err)
	}

	got, ok := st.Get("autoScaling.minCapacity")
	if !ok || got != 2 {
		t.Errorf("autoScaling.minCapacity = %v (ok=%v), want 2", got, ok)
	}
}

func TestErrors_ScopedToTouchedFields(t *testing.T) {
	st := New(testSchema(), map[string]interface{}{
		"name": "",
		"servers": []interface{}{
			map[string]interface{}{"url": ""},
		},
	})

	// Nothing touched: both issues exist but none are visible
	if errs := st.Errors(); len(errs) != 0 {
		t.Fatalf("expected no visible errors, got %v", errs)
	}
	if st.Valid() {
		t.Fatal("form with issues reported valid")
	}

	valid := st.TouchFields("name")
	if valid {
		t.Error("TouchFields reported valid for an invalid form")
	}

	errs := st.Errors()
	if _, ok := errs["name"]; !ok {
		t.Error("expected visible error at name")
	}
	if _, ok := errs["servers[0].url"]; ok {
		t.Error("untouched servers[0].url should not surface an error")
	}
}

func TestErrors_TouchedParentExposesChildErrors(t *testing.T) {
	st := New(testSchema(), map[string]interface{}{
		"name": "dev",
		"servers": []interface{}{
			map[string]interface{}{"url": ""},
		},
	})

	st.TouchFields("servers")

	if _, ok := st.Errors()["servers[0].url"]; !ok {
		t.Error("touching servers should expose errors under it")
	}
}

func TestValidateAll_ExposesEverything(t *testing.T) {
	st := New(testSchema(), map[string]interface{}{
		"name": "",
		"servers": []interface{}{
			map[string]interface{}{"url": ""},
		},
	})

	if st.ValidateAll() {
		t.Error("ValidateAll reported valid for an invalid form")
	}

	errs := st.Errors()
	if len(errs) != 2 {
		t.Errorf("expected 2 visible errors, got %v", errs)
	}
}

func TestSetFields_RevalidatesAfterFix(t *testing.T) {
	st := New(testSchema(), map[string]interface{}{"name": ""})
	st.TouchFields("name")

	if _, ok := st.FieldError("name"); !ok {
		t.Fatal("expected error at name before fix")
	}

	if err := st.SetFields("name", "dev", OpSet); err != nil {
		t.Fatal(err)
	}

	if _, ok := st.FieldError("name"); ok {
		t.Error("error at name should clear after fix")
	}
	if !st.Valid() {
		t.Error("form should be valid after fix")
	}
}

func TestNew_CopiesInitialDocument(t *testing.T) {
	initial := map[string]interface{}{
		"servers": []interface{}{map[string]interface{}{"url": "http://a"}},
	}

	st := New(nil, initial)
	if err := st.SetFields("servers[0].url", "http://changed", OpSet); err != nil {
		t.Fatal(err)
	}

	orig := initial["servers"].([]interface{})[0].(map[string]interface{})["url"]
	if orig != "http://a" {
		t.Errorf("mutation leaked into the caller's document: %v", orig)
	}
}
