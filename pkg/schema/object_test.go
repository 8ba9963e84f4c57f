package schema

import (
	"encoding/json"
	"reflect"
	"testing"
)

func searchArgs() Object {
	return Object{
		Fields: Fields{
			"query":    {Type: String(), Required: true},
			"page":     {Type: Int(), Default: 1},
			"per_page": {Type: Int(), Default: 30},
			"archived": {Type: Bool()},
		},
	}
}

func TestObjectValidate_Success(t *testing.T) {
	clean, err := searchArgs().Validate(map[string]any{
		"query":    "language:go stars:>1000",
		"archived": false,
	})
	if err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}

	if clean["query"] != "language:go stars:>1000" {
		t.Errorf("query = %v", clean["query"])
	}
	if clean["page"] != 1 || clean["per_page"] != 30 {
		t.Errorf("defaults not applied: %v", clean)
	}
	if clean["archived"] != false {
		t.Errorf("archived = %v", clean["archived"])
	}
}

func TestObjectValidate_MissingRequired(t *testing.T) {
	obj := Object{
		Fields: Fields{
			"owner": {Type: String(), Required: true},
			"repo":  {Type: String(), Required: true},
			"path":  {Type: String(), Required: true},
		},
	}

	_, err := obj.Validate(map[string]any{"path": "README.md"})
	if err == nil {
		t.Fatal("Validate() should return error for missing fields")
	}

	// Every missing field must be reported, not just the first.
	fields := ViolatedFields(err)
	if len(fields) != 2 {
		t.Fatalf("ViolatedFields() = %v, want 2 entries", fields)
	}
	want := map[string]bool{"owner": true, "repo": true}
	for _, f := range fields {
		if !want[f] {
			t.Errorf("unexpected violated field %q", f)
		}
	}
}

func TestObjectValidate_TypeMismatch(t *testing.T) {
	_, err := searchArgs().Validate(map[string]any{
		"query": 42,
		"page":  "one",
	})
	if err == nil {
		t.Fatal("Validate() should return error for type mismatch")
	}

	aggr, ok := err.(*AggregateError)
	if !ok {
		t.Fatalf("error should be *AggregateError, got %T", err)
	}
	if len(aggr.Errors) != 2 {
		t.Errorf("Validate() = %d errors, want 2", len(aggr.Errors))
	}
}

func TestObjectValidate_UnknownFieldIgnored(t *testing.T) {
	clean, err := searchArgs().Validate(map[string]any{
		"query":  "tetris",
		"stray":  "value",
		"stray2": 7,
	})
	if err != nil {
		t.Fatalf("Validate() error = %v, want nil (non-strict ignores unknown fields)", err)
	}
	if _, ok := clean["stray"]; ok {
		t.Error("unknown field should not survive into validated arguments")
	}
}

func TestObjectValidate_StrictRejectsUnknown(t *testing.T) {
	obj := searchArgs()
	obj.Strict = true

	_, err := obj.Validate(map[string]any{"query": "tetris", "stray": 1})
	if err == nil {
		t.Fatal("strict Validate() should reject unknown fields")
	}
	if got := ViolatedFields(err); len(got) != 1 || got[0] != "stray" {
		t.Errorf("ViolatedFields() = %v, want [stray]", got)
	}
}

func TestObjectValidate_Idempotent(t *testing.T) {
	obj := searchArgs()
	args := map[string]any{"query": "tetris"}

	first, err1 := obj.Validate(args)
	second, err2 := obj.Validate(args)

	if err1 != nil || err2 != nil {
		t.Fatalf("Validate() errors = %v, %v", err1, err2)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Validate() not idempotent: %v vs %v", first, second)
	}
	if len(args) != 1 {
		t.Errorf("Validate() mutated input arguments: %v", args)
	}
}

func TestObjectValidate_NestedSliceOfObjects(t *testing.T) {
	obj := Object{
		Fields: Fields{
			"files": {
				Type: Slice(ObjectOf(Fields{
					"path":    {Type: String(), Required: true},
					"content": {Type: String(), Required: true},
				})),
				Required: true,
			},
		},
	}

	_, err := obj.Validate(map[string]any{
		"files": []any{
			map[string]any{"path": "a.txt", "content": "hello"},
		},
	})
	if err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	_, err = obj.Validate(map[string]any{
		"files": []any{
			map[string]any{"path": "a.txt"},
		},
	})
	if err == nil {
		t.Error("Validate() should reject file entry missing content")
	}
}

func TestObjectCheck(t *testing.T) {
	bad := Object{Fields: Fields{
		"mode": {Type: String(), Required: true, Default: "fast"},
	}}
	if err := bad.Check(); err == nil {
		t.Error("Check() should reject required field with default")
	}

	mismatched := Object{Fields: Fields{
		"count": {Type: Int(), Default: "three"},
	}}
	if err := mismatched.Check(); err == nil {
		t.Error("Check() should reject default of the wrong type")
	}

	ok := searchArgs()
	if err := ok.Check(); err != nil {
		t.Errorf("Check() error = %v, want nil", err)
	}
}

func TestJSONSchema(t *testing.T) {
	obj := Object{
		Fields: Fields{
			"query": {Type: String(), Required: true, Description: "Search query"},
			"sort":  {Type: Enum(String(), "stars", "forks", "updated")},
			"page":  {Type: Int(), Default: 1},
		},
	}

	s := obj.JSONSchema()
	if s["type"] != "object" {
		t.Errorf("type = %v", s["type"])
	}
	if s["additionalProperties"] != true {
		t.Errorf("additionalProperties = %v, want true for non-strict", s["additionalProperties"])
	}

	props := s["properties"].(map[string]any)
	if len(props) != 3 {
		t.Fatalf("properties = %v", props)
	}
	sortProp := props["sort"].(map[string]any)
	if _, ok := sortProp["enum"]; !ok {
		t.Error("enum literal set missing from sort property")
	}

	required, _ := s["required"].([]string)
	if len(required) != 1 || required[0] != "query" {
		t.Errorf("required = %v", required)
	}

	// The rendered document must serialize cleanly.
	if _, err := json.Marshal(s); err != nil {
		t.Errorf("JSONSchema not serializable: %v", err)
	}
}

func TestJSONSchema_Deterministic(t *testing.T) {
	obj := searchArgs()
	a, _ := json.Marshal(obj.JSONSchema())
	b, _ := json.Marshal(obj.JSONSchema())
	if string(a) != string(b) {
		t.Errorf("JSONSchema rendering unstable:\n%s\n%s", a, b)
	}
}
