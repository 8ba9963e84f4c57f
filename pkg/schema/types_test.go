package schema

import "testing"

func TestIntType_AcceptsWholeFloats(t *testing.T) {
	// JSON unmarshaling yields float64 for all numbers.
	if err := Int().Validate(float64(42)); err != nil {
		t.Errorf("Int().Validate(42.0) = %v, want nil", err)
	}
	if err := Int().Validate(42.5); err == nil {
		t.Error("Int().Validate(42.5) should fail")
	}
}

func TestSliceType_ValidatesElements(t *testing.T) {
	typ := Slice(String())
	if err := typ.Validate([]any{"a", "b"}); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if err := typ.Validate([]any{"a", 1}); err == nil {
		t.Error("Validate() should reject mixed element types")
	}
	if err := typ.Validate("not a slice"); err == nil {
		t.Error("Validate() should reject non-slice")
	}
}

func TestEnumType(t *testing.T) {
	typ := Enum(String(), "asc", "desc")
	if err := typ.Validate("asc"); err != nil {
		t.Errorf("Validate(asc) = %v, want nil", err)
	}
	if err := typ.Validate("sideways"); err == nil {
		t.Error("Validate(sideways) should fail")
	}
	if err := typ.Validate(3); err == nil {
		t.Error("Validate(3) should fail the base type first")
	}
}

func TestObjectOf_NestedValidation(t *testing.T) {
	typ := ObjectOf(Fields{
		"path": {Type: String(), Required: true},
	})
	if err := typ.Validate(map[string]any{"path": "a.txt"}); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if err := typ.Validate(map[string]any{}); err == nil {
		t.Error("Validate() should reject missing nested required field")
	}
	if err := typ.Validate([]any{}); err == nil {
		t.Error("Validate() should reject non-object value")
	}
}

func TestTypeNames(t *testing.T) {
	cases := map[string]Type{
		"string":   String(),
		"int":      Int(),
		"float":    Float(),
		"bool":     Bool(),
		"[string]": Slice(String()),
		"object":   ObjectOf(nil),
	}
	for want, typ := range cases {
		if got := typ.Name(); got != want {
			t.Errorf("Name() = %q, want %q", got, want)
		}
	}
}
