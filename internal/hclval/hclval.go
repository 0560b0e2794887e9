// Package hclval bridges HCL expression values and plain Go values. The
// host evaluates property expressions against messages; flow files carry
// free-form settings objects. Both travel through cty, converted here by
// way of their JSON shape so that arbitrary payloads survive without a
// declared schema.
package hclval

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// FromGo converts an arbitrary Go value into a cty.Value. Values take their
// JSON shape: numbers become cty numbers, maps become objects, slices
// become tuples. nil becomes a null of dynamic type.
func FromGo(v any) (cty.Value, error) {
	if v == nil {
		return cty.NullVal(cty.DynamicPseudoType), nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("value %T is not expressible: %w", v, err)
	}
	t, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, fmt.Errorf("inferring type of %T: %w", v, err)
	}
	out, err := ctyjson.Unmarshal(raw, t)
	if err != nil {
		return cty.NilVal, fmt.Errorf("converting %T: %w", v, err)
	}
	return out, nil
}

// ToGo converts a cty.Value into plain Go values: map[string]any, []any,
// string, float64, bool, or nil.
func ToGo(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not fully known")
	}
	raw, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return nil, fmt.Errorf("encoding value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decoding value: %w", err)
	}
	return out, nil
}

// Evaluate parses src as a single HCL expression and evaluates it against
// vars, returning the result as a plain Go value.
func Evaluate(src string, vars map[string]cty.Value) (any, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "property", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing property %q: %w", src, diags)
	}
	val, diags := expr.Value(&hcl.EvalContext{Variables: vars})
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating property %q: %w", src, diags)
	}
	return ToGo(val)
}
