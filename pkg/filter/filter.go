// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// Package filter compiles textual filter expressions to predicates on vertex and edge payloads.
//
// Filters use the HCL expression syntax. Attributes of the payload are variables:
//
//	status == "open" && diameter >= 300
//	contains(["pvc", "pe"], material) || material == null
//
// Attribute names that are not valid identifiers can be referenced with attr["name"].
// Missing attributes are null.
// A filter that does not evaluate to true, including one that fails to evaluate, does not match.
package filter

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/netrace/netrace/internal/pkg/logging"
	"github.com/netrace/netrace/pkg/network"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

var log = logging.Log()

// attrVar is the variable holding attributes referenced by index.
const attrVar = "attr"

var functions = map[string]function.Function{
	"contains": stdlib.ContainsFunc,
	"lower":    stdlib.LowerFunc,
	"upper":    stdlib.UpperFunc,
	"strlen":   stdlib.StrlenFunc,
	"abs":      stdlib.AbsoluteFunc,
	"coalesce": stdlib.CoalesceFunc,
}

// Filter is a compiled filter expression.
type Filter struct {
	source string
	expr   hcl.Expression
	vars   []string // Attributes referenced as variables.
	attrs  []string // Attributes referenced via attr.
}

// Parse a filter expression.
func Parse(source string) (*Filter, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(source), "filter", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid filter %q: %w", source, diags)
	}
	f := &Filter{source: source, expr: expr}
	for _, t := range expr.Variables() {
		name := t.RootName()
		if name != attrVar {
			f.vars = append(f.vars, name)
			continue
		}
		if len(t) < 2 {
			return nil, fmt.Errorf("invalid filter %q: %v must be indexed by an attribute name", source, attrVar)
		}
		switch step := t[1].(type) {
		case hcl.TraverseAttr:
			f.attrs = append(f.attrs, step.Name)
		case hcl.TraverseIndex:
			if step.Key.Type() != cty.String || step.Key.IsNull() {
				return nil, fmt.Errorf("invalid filter %q: %v index must be a string", source, attrVar)
			}
			f.attrs = append(f.attrs, step.Key.AsString())
		default:
			return nil, fmt.Errorf("invalid filter %q: %v must be indexed by an attribute name", source, attrVar)
		}
	}
	return f, nil
}

// Compile returns a predicate for a filter expression, or nil for an empty expression.
func Compile(source string) (func(network.Payload) bool, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}
	f, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return f.Match, nil
}

func (f *Filter) String() string { return f.source }

// Match is true if the filter evaluates to true for payload p.
func (f *Filter) Match(p network.Payload) bool {
	ctx := &hcl.EvalContext{Variables: map[string]cty.Value{}, Functions: functions}
	for _, name := range f.vars {
		ctx.Variables[name] = attribute(p, name)
	}
	if len(f.attrs) > 0 {
		attrs := map[string]cty.Value{}
		for _, name := range f.attrs {
			attrs[name] = attribute(p, name)
		}
		ctx.Variables[attrVar] = cty.ObjectVal(attrs)
	}
	v, diags := f.expr.Value(ctx)
	if diags.HasErrors() {
		log.V(5).Info("Filter evaluation failed", "filter", f.source, "error", diags.Error())
		return false
	}
	if v.IsNull() || !v.IsKnown() || v.Type() != cty.Bool {
		return false
	}
	return v.True()
}

func attribute(p network.Payload, name string) cty.Value {
	if p == nil {
		return cty.NullVal(cty.DynamicPseudoType)
	}
	v, _ := p.Attribute(name)
	return Value(v)
}

// Value converts an attribute value to a cty value.
// Values that cannot be converted are null.
func Value(v any) cty.Value {
	switch v := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType)
	case string:
		return cty.StringVal(v)
	case bool:
		return cty.BoolVal(v)
	case float64:
		return cty.NumberFloatVal(v)
	case int:
		return cty.NumberIntVal(int64(v))
	case int64:
		return cty.NumberIntVal(v)
	case json.Number:
		if n, err := cty.ParseNumberVal(v.String()); err == nil {
			return n
		}
		return cty.StringVal(v.String())
	}
	if t, err := gocty.ImpliedType(v); err == nil {
		if c, err := gocty.ToCtyValue(v, t); err == nil {
			return c
		}
	}
	return cty.NullVal(cty.DynamicPseudoType)
}
