package config

import (
	"fmt"

	"github.com/born-ml/miniflow/internal/tensor"
	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// tensorFromExpr evaluates a tensor literal. A number is a scalar, a flat
// list a vector and a list of lists a matrix. A missing or null value
// returns nil.
func tensorFromExpr(expr hcl.Expression) (*tensor.Tensor, error) {
	if expr == nil {
		return nil, nil
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	return tensorFromCty(v)
}

func tensorFromCty(v cty.Value) (*tensor.Tensor, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("%w: tensor literal is not known", ErrInvalidValue)
	}

	ty := v.Type()
	switch {
	case ty == cty.Number:
		var f float64
		if err := gocty.FromCtyValue(v, &f); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
		}
		return tensor.Scalar(f), nil

	case ty.IsTupleType() || ty.IsListType():
		elems := v.AsValueSlice()
		if len(elems) == 0 {
			return nil, fmt.Errorf("%w: empty tensor literal", ErrInvalidValue)
		}
		first := elems[0].Type()
		if first.IsTupleType() || first.IsListType() {
			var rows [][]float64
			if err := decodeAs(v, cty.List(cty.List(cty.Number)), &rows); err != nil {
				return nil, err
			}
			t, err := tensor.FromRows(rows)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidValue, err)
			}
			return t, nil
		}
		var values []float64
		if err := decodeAs(v, cty.List(cty.Number), &values); err != nil {
			return nil, err
		}
		return tensor.Vector(values...), nil

	default:
		return nil, fmt.Errorf("%w: unsupported tensor literal of type %s", ErrInvalidValue, ty.FriendlyName())
	}
}

// decodeAs converts v to ty and stores it in target.
func decodeAs(v cty.Value, ty cty.Type, target any) error {
	converted, err := convert.Convert(v, ty)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	if err := gocty.FromCtyValue(converted, target); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return nil
}
