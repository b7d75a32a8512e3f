package kinds

import (
	"context"
	"math"
	"strings"

	"go.trai.ch/patchwork/internal/core/domain"
	"go.trai.ch/patchwork/internal/core/ports"
	"go.trai.ch/zerr"
)

// Port and parameter types shared by the builtin kinds.
const (
	TypeNumber domain.PortType = "number"
	TypeString domain.PortType = "string"
)

// Common port and parameter names.
var (
	PortIn         = domain.NewName("in")
	PortOut        = domain.NewName("out")
	PortA          = domain.NewName("a")
	PortB          = domain.NewName("b")
	ParamValue     = domain.NewName("value")
	ParamFactor    = domain.NewName("t")
	ParamMin       = domain.NewName("min")
	ParamMax       = domain.NewName("max")
	ParamSeparator = domain.NewName("separator")
)

// Builtins returns the builtin kinds, one instance each.
func Builtins() []ports.Kind {
	return []ports.Kind{
		constKind{},
		addKind{},
		mulKind{},
		mixKind{},
		clampKind{},
		concatKind{},
	}
}

// constKind emits its "value" parameter unchanged. It is the usual source
// node in a patch.
type constKind struct{}

func (constKind) Spec() domain.KindSpec {
	return domain.KindSpec{
		Kind:    domain.NewName("const"),
		Outputs: []domain.PortSpec{{Name: PortOut, Type: domain.TypeAny}},
	}
}

func (constKind) Evaluate(_ context.Context, req ports.EvalRequest) (domain.Result, error) {
	value, ok := req.Params[ParamValue]
	if !ok {
		return nil, zerr.With(domain.ErrMissingInput, "param", ParamValue.String())
	}
	return domain.Result{PortOut: value}, nil
}

// addKind sums every value on its multi-input port.
type addKind struct{}

func (addKind) Spec() domain.KindSpec {
	return domain.KindSpec{
		Kind:    domain.NewName("add"),
		Inputs:  []domain.PortSpec{{Name: PortIn, Type: TypeNumber}},
		Outputs: []domain.PortSpec{{Name: PortOut, Type: TypeNumber}},
	}
}

func (addKind) Evaluate(_ context.Context, req ports.EvalRequest) (domain.Result, error) {
	sum := 0.0
	for _, v := range req.Inputs[PortIn] {
		f, err := asNumber(v)
		if err != nil {
			return nil, err
		}
		sum += f
	}
	return domain.Result{PortOut: sum}, nil
}

// mulKind multiplies every value on its multi-input port.
type mulKind struct{}

func (mulKind) Spec() domain.KindSpec {
	return domain.KindSpec{
		Kind:    domain.NewName("mul"),
		Inputs:  []domain.PortSpec{{Name: PortIn, Type: TypeNumber}},
		Outputs: []domain.PortSpec{{Name: PortOut, Type: TypeNumber}},
	}
}

func (mulKind) Evaluate(_ context.Context, req ports.EvalRequest) (domain.Result, error) {
	product := 1.0
	for _, v := range req.Inputs[PortIn] {
		f, err := asNumber(v)
		if err != nil {
			return nil, err
		}
		product *= f
	}
	return domain.Result{PortOut: product}, nil
}

// mixKind linearly interpolates between its two single inputs by the "t"
// parameter, clamped to [0, 1].
type mixKind struct{}

func (mixKind) Spec() domain.KindSpec {
	return domain.KindSpec{
		Kind: domain.NewName("mix"),
		Inputs: []domain.PortSpec{
			{Name: PortA, Type: TypeNumber, Single: true},
			{Name: PortB, Type: TypeNumber, Single: true},
		},
		Outputs: []domain.PortSpec{{Name: PortOut, Type: TypeNumber}},
	}
}

func (mixKind) Evaluate(_ context.Context, req ports.EvalRequest) (domain.Result, error) {
	a, err := singleNumber(req, PortA)
	if err != nil {
		return nil, err
	}
	b, err := singleNumber(req, PortB)
	if err != nil {
		return nil, err
	}
	t := 0.5
	if raw, ok := req.Params[ParamFactor]; ok {
		if t, err = asNumber(raw); err != nil {
			return nil, err
		}
	}
	t = math.Min(math.Max(t, 0), 1)
	return domain.Result{PortOut: a*(1-t) + b*t}, nil
}

// clampKind limits its single input to the [min, max] parameter range.
type clampKind struct{}

func (clampKind) Spec() domain.KindSpec {
	return domain.KindSpec{
		Kind:    domain.NewName("clamp"),
		Inputs:  []domain.PortSpec{{Name: PortIn, Type: TypeNumber, Single: true}},
		Outputs: []domain.PortSpec{{Name: PortOut, Type: TypeNumber}},
	}
}

func (clampKind) Evaluate(_ context.Context, req ports.EvalRequest) (domain.Result, error) {
	in, err := singleNumber(req, PortIn)
	if err != nil {
		return nil, err
	}
	lo := math.Inf(-1)
	hi := math.Inf(1)
	if raw, ok := req.Params[ParamMin]; ok {
		if lo, err = asNumber(raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := req.Params[ParamMax]; ok {
		if hi, err = asNumber(raw); err != nil {
			return nil, err
		}
	}
	return domain.Result{PortOut: math.Min(math.Max(in, lo), hi)}, nil
}

// concatKind joins every string on its multi-input port with the separator
// parameter.
type concatKind struct{}

func (concatKind) Spec() domain.KindSpec {
	return domain.KindSpec{
		Kind:    domain.NewName("concat"),
		Inputs:  []domain.PortSpec{{Name: PortIn, Type: TypeString}},
		Outputs: []domain.PortSpec{{Name: PortOut, Type: TypeString}},
	}
}

func (concatKind) Evaluate(_ context.Context, req ports.EvalRequest) (domain.Result, error) {
	separator := ""
	if raw, ok := req.Params[ParamSeparator]; ok {
		s, ok := raw.(string)
		if !ok {
			return nil, zerr.With(domain.ErrTypeMismatch, "param", ParamSeparator.String())
		}
		separator = s
	}
	parts := make([]string, 0, len(req.Inputs[PortIn]))
	for _, v := range req.Inputs[PortIn] {
		s, ok := v.(string)
		if !ok {
			return nil, zerr.With(domain.ErrTypeMismatch, "port", PortIn.String())
		}
		parts = append(parts, s)
	}
	return domain.Result{PortOut: strings.Join(parts, separator)}, nil
}

func singleNumber(req ports.EvalRequest, port domain.Name) (float64, error) {
	values := req.Inputs[port]
	if len(values) == 0 {
		return 0, zerr.With(domain.ErrMissingInput, "port", port.String())
	}
	return asNumber(values[0])
}

func asNumber(v domain.Value) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, zerr.With(domain.ErrTypeMismatch, "value_type", typeName(v))
	}
}

func typeName(v domain.Value) string {
	switch v.(type) {
	case nil:
		return "nil"
	case bool:
		return "bool"
	case string:
		return "string"
	default:
		return "other"
	}
}
