package jamocha

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/jamocha/option"
)

type (
	// Param describes one parameter of a component constructor.
	Param struct {
		// Type is the capability required by the parameter.
		Type reflect.Type
		// Name is the parameter name as written in the constructor, if known.
		Name string
		// Tag is the optional disambiguation tag, used when several components satisfy Type.
		Tag string
	}

	// Component describes a type managed by the container: the concrete type, the capabilities
	// it is bound under, and the constructor used as its single injection point.
	Component struct {
		Type         reflect.Type
		Capabilities []reflect.Type
		Params       []Param

		constructor reflect.Value
	}

	ComponentOptions struct {
		capabilities []reflect.Type
		paramNames   []string
		qualifiers   map[int]string
	}
)

// As declares the capabilities the component is bound under.
//
// When no capability is declared, the component is bound under its own type.
func As(capabilities ...reflect.Type) option.Option[ComponentOptions] {
	return func(opts *ComponentOptions) {
		opts.capabilities = append(opts.capabilities, capabilities...)
	}
}

// Implements declares I as a capability of the component.
func Implements[I any]() option.Option[ComponentOptions] {
	return As(TypeOf[I]())
}

// ParamNames names the constructor parameters, in order.
//
// Go does not keep parameter names at runtime, the names are used as fallback disambiguation
// keys when a parameter has no explicit tag.
func ParamNames(names ...string) option.Option[ComponentOptions] {
	return func(opts *ComponentOptions) {
		opts.paramNames = names
	}
}

// Qualify attaches a disambiguation tag to the parameter at the given index.
func Qualify(index int, tag string) option.Option[ComponentOptions] {
	return func(opts *ComponentOptions) {
		if opts.qualifiers == nil {
			opts.qualifiers = make(map[int]string)
		}
		opts.qualifiers[index] = tag
	}
}

// NewComponent describes the component built by the given constructor.
//
// The constructor must be a function returning either the component, or the component and an
// error. The component type is the first result type, it must be a named type or a pointer to
// a named type.
func NewComponent(constructor any, opts ...option.Option[ComponentOptions]) (*Component, error) {
	if constructor == nil {
		return nil, errors.New("constructor must not be nil")
	}
	t := reflect.TypeOf(constructor)
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function, got %s", t)
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("constructor %s must not be variadic", t)
	}
	if t.NumOut() != 1 && t.NumOut() != 2 {
		return nil, errors.New("constructor must either return the instance and an error, or just the instance")
	}
	if t.NumOut() == 2 && t.Out(1) != ErrorType {
		return nil, errors.New("if constructor returns two elements, it must return an error as the second element")
	}

	typ := t.Out(0)
	if !namedType(typ) {
		return nil, fmt.Errorf("constructor must return a named type or a pointer to a named type, got %s", typ)
	}

	options := option.Build(&ComponentOptions{}, opts...)
	if len(options.paramNames) > 0 && len(options.paramNames) != t.NumIn() {
		return nil, fmt.Errorf(
			"constructor of %s has %d parameters, but %d names were given",
			typ, t.NumIn(), len(options.paramNames),
		)
	}

	params := make([]Param, t.NumIn())
	for i := range params {
		params[i].Type = t.In(i)
		if len(options.paramNames) > 0 {
			params[i].Name = options.paramNames[i]
		}
	}
	for idx, tag := range options.qualifiers {
		if idx < 0 || idx >= len(params) {
			return nil, fmt.Errorf("qualifier %q targets parameter %d, but constructor of %s has %d parameters", tag, idx, typ, len(params))
		}
		params[idx].Tag = tag
	}

	capabilities, err := validateCapabilities(typ, options.capabilities)
	if err != nil {
		return nil, fmt.Errorf("invalid capabilities for component %s:\n\t%w", typ, err)
	}

	return &Component{
		Type:         typ,
		Capabilities: capabilities,
		Params:       params,
		constructor:  reflect.ValueOf(constructor),
	}, nil
}

func validateCapabilities(typ reflect.Type, declared []reflect.Type) ([]reflect.Type, error) {
	seen := make(map[reflect.Type]struct{}, len(declared))
	capabilities := make([]reflect.Type, 0, len(declared))
	for _, capability := range declared {
		if capability == nil {
			return nil, errors.New("capability must not be nil")
		}
		if _, dup := seen[capability]; dup {
			continue
		}
		if capability != typ {
			if capability.Kind() != reflect.Interface {
				return nil, fmt.Errorf("capability %s must be an interface or the component type itself", capability)
			}
			if !typ.Implements(capability) {
				return nil, fmt.Errorf("%s does not implement %s", typ, capability)
			}
		}
		seen[capability] = struct{}{}
		capabilities = append(capabilities, capability)
	}
	return capabilities, nil
}

// Keys returns the capabilities the component is bound under.
func (c *Component) Keys() []reflect.Type {
	if len(c.Capabilities) == 0 {
		return []reflect.Type{c.Type}
	}
	return c.Capabilities
}

func (c *Component) String() string {
	return c.Type.String()
}

func (p Param) String() string {
	var b strings.Builder
	b.WriteString(p.Type.String())
	if p.Name != "" {
		b.WriteString(" ")
		b.WriteString(p.Name)
	}
	if p.Tag != "" {
		fmt.Fprintf(&b, " (qualifier=%s)", p.Tag)
	}
	return b.String()
}

// call invokes the constructor, panics being turned into errors.
func (c *Component) call(args []reflect.Value) (instance reflect.Value, err error) {
	var results []reflect.Value
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic calling constructor: %v", r)
			}
		}()
		results = c.constructor.Call(args)
	}()
	if err != nil {
		return reflect.Value{}, &ConstructionError{Component: c, Cause: err}
	}

	if len(results) == 2 && !results[1].IsNil() {
		return reflect.Value{}, &ConstructionError{Component: c, Cause: results[1].Interface().(error)}
	}
	instance = results[0]
	if nillable(instance) && instance.IsNil() {
		return reflect.Value{}, &ConstructionError{Component: c, Cause: errors.New("constructor returned a nil instance")}
	}

	return instance, nil
}
