package jamocha

import (
	"reflect"
	"strings"
)

// Resolver picks the component satisfying a capability.
type Resolver struct {
	bindings bindings
}

func newResolver(b bindings) *Resolver {
	return &Resolver{bindings: b}
}

// Resolve returns the component bound to the capability.
//
// A single candidate is returned as is. With several candidates, the one whose simple type
// name matches the tag, case-insensitively, is returned.
func (r *Resolver) Resolve(capability reflect.Type, tag string) (*Component, error) {
	return r.resolve(capability, tag, "")
}

// resolve applies the disambiguation policy: explicit non-blank tag first, then the parameter
// name, then the lower-cased simple name of the capability.
func (r *Resolver) resolve(capability reflect.Type, tag string, paramName string) (*Component, error) {
	candidates := r.bindings.candidates(capability)
	switch len(candidates) {
	case 0:
		return nil, &NoImplementationFoundError{Capability: capability}
	case 1:
		return candidates[0], nil
	}

	key := lookupKey(capability, tag, paramName)
	for _, candidate := range candidates {
		if strings.EqualFold(SimpleName(candidate.Type), key) {
			return candidate, nil
		}
	}

	return nil, &AmbiguousBindingError{
		Capability: capability,
		Count:      len(candidates),
		Key:        key,
	}
}

func lookupKey(capability reflect.Type, tag string, paramName string) string {
	// a blank tag counts as no tag, any other tag is matched as given
	if strings.TrimSpace(tag) != "" {
		return tag
	}
	if paramName != "" {
		return paramName
	}
	return strings.ToLower(SimpleName(capability))
}
