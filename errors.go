package jamocha

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	ErrNoImplementationFound = errors.New("no implementation found")
	ErrAmbiguousBinding      = errors.New("ambiguous binding")
	ErrConstructionFailure   = errors.New("construction failure")
	ErrCyclicDependency      = errors.New("cyclic dependency")
	ErrDuplicateComponent    = errors.New("duplicate component")
	ErrNotStarted            = errors.New("container not started")
)

type (
	// NoImplementationFoundError is returned when no component is bound to the requested capability.
	NoImplementationFoundError struct {
		Capability reflect.Type
	}

	// AmbiguousBindingError is returned when several components are bound to the capability, and
	// none of them is named after the disambiguation key.
	AmbiguousBindingError struct {
		Capability reflect.Type
		Count      int
		Key        string
	}

	// ConstructionError wraps a failure of the constructor itself (returned error or panic).
	ConstructionError struct {
		Component *Component
		Cause     error
	}

	// CyclicDependencyError lists the components involved in a dependency cycle, the first
	// and the last elements being the same component.
	CyclicDependencyError struct {
		Cycle []*Component
	}
)

func (e *NoImplementationFoundError) Error() string {
	return fmt.Sprintf("no implementation found for capability %s", e.Capability)
}

func (e *NoImplementationFoundError) Is(target error) bool {
	return target == ErrNoImplementationFound
}

func (e *AmbiguousBindingError) Error() string {
	return fmt.Sprintf(
		"there are %d implementations of capability %s and none is named %q, expected a single implementation or a qualifier to resolve the conflict",
		e.Count,
		e.Capability,
		e.Key,
	)
}

func (e *AmbiguousBindingError) Is(target error) bool {
	return target == ErrAmbiguousBinding
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("failed to construct component %s:\n\t%v", e.Component, e.Cause)
}

func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstructionFailure
}

func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("cycle found:\n%s", formatCycle(e.Cycle))
}

func (e *CyclicDependencyError) Is(target error) bool {
	return target == ErrCyclicDependency
}

func formatCycle(cycle []*Component) string {
	var b strings.Builder
	for i, c := range cycle {
		b.WriteString(strings.Repeat("\t", i))
		if i > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(c.String())
		b.WriteString("\n")
	}
	return b.String()
}
