package jamocha

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/a-peyrard/jamocha/option"
)

type (
	// Scanner enumerates the components available under a namespace.
	//
	// A namespace is a Go import path prefix, the empty namespace covering every component.
	Scanner interface {
		Scan(namespace string) ([]*Component, error)
	}

	// ScannerFunc adapts a function to the Scanner interface.
	ScannerFunc func(namespace string) ([]*Component, error)

	// StaticScanner is a Scanner backed by a registration table.
	//
	// Registration is usually done by the code produced by cmd/generator.
	StaticScanner struct {
		mu         sync.RWMutex
		components []*Component
		byType     map[reflect.Type]*Component
	}
)

func (f ScannerFunc) Scan(namespace string) ([]*Component, error) {
	return f(namespace)
}

func NewStaticScanner() *StaticScanner {
	return &StaticScanner{
		byType: make(map[reflect.Type]*Component),
	}
}

// Register adds the component built by the given constructor to the table.
//
// A component type has a single constructor, registering a second one for the same type fails.
func (s *StaticScanner) Register(constructor any, opts ...option.Option[ComponentOptions]) error {
	comp, err := NewComponent(constructor, opts...)
	if err != nil {
		return fmt.Errorf("failed to describe component from constructor %T:\n\t%w", constructor, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byType[comp.Type]; exists {
		return fmt.Errorf("%w: a constructor is already registered for %s", ErrDuplicateComponent, comp.Type)
	}
	s.byType[comp.Type] = comp
	s.components = append(s.components, comp)

	return nil
}

func (s *StaticScanner) MustRegister(constructor any, opts ...option.Option[ComponentOptions]) *StaticScanner {
	if err := s.Register(constructor, opts...); err != nil {
		panic(fmt.Sprintf("failed to register component %T:\n\t%v", constructor, err))
	}
	return s
}

// Scan returns, in registration order, the components whose package is under the namespace.
func (s *StaticScanner) Scan(namespace string) ([]*Component, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found := make([]*Component, 0, len(s.components))
	for _, comp := range s.components {
		if InNamespace(pkgPathOf(comp.Type), namespace) {
			found = append(found, comp)
		}
	}
	return found, nil
}

// InNamespace tells whether the package is the namespace or one of its sub-packages. An empty
// namespace holds every package, a trailing "/..." is accepted.
func InNamespace(pkgPath, namespace string) bool {
	namespace = strings.TrimSuffix(strings.TrimSuffix(namespace, "/..."), "/")
	if namespace == "" || pkgPath == namespace {
		return true
	}
	return strings.HasPrefix(pkgPath, namespace+"/")
}
