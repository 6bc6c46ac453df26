package jamocha

import (
	"reflect"
	"sort"
	"sync"
)

// Store is the instance cache of a container, one instance per component type.
//
// Entries are never evicted.
type Store struct {
	inner sync.Map
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Put(typ reflect.Type, instance reflect.Value) {
	s.inner.Store(typ, instance)
}

func (s *Store) Get(typ reflect.Type) (instance reflect.Value, found bool) {
	raw, found := s.inner.Load(typ)
	if found {
		return raw.(reflect.Value), true
	}

	return reflect.Value{}, false
}

func (s *Store) Len() int {
	n := 0
	s.inner.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// ListTypes returns the types having an instance, sorted by name.
func (s *Store) ListTypes() []reflect.Type {
	var types []reflect.Type
	s.inner.Range(func(key, _ any) bool {
		types = append(types, key.(reflect.Type))
		return true
	})
	sort.Slice(types, func(i, j int) bool {
		return types[i].String() < types[j].String()
	})
	return types
}
