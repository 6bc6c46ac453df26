package jamocha

import "reflect"

// bindings maps each capability to the components satisfying it, in discovery order.
//
// Built once, never mutated afterward, so it is read without synchronization.
type bindings map[reflect.Type][]*Component

func newBindings(components []*Component) bindings {
	b := make(bindings)
	for _, comp := range components {
		for _, capability := range comp.Keys() {
			b[capability] = append(b[capability], comp)
		}
	}
	return b
}

func (b bindings) candidates(capability reflect.Type) []*Component {
	return b[capability]
}
