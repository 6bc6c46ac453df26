package jamocha

import "fmt"

// validate walks the dependency graph of every component, making sure each parameter can be
// resolved and that no component depends, even transitively, on itself.
func (r *Resolver) validate(components []*Component) error {
	done := make(map[*Component]struct{}, len(components))
	for _, comp := range components {
		if err := r.walk(comp, NewTracker(), done); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) walk(comp *Component, tracker *Tracker, done map[*Component]struct{}) error {
	if _, found := done[comp]; found {
		return nil
	}
	if err := tracker.Push(comp); err != nil {
		return err
	}

	for _, param := range comp.Params {
		dep, err := r.resolve(param.Type, param.Tag, param.Name)
		if err != nil {
			return fmt.Errorf("failed to resolve parameter %s of component %s:\n\t%w", param, comp, err)
		}
		if err = r.walk(dep, tracker, done); err != nil {
			return err
		}
	}

	tracker.Pop()
	done[comp] = struct{}{}

	return nil
}
