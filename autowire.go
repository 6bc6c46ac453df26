package jamocha

import (
	"fmt"
	"reflect"
	"time"

	"github.com/rs/zerolog"
)

// autowirer builds components, recursively building their dependencies first.
type autowirer struct {
	resolver *Resolver
	store    *Store
	locks    *LockManager
	logger   zerolog.Logger
}

// getOrCreate returns the instance of the component, building it if needed.
//
// At most one instance is ever stored per component type, concurrent callers for the same
// type wait for the first one to finish.
func (a *autowirer) getOrCreate(comp *Component) (reflect.Value, error) {
	if instance, found := a.store.Get(comp.Type); found {
		return instance, nil
	}

	lock := a.locks.GetLockFor(comp.Type)
	lock.Lock()
	defer lock.Unlock()

	// now that we have the lock, check if the instance was built while we were waiting
	if instance, found := a.store.Get(comp.Type); found {
		return instance, nil
	}

	instance, err := a.construct(comp)
	if err != nil {
		return reflect.Value{}, err
	}

	a.store.Put(comp.Type, instance)
	a.locks.ReleaseLock(comp.Type)

	return instance, nil
}

func (a *autowirer) construct(comp *Component) (reflect.Value, error) {
	start := time.Now()

	args := make([]reflect.Value, len(comp.Params))
	for idx, param := range comp.Params {
		dep, err := a.resolver.resolve(param.Type, param.Tag, param.Name)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("failed to resolve parameter %s of component %s:\n\t%w", param, comp, err)
		}
		args[idx], err = a.getOrCreate(dep)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("failed to get dependency %s of component %s:\n\t%w", dep, comp, err)
		}
	}

	instance, err := comp.call(args)
	if err != nil {
		return reflect.Value{}, err
	}

	a.logger.Debug().
		Stringer("component", comp).
		Int("dependencies", len(args)).
		Dur("elapsed", time.Since(start)).
		Msg("component constructed")

	return instance, nil
}
