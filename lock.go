package jamocha

import (
	"reflect"
	"sync"
)

// LockManager hands out one mutex per component type, so that two components can be built
// concurrently while the same component is never built twice.
type LockManager struct {
	locks sync.Map // reflect.Type -> *sync.Mutex
}

func NewLockManager() *LockManager {
	return &LockManager{}
}

// GetLockFor returns the mutex guarding the construction of typ, creating it on first use.
func (lm *LockManager) GetLockFor(typ reflect.Type) *sync.Mutex {
	if lock, found := lm.locks.Load(typ); found {
		return lock.(*sync.Mutex)
	}
	lock, _ := lm.locks.LoadOrStore(typ, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// ReleaseLock drops the mutex of typ. Callers still holding it keep a valid mutex, and must
// check the Store again once they acquire it.
func (lm *LockManager) ReleaseLock(typ reflect.Type) {
	lm.locks.Delete(typ)
}
