package jamocha

import (
	"errors"
	"sync/atomic"
)

// Test types for container testing
type (
	UserService interface {
		UserName() string
	}

	AccountService interface {
		AccountNumber(userName string) int64
	}

	Foo interface {
		Foo() string
	}

	UserServiceImpl struct {
		name string
	}

	AccountServiceImpl struct {
		users UserService
	}

	UserAccountClient struct {
		Users    UserService
		Accounts AccountService
	}

	FooA struct{}

	FooB struct{}

	FooConsumer struct {
		Foo Foo
	}

	Standalone struct {
		Value string
	}

	CycleA struct{ b *CycleB }

	CycleB struct{ c *CycleC }

	CycleC struct{ a *CycleA }
)

func (u *UserServiceImpl) UserName() string { return u.name }

func (a *AccountServiceImpl) AccountNumber(userName string) int64 {
	return int64(len(userName)) * 1000
}

func (f *FooA) Foo() string { return "a" }

func (f *FooB) Foo() string { return "b" }

func NewUserServiceImpl() *UserServiceImpl {
	return &UserServiceImpl{name: "john"}
}

func NewAccountServiceImpl(users UserService) (*AccountServiceImpl, error) {
	return &AccountServiceImpl{users: users}, nil
}

func NewUserAccountClient(users UserService, accounts AccountService) *UserAccountClient {
	return &UserAccountClient{Users: users, Accounts: accounts}
}

func NewFooA() *FooA { return &FooA{} }

func NewFooB() *FooB { return &FooB{} }

func NewFooConsumer(foo Foo) *FooConsumer {
	return &FooConsumer{Foo: foo}
}

func NewStandalone() Standalone {
	return Standalone{Value: "standalone"}
}

func NewCycleA(b *CycleB) *CycleA { return &CycleA{b: b} }

func NewCycleB(c *CycleC) *CycleB { return &CycleB{c: c} }

func NewCycleC(a *CycleA) *CycleC { return &CycleC{a: a} }

// countingConstructor returns a constructor of *Standalone counting its invocations.
func countingConstructor(counter *atomic.Int32) func() *Standalone {
	return func() *Standalone {
		counter.Add(1)
		return &Standalone{Value: "counted"}
	}
}

var errIntentional = errors.New("constructor intentionally failed")

// registerUserAccount registers the user/account graph on a fresh scanner.
func registerUserAccount() *StaticScanner {
	return NewStaticScanner().
		MustRegister(NewUserAccountClient).
		MustRegister(NewAccountServiceImpl, Implements[AccountService]()).
		MustRegister(NewUserServiceImpl, Implements[UserService]())
}
