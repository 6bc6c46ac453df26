package jamocha

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComponent(t *testing.T) {
	t.Run("it should describe a constructor returning only the instance", func(t *testing.T) {
		// WHEN
		comp, err := NewComponent(NewUserServiceImpl)

		// THEN
		require.NoError(t, err)
		assert.Equal(t, TypeOf[*UserServiceImpl](), comp.Type)
		assert.Empty(t, comp.Capabilities)
		assert.Empty(t, comp.Params)
	})

	t.Run("it should describe a constructor returning the instance and an error", func(t *testing.T) {
		// WHEN
		comp, err := NewComponent(NewAccountServiceImpl, Implements[AccountService]())

		// THEN
		require.NoError(t, err)
		assert.Equal(t, TypeOf[*AccountServiceImpl](), comp.Type)
		assert.Equal(t, []Param{{Type: TypeOf[UserService]()}}, comp.Params)
	})

	t.Run("it should bind the component under its own type when it declares no capability", func(t *testing.T) {
		// GIVEN
		comp, err := NewComponent(NewStandalone)
		require.NoError(t, err)

		// WHEN
		keys := comp.Keys()

		// THEN
		assert.Equal(t, []reflect.Type{TypeOf[Standalone]()}, keys)
	})

	t.Run("it should bind the component under its declared capabilities only", func(t *testing.T) {
		// GIVEN
		comp, err := NewComponent(NewUserServiceImpl, Implements[UserService](), Implements[UserService]())
		require.NoError(t, err)

		// WHEN
		keys := comp.Keys()

		// THEN
		assert.Equal(t, []reflect.Type{TypeOf[UserService]()}, keys)
	})

	t.Run("it should attach parameter names and qualifiers", func(t *testing.T) {
		// WHEN
		comp, err := NewComponent(
			NewUserAccountClient,
			ParamNames("users", "accounts"),
			Qualify(1, "savingsAccount"),
		)

		// THEN
		require.NoError(t, err)
		require.Len(t, comp.Params, 2)
		assert.Equal(t, "users", comp.Params[0].Name)
		assert.Empty(t, comp.Params[0].Tag)
		assert.Equal(t, "accounts", comp.Params[1].Name)
		assert.Equal(t, "savingsAccount", comp.Params[1].Tag)
	})

	t.Run("it should fail if constructor is not a function", func(t *testing.T) {
		// WHEN
		_, err := NewComponent("this is not a function")

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "constructor must be a function")
	})

	t.Run("it should fail if constructor is nil", func(t *testing.T) {
		// WHEN
		_, err := NewComponent(nil)

		// THEN
		require.Error(t, err)
	})

	t.Run("it should fail if constructor is variadic", func(t *testing.T) {
		// WHEN
		_, err := NewComponent(func(_ ...UserService) *Standalone { return &Standalone{} })

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "variadic")
	})

	t.Run("it should fail if second result is not an error", func(t *testing.T) {
		// WHEN
		_, err := NewComponent(func() (*Standalone, string) { return nil, "" })

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must return an error as the second element")
	})

	t.Run("it should fail if constructor returns nothing", func(t *testing.T) {
		// WHEN
		_, err := NewComponent(func() {})

		// THEN
		require.Error(t, err)
	})

	t.Run("it should fail if constructor returns an unnamed type", func(t *testing.T) {
		// WHEN
		_, err := NewComponent(func() []string { return nil })

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "named type")
	})

	t.Run("it should fail if the component does not implement a capability", func(t *testing.T) {
		// WHEN
		_, err := NewComponent(NewUserServiceImpl, Implements[AccountService]())

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not implement")
	})

	t.Run("it should fail if a capability is a concrete type", func(t *testing.T) {
		// WHEN
		_, err := NewComponent(NewUserServiceImpl, As(TypeOf[Standalone]()))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be an interface")
	})

	t.Run("it should fail if names do not match parameters", func(t *testing.T) {
		// WHEN
		_, err := NewComponent(NewUserAccountClient, ParamNames("users"))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "has 2 parameters, but 1 names were given")
	})

	t.Run("it should fail if a qualifier targets an unknown parameter", func(t *testing.T) {
		// WHEN
		_, err := NewComponent(NewUserAccountClient, Qualify(2, "foo"))

		// THEN
		require.Error(t, err)
		assert.Contains(t, err.Error(), "targets parameter 2")
	})
}

func TestComponent_call(t *testing.T) {
	t.Run("it should wrap the error returned by the constructor", func(t *testing.T) {
		// GIVEN
		comp, err := NewComponent(func() (*Standalone, error) { return nil, errIntentional })
		require.NoError(t, err)

		// WHEN
		_, err = comp.call(nil)

		// THEN
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConstructionFailure)
		assert.ErrorIs(t, err, errIntentional)
		var constructionErr *ConstructionError
		require.True(t, errors.As(err, &constructionErr))
		assert.Same(t, comp, constructionErr.Component)
	})

	t.Run("it should recover from a panicking constructor", func(t *testing.T) {
		// GIVEN
		comp, err := NewComponent(func() *Standalone { panic("boom") })
		require.NoError(t, err)

		// WHEN
		_, err = comp.call(nil)

		// THEN
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConstructionFailure)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("it should reject a nil instance", func(t *testing.T) {
		// GIVEN
		comp, err := NewComponent(func() io.Reader { return nil })
		require.NoError(t, err)

		// WHEN
		_, err = comp.call(nil)

		// THEN
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConstructionFailure)
		assert.Contains(t, err.Error(), "nil instance")
	})
}

func TestSimpleName(t *testing.T) {
	assert.Equal(t, "FooA", SimpleName(TypeOf[*FooA]()))
	assert.Equal(t, "FooA", SimpleName(TypeOf[**FooA]()))
	assert.Equal(t, "Standalone", SimpleName(TypeOf[Standalone]()))
	assert.Equal(t, "Foo", SimpleName(TypeOf[Foo]()))
}
