package jamocha

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/a-peyrard/jamocha/option"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type (
	// Container discovers components through its Scanner, and builds them, along with their
	// dependencies, as singletons.
	Container struct {
		scanner Scanner
		logger  zerolog.Logger

		parallelism int

		store *Store
		locks *LockManager

		mu         sync.Mutex
		started    bool
		namespace  string
		startErr   error
		components []*Component

		wiring atomic.Pointer[autowirer]
	}

	Options struct {
		logger      zerolog.Logger
		parallelism int
	}
)

func WithLogger(logger zerolog.Logger) option.Option[Options] {
	return func(opts *Options) {
		opts.logger = logger
	}
}

// WithParallelism sets how many components can be built concurrently during Start.
//
// Defaults to 1: components are built one after the other, in discovery order.
func WithParallelism(parallelism int) option.Option[Options] {
	return func(opts *Options) {
		opts.parallelism = parallelism
	}
}

func New(scanner Scanner, opts ...option.Option[Options]) *Container {
	options := option.Build(
		&Options{
			logger:      zerolog.Nop(),
			parallelism: 1,
		},
		opts...,
	)
	if options.parallelism < 1 {
		options.parallelism = 1
	}

	return &Container{
		scanner:     scanner,
		logger:      options.logger,
		parallelism: options.parallelism,
		store:       NewStore(),
		locks:       NewLockManager(),
	}
}

// Start discovers the components under the namespace, binds them to their capabilities and
// builds all of them.
//
// Start runs once: concurrent callers wait for the first call to complete, later callers get
// its outcome back.
func (c *Container) Start(namespace string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		if namespace != c.namespace {
			c.logger.Warn().
				Str("namespace", namespace).
				Str("started_with", c.namespace).
				Msg("container already started, ignoring namespace")
		}
		return c.startErr
	}

	c.namespace = namespace
	c.startErr = c.safeStart(namespace)
	c.started = true

	return c.startErr
}

// safeStart turns a panic raised while starting, by the scanner for instance, into an error.
func (c *Container) safeStart(namespace string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.wiring.Store(nil)
			err = fmt.Errorf("panic starting container in namespace %q: %v", namespace, r)
		}
	}()
	return c.start(namespace)
}

func (c *Container) start(namespace string) error {
	start := time.Now()
	logger := c.logger.With().Str("namespace", namespace).Logger()

	components, err := c.scanner.Scan(namespace)
	if err != nil {
		return fmt.Errorf("failed to scan namespace %q:\n\t%w", namespace, err)
	}
	if err = checkUniqueTypes(components); err != nil {
		return err
	}
	logger.Debug().Int("components", len(components)).Msg("namespace scanned")

	resolver := newResolver(newBindings(components))
	if err = resolver.validate(components); err != nil {
		return fmt.Errorf("invalid dependency graph in namespace %q:\n\t%w", namespace, err)
	}
	c.components = components

	wiring := &autowirer{
		resolver: resolver,
		store:    c.store,
		locks:    c.locks,
		logger:   logger,
	}
	c.wiring.Store(wiring)

	if err = c.sweep(wiring, components); err != nil {
		c.wiring.Store(nil)
		return err
	}

	logger.Info().
		Int("components", len(components)).
		Int("capabilities", len(resolver.bindings)).
		Dur("elapsed", time.Since(start)).
		Msg("container started")

	return nil
}

// sweep builds every component, stopping at the first failure.
func (c *Container) sweep(wiring *autowirer, components []*Component) error {
	group, ctx := errgroup.WithContext(context.Background())
	group.SetLimit(c.parallelism)

	for _, comp := range components {
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if _, err := wiring.getOrCreate(comp); err != nil {
				return fmt.Errorf("failed to build component %s:\n\t%w", comp, err)
			}
			return nil
		})
	}

	return group.Wait()
}

func checkUniqueTypes(components []*Component) error {
	seen := make(map[reflect.Type]struct{}, len(components))
	for idx, comp := range components {
		if comp == nil {
			return fmt.Errorf("scanner returned a nil component at index %d", idx)
		}
		if _, found := seen[comp.Type]; found {
			return fmt.Errorf("%w: %s was discovered more than once", ErrDuplicateComponent, comp.Type)
		}
		seen[comp.Type] = struct{}{}
	}
	return nil
}

// GetBean returns the instance bound to the capability.
func (c *Container) GetBean(capability reflect.Type) (any, error) {
	return c.GetBeanTagged(capability, "")
}

// GetBeanTagged returns the instance bound to the capability, using the tag to pick one if
// several components satisfy it.
func (c *Container) GetBeanTagged(capability reflect.Type, tag string) (any, error) {
	if capability == nil {
		return nil, errors.New("capability must not be nil")
	}
	wiring := c.wiring.Load()
	if wiring == nil {
		return nil, ErrNotStarted
	}

	comp, err := wiring.resolver.resolve(capability, tag, "")
	if err != nil {
		return nil, fmt.Errorf("failed to resolve capability %s:\n\t%w", capability, err)
	}
	instance, err := wiring.getOrCreate(comp)
	if err != nil {
		return nil, fmt.Errorf("failed to get instance of %s for capability %s:\n\t%w", comp, capability, err)
	}

	return instance.Interface(), nil
}

// Resolve returns the component bound to the capability, without building it.
func (c *Container) Resolve(capability reflect.Type, tag string) (*Component, error) {
	if capability == nil {
		return nil, errors.New("capability must not be nil")
	}
	wiring := c.wiring.Load()
	if wiring == nil {
		return nil, ErrNotStarted
	}
	return wiring.resolver.Resolve(capability, tag)
}

// Get returns the instance bound to T.
func Get[T any](c *Container) (T, error) {
	return GetTagged[T](c, "")
}

// GetTagged returns the instance bound to T, using the tag to pick one if several components
// satisfy T.
func GetTagged[T any](c *Container, tag string) (T, error) {
	var zero T
	lookFor := TypeOf[T]()

	bean, err := c.GetBeanTagged(lookFor, tag)
	if err != nil {
		return zero, err
	}
	typed, ok := bean.(T)
	if !ok {
		return zero, fmt.Errorf("instance %T is not of type %s", bean, lookFor)
	}
	return typed, nil
}

func MustGet[T any](c *Container) T {
	val, err := Get[T](c)
	if err != nil {
		panic(fmt.Sprintf("failed to get %s:\n\t%v", TypeOf[T](), err))
	}
	return val
}

// Describe dumps the bindings and the instances built so far.
func (c *Container) Describe() string {
	var b strings.Builder
	wiring := c.wiring.Load()
	if wiring == nil {
		b.WriteString("* Not started\n")
		return b.String()
	}

	capabilities := make([]reflect.Type, 0, len(wiring.resolver.bindings))
	for capability := range wiring.resolver.bindings {
		capabilities = append(capabilities, capability)
	}
	sort.Slice(capabilities, func(i, j int) bool {
		return capabilities[i].String() < capabilities[j].String()
	})

	b.WriteString("* Bindings:\n")
	for _, capability := range capabilities {
		b.WriteString(fmt.Sprintf("\t- %s\n", capability))
		for _, comp := range wiring.resolver.bindings.candidates(capability) {
			b.WriteString(fmt.Sprintf("\t\t- %s\n", comp))
			for _, param := range comp.Params {
				b.WriteString(fmt.Sprintf("\t\t\t<- %s\n", param))
			}
		}
	}
	b.WriteString("* Instances:\n")
	for _, typ := range c.store.ListTypes() {
		instance, _ := c.store.Get(typ)
		b.WriteString(fmt.Sprintf("\t- %s: %v\n", typ, describeInstance(instance)))
	}
	return b.String()
}

func describeInstance(instance reflect.Value) string {
	if instance.Type().Implements(StringerType) {
		return instance.Interface().(fmt.Stringer).String()
	}
	if instance.Kind() == reflect.Pointer {
		return fmt.Sprintf("%p", instance.Interface())
	}
	return fmt.Sprintf("%+v", instance.Interface())
}

// Components returns the components discovered by Start.
func (c *Container) Components() []*Component {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Component(nil), c.components...)
}
