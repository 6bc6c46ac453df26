package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/a-peyrard/jamocha/option"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const DefaultEnvPrefix = "JAMOCHA"

type (
	// Settings drives a container bootstrap.
	Settings struct {
		// Namespace is the import path prefix the container scans.
		Namespace string `mapstructure:"namespace"`
		// Parallelism is the number of components built concurrently on start.
		Parallelism int    `mapstructure:"parallelism"`
		LogLevel    string `mapstructure:"log_level"`
	}

	Options struct {
		prefix   string
		file     string
		dotEnvs  []string
		loadEnvs bool
	}

	WithDefault interface {
		ApplyDefault()
	}
)

func WithEnvPrefix(prefix string) option.Option[Options] {
	return func(opts *Options) {
		opts.prefix = prefix
	}
}

// WithFile reads the given config file (any format viper supports) before the environment,
// environment variables taking precedence.
func WithFile(path string) option.Option[Options] {
	return func(opts *Options) {
		opts.file = path
	}
}

// WithDotEnv loads the given .env files in the process environment, without overriding
// variables already set. Defaults to .env in the working directory when no path is given.
func WithDotEnv(paths ...string) option.Option[Options] {
	return func(opts *Options) {
		opts.loadEnvs = true
		opts.dotEnvs = paths
	}
}

func (s *Settings) ApplyDefault() {
	if s.Parallelism < 1 {
		s.Parallelism = 1
	}
	if s.LogLevel == "" {
		s.LogLevel = zerolog.LevelInfoValue
	}
}

// Logger builds a console logger at the configured level, falling back to info when the
// level cannot be parsed.
func (s *Settings) Logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(s.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.DateTime}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Load reads T from the environment (and optionally from files), then applies the defaults
// of every struct implementing WithDefault, nested structs included.
func Load[T any](opts ...option.Option[Options]) (*T, error) {
	options := option.Build(&Options{prefix: DefaultEnvPrefix}, opts...)

	if options.loadEnvs {
		if err := loadDotEnvs(options.dotEnvs); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetEnvPrefix(options.prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if options.file != "" {
		v.SetConfigFile(options.file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file %s:\n\t%w", options.file, err)
		}
	}

	var conf T
	typ := reflect.TypeOf(conf)
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("config must be a struct, got %v", typ)
	}
	if err := bindEnvs(v, options.prefix, typ); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	applyDefaults(reflect.ValueOf(&conf))

	return &conf, nil
}

func loadDotEnvs(paths []string) error {
	if len(paths) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("unable to load .env file:\n\t%w", err)
		}
		return nil
	}
	if err := godotenv.Load(paths...); err != nil {
		return fmt.Errorf("unable to load env files %v:\n\t%w", paths, err)
	}
	return nil
}

func bindEnvs(v *viper.Viper, envPrefix string, typ reflect.Type, parts ...string) error {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, ok := field.Tag.Lookup("mapstructure")
		if !ok {
			name = field.Name
		}

		fieldType := field.Type
		if fieldType.Kind() == reflect.Pointer {
			fieldType = fieldType.Elem()
		}
		if fieldType.Kind() == reflect.Struct {
			if err := bindEnvs(v, envPrefix, fieldType, append(parts, name)...); err != nil {
				return err
			}
			continue
		}

		key := strings.Join(append(parts, name), ".")
		env := strings.Join(append(parts, screamingSnake(name)), "_")
		if err := v.BindEnv(key, withEnvPrefix(envPrefix, env)); err != nil {
			return fmt.Errorf("unable to bind %s:\n\t%w", key, err)
		}
	}
	return nil
}

func withEnvPrefix(envPrefix string, in string) string {
	if envPrefix != "" {
		return strings.ToUpper(envPrefix + "_" + in)
	}
	return strings.ToUpper(in)
}

// screamingSnake turns CustomerId or customer-id into CUSTOMER_ID.
func screamingSnake(in string) string {
	in = strings.TrimSpace(in)

	var b strings.Builder
	b.Grow(len(in) + len(in)/3)
	for i, r := range in {
		separator := false
		switch {
		case 'a' <= r && r <= 'z':
			r -= 'a' - 'A'
		case 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
			separator = i > 0 && !isSeparator(in[i-1])
		case r == '_' || r == '-':
			if i > 0 {
				b.WriteByte('_')
			}
			continue
		}
		if separator {
			b.WriteByte('_')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isSeparator(b byte) bool {
	return b == '_' || b == '-'
}

var withDefaultType = reflect.TypeOf((*WithDefault)(nil)).Elem()

// applyDefaults allocates nil nested structs and calls ApplyDefault, innermost structs first.
func applyDefaults(val reflect.Value) {
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			if !val.CanSet() || val.Type().Elem().Kind() != reflect.Struct {
				return
			}
			val.Set(reflect.New(val.Type().Elem()))
		}
		elem := val.Elem()
		if elem.Kind() != reflect.Struct {
			return
		}
		for i := 0; i < elem.NumField(); i++ {
			if elem.Type().Field(i).IsExported() {
				applyDefaults(elem.Field(i))
			}
		}
		if val.Type().Implements(withDefaultType) {
			val.Interface().(WithDefault).ApplyDefault()
		}
		return
	}
	if val.Kind() == reflect.Struct && val.CanAddr() {
		applyDefaults(val.Addr())
	}
}
