package main

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"
	"strings"

	"github.com/a-peyrard/jamocha"
	"github.com/rs/zerolog"
	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo

type (
	TypeRef struct {
		ImportPath string
		Name       string
	}

	ParamDefinition struct {
		Name      string
		Qualifier string
	}

	ComponentDefinition struct {
		Type        TypeRef
		Pointer     bool
		Constructor string
		Description string

		Capabilities []TypeRef
		Params       []ParamDefinition
	}

	// ScanResult is what was found in the packages of the namespace.
	ScanResult struct {
		Components []ComponentDefinition
		// packages by directory, used to locate the package receiving the generated file
		packagesByDir map[string]*packages.Package
	}
)

func (t TypeRef) String() string {
	return t.ImportPath + "." + t.Name
}

func (c ComponentDefinition) String() string {
	capabilities := make([]string, len(c.Capabilities))
	for i, capability := range c.Capabilities {
		capabilities[i] = capability.String()
	}
	return fmt.Sprintf(
		`✨ Component: %s
Constructor: %s
Description: %s
Capabilities: [%s]
Params: %d`,
		c.Type,
		c.Constructor,
		c.Description,
		strings.Join(capabilities, ", "),
		len(c.Params),
	)
}

// PackageAt returns the package whose files live in dir, if it was loaded.
func (r ScanResult) PackageAt(dir string) (*packages.Package, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, false
	}
	pkg, found := r.packagesByDir[abs]
	return pkg, found
}

// scan loads the packages below dir and collects the @component types of the namespace.
func scan(logger zerolog.Logger, dir string, namespace string) (ScanResult, error) {
	cfg := &packages.Config{
		Mode:  loadMode,
		Dir:   dir,
		Tests: false,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return ScanResult{}, fmt.Errorf("failed to load packages below %s:\n\t%w", dir, err)
	}

	result := ScanResult{packagesByDir: make(map[string]*packages.Package)}
	var (
		scoped   []*packages.Package
		loadErrs []error
	)
	for _, pkg := range pkgs {
		for _, pkgErr := range pkg.Errors {
			loadErrs = append(loadErrs, pkgErr)
		}
		for _, file := range pkg.GoFiles {
			result.packagesByDir[filepath.Dir(file)] = pkg
		}
		if jamocha.InNamespace(pkg.PkgPath, namespace) {
			scoped = append(scoped, pkg)
		}
	}
	if len(loadErrs) > 0 {
		return ScanResult{}, fmt.Errorf("packages below %s have errors:\n\t%w", dir, errors.Join(loadErrs...))
	}

	interfaces := collectInterfaces(scoped)
	logger.Debug().Int("packages", len(scoped)).Int("interfaces", len(interfaces)).Msg("Packages loaded")

	for _, pkg := range scoped {
		logger := logger.With().Str("package", pkg.PkgPath).Logger()
		logger.Debug().Msg("Scanning package")

		for _, file := range pkg.Syntax {
			for _, decl := range file.Decls {
				genDecl, ok := decl.(*ast.GenDecl)
				if !ok || genDecl.Tok != token.TYPE {
					continue
				}
				for _, spec := range genDecl.Specs {
					typeSpec := spec.(*ast.TypeSpec)
					doc := typeSpec.Doc
					if doc == nil && len(genDecl.Specs) == 1 {
						doc = genDecl.Doc
					}
					if !hasComponentAnnotation(doc) {
						continue
					}

					logger := logger.With().Str("type", typeSpec.Name.Name).Logger()
					logger.Debug().Msg("=> Found component")

					definition, err := describeComponent(logger, pkg, typeSpec, doc, interfaces)
					if err != nil {
						return ScanResult{}, err
					}
					result.Components = append(result.Components, definition)
				}
			}
		}
	}

	sort.Slice(result.Components, func(i, j int) bool {
		return result.Components[i].Type.String() < result.Components[j].Type.String()
	})

	return result, nil
}

// collectInterfaces returns the named interfaces having at least one method, sorted by
// qualified name.
func collectInterfaces(pkgs []*packages.Package) []*types.TypeName {
	var interfaces []*types.TypeName
	for _, pkg := range pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			typeName, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || typeName.IsAlias() {
				continue
			}
			named, ok := typeName.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 {
				continue
			}
			if iface, ok := named.Underlying().(*types.Interface); ok && iface.NumMethods() > 0 {
				interfaces = append(interfaces, typeName)
			}
		}
	}
	sort.Slice(interfaces, func(i, j int) bool {
		return refOf(interfaces[i]).String() < refOf(interfaces[j]).String()
	})
	return interfaces
}

func describeComponent(
	logger zerolog.Logger,
	pkg *packages.Package,
	typeSpec *ast.TypeSpec,
	doc *ast.CommentGroup,
	interfaces []*types.TypeName,
) (ComponentDefinition, error) {
	typeName := typeSpec.Name.Name
	if typeSpec.TypeParams != nil {
		return ComponentDefinition{}, fmt.Errorf("component %s.%s must not be generic", pkg.PkgPath, typeName)
	}

	annotation := parseComponentAnnotation(doc.Text())
	if unknown := annotation.UnknownProperties(); len(unknown) > 0 {
		logger.Warn().Strs("properties", unknown).Msg("Unknown component properties, skipping them")
	}

	constructorName := "New" + typeName
	constructor, ok := pkg.Types.Scope().Lookup(constructorName).(*types.Func)
	if !ok {
		return ComponentDefinition{}, fmt.Errorf(
			"no constructor %s found for component %s.%s", constructorName, pkg.PkgPath, typeName,
		)
	}
	signature := constructor.Type().(*types.Signature)
	produced, pointer, err := checkConstructor(pkg, typeName, signature)
	if err != nil {
		return ComponentDefinition{}, fmt.Errorf("invalid constructor %s for component %s.%s:\n\t%w", constructorName, pkg.PkgPath, typeName, err)
	}

	definition := ComponentDefinition{
		Type:        TypeRef{ImportPath: pkg.PkgPath, Name: typeName},
		Pointer:     pointer,
		Constructor: constructorName,
		Description: annotation.description,
	}
	for _, iface := range interfaces {
		if types.Implements(produced, iface.Type().Underlying().(*types.Interface)) {
			definition.Capabilities = append(definition.Capabilities, refOf(iface))
		}
	}

	funcDecl, file := findFuncDecl(pkg, constructorName)
	if funcDecl == nil {
		return ComponentDefinition{}, fmt.Errorf("no declaration found for constructor %s", constructorName)
	}
	for _, field := range funcDecl.Type.Params.List {
		qualifier := ""
		names := field.Names
		if len(names) == 0 {
			names = []*ast.Ident{{Name: ""}}
		}
		for _, name := range names {
			paramLogger := logger.With().Str("param", name.Name).Logger()
			if len(names) == 1 {
				annotation := parseQualifierAnnotation(&paramLogger, findCommentForParam(pkg.Fset, file, field))
				if named, found := annotation.Named(); found {
					qualifier = named
				}
			}
			paramName := name.Name
			if paramName == "_" {
				paramName = ""
			}
			definition.Params = append(definition.Params, ParamDefinition{Name: paramName, Qualifier: qualifier})
		}
	}

	return definition, nil
}

// checkConstructor makes sure the constructor returns the component, optionally with an error,
// and returns the produced type.
func checkConstructor(pkg *packages.Package, typeName string, signature *types.Signature) (types.Type, bool, error) {
	if signature.Variadic() {
		return nil, false, errors.New("constructor must not be variadic")
	}
	results := signature.Results()
	if results.Len() != 1 && results.Len() != 2 {
		return nil, false, fmt.Errorf("constructor must return 1 or 2 values, got %d", results.Len())
	}
	if results.Len() == 2 && !types.Identical(results.At(1).Type(), types.Universe.Lookup("error").Type()) {
		return nil, false, errors.New("constructor must return an error as the second element")
	}

	produced := results.At(0).Type()
	target := produced
	pointer := false
	if ptr, ok := target.(*types.Pointer); ok {
		target = ptr.Elem()
		pointer = true
	}
	named, ok := target.(*types.Named)
	if !ok || named.Obj().Pkg() != pkg.Types || named.Obj().Name() != typeName {
		return nil, false, fmt.Errorf("constructor must return %s or *%s, got %s", typeName, typeName, produced)
	}
	return produced, pointer, nil
}

func findFuncDecl(pkg *packages.Package, name string) (*ast.FuncDecl, *ast.File) {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			if fn, ok := decl.(*ast.FuncDecl); ok && fn.Recv == nil && fn.Name.Name == name {
				return fn, file
			}
		}
	}
	return nil, nil
}

func refOf(typeName *types.TypeName) TypeRef {
	return TypeRef{ImportPath: typeName.Pkg().Path(), Name: typeName.Name()}
}
