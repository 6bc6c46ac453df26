package main

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"unicode"
)

const jamochaImportPath = "github.com/a-peyrard/jamocha"

type (
	Target struct {
		Package    string
		ImportPath string
		Func       string
		Namespace  string
	}

	importSpec struct {
		Alias string
		Path  string
	}

	componentRegistration struct {
		Description []string
		Constructor string
		Options     []string
	}

	outputData struct {
		Target
		Imports    []importSpec
		Components []componentRegistration
	}
)

var outputTemplate = template.Must(template.New("components").Parse(`// Code generated by jamocha-gen. DO NOT EDIT.

package {{ .Package }}

import (
	"github.com/a-peyrard/jamocha"
{{- range .Imports }}
	{{ .Alias }} "{{ .Path }}"
{{- end }}
)

// {{ .Func }} registers the components found in {{ printf "%q" .Namespace }}.
func {{ .Func }}(scanner *jamocha.StaticScanner) *jamocha.StaticScanner {
{{- range .Components }}
{{- range .Description }}
	// {{ . }}
{{- end }}
	scanner.MustRegister(
		{{ .Constructor }},
{{- range .Options }}
		{{ . }},
{{- end }}
	)
{{- end }}

	return scanner
}
`))

// generateCode renders the registration function of the components, gofmt-ed.
func generateCode(target Target, components []ComponentDefinition) ([]byte, error) {
	aliases := map[string]struct{}{"jamocha": {}}
	importWithAlias := make(map[string]string)
	var imports []importSpec

	register := func(importPath string) {
		if importPath == target.ImportPath || importPath == jamochaImportPath {
			return
		}
		if _, found := importWithAlias[importPath]; found {
			return
		}
		alias := findSuitableAlias(importPath, aliases)
		aliases[alias] = struct{}{}
		importWithAlias[importPath] = alias
		imports = append(imports, importSpec{Alias: alias, Path: importPath})
	}
	importWithAlias[jamochaImportPath] = "jamocha"

	// register imports in a stable order, so aliases do not move between runs
	var paths []string
	for _, comp := range components {
		paths = append(paths, comp.Type.ImportPath)
		for _, capability := range comp.Capabilities {
			paths = append(paths, capability.ImportPath)
		}
	}
	sort.Strings(paths)
	for _, path := range paths {
		register(path)
	}
	sort.Slice(imports, func(i, j int) bool { return imports[i].Path < imports[j].Path })

	data := outputData{Target: target, Imports: imports}
	for _, comp := range components {
		data.Components = append(data.Components, registrationOf(target, comp, importWithAlias))
	}

	var buf bytes.Buffer
	if err := outputTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template:\n\t%w", err)
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("failed to format generated code:\n\t%w\n%s", err, buf.String())
	}
	return formatted, nil
}

func registrationOf(target Target, comp ComponentDefinition, importWithAlias map[string]string) componentRegistration {
	registration := componentRegistration{
		Constructor: generateFQN(relativeTo(target, comp.Type.ImportPath), comp.Constructor, importWithAlias),
	}
	if comp.Description != "" {
		registration.Description = strings.Split(comp.Description, "\n")
	}

	if len(comp.Capabilities) > 0 {
		capabilities := make([]string, len(comp.Capabilities))
		for i, capability := range comp.Capabilities {
			capabilities[i] = fmt.Sprintf(
				"jamocha.TypeOf[%s]()",
				generateFQN(relativeTo(target, capability.ImportPath), capability.Name, importWithAlias),
			)
		}
		registration.Options = append(registration.Options, fmt.Sprintf("jamocha.As(%s)", strings.Join(capabilities, ", ")))
	}

	if len(comp.Params) > 0 {
		names := make([]string, len(comp.Params))
		for i, param := range comp.Params {
			names[i] = strconv.Quote(param.Name)
		}
		registration.Options = append(registration.Options, fmt.Sprintf("jamocha.ParamNames(%s)", strings.Join(names, ", ")))
	}
	for idx, param := range comp.Params {
		if param.Qualifier != "" {
			registration.Options = append(registration.Options, fmt.Sprintf("jamocha.Qualify(%d, %s)", idx, strconv.Quote(param.Qualifier)))
		}
	}

	return registration
}

func relativeTo(target Target, importPath string) string {
	if importPath == target.ImportPath {
		return ""
	}
	return importPath
}

// generateFQN qualifies the type name with the alias of its package, pointer marks included.
func generateFQN(importPath string, typeName string, importWithAlias map[string]string) string {
	if importPath == "" {
		return typeName
	}
	stars := typeName[:len(typeName)-len(strings.TrimLeft(typeName, "*"))]
	return stars + importWithAlias[importPath] + "." + strings.TrimLeft(typeName, "*")
}

// findSuitableAlias uses the last element of the import path as alias, prefixing it with the
// initials of the previous elements on collision, then suffixing it with a counter.
func findSuitableAlias(importPath string, aliases map[string]struct{}) string {
	tokens := strings.Split(importPath, "/")
	for i := range tokens {
		tokens[i] = sanitizeIdentifier(tokens[i])
	}

	alias := tokens[len(tokens)-1]
	if _, taken := aliases[alias]; !taken {
		return alias
	}
	for i := len(tokens) - 2; i >= 0; i-- {
		if tokens[i] == "" {
			continue
		}
		alias = tokens[i][:1] + alias
		if _, taken := aliases[alias]; !taken {
			return alias
		}
	}
	for counter := 0; ; counter++ {
		candidate := alias + strconv.Itoa(counter)
		if _, taken := aliases[candidate]; !taken {
			return candidate
		}
	}
}

// sanitizeIdentifier keeps the lower-cased letters and digits, so go-utils becomes goutils.
func sanitizeIdentifier(token string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(token) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	sanitized := b.String()
	if sanitized != "" && unicode.IsDigit(rune(sanitized[0])) {
		sanitized = "p" + sanitized
	}
	return sanitized
}
