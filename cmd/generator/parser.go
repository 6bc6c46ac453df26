package main

import (
	"go/ast"
	"go/token"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

const (
	componentAnnotationTag = "@component"
	qualifierAnnotationTag = "@qualifier"
)

var propertiesRegexp = regexp.MustCompile(`(\w+)=(?:"([^"]*)"|(\w+))`)

type ComponentAnnotation struct {
	description string
	properties  map[string]string
}

// UnknownProperties lists the properties set on the annotation, none being supported yet.
func (a ComponentAnnotation) UnknownProperties() []string {
	unknown := make([]string, 0, len(a.properties))
	for key := range a.properties {
		unknown = append(unknown, key)
	}
	sort.Strings(unknown)
	return unknown
}

type QualifierAnnotation struct {
	logger     *zerolog.Logger
	properties map[string]string
}

func (a QualifierAnnotation) Named() (named string, found bool) {
	named, found = a.properties["named"]
	if found && strings.TrimSpace(named) == "" {
		a.logger.Warn().Msg("Blank qualifier, ignoring it")
		return "", false
	}
	return strings.TrimSpace(named), found
}

func hasComponentAnnotation(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, line := range strings.Split(doc.Text(), "\n") {
		if isAnnotationLine(strings.TrimSpace(line), componentAnnotationTag) {
			return true
		}
	}
	return false
}

func parseComponentAnnotation(docText string) ComponentAnnotation {
	var (
		descriptionLines []string
		componentLine    string
	)
	for _, line := range strings.Split(docText, "\n") {
		line = strings.TrimSpace(line)

		if isAnnotationLine(line, componentAnnotationTag) {
			componentLine = line
		} else if line != "" && !strings.HasPrefix(line, "@") {
			descriptionLines = append(descriptionLines, line)
		}
	}

	return ComponentAnnotation{
		description: strings.Join(descriptionLines, "\n"),
		properties:  parseProperties(componentLine, componentAnnotationTag),
	}
}

func parseQualifierAnnotation(logger *zerolog.Logger, comment string) QualifierAnnotation {
	content := strings.TrimPrefix(comment, "//")
	content = strings.TrimSpace(content)
	if !isAnnotationLine(content, qualifierAnnotationTag) {
		return QualifierAnnotation{logger: logger, properties: make(map[string]string)}
	}

	return QualifierAnnotation{
		logger:     logger,
		properties: parseProperties(content, qualifierAnnotationTag),
	}
}

// isAnnotationLine is true for "@component" or "@component foo=bar", but not "@componentized".
func isAnnotationLine(line string, tag string) bool {
	if !strings.HasPrefix(line, tag) {
		return false
	}
	rest := line[len(tag):]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

func parseProperties(line string, tag string) map[string]string {
	properties := make(map[string]string)

	content := strings.TrimSpace(strings.TrimPrefix(line, tag))
	if content == "" {
		return properties
	}

	for _, match := range propertiesRegexp.FindAllStringSubmatch(content, -1) {
		// match[2] is the quoted value, match[3] the bare one
		value := match[2]
		if value == "" {
			value = match[3]
		}
		properties[match[1]] = value
	}

	return properties
}

// findCommentForParam returns the comment sitting on the same line as the parameter.
func findCommentForParam(fset *token.FileSet, file *ast.File, param *ast.Field) string {
	paramLine := fset.Position(param.Pos()).Line

	for _, commentGroup := range file.Comments {
		for _, comment := range commentGroup.List {
			if fset.Position(comment.Pos()).Line == paramLine {
				return comment.Text
			}
		}
	}
	return ""
}
