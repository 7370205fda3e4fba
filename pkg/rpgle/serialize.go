package rpgle

import (
	"github.com/goccy/go-yaml"
)

// The serialisation form is YAML, field by field, spans and text intact.
// Each line and spec is wrapped with its kind tag so consumers do not
// have to re-derive the classification.

type lineDoc struct {
	Kind LineKind `yaml:"kind"`
	Line Srcline  `yaml:"line"`
}

type specDoc struct {
	Kind SpecKind `yaml:"kind"`
	Spec Spec     `yaml:"spec"`
}

// SerializeCST marshals the CST to YAML.
func SerializeCST(c *CST) ([]byte, error) {
	docs := make([]lineDoc, len(c.Lines))
	for i, line := range c.Lines {
		docs[i] = lineDoc{Kind: line.Kind(), Line: line}
	}
	return yaml.Marshal(docs)
}

// SerializeAST marshals the AST to YAML.
func SerializeAST(a *AST) ([]byte, error) {
	docs := make([]specDoc, len(a.Specs))
	for i, s := range a.Specs {
		docs[i] = specDoc{Kind: s.Kind(), Spec: s}
	}
	return yaml.Marshal(docs)
}
