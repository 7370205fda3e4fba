package dds

import (
	"github.com/goccy/go-yaml"
)

type lineDoc struct {
	Kind LineKind `yaml:"kind"`
	Line DDSLine  `yaml:"line"`
}

type entryDoc struct {
	Kind  EntryKind `yaml:"kind"`
	Entry Entry     `yaml:"entry"`
}

// SerializeCST marshals the CST to YAML, each line wrapped with its kind.
func SerializeCST(c *CST) ([]byte, error) {
	docs := make([]lineDoc, len(c.Lines))
	for i, line := range c.Lines {
		docs[i] = lineDoc{Kind: line.Kind(), Line: line}
	}
	return yaml.Marshal(docs)
}

// SerializeAST marshals the AST to YAML, each entry wrapped with its kind.
func SerializeAST(a *AST) ([]byte, error) {
	docs := make([]entryDoc, len(a.Entries))
	for i, e := range a.Entries {
		docs[i] = entryDoc{Kind: e.Kind(), Entry: e}
	}
	return yaml.Marshal(docs)
}
