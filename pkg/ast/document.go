package ast

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/asttree/pkg/errors"
)

// Format identifies the encoding of an input document.
type Format string

// Supported input formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the nested input consumed by [Build].
type Document struct {
	NodesCount int    `json:"nodes_count" yaml:"nodes_count"`
	Nodes      []Node `json:"nodes" yaml:"nodes"`
}

// Node is one AST node of the input document.
// A nil and an empty Children slice both describe a leaf.
type Node struct {
	Index    int    `json:"index" yaml:"index"`
	Category string `json:"category" yaml:"category"`
	Children []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// rawDocument tracks field presence so missing keys become schema errors.
type rawDocument struct {
	NodesCount      *int    `json:"nodes_count" yaml:"nodes_count"`
	NodesCountCamel *int    `json:"nodesCount" yaml:"nodesCount"`
	Nodes           *[]Node `json:"nodes" yaml:"nodes"`
}

type rawNode struct {
	Index       *int    `json:"index" yaml:"index"`
	MasterIndex *int    `json:"master_index" yaml:"master_index"`
	Category    *string `json:"category" yaml:"category"`
	Container   *string `json:"container" yaml:"container"`
	Children    []Node  `json:"children" yaml:"children"`
}

// UnmarshalJSON decodes a document, rejecting missing required fields.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return raw.into(d)
}

// UnmarshalYAML decodes a document, rejecting missing required fields.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	var raw rawDocument
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return raw.into(d)
}

// UnmarshalJSON decodes a node, accepting the legacy master_index/container keys.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return raw.into(n)
}

// UnmarshalYAML decodes a node, accepting the legacy master_index/container keys.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var raw rawNode
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return raw.into(n)
}

func (r rawDocument) into(d *Document) error {
	count := r.NodesCount
	if count == nil {
		count = r.NodesCountCamel
	}
	if count == nil {
		return errors.SchemaError("document is missing required field %q", "nodes_count")
	}
	if r.Nodes == nil {
		return errors.SchemaError("document is missing required field %q", "nodes")
	}
	*d = Document{NodesCount: *count, Nodes: *r.Nodes}
	return nil
}

func (r rawNode) into(n *Node) error {
	index := r.Index
	if index == nil {
		index = r.MasterIndex
	}
	if index == nil {
		return errors.SchemaError("node is missing required field %q", "index")
	}
	category := r.Category
	if category == nil {
		category = r.Container
	}
	if category == nil {
		return errors.SchemaError("node %d is missing required field %q", *index, "category")
	}
	*n = Node{Index: *index, Category: *category, Children: r.Children}
	return nil
}

// FormatFromPath infers the document format from a file extension.
// Unknown extensions default to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "invalid input format: %q (must be one of: json, yaml)", s)
	}
}

// Decode reads a document in the given format from r.
// Every decoding failure, including malformed syntax, is reported as a schema error.
// Decode does not close r.
func Decode(r io.Reader, format Format) (Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON, "":
		err = json.NewDecoder(r).Decode(&doc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		return Document{}, errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q", format)
	}
	if err != nil {
		if errors.IsSchemaError(err) {
			return Document{}, err
		}
		return Document{}, errors.Wrap(errors.ErrCodeInvalidSchema, err, "decode %s document", formatName(format))
	}
	return doc, nil
}

// Marshal encodes a document as indented JSON using the canonical keys.
func Marshal(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func formatName(f Format) string {
	if f == "" {
		return string(FormatJSON)
	}
	return string(f)
}
