package goctl

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	modelKey    = "model"
	typesMapKey = "types_map"
)

// Document is a goctl configuration document.
//
// It keeps the parsed YAML node tree so that keys, entries and comments outside
// model.types_map, and fields this tool does not manage, survive a save.
type Document struct {
	root     *yaml.Node
	typesMap *yaml.Node
}

// LoadDocument reads and parses the document at path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrConfigRead, path, err)
	}

	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// ParseDocument parses YAML data. Missing model or types_map mappings are created.
// The top level must be a mapping and every types_map entry needs null_type and type.
func ParseDocument(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}

	if root.Kind == 0 {
		root = yaml.Node{Kind: yaml.DocumentNode}
	}
	if root.Kind != yaml.DocumentNode {
		return nil, fmt.Errorf("%w: unexpected root node", ErrConfigParse)
	}
	if len(root.Content) == 0 {
		root.Content = []*yaml.Node{newMapping()}
	}

	top := root.Content[0]
	if isNull(top) {
		toMapping(top)
	}
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrConfigParse)
	}

	model, err := ensureMapping(top, modelKey)
	if err != nil {
		return nil, err
	}
	typesMap, err := ensureMapping(model, typesMapKey)
	if err != nil {
		return nil, err
	}

	doc := &Document{root: &root, typesMap: typesMap}
	if _, err := doc.TypesMap(); err != nil {
		return nil, err
	}
	return doc, nil
}

// TypesMap decodes model.types_map.
func (d *Document) TypesMap() (MappingTable, error) {
	content := d.typesMap.Content
	table := make(MappingTable, len(content)/2)

	for i := 0; i+1 < len(content); i += 2 {
		key, val := content[i], content[i+1]

		var m TypeMapping
		if err := val.Decode(&m); err != nil {
			return nil, fmt.Errorf("%w: %s.%s: %w", ErrConfigParse, typesMapKey, key.Value, err)
		}
		if m.NullType == "" || m.Type == "" {
			return nil, fmt.Errorf("%w: %s.%s: null_type and type are required", ErrConfigParse, typesMapKey, key.Value)
		}
		table[key.Value] = m
	}

	return table, nil
}

// SetTypesMap writes table into model.types_map sorted by key.
//
// Existing entries missing from table are kept. For entries present in both, only
// null_type, type and pkg are rewritten; other fields and comments stay.
func (d *Document) SetTypesMap(table MappingTable) error {
	existing := make(map[string][2]*yaml.Node)
	names := make([]string, 0, len(table))

	content := d.typesMap.Content
	for i := 0; i+1 < len(content); i += 2 {
		name := content[i].Value
		if _, dup := existing[name]; !dup {
			names = append(names, name)
		}
		existing[name] = [2]*yaml.Node{content[i], content[i+1]}
	}
	for name := range table {
		if _, ok := existing[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := make([]*yaml.Node, 0, 2*len(names))
	for _, name := range names {
		pair, had := existing[name]
		m, set := table[name]

		switch {
		case !set:
			out = append(out, pair[0], pair[1])
		case had && pair[1].Kind == yaml.MappingNode:
			updateMapping(pair[1], m)
			out = append(out, pair[0], pair[1])
		default:
			val := &yaml.Node{}
			if err := val.Encode(m); err != nil {
				return fmt.Errorf("failed to encode mapping for %s: %w", name, err)
			}
			key := newScalar(name)
			if had {
				key = pair[0]
			}
			out = append(out, key, val)
		}
	}

	d.typesMap.Content = out
	if len(out) > 0 {
		d.typesMap.Style &^= yaml.FlowStyle
	}
	return nil
}

// Marshal encodes the document with two-space indentation.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(d.root); err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return buf.Bytes(), nil
}

// Save overwrites path in place after copying the current file to path+".bak".
// It returns the backup path, or "" when path did not exist yet.
func (d *Document) Save(path string) (string, error) {
	data, err := d.Marshal()
	if err != nil {
		return "", err
	}

	backup, err := BackupFile(path)
	if err != nil {
		return "", err
	}

	if err := writeFile(path, data); err != nil {
		return backup, err
	}
	return backup, nil
}

// SaveAs writes the document to path without touching any other file.
func (d *Document) SaveAs(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	return nil
}

func ensureMapping(parent *yaml.Node, key string) (*yaml.Node, error) {
	if v := lookup(parent, key); v != nil {
		if isNull(v) {
			toMapping(v)
		}
		if v.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: %s must be a mapping", ErrConfigParse, key)
		}
		return v, nil
	}

	v := newMapping()
	parent.Content = append(parent.Content, newScalar(key), v)
	return v, nil
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func updateMapping(node *yaml.Node, m TypeMapping) {
	setScalar(node, "null_type", m.NullType)
	setScalar(node, "type", m.Type)
	if m.Pkg != "" {
		setScalar(node, "pkg", m.Pkg)
	} else {
		deleteKey(node, "pkg")
	}
}

func setScalar(m *yaml.Node, key, value string) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value != key {
			continue
		}
		v := m.Content[i+1]
		if v.Kind == yaml.ScalarNode {
			if v.Tag != "!!str" {
				v.Tag = "!!str"
				v.Style = 0
			}
			v.Value = value
		} else {
			m.Content[i+1] = newScalar(value)
		}
		return
	}
	m.Content = append(m.Content, newScalar(key), newScalar(value))
}

func deleteKey(m *yaml.Node, key string) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content = append(m.Content[:i], m.Content[i+2:]...)
			return
		}
	}
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func toMapping(n *yaml.Node) {
	n.Kind = yaml.MappingNode
	n.Tag = "!!map"
	n.Value = ""
	n.Style = 0
	n.Content = nil
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func newScalar(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}
