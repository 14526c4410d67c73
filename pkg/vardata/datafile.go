package vardata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/tidwall/jsonc"
	yamlv3 "go.yaml.in/yaml/v3"
)

// Format is the syntax of a definition file.
type Format string

// Supported definition file formats. JSON input may contain comments and
// trailing commas.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension; anything that is
// not .json or .jsonc is YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// entrySpec is the long form of a definition: content and flags.
type entrySpec struct {
	Value *string `mapstructure:"value"`
	Flags Flags   `mapstructure:"flags"`
}

// LoadFile reads a definition file into a new store.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		return nil, fmt.Errorf("vardata: read %s: %w", path, err)
	}

	s, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Decode parses definitions into a new store. Top-level keys are variable
// names, created in file order. A value is either a scalar (the content) or
// a mapping with optional "value" and "flags" keys; null creates the
// variable without content.
func Decode(data []byte, format Format) (*Store, error) {
	s := New()

	var err error
	switch format {
	case FormatJSON:
		err = decodeJSON(s, data)
	case FormatYAML:
		err = decodeYAML(s, data)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("vardata: decode: %w", err)
	}

	return s, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// YAML
// ═══════════════════════════════════════════════════════════════════════════

func decodeYAML(s *Store, data []byte) error {
	var doc yamlv3.Node
	if err := yamlv3.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return nil
	}

	root := doc.Content[0]
	if root.Kind != yamlv3.MappingNode {
		return errors.New("definitions root must be a mapping")
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		name, value := root.Content[i].Value, root.Content[i+1]

		switch value.Kind {
		case yamlv3.ScalarNode:
			if value.ShortTag() == "!!null" {
				s.InitVar(name)
				continue
			}
			s.SetVar(name, value.Value)
		case yamlv3.MappingNode:
			var raw map[string]any
			if err := value.Decode(&raw); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if err := applyEntry(s, name, raw); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%s: line %d: expected a scalar or a mapping", name, value.Line)
		}
	}

	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// JSON / JSONC
// ═══════════════════════════════════════════════════════════════════════════

func decodeJSON(s *Store, data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("definitions root must be an object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		switch v := value.(type) {
		case nil:
			s.InitVar(name)
		case map[string]any:
			if err := applyEntry(s, name, v); err != nil {
				return err
			}
		case string:
			s.SetVar(name, v)
		case json.Number, bool:
			s.SetVar(name, fmt.Sprint(v))
		default:
			return fmt.Errorf("%s: expected a scalar or an object", name)
		}
	}

	return nil
}

func applyEntry(s *Store, name string, raw map[string]any) error {
	var spec entrySpec
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &spec,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	s.InitVar(name)
	if spec.Flags != nil {
		s.SetFlags(name, spec.Flags)
	}
	if spec.Value != nil {
		s.SetVar(name, *spec.Value)
	}

	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Dump
// ═══════════════════════════════════════════════════════════════════════════

// MarshalYAML renders the store in the definition file format, in creation
// order, with flags sorted by name.
func (s *Store) MarshalYAML() (any, error) {
	root := &yamlv3.Node{Kind: yamlv3.MappingNode}
	for _, name := range s.order {
		v := s.vars[name]
		root.Content = append(root.Content, scalarNode(name, "!!str"), entryNode(v))
	}

	return root, nil
}

func entryNode(v *variable) *yamlv3.Node {
	if len(v.flags) == 0 {
		if !v.hasContent {
			return scalarNode("null", "!!null")
		}

		return contentNode(v.content)
	}

	node := &yamlv3.Node{Kind: yamlv3.MappingNode}
	if v.hasContent {
		node.Content = append(node.Content, scalarNode("value", "!!str"), contentNode(v.content))
	}

	flags := &yamlv3.Node{Kind: yamlv3.MappingNode}
	names := make([]string, 0, len(v.flags))
	for flag := range v.flags {
		names = append(names, flag)
	}
	slices.Sort(names)
	for _, flag := range names {
		flags.Content = append(flags.Content, scalarNode(flag, "!!str"), scalarNode(v.flags[flag], "!!str"))
	}
	node.Content = append(node.Content, scalarNode("flags", "!!str"), flags)

	return node
}

func contentNode(content string) *yamlv3.Node {
	node := scalarNode(content, "!!str")
	if strings.Contains(content, "\n") {
		node.Style = yamlv3.LiteralStyle
	}

	return node
}

func scalarNode(value, tag string) *yamlv3.Node {
	return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: tag, Value: value}
}
