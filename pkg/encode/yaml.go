package encode

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pool"
)

// YAML returns the YAML encoding of n. The document is the same as the JSON
// one, with keys in the same order.
func YAML(n element.Node) ([]byte, error) {
	return defaultEncoder.YAML(n)
}

// YAML encodes n.
func (e *Encoder) YAML(n element.Node) ([]byte, error) {
	if element.IsNil(n) {
		return nil, fmt.Errorf("encode: nil node")
	}
	buf := pool.AcquireBuffer()
	defer pool.ReleaseBuffer(buf)

	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(e.document(n))); err != nil {
		return nil, fmt.Errorf("encode %s: %w", n.TypeName(), err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", n.TypeName(), err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func yamlNode(v any) *yaml.Node {
	switch v := v.(type) {
	case object:
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, p := range v {
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.key},
				yamlNode(p.value))
		}
		return m
	case []any:
		s := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v {
			s.Content = append(s.Content, yamlNode(item))
		}
		return s
	case number:
		tag := "!!int"
		if _, err := strconv.ParseInt(string(v), 10, 64); err != nil {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(v)}
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(v)}
	}
}
