package encode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gofhir/fhirmodel/pkg/element"
	"github.com/gofhir/fhirmodel/pool"
)

// JSON returns the compact FHIR JSON encoding of n.
func JSON(n element.Node) ([]byte, error) {
	return defaultEncoder.JSON(n, "")
}

// JSONIndent is JSON with each level indented by indent.
func JSONIndent(n element.Node, indent string) ([]byte, error) {
	return defaultEncoder.JSON(n, indent)
}

// JSON encodes n. An empty indent gives compact output.
func (e *Encoder) JSON(n element.Node, indent string) ([]byte, error) {
	if element.IsNil(n) {
		return nil, fmt.Errorf("encode: nil node")
	}
	buf := pool.AcquireBuffer()
	defer pool.ReleaseBuffer(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(e.document(n)); err != nil {
		return nil, fmt.Errorf("encode %s: %w", n.TypeName(), err)
	}
	return bytes.Clone(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

func (o object) MarshalJSON() ([]byte, error) {
	buf := pool.AcquireBuffer()
	defer pool.ReleaseBuffer(buf)

	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(m.key); err != nil {
			return nil, err
		}
		trimNewline(buf)
		buf.WriteByte(':')
		if err := enc.Encode(m.value); err != nil {
			return nil, fmt.Errorf("%s: %w", m.key, err)
		}
		trimNewline(buf)
	}
	buf.WriteByte('}')
	return bytes.Clone(buf.Bytes()), nil
}

func (n number) MarshalJSON() ([]byte, error) {
	return []byte(n), nil
}

// trimNewline drops the newline json.Encoder writes after each value.
func trimNewline(buf *bytes.Buffer) {
	if b := buf.Bytes(); len(b) > 0 && b[len(b)-1] == '\n' {
		buf.Truncate(len(b) - 1)
	}
}
