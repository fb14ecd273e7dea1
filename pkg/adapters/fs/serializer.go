package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Payload is a parsed catalog file: structured data plus an optional
// free-text body (Markdown only).
type Payload struct {
	Data map[string]any
	Body string
}

// Serializer defines how to read and write a specific file format.
type Serializer interface {
	// Parse reads from r and returns the file payload.
	Parse(r io.Reader) (*Payload, error)
	// Serialize converts the payload to bytes.
	Serialize(p Payload) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers keyed by extension.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		".json": NewJSONSerializer(),
		".yaml": NewYAMLSerializer(),
		".yml":  NewYAMLSerializer(),
		".md":   NewMarkdownSerializer(),
	}
}

// --- JSON Serializer ---

// JSONSerializer handles JSON files. Numbers are kept as json.Number so
// prices never go through float64.
type JSONSerializer struct{}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

func (s *JSONSerializer) Parse(r io.Reader) (*Payload, error) {
	var data map[string]any
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if data == nil {
		data = make(map[string]any)
	}
	return &Payload{Data: data}, nil
}

func (s *JSONSerializer) Serialize(p Payload) ([]byte, error) {
	return json.MarshalIndent(p.Data, "", "  ")
}

// --- YAML Serializer ---

// YAMLSerializer handles YAML files.
type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Parse(r io.Reader) (*Payload, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if data == nil {
		data = make(map[string]any)
	}
	return &Payload{Data: data}, nil
}

func (s *YAMLSerializer) Serialize(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(p.Data); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// --- Markdown Serializer ---

// MarkdownSerializer handles Markdown files with an optional YAML frontmatter.
type MarkdownSerializer struct{}

// NewMarkdownSerializer creates a new Markdown serializer.
func NewMarkdownSerializer() *MarkdownSerializer {
	return &MarkdownSerializer{}
}

func (s *MarkdownSerializer) Parse(r io.Reader) (*Payload, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := &Payload{Data: make(map[string]any)}

	var rest []byte
	switch {
	case bytes.HasPrefix(raw, []byte("---\n")):
		rest = raw[4:]
	case bytes.HasPrefix(raw, []byte("---\r\n")):
		rest = raw[5:]
	default:
		p.Body = strings.TrimSpace(string(raw))
		return p, nil
	}

	front, body, ok := splitFrontmatter(rest)
	if !ok {
		return nil, errors.New("frontmatter started but no closing delimiter found")
	}

	if err := yaml.Unmarshal(front, &p.Data); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if p.Data == nil {
		p.Data = make(map[string]any)
	}
	p.Body = strings.TrimSpace(string(body))
	return p, nil
}

// splitFrontmatter finds the closing "---" line.
func splitFrontmatter(rest []byte) (front, body []byte, ok bool) {
	if bytes.HasPrefix(rest, []byte("---")) {
		return nil, rest[3:], true
	}
	for _, sep := range [][]byte{[]byte("\n---\n"), []byte("\r\n---\r\n"), []byte("\n---\r\n")} {
		if i := bytes.Index(rest, sep); i >= 0 {
			return rest[:i], rest[i+len(sep):], true
		}
	}
	if bytes.HasSuffix(rest, []byte("\n---")) {
		return rest[:len(rest)-4], nil, true
	}
	return nil, nil, false
}

func (s *MarkdownSerializer) Serialize(p Payload) ([]byte, error) {
	var buf bytes.Buffer
	if len(p.Data) > 0 {
		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(p.Data); err != nil {
			return nil, err
		}
		encoder.Close()
		buf.WriteString("---\n")
	}
	if p.Body != "" {
		buf.WriteString(p.Body)
		if !strings.HasSuffix(p.Body, "\n") {
			buf.WriteString("\n")
		}
	}
	return buf.Bytes(), nil
}
