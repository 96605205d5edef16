package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	utiljson "k8s.io/apimachinery/pkg/util/json"
	utilyaml "k8s.io/apimachinery/pkg/util/yaml"
	sigsyaml "sigs.k8s.io/yaml"
)

const documentSeparator = "---\n"

// ParseStream decodes every document of a multi-document YAML or JSON stream,
// preserving order. Empty and comment-only documents are skipped.
func ParseStream(data []byte) ([]*Document, error) {
	reader := utilyaml.NewYAMLReader(bufio.NewReader(bytes.NewReader(data)))

	var docs []*Document
	for index := 0; ; index++ {
		chunk, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, &ParseError{Index: index, Err: err}
		}

		doc, err := decodeDocument(chunk)
		if err != nil {
			return nil, &ParseError{Index: index, Err: err}
		}
		if doc == nil {
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// ParseOne decodes a stream that must hold exactly one non-empty document.
func ParseOne(data []byte) (*Document, error) {
	docs, err := ParseStream(data)
	if err != nil {
		return nil, err
	}
	if len(docs) != 1 {
		return nil, &ParseError{Err: fmt.Errorf("expected a single document, found %d", len(docs))}
	}
	return docs[0], nil
}

// Serialize encodes a single document as YAML.
func Serialize(doc *Document) ([]byte, error) {
	out, err := sigsyaml.Marshal(doc.Object)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML document: %w", err)
	}
	return out, nil
}

// SerializeStream encodes docs as a multi-document YAML stream.
func SerializeStream(docs []*Document) ([]byte, error) {
	var buf bytes.Buffer
	for i, doc := range docs {
		out, err := Serialize(doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if i > 0 {
			buf.WriteString(documentSeparator)
		}
		buf.Write(out)
	}
	return buf.Bytes(), nil
}

// decodeDocument converts one YAML chunk into a Document. It returns nil for
// chunks without content.
func decodeDocument(chunk []byte) (*Document, error) {
	jsonData, err := sigsyaml.YAMLToJSON(chunk)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(jsonData)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	// util/json turns whole numbers into int64 instead of float64.
	var obj interface{}
	if err := utiljson.Unmarshal(trimmed, &obj); err != nil {
		return nil, err
	}

	m, ok := obj.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("document is %T, expected a mapping", obj)
	}
	return New(m), nil
}
