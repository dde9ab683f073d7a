package document

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Decode parses a stored document body. An empty body decodes to an empty
// document rather than an error.
func Decode(data []byte) (Document, error) {
	if len(data) == 0 {
		return Document{}, nil
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if d == nil {
		d = Document{}
	}
	return d, nil
}

// Encode serializes a document for persistence. Key order in the output is
// not meaningful; the document's order metadata carries intent.
func Encode(d Document) ([]byte, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return data, nil
}
