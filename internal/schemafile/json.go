package schemafile

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// ParseJSON parses a JSON schema document. Unknown keys are rejected.
func ParseJSON(data []byte) (*File, error) {
	var doc document

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	return doc.build("")
}
