package compiler

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/sjson"
)

// BodyBuilder accumulates a farm role create-step's nested body by dotted
// JSON path, the way pkg/runner/helpers.SetJsonValue lets a caller set an
// arbitrary path into a JSON document without hand-building nested
// map[string]interface{} literals at every call site. Platform packages use
// it because EC2 and VMware bodies are several levels deep
// (networking.networks.0.id, cloudFeatures.hosts.0, ...) and sjson's
// dotted-path setters keep that construction linear and order-independent.
type BodyBuilder struct {
	doc []byte
}

// NewBodyBuilder returns a builder seeded with an empty JSON object.
func NewBodyBuilder() *BodyBuilder {
	return &BodyBuilder{doc: []byte("{}")}
}

// Set writes value at path, which may address nested objects and array
// indices (e.g. "networking.networks.0.id"), and returns the builder for
// chaining.
func (b *BodyBuilder) Set(path string, value interface{}) *BodyBuilder {
	doc, err := sjson.SetBytes(b.doc, path, value)
	if err != nil {
		// Only reachable with a malformed path literal, which would be a
		// programming error in a platform package, not bad input data.
		panic(errors.Wrapf(err, "compiler: setting body path %q", path))
	}
	b.doc = doc
	return b
}

// Build decodes the accumulated document into a plain map suitable for a
// plan.Step's Body field.
func (b *BodyBuilder) Build() map[string]interface{} {
	var m map[string]interface{}
	if err := json.Unmarshal(b.doc, &m); err != nil {
		panic(errors.Wrap(err, "compiler: decoding accumulated body"))
	}
	return m
}
