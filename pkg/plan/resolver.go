package plan

import (
	"fmt"
	"strings"
)

// refPrefix marks a scalar string as a reference into the outputs journal.
const refPrefix = "$ref/"

// Outputs is the outputs journal: step id -> output name -> value, plus a
// "complete" boolean recorded under the same per-step mapping once a Step
// finishes successfully.
type Outputs map[string]map[string]interface{}

// ResolveReferences walks an arbitrary value decoded from a Step's params,
// query or body — a tree of map[string]interface{}, []interface{}, and
// scalars as produced by gopkg.in/yaml.v3 — replacing every scalar string
// of the exact form "$ref/<step-id>/<output-name>" with the value found by
// indexing outputs along the remaining path segments. Non-string scalars
// (notably integers, used for role identifiers) pass through unchanged.
//
// A missing key anywhere along the path is a fatal PlanError: the Step
// that contains the unresolved reference cannot run.
func ResolveReferences(value interface{}, outputs Outputs) (interface{}, error) {
	switch v := value.(type) {
	case map[string]interface{}:
		resolved := make(map[string]interface{}, len(v))
		for k, child := range v {
			r, err := ResolveReferences(child, outputs)
			if err != nil {
				return nil, err
			}
			resolved[k] = r
		}
		return resolved, nil
	case []interface{}:
		resolved := make([]interface{}, len(v))
		for i, child := range v {
			r, err := ResolveReferences(child, outputs)
			if err != nil {
				return nil, err
			}
			resolved[i] = r
		}
		return resolved, nil
	case string:
		if !strings.HasPrefix(v, refPrefix) {
			return v, nil
		}
		return resolveRef(v, outputs)
	default:
		// Non-string scalars (ints, floats, bools, nil) pass through.
		return v, nil
	}
}

func resolveRef(ref string, outputs Outputs) (interface{}, error) {
	path := strings.Split(strings.TrimPrefix(ref, refPrefix), "/")
	if len(path) != 2 {
		return nil, &PlanError{Reason: fmt.Sprintf("malformed reference %q: expected $ref/<step-id>/<output-name>", ref)}
	}
	stepID, outputName := path[0], path[1]

	stepOutputs, ok := outputs[stepID]
	if !ok {
		return nil, &PlanError{Reason: fmt.Sprintf("reference %q: step %q has no recorded outputs (not yet executed?)", ref, stepID)}
	}
	value, ok := stepOutputs[outputName]
	if !ok {
		return nil, &PlanError{Reason: fmt.Sprintf("reference %q: step %q has no output named %q", ref, stepID, outputName)}
	}
	return value, nil
}

// InterpolateURL substitutes every "{name}" placeholder in template with
// the corresponding entry of params, stringified. A placeholder with no
// matching param is a fatal PlanError.
func InterpolateURL(template string, params map[string]interface{}) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(template) {
		if template[i] != '{' {
			b.WriteByte(template[i])
			i++
			continue
		}
		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			return "", &PlanError{Reason: fmt.Sprintf("url template %q: unterminated '{' at offset %d", template, i)}
		}
		name := template[i+1 : i+end]
		val, ok := params[name]
		if !ok {
			return "", &PlanError{Reason: fmt.Sprintf("url template %q: missing path parameter %q", template, name)}
		}
		fmt.Fprintf(&b, "%v", val)
		i += end + 1
	}
	return b.String(), nil
}
