// Package plan defines the Step/Plan data model, the outputs-journal
// reference resolver, and Plan file (de)serialization.
package plan

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// OutputSpec declares a single value a Step extracts from its result
// record and records to the outputs journal: outputs[step.ID][Name] =
// result[Location].
type OutputSpec struct {
	Name     string `yaml:"name"`
	Location string `yaml:"location"`
}

// Step is one unit of work in a Plan: an action applied to a URL template
// built from Params, an optional query and body, and the outputs it
// records on success.
type Step struct {
	ID      string                 `yaml:"id"`
	Action  string                 `yaml:"action"`
	Params  map[string]interface{} `yaml:"params,omitempty"`
	Query   map[string]interface{} `yaml:"query,omitempty"`
	Body    interface{}            `yaml:"body,omitempty"`
	Outputs []OutputSpec           `yaml:"outputs,omitempty"`
}

// Plan is an ordered sequence of Steps, executed strictly in declared
// order.
type Plan []Step

// Load reads and decodes a Plan from a YAML file: a top-level sequence of
// Step mappings. Unknown keys on a Step are ignored, matching the spec's
// external-interface contract.
func Load(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "plan: reading %s", path)
	}
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrapf(err, "plan: decoding %s", path)
	}
	return p, nil
}

// WriteNew serializes a Plan to path as YAML, refusing to overwrite an
// existing file — the Go equivalent of the compiler's open(fname, 'x')
// semantics in original_source/2_plan/make_plan.py's write_plan.
func WriteNew(path string, p Plan) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return errors.Wrapf(err, "plan: encoding %s", path)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return errors.Wrapf(err, "plan: creating %s", path)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return errors.Wrapf(err, "plan: writing %s", path)
	}
	return nil
}
