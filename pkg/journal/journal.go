// Package journal persists the Executor's outputs journal: the record of
// which Steps have completed and what they produced, so a crashed or
// interrupted run can resume exactly where it left off.
package journal

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/scalr-tools/bulk-import/pkg/plan"
)

// PathFor returns the sidecar journal path for a given plan file: the plan
// file path with ".status" appended, matching original_source's
// `plan_filename + '.status'`.
func PathFor(planFile string) string {
	return planFile + ".status"
}

// Load reads a journal file if it exists. A missing file is not an error:
// it just means no Steps have completed yet, matching
// original_source/3_import/bulk_import.py's load_outputs swallowing any
// read failure and starting from an empty journal.
func Load(path string) (plan.Outputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return plan.Outputs{}, nil
		}
		return nil, errors.Wrapf(err, "journal: reading %s", path)
	}

	var outputs plan.Outputs
	if err := yaml.Unmarshal(data, &outputs); err != nil {
		return nil, errors.Wrapf(err, "journal: decoding %s", path)
	}
	if outputs == nil {
		outputs = plan.Outputs{}
	}
	return outputs, nil
}

// Save persists the journal atomically: encode to a temp file in the same
// directory, fsync it, then rename over the target path. A reader never
// observes a partially written journal, so a crash mid-write leaves the
// previous journal intact.
func Save(path string, outputs plan.Outputs) error {
	data, err := yaml.Marshal(outputs)
	if err != nil {
		return errors.Wrapf(err, "journal: encoding %s", path)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "journal: creating temp file for %s", path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "journal: writing %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "journal: fsyncing %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "journal: closing %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "journal: replacing %s", path)
	}
	return nil
}
