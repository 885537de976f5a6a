// Package executor runs a Plan against the control-plane API: resolving
// journal references, dispatching each Step by its action, applying
// create-or-find reconciliation on conflicting creates, and persisting
// progress so an interrupted run can resume without repeating completed
// Steps.
package executor

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/scalr-tools/bulk-import/pkg/apiclient"
	"github.com/scalr-tools/bulk-import/pkg/journal"
	"github.com/scalr-tools/bulk-import/pkg/logger"
	"github.com/scalr-tools/bulk-import/pkg/plan"
)

// Executor drives one Plan to completion against a control-plane API
// client, persisting its outputs journal as it goes.
type Executor struct {
	Client *apiclient.Client
	Logger *logger.Logger
	DryRun bool
}

// New returns an Executor wired to the given client and logger.
func New(client *apiclient.Client, log *logger.Logger, dryRun bool) *Executor {
	return &Executor{Client: client, Logger: log, DryRun: dryRun}
}

// Run loads the Plan at planPath, resumes from any existing outputs
// journal, and executes each Step in order, persisting progress after
// every Step that completes.
func (e *Executor) Run(ctx context.Context, planPath string) error {
	p, err := plan.Load(planPath)
	if err != nil {
		return err
	}

	journalPath := journal.PathFor(planPath)
	lock, err := journal.AcquireLock(journalPath + ".lock")
	if err != nil {
		return errors.Wrap(err, "executor: acquiring journal lock")
	}
	defer lock.Release()

	outputs, err := journal.Load(journalPath)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	runLog := e.Logger.WithRun(runID)
	runLog.Infof("starting run: %d steps", len(p))

	for _, step := range p {
		stepLog := runLog.WithStep(step.ID, step.Action)

		if complete, _ := outputs[step.ID]["complete"].(bool); complete {
			stepLog.Infof("already complete, skipping")
			continue
		}

		if err := e.runStep(ctx, stepLog, step, outputs); err != nil {
			return errors.Wrapf(err, "executor: step %s", step.ID)
		}

		if err := journal.Save(journalPath, outputs); err != nil {
			return errors.Wrap(err, "executor: persisting journal")
		}
	}

	runLog.Successf("run complete")
	return nil
}

// runStep resolves references, dispatches one Step, and records its
// outputs in place. It does not persist the journal; Run does that once
// per Step so a crash never loses more than the in-flight Step.
func (e *Executor) runStep(ctx context.Context, stepLog *logger.Logger, step plan.Step, outputs plan.Outputs) error {
	spec, ok := LookupAction(step.Action)
	if !ok {
		return &UnknownActionError{StepID: step.ID, Action: step.Action}
	}

	if e.DryRun && spec.SkipOnDryRun {
		stepLog.Infof("dry-run: skipping (would %s)", spec.Method)
		return nil
	}

	resolvedParams, err := resolveMap(step.Params, outputs)
	if err != nil {
		return err
	}
	resolvedQuery, err := resolveMap(step.Query, outputs)
	if err != nil {
		return err
	}
	var resolvedBody interface{}
	if step.Body != nil {
		resolvedBody, err = plan.ResolveReferences(step.Body, outputs)
		if err != nil {
			return err
		}
	}

	reqURL, err := plan.InterpolateURL(spec.URLTemplate, resolvedParams)
	if err != nil {
		return err
	}
	query := toURLValues(resolvedQuery)

	// Steps skipped under dry-run record no outputs.
	if e.DryRun && spec.SkipOnDryRun {
		stepLog.Infof("dry-run: skipping (would %s %s query=%v body=%v)", spec.Method, reqURL, query, resolvedBody)
		return nil
	}

	var record map[string]interface{}
	switch spec.Method {
	case MethodList:
		stepLog.Infof("listing %s", reqURL)
		records, err := e.Client.List(ctx, reqURL, query)
		if err != nil {
			return err
		}
		if len(records) != 1 {
			return &ListCardinalityError{StepID: step.ID, URL: reqURL, Count: len(records)}
		}
		rec, ok := records[0].(map[string]interface{})
		if !ok {
			return errors.Errorf("executor: step %s: list result is not an object", step.ID)
		}
		record = rec

	case MethodPost:
		stepLog.Infof("posting %s", reqURL)
		bodyMap, _ := resolvedBody.(map[string]interface{})
		rec, err := e.Client.Post(ctx, reqURL, query, resolvedBody)
		if err != nil {
			stepLog.Warnf("post failed, attempting create-or-find reconciliation: %v", err)
			rec, err = e.reconcile(ctx, step.Action, reqURL, bodyMap, err)
			if err != nil {
				return err
			}
			stepLog.Infof("reconciled to existing record")
		}
		record = rec

	default:
		return &UnknownActionError{StepID: step.ID, Action: step.Action}
	}

	stepOutputs := map[string]interface{}{}
	for _, out := range step.Outputs {
		val, ok := lookupField(record, out.Location)
		if !ok {
			return errors.Errorf("executor: step %s: result has no field %q for output %q", step.ID, out.Location, out.Name)
		}
		stepOutputs[out.Name] = val
	}
	stepOutputs["complete"] = true
	outputs[step.ID] = stepOutputs

	stepLog.Successf("step complete")
	return nil
}

// resolveMap resolves references in a Step's params/query map, returning an
// empty (non-nil) map when src is nil so downstream interpolation never
// nil-derefs.
func resolveMap(src map[string]interface{}, outputs plan.Outputs) (map[string]interface{}, error) {
	if src == nil {
		return map[string]interface{}{}, nil
	}
	resolved, err := plan.ResolveReferences(src, outputs)
	if err != nil {
		return nil, err
	}
	return resolved.(map[string]interface{}), nil
}

// toURLValues flattens a resolved query map into url.Values, stringifying
// scalar values.
func toURLValues(m map[string]interface{}) url.Values {
	if len(m) == 0 {
		return nil
	}
	vals := url.Values{}
	for k, v := range m {
		vals.Set(k, toQueryString(v))
	}
	return vals
}

func toQueryString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// lookupField reads a (possibly absent) top-level field off a result
// record. The control-plane responses this Executor consumes are flat
// objects, so output locations name a single field rather than a dotted
// path.
func lookupField(record map[string]interface{}, location string) (interface{}, bool) {
	v, ok := record[location]
	return v, ok
}
