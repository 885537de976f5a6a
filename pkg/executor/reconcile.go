package executor

import (
	"context"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/scalr-tools/bulk-import/pkg/apiclient"
)

// reconciler produces the list request (URL and query) that recovers an
// already-existing object after a failed create, for one whitelisted
// action.
type reconciler func(postURL string, body map[string]interface{}) (listURL string, query url.Values, err error)

var reconcilers = map[string]reconciler{
	"create-farm":      reconcileCreateFarm,
	"create-farm-role": reconcileCreateFarmRole,
	"import-server":    reconcileImportServer,
}

func reconcileCreateFarm(postURL string, body map[string]interface{}) (string, url.Values, error) {
	name, ok := body["name"].(string)
	if !ok {
		return "", nil, errors.New("executor: create-farm reconciliation requires body.name")
	}
	return postURL, url.Values{"name": {name}}, nil
}

func reconcileCreateFarmRole(postURL string, body map[string]interface{}) (string, url.Values, error) {
	alias, ok := body["alias"].(string)
	if !ok {
		return "", nil, errors.New("executor: create-farm-role reconciliation requires body.alias")
	}
	return postURL, url.Values{"alias": {alias}}, nil
}

func reconcileImportServer(postURL string, body map[string]interface{}) (string, url.Values, error) {
	serverID, ok := body["cloudServerId"].(string)
	if !ok {
		return "", nil, errors.New("executor: import-server reconciliation requires body.cloudServerId")
	}
	listURL := strings.Replace(postURL, "actions/import-server", "servers", 1)
	return listURL, url.Values{"cloudServerId": {serverID}}, nil
}

// reconcilableStatus restricts create-or-find recovery to responses that
// plausibly indicate "this object already exists" rather than masking
// unrelated failures (auth errors, validation errors, server errors).
// The source this module is modeled on does not discriminate by status
// code at all (see DESIGN.md); this is the resolved Open Question.
func reconcilableStatus(code int) bool {
	return code == 400 || code == 409
}

// reconcile attempts create-or-find recovery for a failed post Step. It
// returns the recovered record, or the original error if the action has no
// reconciliation rule, the status code isn't whitelisted, or the lookup
// itself fails or finds no record. When the lookup finds several records,
// the first one is used.
func (e *Executor) reconcile(ctx context.Context, action string, postURL string, body map[string]interface{}, postErr error) (map[string]interface{}, error) {
	recon, ok := reconcilers[action]
	if !ok {
		return nil, postErr
	}

	var reqErr *apiclient.RequestError
	if !errors.As(postErr, &reqErr) || !reconcilableStatus(reqErr.StatusCode) {
		return nil, postErr
	}

	listURL, query, err := recon(postURL, body)
	if err != nil {
		return nil, errors.Wrap(err, postErr.Error())
	}

	records, err := e.Client.List(ctx, listURL, query)
	if err != nil {
		return nil, errors.Wrapf(postErr, "reconciliation lookup also failed: %v", err)
	}
	if len(records) == 0 {
		return nil, errors.Wrap(postErr, "reconciliation found no matching existing record")
	}

	rec, ok := records[0].(map[string]interface{})
	if !ok {
		return nil, errors.Wrap(postErr, "reconciliation record is not an object")
	}
	return rec, nil
}
