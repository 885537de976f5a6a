package executor

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalr-tools/bulk-import/pkg/apiclient"
	"github.com/scalr-tools/bulk-import/pkg/journal"
	"github.com/scalr-tools/bulk-import/pkg/logger"
	"github.com/scalr-tools/bulk-import/pkg/plan"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.NewLogger(logger.Options{ConsoleOutput: false, ConsoleLevel: logger.DebugLevel})
	require.NoError(t, err)
	return l
}

func writePlan(t *testing.T, dir string, p plan.Plan) string {
	t.Helper()
	path := filepath.Join(dir, "plan.yml")
	require.NoError(t, plan.WriteNew(path, p))
	return path
}

// TestRun_MinimalHappyPath covers a two-step plan (find-farm then
// create-farm-role) that succeeds end to end with no pre-existing journal.
func TestRun_MinimalHappyPath(t *testing.T) {
	dir := t.TempDir()

	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1beta0/user/env1/farms/":
			fmt.Fprint(w, `{"data":[{"id":"farm-1","name":"prod"}],"pagination":{"next":null}}`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1beta0/user/env1/farms/farm-1/farm-roles/":
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"data":{"id":"role-1","alias":"app"}}`)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, "key", "secret", 0)
	e := New(client, testLogger(t), false)

	p := plan.Plan{
		{
			ID:     "find-farm",
			Action: "find-farm",
			Params: map[string]interface{}{"envId": "env1"},
			Query:  map[string]interface{}{"name": "prod"},
			Outputs: []plan.OutputSpec{
				{Name: "farmid", Location: "id"},
			},
		},
		{
			ID:     "make-role",
			Action: "create-farm-role",
			Params: map[string]interface{}{"envId": "env1", "farmId": "$ref/find-farm/farmid"},
			Body:   map[string]interface{}{"alias": "app"},
			Outputs: []plan.OutputSpec{
				{Name: "roleid", Location: "id"},
			},
		},
	}
	path := writePlan(t, dir, p)

	require.NoError(t, e.Run(context.Background(), path))

	outputs, err := journal.Load(journal.PathFor(path))
	require.NoError(t, err)
	assert.Equal(t, "farm-1", outputs["find-farm"]["farmid"])
	assert.Equal(t, true, outputs["find-farm"]["complete"])
	assert.Equal(t, "role-1", outputs["make-role"]["roleid"])
	assert.Equal(t, true, outputs["make-role"]["complete"])
	assert.Len(t, calls, 2)
}

// TestRun_ResumesAfterCrash pre-seeds a journal marking the first step
// complete and asserts the Executor does not re-issue its request.
func TestRun_ResumesAfterCrash(t *testing.T) {
	dir := t.TempDir()

	var calls []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		fmt.Fprint(w, `{"data":{"id":"role-1"}}`)
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, "key", "secret", 0)
	e := New(client, testLogger(t), false)

	p := plan.Plan{
		{ID: "find-farm", Action: "find-farm", Params: map[string]interface{}{"envId": "env1"}},
		{
			ID:     "make-role",
			Action: "create-farm-role",
			Params: map[string]interface{}{"envId": "env1", "farmId": "f1"},
			Body:   map[string]interface{}{"alias": "app"},
			Outputs: []plan.OutputSpec{{Name: "roleid", Location: "id"}},
		},
	}
	path := writePlan(t, dir, p)

	preSeeded := plan.Outputs{"find-farm": {"complete": true}}
	require.NoError(t, journal.Save(journal.PathFor(path), preSeeded))

	require.NoError(t, e.Run(context.Background(), path))

	// Only the second step's POST should have reached the server.
	require.Len(t, calls, 1)
	assert.Equal(t, "POST /api/v1beta0/user/env1/farms/f1/farm-roles/", calls[0])
}

// TestRun_CreateOrFindOnDuplicateFarm covers create-farm conflicting (409)
// with an existing farm, recovered via reconciliation.
func TestRun_CreateOrFindOnDuplicateFarm(t *testing.T) {
	dir := t.TempDir()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1beta0/user/env1/farms/":
			w.WriteHeader(http.StatusConflict)
			fmt.Fprint(w, `{"error":"farm already exists"}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1beta0/user/env1/farms/":
			assert.Equal(t, "prod", r.URL.Query().Get("name"))
			fmt.Fprint(w, `{"data":[{"id":"farm-existing","name":"prod"}],"pagination":{"next":null}}`)
		default:
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, "key", "secret", 0)
	e := New(client, testLogger(t), false)

	p := plan.Plan{
		{
			ID:     "make-farm",
			Action: "create-farm",
			Params: map[string]interface{}{"envId": "env1"},
			Body:   map[string]interface{}{"name": "prod"},
			Outputs: []plan.OutputSpec{
				{Name: "farmid", Location: "id"},
			},
		},
	}
	path := writePlan(t, dir, p)

	require.NoError(t, e.Run(context.Background(), path))

	outputs, err := journal.Load(journal.PathFor(path))
	require.NoError(t, err)
	assert.Equal(t, "farm-existing", outputs["make-farm"]["farmid"])
}

// TestRun_NonReconcilableStatusPropagates asserts a 500 on a reconcilable
// action still fails the run instead of being silently recovered.
func TestRun_NonReconcilableStatusPropagates(t *testing.T) {
	dir := t.TempDir()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"boom"}`)
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, "key", "secret", 0)
	e := New(client, testLogger(t), false)

	p := plan.Plan{
		{
			ID:     "make-farm",
			Action: "create-farm",
			Params: map[string]interface{}{"envId": "env1"},
			Body:   map[string]interface{}{"name": "prod"},
		},
	}
	path := writePlan(t, dir, p)

	err := e.Run(context.Background(), path)
	require.Error(t, err)

	outputs, err := journal.Load(journal.PathFor(path))
	require.NoError(t, err)
	assert.Empty(t, outputs)
}

// TestRun_DryRunSkipsMutatingStepsButRunsLists asserts --dry-run executes
// find/list Steps for visibility but skips every mutating Step without
// touching the journal's completion state for them.
func TestRun_DryRunSkipsMutatingStepsButRunsLists(t *testing.T) {
	dir := t.TempDir()

	var postCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			postCalls++
			t.Fatalf("dry-run must not issue POST requests")
		}
		fmt.Fprint(w, `{"data":[{"id":"farm-1"}],"pagination":{"next":null}}`)
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, "key", "secret", 0)
	e := New(client, testLogger(t), true)

	p := plan.Plan{
		{
			ID:      "find-farm",
			Action:  "find-farm",
			Params:  map[string]interface{}{"envId": "env1"},
			Outputs: []plan.OutputSpec{{Name: "farmid", Location: "id"}},
		},
		{
			ID:     "launch",
			Action: "launch-farm",
			Params: map[string]interface{}{"envId": "env1", "farmId": "$ref/find-farm/farmid"},
		},
	}
	path := writePlan(t, dir, p)

	require.NoError(t, e.Run(context.Background(), path))
	assert.Equal(t, 0, postCalls)

	outputs, err := journal.Load(journal.PathFor(path))
	require.NoError(t, err)
	assert.Equal(t, "farm-1", outputs["find-farm"]["farmid"])
	_, launched := outputs["launch"]
	assert.False(t, launched, "dry-run skipped step must not be marked complete")
}

// TestRun_UnknownActionIsFatal asserts a Step naming an action outside the
// fixed table fails fast with UnknownActionError.
func TestRun_UnknownActionIsFatal(t *testing.T) {
	dir := t.TempDir()
	client := apiclient.New("http://unused.invalid", "key", "secret", 0)
	e := New(client, testLogger(t), false)

	p := plan.Plan{{ID: "bogus", Action: "delete-everything"}}
	path := writePlan(t, dir, p)

	err := e.Run(context.Background(), path)
	require.Error(t, err)
	var uae *UnknownActionError
	require.ErrorAs(t, err, &uae)
}

// TestRun_ListCardinalityMismatchIsFatal asserts a list Step returning two
// records fails instead of silently picking one.
func TestRun_ListCardinalityMismatchIsFatal(t *testing.T) {
	dir := t.TempDir()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"id":"a"},{"id":"b"}],"pagination":{"next":null}}`)
	}))
	defer srv.Close()

	client := apiclient.New(srv.URL, "key", "secret", 0)
	e := New(client, testLogger(t), false)

	p := plan.Plan{{ID: "find-farm", Action: "find-farm", Params: map[string]interface{}{"envId": "env1"}}}
	path := writePlan(t, dir, p)

	err := e.Run(context.Background(), path)
	require.Error(t, err)
	var cardErr *ListCardinalityError
	require.ErrorAs(t, err, &cardErr)
	assert.Equal(t, 2, cardErr.Count)
}
