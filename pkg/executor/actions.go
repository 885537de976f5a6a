package executor

// Method names the two HTTP verbs a Step's action dispatches as.
type Method string

const (
	MethodList Method = "list"
	MethodPost Method = "post"
)

// ActionSpec describes one entry of the fixed, closed action table: how a
// Step of this action is dispatched, and whether it is skipped entirely
// under --dry-run.
type ActionSpec struct {
	Method       Method
	URLTemplate  string
	SkipOnDryRun bool
}

// actionTable is the fixed set of actions the Executor understands. A Step
// whose Action is not a key here fails with an UnknownActionError.
var actionTable = map[string]ActionSpec{
	"find-farm": {
		Method:      MethodList,
		URLTemplate: "/api/v1beta0/user/{envId}/farms/",
	},
	"find-farm-role": {
		Method:      MethodList,
		URLTemplate: "/api/v1beta0/user/{envId}/farms/{farmId}/farm-roles/",
	},
	"find-project": {
		Method:      MethodList,
		URLTemplate: "/api/v1beta0/user/{envId}/projects/",
	},
	"import-server": {
		Method:       MethodPost,
		URLTemplate:  "/api/v1beta0/user/{envId}/farm-roles/{farmRoleId}/actions/import-server/",
		SkipOnDryRun: true,
	},
	"create-farm": {
		Method:       MethodPost,
		URLTemplate:  "/api/v1beta0/user/{envId}/farms/",
		SkipOnDryRun: true,
	},
	"create-farm-role": {
		Method:       MethodPost,
		URLTemplate:  "/api/v1beta0/user/{envId}/farms/{farmId}/farm-roles/",
		SkipOnDryRun: true,
	},
	"launch-farm": {
		Method:       MethodPost,
		URLTemplate:  "/api/v1beta0/user/{envId}/farms/{farmId}/actions/launch/",
		SkipOnDryRun: true,
	},
}

// LookupAction returns the ActionSpec for a Step's action name.
func LookupAction(name string) (ActionSpec, bool) {
	spec, ok := actionTable[name]
	return spec, ok
}
