package compiler

import "github.com/scalr-tools/bulk-import/pkg/plan"

// CSV column indices common to every platform, per
// original_source/2_plan/make_plan.py's make_farms_and_roles_plan
// docstring: server id, farm name, farm role alias are fixed across
// platforms; the project column is fixed at index 9 too.
const (
	ColServerID  = 0
	ColFarmName  = 1
	ColFarmAlias = 2
	ColProject   = 9
)

// Platform knows how to turn one CSV row into a farm role structure, how
// to validate that structure, and how to turn it into a create-farm-role
// Step body. ec2 and vmware are the two concrete implementations.
type Platform interface {
	Name() string
	FarmRoleFromLine(line []string) (map[string]interface{}, error)
	CheckFarmRole(structure map[string]interface{}) error
	FarmRoleCreateStep(ids *IDGenerator, envID, parentFarmStepID string, structure map[string]interface{}) plan.Step
}
