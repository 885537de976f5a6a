// Package compiler turns an operator-provided CSV of existing cloud VMs
// into two Plans: a setup Plan (find/create the farms and farm roles those
// VMs will join) and an import Plan (find those farms and roles again, then
// import each VM into its role). It implements
// original_source/2_plan/make_plan.py for the ec2 and vmware platforms.
package compiler

import (
	"fmt"

	"github.com/scalr-tools/bulk-import/pkg/plan"
)

// checkConsistentProjects returns farm name -> project (name or id) for
// every row, failing if two rows name the same farm with different
// projects — original_source's make_farms.
func checkConsistentProjects(rows [][]string) (map[string]string, error) {
	farms := map[string]string{}
	for i, row := range rows {
		farmName := row[ColFarmName]
		project := row[ColProject]
		if existing, ok := farms[farmName]; ok {
			if existing != project {
				return nil, &CompileError{
					Line: i + 1,
					Reason: fmt.Sprintf("project for farm %q defined as %q, previously defined as %q", farmName, project, existing),
				}
			}
			continue
		}
		farms[farmName] = project
	}
	return farms, nil
}

// MakeSetupPlan builds the Plan that provisions every farm and farm role a
// CSV's rows reference: optionally resolving project names to ids, then
// one create-farm per distinct farm, one create-farm-role per distinct
// (farm, alias) pair, and finally one launch-farm per farm.
func MakeSetupPlan(ids *IDGenerator, platform Platform, rows [][]string, envID string, useProjectNames bool) (plan.Plan, error) {
	farmProjects, err := checkConsistentProjects(rows)
	if err != nil {
		return nil, err
	}

	distinctProjects := map[string]bool{}
	for _, project := range farmProjects {
		distinctProjects[project] = true
	}

	type farmRoleKey struct{ farm, alias string }
	farmRoleStructures := map[farmRoleKey]map[string]interface{}{}
	var farmNames []string
	seenFarm := map[string]bool{}
	farmRoleOrder := map[string][]string{} // farm -> ordered distinct aliases

	for i, row := range rows {
		farmName := row[ColFarmName]
		alias := row[ColFarmAlias]
		if !seenFarm[farmName] {
			seenFarm[farmName] = true
			farmNames = append(farmNames, farmName)
		}
		key := farmRoleKey{farmName, alias}
		if _, ok := farmRoleStructures[key]; ok {
			continue
		}
		structure, err := platform.FarmRoleFromLine(row)
		if err != nil {
			return nil, &CompileError{Line: i + 1, Reason: err.Error(), Underlying: err}
		}
		if err := platform.CheckFarmRole(structure); err != nil {
			return nil, &CompileError{Line: i + 1, Reason: err.Error(), Underlying: err}
		}
		farmRoleStructures[key] = structure
		farmRoleOrder[farmName] = append(farmRoleOrder[farmName], alias)
	}

	var steps plan.Plan

	// 0: fetch projects by name, when the CSV's project column holds names
	// rather than ids.
	projectStepIDs := map[string]string{}
	if useProjectNames {
		for project := range distinctProjects {
			step := projectFindStep(ids, project, envID)
			projectStepIDs[project] = step.ID
			steps = append(steps, step)
		}
	}

	// 1: create farms
	farmStepIDs := map[string]string{}
	for _, farmName := range farmNames {
		project := farmProjects[farmName]
		var step plan.Step
		if useProjectNames {
			step = farmCreateStep(ids, farmName, envID, "", projectStepIDs[project])
		} else {
			step = farmCreateStep(ids, farmName, envID, project, "")
		}
		farmStepIDs[farmName] = step.ID
		steps = append(steps, step)
	}

	// 2: create farm roles
	for _, farmName := range farmNames {
		for _, alias := range farmRoleOrder[farmName] {
			structure := farmRoleStructures[farmRoleKey{farmName, alias}]
			step := platform.FarmRoleCreateStep(ids, envID, farmStepIDs[farmName], structure)
			steps = append(steps, step)
		}
	}

	// 3: launch farms
	for _, farmName := range farmNames {
		steps = append(steps, farmLaunchStep(ids, farmStepIDs[farmName], envID))
	}

	return steps, nil
}

// MakeImportPlan builds the Plan that re-finds every farm and farm role a
// CSV's rows reference (by name/alias, not by the ids the setup Plan
// created, since the import Plan may run as a separate invocation against
// farms created by any means) and imports each row's server into its role.
func MakeImportPlan(ids *IDGenerator, rows [][]string, envID string) (plan.Plan, error) {
	var farmNames []string
	seenFarm := map[string]bool{}
	farmRoleOrder := map[string][]string{}
	seenFarmRole := map[[2]string]bool{}

	for i, row := range rows {
		if len(row) <= ColFarmAlias {
			return nil, &CompileError{Line: i + 1, Reason: "row has too few columns"}
		}
		farmName := row[ColFarmName]
		alias := row[ColFarmAlias]
		if !seenFarm[farmName] {
			seenFarm[farmName] = true
			farmNames = append(farmNames, farmName)
		}
		key := [2]string{farmName, alias}
		if !seenFarmRole[key] {
			seenFarmRole[key] = true
			farmRoleOrder[farmName] = append(farmRoleOrder[farmName], alias)
		}
	}

	var steps plan.Plan

	farmStepIDs := map[string]string{}
	for _, farmName := range farmNames {
		step := farmFindStep(ids, farmName, envID)
		farmStepIDs[farmName] = step.ID
		steps = append(steps, step)
	}

	farmRoleStepIDs := map[[2]string]string{}
	for _, farmName := range farmNames {
		for _, alias := range farmRoleOrder[farmName] {
			step := farmRoleFindStep(ids, alias, farmStepIDs[farmName], envID)
			farmRoleStepIDs[[2]string{farmName, alias}] = step.ID
			steps = append(steps, step)
		}
	}

	for _, row := range rows {
		serverID := row[ColServerID]
		farmName := row[ColFarmName]
		alias := row[ColFarmAlias]
		steps = append(steps, serverImportStep(ids, serverID, farmRoleStepIDs[[2]string{farmName, alias}], envID))
	}

	return steps, nil
}
