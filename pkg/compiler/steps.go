package compiler

import (
	"fmt"

	"github.com/scalr-tools/bulk-import/pkg/plan"
)

func projectFindStep(ids *IDGenerator, projectName, envID string) plan.Step {
	return plan.Step{
		ID:     ids.Next(),
		Action: "find-project",
		Params: map[string]interface{}{"envId": envID},
		Query:  map[string]interface{}{"name": projectName},
		Outputs: []plan.OutputSpec{
			{Name: "projectid", Location: "id"},
		},
	}
}

func farmFindStep(ids *IDGenerator, farmName, envID string) plan.Step {
	return plan.Step{
		ID:     ids.Next(),
		Action: "find-farm",
		Params: map[string]interface{}{"envId": envID},
		Query:  map[string]interface{}{"name": farmName},
		Outputs: []plan.OutputSpec{
			{Name: "farmid", Location: "id"},
		},
	}
}

func farmRoleFindStep(ids *IDGenerator, farmRoleName, parentFarmStepID, envID string) plan.Step {
	return plan.Step{
		ID:     ids.Next(),
		Action: "find-farm-role",
		Params: map[string]interface{}{
			"envId":  envID,
			"farmId": fmt.Sprintf("$ref/%s/farmid", parentFarmStepID),
		},
		Query: map[string]interface{}{"alias": farmRoleName},
		Outputs: []plan.OutputSpec{
			{Name: "farmroleid", Location: "id"},
		},
	}
}

func serverImportStep(ids *IDGenerator, serverID, parentFarmRoleStepID, envID string) plan.Step {
	return plan.Step{
		ID:     ids.Next(),
		Action: "import-server",
		Params: map[string]interface{}{
			"envId":      envID,
			"farmRoleId": fmt.Sprintf("$ref/%s/farmroleid", parentFarmRoleStepID),
		},
		Body: map[string]interface{}{"cloudServerId": serverID},
	}
}

func farmLaunchStep(ids *IDGenerator, parentFarmStepID, envID string) plan.Step {
	return plan.Step{
		ID:     ids.Next(),
		Action: "launch-farm",
		Params: map[string]interface{}{
			"envId":  envID,
			"farmId": fmt.Sprintf("$ref/%s/farmid", parentFarmStepID),
		},
	}
}

// farmCreateStep builds a create-farm Step. Exactly one of projectID or
// projectStepID should be set: a literal project id (--project-names not
// given) or a $ref into a find-project Step's output.
func farmCreateStep(ids *IDGenerator, farmName, envID, projectID, projectStepID string) plan.Step {
	project := projectID
	if projectStepID != "" {
		project = fmt.Sprintf("$ref/%s/projectid", projectStepID)
	}
	return plan.Step{
		ID:     ids.Next(),
		Action: "create-farm",
		Params: map[string]interface{}{"envId": envID},
		Body: map[string]interface{}{
			"name":    farmName,
			"project": map[string]interface{}{"id": project},
		},
		Outputs: []plan.OutputSpec{
			{Name: "farmid", Location: "id"},
		},
	}
}
