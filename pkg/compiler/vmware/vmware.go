// Package vmware implements compiler.Platform for VMware imports, per
// original_source/2_plan/platforms/vmware.py.
//
// CSV format: server id, farm name, farm role alias, datacenter,
// instance type id, network id, role id, compute resource, host, project
// name or id, folder, resource group, datastore.
package vmware

import (
	"fmt"

	"github.com/scalr-tools/bulk-import/pkg/compiler"
	"github.com/scalr-tools/bulk-import/pkg/plan"
)

const (
	colAlias           = 2
	colDatacenter      = 3
	colInstanceType    = 4
	colNetwork         = 5
	colRoleID          = 6
	colComputeResource = 7
	colHost            = 8
	colFolder          = 10
	colResourceGroup   = 11
	colDatastore       = 12
)

// Platform is the vmware compiler.Platform implementation.
type Platform struct{}

// New returns the vmware Platform.
func New() *Platform { return &Platform{} }

func (Platform) Name() string { return "vmware" }

func (Platform) FarmRoleFromLine(line []string) (map[string]interface{}, error) {
	if len(line) <= colDatastore {
		return nil, fmt.Errorf("vmware: row has %d columns, need at least %d", len(line), colDatastore+1)
	}
	return map[string]interface{}{
		"alias":            line[colAlias],
		"datacenter":       line[colDatacenter],
		"instance_type":    line[colInstanceType],
		"network":          line[colNetwork],
		"role_id":          line[colRoleID],
		"compute_resource": line[colComputeResource],
		"host":             line[colHost],
		"folder":           line[colFolder],
		"resource_group":   line[colResourceGroup],
		"datastore":        line[colDatastore],
	}, nil
}

func (Platform) CheckFarmRole(structure map[string]interface{}) error {
	alias, _ := structure["alias"].(string)
	return compiler.ValidateAlias(alias)
}

func (Platform) FarmRoleCreateStep(ids *compiler.IDGenerator, envID, parentFarmStepID string, structure map[string]interface{}) plan.Step {
	alias := structure["alias"].(string)

	body := compiler.NewBodyBuilder().
		Set("alias", alias).
		Set("cloudFeatures.type", "VmwareCloudFeatures").
		Set("cloudFeatures.hosts.0", structure["host"]).
		Set("cloudFeatures.dataStore", structure["datastore"]).
		Set("cloudFeatures.computeResource", structure["compute_resource"]).
		Set("cloudFeatures.folder", structure["folder"]).
		Set("cloudFeatures.resourcePool", structure["resource_group"]).
		Set("cloudLocation", structure["datacenter"]).
		Set("cloudPlatform", "vmware").
		Set("instanceType.id", structure["instance_type"]).
		Set("networking.networks.0.id", structure["network"]).
		Set("role.id", structure["role_id"]).
		Set("scaling.enabled", false).
		Build()

	return plan.Step{
		ID:     ids.Next(),
		Action: "create-farm-role",
		Params: map[string]interface{}{
			"envId":  envID,
			"farmId": fmt.Sprintf("$ref/%s/farmid", parentFarmStepID),
		},
		Body: body,
		Outputs: []plan.OutputSpec{
			{Name: "farmroleid", Location: "id"},
		},
	}
}
