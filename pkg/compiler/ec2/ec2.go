// Package ec2 implements compiler.Platform for AWS EC2 imports, per
// original_source/2_plan/platforms/ec2.py.
//
// CSV format: server id, farm name, farm role alias, region, instance
// type, VPC id, subnet, role id, security groups (space separated),
// project id.
package ec2

import (
	"fmt"
	"strings"

	"github.com/scalr-tools/bulk-import/pkg/compiler"
	"github.com/scalr-tools/bulk-import/pkg/plan"
)

const (
	colAlias          = 2
	colCloudLocation  = 3
	colInstanceType   = 4
	colNetworkID      = 5
	colSubnet         = 6
	colRoleID         = 7
	colSecurityGroups = 8
)

// Platform is the ec2 compiler.Platform implementation.
type Platform struct{}

// New returns the ec2 Platform.
func New() *Platform { return &Platform{} }

func (Platform) Name() string { return "ec2" }

func (Platform) FarmRoleFromLine(line []string) (map[string]interface{}, error) {
	if len(line) <= colSecurityGroups {
		return nil, fmt.Errorf("ec2: row has %d columns, need at least %d", len(line), colSecurityGroups+1)
	}
	return map[string]interface{}{
		"alias":           line[colAlias],
		"cloud_location":  line[colCloudLocation],
		"instance_type":   line[colInstanceType],
		"network_id":      line[colNetworkID],
		"subnets":         []string{line[colSubnet]},
		"role_id":         line[colRoleID],
		"security_groups": strings.Fields(line[colSecurityGroups]),
	}, nil
}

func (Platform) CheckFarmRole(structure map[string]interface{}) error {
	alias, _ := structure["alias"].(string)
	if err := compiler.ValidateAlias(alias); err != nil {
		return err
	}
	groups, _ := structure["security_groups"].([]string)
	if len(groups) == 0 {
		return &compiler.CompileError{Reason: fmt.Sprintf("in farm role %s empty security groups list is not allowed", alias)}
	}
	return nil
}

func (Platform) FarmRoleCreateStep(ids *compiler.IDGenerator, envID, parentFarmStepID string, structure map[string]interface{}) plan.Step {
	alias := structure["alias"].(string)
	subnets := structure["subnets"].([]string)
	securityGroups := structure["security_groups"].([]string)

	b := compiler.NewBodyBuilder().
		Set("alias", alias).
		Set("cloudPlatform", "ec2").
		Set("cloudLocation", structure["cloud_location"]).
		Set("instanceType.id", structure["instance_type"]).
		Set("networking.networks.0.id", structure["network_id"]).
		Set("role.id", structure["role_id"]).
		Set("scaling.enabled", false)
	for i, s := range subnets {
		b.Set(fmt.Sprintf("networking.subnets.%d.id", i), s)
	}
	for i, sg := range securityGroups {
		b.Set(fmt.Sprintf("security.securityGroups.%d.id", i), sg)
	}
	body := b.Build()

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
