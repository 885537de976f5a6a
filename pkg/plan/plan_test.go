package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlanYAML = `
- id: s1
  action: find-farm
  params:
    envId: 1
  query:
    name: prod
  outputs:
    - name: farmid
      location: id
- id: s2
  action: import-server
  params:
    envId: 1
    farmRoleId: "$ref/s1/farmroleid"
  body:
    cloudServerId: i-abc
`

func TestLoad_DecodesSteps(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yml")
	require.NoError(t, os.WriteFile(path, []byte(samplePlanYAML), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	require.Len(t, p, 2)
	assert.Equal(t, "s1", p[0].ID)
	assert.Equal(t, "find-farm", p[0].Action)
	assert.Equal(t, "prod", p[0].Query["name"])
	require.Len(t, p[0].Outputs, 1)
	assert.Equal(t, "farmid", p[0].Outputs[0].Name)
	assert.Equal(t, "id", p[0].Outputs[0].Location)
}

func TestWriteNew_RefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yml")

	p := Plan{{ID: "s1", Action: "find-project"}}
	require.NoError(t, WriteNew(path, p))

	err := WriteNew(path, p)
	require.Error(t, err)
}

func TestWriteNew_ThenLoad_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yml")

	p := Plan{
		{
			ID:     "s1",
			Action: "create-farm",
			Params: map[string]interface{}{"envId": 1},
			Body:   map[string]interface{}{"name": "acme"},
			Outputs: []OutputSpec{
				{Name: "farmid", Location: "id"},
			},
		},
	}
	require.NoError(t, WriteNew(path, p))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "s1", loaded[0].ID)
	assert.Equal(t, "create-farm", loaded[0].Action)
}
