package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchema_DescribesFaces(t *testing.T) {
	data, err := json.Marshal(buildSchema())
	require.NoError(t, err)

	var doc struct {
		Defs map[string]struct {
			Properties map[string]struct {
				Enum  []string `json:"enum"`
				Items *struct {
					Type       string                     `json:"type"`
					Properties map[string]json.RawMessage `json:"properties"`
				} `json:"items"`
			} `json:"properties"`
		} `json:"$defs"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))

	weapon, ok := doc.Defs["WeaponPart"]
	require.True(t, ok, "schema should define WeaponPart: %s", data)
	assert.Contains(t, weapon.Properties, "dmgPerHit")
	faces := weapon.Properties["faces"].Items
	require.NotNil(t, faces)
	assert.Equal(t, "object", faces.Type)
	assert.Contains(t, faces.Properties, "dmg")
	assert.Contains(t, faces.Properties, "self")

	frame, ok := doc.Defs["Frame"]
	require.True(t, ok)
	assert.Equal(t, []string{"interceptor", "cruiser", "dreadnought"}, frame.Properties["id"].Enum)
}

func TestWriteSchema(t *testing.T) {
	out := filepath.Join(t.TempDir(), "schema", "fleet.json")
	require.NoError(t, writeSchema(out, buildSchema()))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, json.Valid(b))
}
