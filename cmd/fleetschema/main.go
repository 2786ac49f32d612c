package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"

	"github.com/ericogr/fleet-clash/internal/api"
	"github.com/ericogr/fleet-clash/internal/game"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema (stdout when empty)")
	flag.Parse()

	schema := buildSchema()

	if outPath == "" {
		data, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to marshal schema: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}
	if err := writeSchema(outPath, schema); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

var faceType = reflect.TypeOf(game.Face{})
var frameIDType = reflect.TypeOf(game.FrameID(""))

// mapTypes describes the types whose wire form differs from their Go
// layout.
func mapTypes(t reflect.Type) *jsonschema.Schema {
	switch t {
	case faceType:
		props := jsonschema.NewProperties()
		props.Set("dmg", &jsonschema.Schema{
			Type:        "integer",
			Minimum:     json.Number("0"),
			Description: "Damage dealt on an automatic hit",
		})
		props.Set("self", &jsonschema.Schema{
			OneOf:       []*jsonschema.Schema{{Type: "boolean"}, {Type: "number"}},
			Description: "Backlash onto the attacker's own fleet",
		})
		return &jsonschema.Schema{
			Type:        "object",
			Properties:  props,
			Description: "One die face; an empty object is a blank face",
		}
	case frameIDType:
		return &jsonschema.Schema{
			Type: "string",
			Enum: []interface{}{
				string(game.FrameInterceptor),
				string(game.FrameCruiser),
				string(game.FrameDreadnought),
			},
		}
	}
	return nil
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		Mapper:                    mapTypes,
	}
	schema := reflector.Reflect(new(api.FleetRequest))
	schema.Title = "Fleet Clash fleet submission"
	schema.Description = "Body of POST /api/rooms/:roomID/fleet"
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
