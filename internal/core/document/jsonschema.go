package document

import (
	"fmt"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/invopop/jsonschema"

	"github.com/example/portplan/internal/core/schema"
)

// JSONSchema describes the ship document for editor tooling. Ship fields
// are properties; doors are additionalProperties.
func JSONSchema(shipSchema, doorSchema schema.Schema) *jsonschema.Schema {
	door := objectSchema(doorSchema)
	door.Title = "Door"
	door.Description = "Door definition keyed by the door's name."
	door.AdditionalProperties = &jsonschema.Schema{}

	root := objectSchema(shipSchema)
	root.Version = jsonschema.Version
	root.Title = "Ship document"
	root.Description = "One ship; the file stem is the ship name. Keys that are not ship fields are doors."
	root.Required = nil
	root.AdditionalProperties = door
	return root
}

func objectSchema(s schema.Schema) *jsonschema.Schema {
	props := orderedmap.New()
	var required []string
	for _, f := range s.Fields() {
		if f.Identity {
			continue
		}
		props.Set(f.Key, kindSchema(f))
		required = append(required, f.Key)
	}
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	}
}

func kindSchema(f schema.FieldDescriptor) *jsonschema.Schema {
	switch f.Kind {
	case schema.KindFloat:
		return &jsonschema.Schema{Type: "number", Title: f.Label}
	case schema.KindPattern:
		var enum []interface{}
		var names []string
		for _, p := range schema.Patterns() {
			enum = append(enum, p.Index())
			names = append(names, fmt.Sprintf("%d=%s", p.Index(), p))
		}
		return &jsonschema.Schema{
			Type:        "integer",
			Title:       f.Label,
			Description: "Index into the allowed fill patterns: " + strings.Join(names, ", "),
			Enum:        enum,
		}
	case schema.KindSide:
		return &jsonschema.Schema{
			Type:        "integer",
			Title:       f.Label,
			Description: "0=Port, 1=Starboard, 2=Both",
			Enum:        []interface{}{int(schema.SidePort), int(schema.SideStarboard), int(schema.SideBoth)},
		}
	case schema.KindColor:
		var enum []interface{}
		for i := range schema.Palette() {
			enum = append(enum, i)
		}
		return &jsonschema.Schema{
			Title: f.Label,
			OneOf: []*jsonschema.Schema{
				{Type: "integer", Description: "Palette index", Enum: enum},
				{Type: "string", Description: "Palette name or #rrggbb"},
			},
		}
	}
	return &jsonschema.Schema{Type: "string", Title: f.Label}
}
