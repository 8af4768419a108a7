package gamestate

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema describes the typed part of the document. Additional members are
// allowed at every level because unknown keys are preserved.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&Document{})
	schema.Title = "Game State"
	schema.Description = "Shared context read by the vignette generator."
	return schema
}

// SchemaJSON returns Schema as indented JSON.
func SchemaJSON() ([]byte, error) {
	return json.MarshalIndent(Schema(), "", "  ")
}
