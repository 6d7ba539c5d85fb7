package nakama

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const playRoundSchema = `{
  "type": "object",
  "properties": {
    "move": {"type": "string", "maxLength": 64},
    "session_id": {"type": "string", "maxLength": 128}
  },
  "required": ["move"],
  "additionalProperties": false
}`

const sessionSchema = `{
  "type": "object",
  "properties": {
    "session_id": {"type": "string", "maxLength": 128}
  },
  "additionalProperties": false
}`

var (
	playRoundLoader = gojsonschema.NewStringLoader(playRoundSchema)
	sessionLoader   = gojsonschema.NewStringLoader(sessionSchema)
)

// validatePayload checks a raw RPC payload against schema. An empty payload is
// treated as an empty object.
func validatePayload(schema gojsonschema.JSONLoader, payload string) error {
	if strings.TrimSpace(payload) == "" {
		payload = "{}"
	}
	result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(payload))
	if err != nil {
		return fmt.Errorf("payload is not valid JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("payload rejected: %s", strings.Join(msgs, "; "))
	}
	return nil
}
