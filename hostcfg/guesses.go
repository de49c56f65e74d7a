package hostcfg

import (
	"encoding/json"
	"math"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/olablt/worldmap/engine"
)

// Only the shape of the payload is checked. Field values are coerced one
// by one so a single odd entry cannot hide the other guesses.
const guessesSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array"
}`

const guessItemSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object"
}`

var (
	guessesValidator   = jsonschema.MustCompileString("guesses.schema.json", guessesSchema)
	guessItemValidator = jsonschema.MustCompileString("guess.schema.json", guessItemSchema)
)

// ParseGuesses decodes the serialized guess list. Empty input, invalid JSON
// and payloads that are not an array yield an empty list. Entries that are not
// objects are skipped. Coordinates that are neither numbers nor numeric
// strings become NaN, so the marker is dropped when drawn.
func ParseGuesses(raw string) []engine.GuessMarker {
	if raw == "" {
		return []engine.GuessMarker{}
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		engine.Logger().Warn("failed to parse guesses payload", "err", err)
		return []engine.GuessMarker{}
	}
	if err := guessesValidator.Validate(doc); err != nil {
		engine.Logger().Warn("guesses payload is not a list", "err", err)
		return []engine.GuessMarker{}
	}

	items := doc.([]any)
	guesses := make([]engine.GuessMarker, 0, len(items))
	for i, item := range items {
		if err := guessItemValidator.Validate(item); err != nil {
			engine.Logger().Warn("skipping guess", "index", i, "err", err)
			continue
		}
		fields := item.(map[string]any)
		g := engine.GuessMarker{
			Lat:        coordinate(fields["lat"]),
			Lng:        coordinate(fields["lng"]),
			PlayerID:   text(fields["player_id"]),
			PlayerName: text(fields["player_name"]),
		}
		if p, ok := fields["points"].(float64); ok {
			g.Points = &p
		}
		guesses = append(guesses, g)
	}
	return guesses
}

func coordinate(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case string:
		if f, ok := ParseNumber(x); ok {
			return f
		}
	}
	return math.NaN()
}

// text keeps string fields only; ids are compared as strings
func text(v any) string {
	s, _ := v.(string)
	return s
}
