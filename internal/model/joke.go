package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

type JokeType string

const (
	JokeTypeTwoPart JokeType = "twopart"
	JokeTypeSingle  JokeType = "single"
)

// Joke is a tagged union over JokeType. Only the fields of its variant are set:
// Setup and Delivery for twopart, Text for single.
type Joke struct {
	Type     JokeType `json:"type"`
	Setup    string   `json:"setup,omitempty"`
	Delivery string   `json:"delivery,omitempty"`
	Text     string   `json:"joke,omitempty"`
	Safe     bool     `json:"safe"`
}

var (
	ErrJokeUnknownType  = errors.New("unknown joke type")
	ErrJokeMissingField = errors.New("missing joke field")
)

// wireJoke mirrors the source schema with pointers so absent fields can be told apart from zero values.
type wireJoke struct {
	Type     *JokeType `json:"type"`
	Setup    *string   `json:"setup"`
	Delivery *string   `json:"delivery"`
	Joke     *string   `json:"joke"`
	Safe     *bool     `json:"safe"`
}

// UnmarshalJSON decodes a single record and rejects anything that is not a
// well-formed twopart or single joke.
func (j *Joke) UnmarshalJSON(data []byte) error {
	var w wireJoke
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Type == nil {
		return fmt.Errorf("%w: type", ErrJokeMissingField)
	}
	if w.Safe == nil {
		return fmt.Errorf("%w: safe", ErrJokeMissingField)
	}

	out := Joke{Type: *w.Type, Safe: *w.Safe}
	switch out.Type {
	case JokeTypeTwoPart:
		if w.Setup == nil {
			return fmt.Errorf("%w: setup", ErrJokeMissingField)
		}
		if w.Delivery == nil {
			return fmt.Errorf("%w: delivery", ErrJokeMissingField)
		}
		out.Setup, out.Delivery = *w.Setup, *w.Delivery
	case JokeTypeSingle:
		if w.Joke == nil {
			return fmt.Errorf("%w: joke", ErrJokeMissingField)
		}
		out.Text = *w.Joke
	default:
		return fmt.Errorf("%w: %q", ErrJokeUnknownType, out.Type)
	}

	*j = out
	return nil
}

// MarshalJSON writes exactly the fields of the joke's variant, empty strings included,
// so a cached record decodes back through UnmarshalJSON.
func (j Joke) MarshalJSON() ([]byte, error) {
	switch j.Type {
	case JokeTypeTwoPart:
		return json.Marshal(struct {
			Type     JokeType `json:"type"`
			Setup    string   `json:"setup"`
			Delivery string   `json:"delivery"`
			Safe     bool     `json:"safe"`
		}{j.Type, j.Setup, j.Delivery, j.Safe})
	case JokeTypeSingle:
		return json.Marshal(struct {
			Type JokeType `json:"type"`
			Joke string   `json:"joke"`
			Safe bool     `json:"safe"`
		}{j.Type, j.Text, j.Safe})
	default:
		return nil, fmt.Errorf("%w: %q", ErrJokeUnknownType, j.Type)
	}
}

// FormatJoke renders a joke as display text. An empty result means there is nothing to show.
func FormatJoke(j *Joke) string {
	if j == nil {
		return ""
	}
	switch j.Type {
	case JokeTypeTwoPart:
		return j.Setup + "\n\n" + j.Delivery
	case JokeTypeSingle:
		return j.Text
	default:
		return ""
	}
}

// JokeCache is the wholesale cached joke pool.
type JokeCache struct {
	Jokes     []Joke
	FetchedAt int64 // epoch millis
}

type Mode string

const (
	ModeSafe   Mode = "safe"
	ModeUnsafe Mode = "unsafe"
	ModeMixed  Mode = "mixed"
)

// ParseMode accepts the three known modes; an empty string means mixed.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case "":
		return ModeMixed, true
	case ModeSafe, ModeUnsafe, ModeMixed:
		return Mode(s), true
	default:
		return "", false
	}
}
