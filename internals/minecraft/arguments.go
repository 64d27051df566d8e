package minecraft

import (
	"encoding/json"
	"strings"
)

// Argument is one entry of a game or jvm argument list.
// In the wire format it either is a plain string or a {rules, value} object,
// where value again can be a string or a list of strings.
type Argument struct {
	Value stringSlice `json:"value"`
	Rules Rules       `json:"rules"`
}

// ArgumentList groups the game and jvm argument templates of a manifest
type ArgumentList struct {
	Game []Argument `json:"game"`
	JVM  []Argument `json:"jvm"`
}

// IsZero reports whether the manifest declared no arguments block at all
func (a ArgumentList) IsZero() bool {
	return len(a.Game) == 0 && len(a.JVM) == 0
}

// UnmarshalJSON accepts both the plain string and the object form
func (a *Argument) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '{' {
		type plain Argument
		var parsed plain
		if err := json.Unmarshal(data, &parsed); err != nil {
			return err
		}
		*a = Argument(parsed)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	a.Value = stringSlice{str}
	a.Rules = nil
	return nil
}

// stringSlice is a slice of strings that can be unmarshalled from a string
// or a []string
type stringSlice []string

func (w *stringSlice) String() string {
	return strings.Join(*w, " ")
}

// UnmarshalJSON is needed because value sometimes is a single string
func (w *stringSlice) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*w = list
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*w = stringSlice{str}
	return nil
}
