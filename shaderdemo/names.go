package shaderdemo

import (
	"fmt"
	"strings"
)

// ShaderName selects which material the demo spawns.
type ShaderName int

const (
	Water ShaderName = iota
	Goldcube
	Circle
	HypnoticCircle
	Crystal
	Stars
	Smoke
	SmokeRust
	Snow
)

var shaderNames = [...]string{
	Water:          "water",
	Goldcube:       "goldcube",
	Circle:         "circle",
	HypnoticCircle: "hypnotic-circle",
	Crystal:        "crystal",
	Stars:          "stars",
	Smoke:          "smoke",
	SmokeRust:      "smoke-rust",
	Snow:           "snow",
}

var shaderAliases = map[string]ShaderName{
	"hypnoticcircle": HypnoticCircle,
	"smokerust":      SmokeRust,
}

func (n ShaderName) String() string {
	if n < 0 || int(n) >= len(shaderNames) {
		return fmt.Sprintf("ShaderName(%d)", int(n))
	}
	return shaderNames[n]
}

// ShaderNames lists the accepted names in declaration order.
func ShaderNames() []string {
	return append([]string(nil), shaderNames[:]...)
}

// ParseShaderName accepts the kebab-case names case-insensitively, plus the
// run-together spellings of the two-word names.
func ParseShaderName(s string) (ShaderName, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range shaderNames {
		if key == name {
			return ShaderName(i), nil
		}
	}
	if n, ok := shaderAliases[key]; ok {
		return n, nil
	}
	return 0, fmt.Errorf("invalid value %q for <NAME>, possible values: %s", s, strings.Join(shaderNames[:], ", "))
}
