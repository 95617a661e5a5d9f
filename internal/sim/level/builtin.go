package level

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed levels/*.txt
var builtinFS embed.FS

// Builtin returns the text of a level shipped with the package.
func Builtin(name string) (string, error) {
	b, err := builtinFS.ReadFile("levels/" + name + ".txt")
	if err != nil {
		return "", fmt.Errorf("unknown built-in level %q", name)
	}
	return string(b), nil
}

// BuiltinNames lists the shipped levels in name order.
func BuiltinNames() []string {
	ents, _ := builtinFS.ReadDir("levels")
	out := make([]string, 0, len(ents))
	for _, e := range ents {
		out = append(out, strings.TrimSuffix(e.Name(), ".txt"))
	}
	sort.Strings(out)
	return out
}

// LoadBuiltin parses a shipped level.
func LoadBuiltin(name string) (*Level, error) {
	text, err := Builtin(name)
	if err != nil {
		return nil, err
	}
	return Parse(name, text)
}
