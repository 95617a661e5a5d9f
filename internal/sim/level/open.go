package level

import (
	"os"
	"strings"
)

// Open reads arg as a level file if one exists at that path, and as a
// built-in level name otherwise.
func Open(arg string) (*Level, error) {
	arg = strings.TrimSpace(arg)
	b, err := os.ReadFile(arg)
	if err == nil {
		return Parse(arg, string(b))
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	return LoadBuiltin(arg)
}
