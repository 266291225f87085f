package rewriter

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/rios0rios0/arbupdate/internal/infrastructure/repositories/npm"
)

// rewriteJSONString replaces content[section][name] when it still equals
// oldText. sjson splices the new value into the original bytes, so indentation
// and key order survive untouched.
func rewriteJSONString(content []byte, section, name, oldText, newText string) ([]byte, bool, error) {
	path := npm.JSONPath(section, name)
	current := gjson.GetBytes(content, path)
	if current.Type != gjson.String || current.String() != oldText {
		return content, false, nil
	}

	updated, err := sjson.SetBytes(append([]byte(nil), content...), path, newText)
	if err != nil {
		return content, false, fmt.Errorf("failed to set %s: %w", path, err)
	}
	return ensureTrailingNewline(updated), true, nil
}

func ensureTrailingNewline(data []byte) []byte {
	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return data
}
