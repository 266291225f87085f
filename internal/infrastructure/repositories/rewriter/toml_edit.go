package rewriter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/rios0rios0/arbupdate/internal/domain/entities"
)

// tomlTarget addresses one string value by its full key path. The key at
// tolerantIndex is compared with "-" and "_" folded, as Cargo does for crate names.
type tomlTarget struct {
	path          []string
	tolerantIndex int
}

func (t tomlTarget) matches(key []string) bool {
	if len(key) != len(t.path) {
		return false
	}
	for i := range key {
		if i == t.tolerantIndex {
			if foldSeparators(key[i]) != foldSeparators(t.path[i]) {
				return false
			}
			continue
		}
		if key[i] != t.path[i] {
			return false
		}
	}
	return true
}

// span is the byte range of a string value, quotes excluded.
type span struct {
	start, end int
	literal    bool
}

// rewriteTOMLString replaces the string value stored at target when it still
// equals oldText. Only the bytes between the quotes change.
func rewriteTOMLString(content []byte, target tomlTarget, oldText, newText string) ([]byte, bool, error) {
	found, ok, err := locateTOMLString(content, target, oldText)
	if err != nil || !ok {
		return content, false, err
	}

	replacement, err := encodeTOMLString(newText, found.literal)
	if err != nil {
		return content, false, err
	}

	result := make([]byte, 0, len(content)-(found.end-found.start)+len(replacement))
	result = append(result, content[:found.start]...)
	result = append(result, replacement...)
	result = append(result, content[found.end:]...)
	return result, true, nil
}

func locateTOMLString(content []byte, target tomlTarget, expected string) (span, bool, error) {
	var parser unstable.Parser
	parser.Reset(content)

	var table []string
	inArrayTable := false
	for parser.NextExpression() {
		expression := parser.Expression()
		switch expression.Kind {
		case unstable.Table:
			table = collectKey(expression.Key())
			inArrayTable = false
		case unstable.ArrayTable:
			table = collectKey(expression.Key())
			inArrayTable = true
		case unstable.KeyValue:
			if inArrayTable {
				continue
			}
			key := append(append([]string{}, table...), collectKey(expression.Key())...)
			if found, ok := matchValue(content, expression.Value(), key, target, expected); ok {
				return found, true, nil
			}
		default:
		}
	}
	if err := parser.Error(); err != nil {
		return span{}, false, fmt.Errorf("%w: %w", entities.ErrParseFailure, err)
	}
	return span{}, false, nil
}

func matchValue(content []byte, node *unstable.Node, key []string, target tomlTarget, expected string) (span, bool) {
	switch node.Kind {
	case unstable.String:
		if !target.matches(key) || string(node.Data) != expected {
			return span{}, false
		}
		return stringSpan(content, node)
	case unstable.InlineTable:
		children := node.Children()
		for children.Next() {
			child := children.Node()
			if child.Kind != unstable.KeyValue {
				continue
			}
			childKey := append(append([]string{}, key...), collectKey(child.Key())...)
			if found, ok := matchValue(content, child.Value(), childKey, target, expected); ok {
				return found, true
			}
		}
	default:
	}
	return span{}, false
}

// stringSpan maps a string node back onto the document bytes. The node's raw
// range may or may not include the delimiters, so both readings are checked
// against the decoded value; escaped strings never match and are left alone.
func stringSpan(content []byte, node *unstable.Node) (span, bool) {
	start := int(node.Raw.Offset)
	end := start + int(node.Raw.Length)
	if start < 0 || end > len(content) || start > end {
		return span{}, false
	}

	if bytes.Equal(content[start:end], node.Data) {
		literal := start > 0 && content[start-1] == '\''
		return span{start: start, end: end, literal: literal}, true
	}

	raw := content[start:end]
	for _, delimiter := range []string{`"""`, `'''`, `"`, `'`} {
		width := len(delimiter)
		if len(raw) < 2*width || !bytes.HasPrefix(raw, []byte(delimiter)) || !bytes.HasSuffix(raw, []byte(delimiter)) {
			continue
		}
		if bytes.Equal(raw[width:len(raw)-width], node.Data) {
			return span{start: start + width, end: end - width, literal: delimiter[0] == '\''}, true
		}
	}
	return span{}, false
}

func encodeTOMLString(value string, literal bool) ([]byte, error) {
	if literal {
		if strings.ContainsAny(value, "'\n") {
			return nil, fmt.Errorf("cannot write %q into a literal TOML string", value)
		}
		return []byte(value), nil
	}
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return []byte(replacer.Replace(value)), nil
}

func collectKey(iterator unstable.Iterator) []string {
	var parts []string
	for iterator.Next() {
		parts = append(parts, string(iterator.Node().Data))
	}
	return parts
}

func foldSeparators(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}
