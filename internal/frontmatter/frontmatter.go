// Package frontmatter reads the "---" delimited metadata block at the top of a
// content file.
package frontmatter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kamusis/shelf/internal/jsonx"
	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Split separates a leading frontmatter block from the body. ok is false when
// text does not start with a complete block, in which case body is text.
func Split(text string) (block, body string, ok bool) {
	s := strings.TrimPrefix(text, "\ufeff")

	first, rest, found := cutLine(s)
	if !found || !isDelimiter(first) {
		return "", text, false
	}

	var lines []string
	for {
		line, next, more := cutLine(rest)
		if isDelimiter(line) {
			return strings.Join(lines, "\n"), next, true
		}
		if !more {
			return "", text, false
		}
		lines = append(lines, strings.TrimSuffix(line, "\r"))
		rest = next
	}
}

// Strip returns text without its frontmatter block.
func Strip(text string) string {
	_, body, _ := Split(text)
	return body
}

// Extract returns the frontmatter of text as a flat string map. A block that is
// not valid YAML is read line by line as "key: value" pairs instead. Text
// without a block yields an empty map.
func Extract(text string) map[string]string {
	block, _, ok := Split(text)
	if !ok {
		return map[string]string{}
	}
	if out, err := parseYAML(block); err == nil {
		return out
	}
	return parseLines(block)
}

func cutLine(s string) (line, rest string, found bool) {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r") == delimiter
}

func parseYAML(block string) (map[string]string, error) {
	out := map[string]string{}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(block), &doc); err != nil {
		return nil, err
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return out, nil
	}
	root := resolve(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return out, nil
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := resolve(root.Content[i])
		if key.Kind != yaml.ScalarNode || key.Tag != "!!str" {
			continue
		}
		out[key.Value] = scalarString(resolve(root.Content[i+1]))
	}
	return out, nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func scalarString(n *yaml.Node) string {
	if n.Kind != yaml.ScalarNode {
		return structuredString(n)
	}
	switch n.Tag {
	case "!!null":
		return "null"
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return strconv.FormatBool(b)
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return strconv.FormatInt(i, 10)
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return strconv.FormatUint(u, 10)
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return formatFloat(f)
		}
	}
	return n.Value
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// structuredString renders sequences and mappings as JSON.
func structuredString(n *yaml.Node) string {
	var v any
	if err := n.Decode(&v); err != nil {
		return ""
	}
	b, err := jsonx.Marshal(jsonSafe(v))
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// jsonSafe rewrites maps with non-string keys, which yaml produces for keys
// like 1 or true, into string-keyed maps.
func jsonSafe(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = jsonSafe(e)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[fmt.Sprint(k)] = jsonSafe(e)
		}
		return m
	case []any:
		for i, e := range t {
			t[i] = jsonSafe(e)
		}
		return t
	default:
		return v
	}
}

func parseLines(block string) map[string]string {
	out := map[string]string{}
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out[key] = unquote(strings.TrimSpace(value))
	}
	return out
}

// unquote strips one matching pair of surrounding quotes. A lone quote is
// kept.
func unquote(s string) string {
	if len(s) >= 2 {
		if q := s[0]; (q == '"' || q == '\'') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}
