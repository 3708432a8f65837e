package common

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Attribute is a single named transform or metadata parameter
type Attribute struct {
	Key   string
	Value string
}

// Attributes is an ordered attribute map. Order is the order the caller
// supplied the pairs in and is preserved by every operation.
type Attributes []Attribute

// ParseAttributes builds Attributes from "Key=Value" strings
func ParseAttributes(pairs []string) (Attributes, error) {
	attrs := make(Attributes, 0, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid attribute %q: expected Key=Value", p)
		}
		attrs = attrs.Set(strings.TrimSpace(key), value)
	}
	return attrs, nil
}

// Get returns the value stored for key
func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

// Set returns a copy of a with key set to value. An existing key keeps its position.
func (a Attributes) Set(key, value string) Attributes {
	out := a.Clone()
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Attribute{Key: key, Value: value})
}

// Take removes key and returns its value together with the remainder.
// The receiver is left untouched.
func (a Attributes) Take(key string) (string, bool, Attributes) {
	rest := make(Attributes, 0, len(a))
	var (
		value string
		found bool
	)
	for _, attr := range a {
		if attr.Key == key && !found {
			value, found = attr.Value, true
			continue
		}
		rest = append(rest, attr)
	}
	return value, found, rest
}

// Keys returns the attribute names in order
func (a Attributes) Keys() []string {
	keys := make([]string, len(a))
	for i, attr := range a {
		keys[i] = attr.Key
	}
	return keys
}

// Clone returns an independent copy
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	copy(out, a)
	return out
}

// UnmarshalYAML decodes a YAML mapping while keeping key order.
// Scalar values of any type (ints, bools) are kept as their literal text.
func (a *Attributes) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: attributes must be a mapping", node.Line)
	}
	attrs := make(Attributes, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		k, v := node.Content[i], node.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: attribute %q must be a scalar", v.Line, k.Value)
		}
		attrs = attrs.Set(k.Value, v.Value)
	}
	*a = attrs
	return nil
}

var imageKeyPattern = regexp.MustCompile(`(?m)^Image: (.).*$`)

// NormalizeAttributeKeys rewrites metadata attributes for case-insensitive
// comparison. "Image: Width" becomes "img:w"; all other keys and every value
// are lower-cased. When two keys normalize to the same name the later one wins.
func NormalizeAttributeKeys(attrs Attributes) map[string]string {
	out := make(map[string]string, len(attrs))
	for _, attr := range attrs {
		key := imageKeyPattern.ReplaceAllString(attr.Key, "img:$1")
		out[strings.ToLower(key)] = strings.ToLower(attr.Value)
	}
	return out
}

// FromMap converts a plain map to Attributes with keys in the given order.
// Keys missing from order are dropped.
func FromMap(m map[string]string, order []string) Attributes {
	attrs := make(Attributes, 0, len(order))
	for _, k := range order {
		if v, ok := m[k]; ok {
			attrs = append(attrs, Attribute{Key: k, Value: v})
		}
	}
	return attrs
}
