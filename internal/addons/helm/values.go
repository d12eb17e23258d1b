package helm

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Values represents helm chart values as a map.
type Values map[string]any

// Merge combines multiple Values maps with later maps taking precedence.
// Merging is shallow; use DeepMerge to combine nested maps key by key.
func Merge(valueMaps ...Values) Values {
	result := make(Values)
	for _, m := range valueMaps {
		for k, v := range m {
			result[k] = v
		}
	}
	return result
}

// DeepMerge merges overrides into base recursively. Where both sides hold a
// map for the same key the maps are merged; otherwise the override wins.
// Neither input is mutated.
func DeepMerge(base, overrides Values) Values {
	result := make(Values, len(base))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range overrides {
		existing, ok := result[k]
		if !ok {
			result[k] = v
			continue
		}
		baseMap, baseOK := asValues(existing)
		overMap, overOK := asValues(v)
		if baseOK && overOK {
			result[k] = DeepMerge(baseMap, overMap)
		} else {
			result[k] = v
		}
	}
	return result
}

func asValues(v any) (Values, bool) {
	switch m := v.(type) {
	case Values:
		return m, true
	case map[string]any:
		return Values(m), true
	default:
		return nil, false
	}
}

// ToMap converts values to a plain map[string]interface{} recursively,
// unwrapping nested Values so the Helm engine sees only plain maps.
func (v Values) ToMap() map[string]any {
	result := make(map[string]any, len(v))
	for k, val := range v {
		if nested, ok := asValues(val); ok {
			result[k] = nested.ToMap()
		} else {
			result[k] = val
		}
	}
	return result
}

// ToYAML converts values to YAML bytes.
func (v Values) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode values to YAML: %w", err)
	}

	return buf.Bytes(), nil
}

// FromYAML parses YAML bytes into Values.
func FromYAML(data []byte) (Values, error) {
	var values Values
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse YAML values: %w", err)
	}
	return values, nil
}
