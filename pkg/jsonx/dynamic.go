package jsonx

import json "github.com/goccy/go-json"

// ToDynamicJSON converts any Go value to a dynamic JSON object represented as
// a map[string]any, by round-tripping it through its JSON encoding. Adapters
// use it to hand structured schemas to SDKs that want loose maps.
func ToDynamicJSON(val any) (map[string]any, error) {
	result := make(map[string]any)
	b, err := json.Marshal(val)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(b, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// FromDynamicJSON decodes a dynamic JSON object into target, which must be a
// pointer. Keys follow the target's JSON field names. Adapters use it to apply
// provider options onto vendor SDK config structs.
func FromDynamicJSON(val map[string]any, target any) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, target)
}
