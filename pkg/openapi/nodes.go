package openapi

// Object returns node[key] when it holds an object.
func Object(node map[string]any, key string) (map[string]any, bool) {
	if node == nil {
		return nil, false
	}
	value, ok := node[key].(map[string]any)
	return value, ok
}

// ObjectOrEmpty returns node[key] when it holds an object, or a fresh empty
// object otherwise.
func ObjectOrEmpty(node map[string]any, key string) map[string]any {
	if value, ok := Object(node, key); ok {
		return value
	}
	return map[string]any{}
}

// CloneObject deep-copies an object node.
func CloneObject(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = CloneNode(value)
	}
	return out
}

// CloneNode deep-copies maps and slices; scalars are returned as is.
func CloneNode(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return CloneObject(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = CloneNode(item)
		}
		return out
	default:
		return value
	}
}

// MergeObjects returns a new object holding every key of existing plus every
// key of incoming. Incoming values win on conflicting keys. Neither input is
// modified.
func MergeObjects(existing, incoming map[string]any) map[string]any {
	out := make(map[string]any, len(existing)+len(incoming))
	for key, value := range existing {
		out[key] = CloneNode(value)
	}
	for key, value := range incoming {
		out[key] = CloneNode(value)
	}
	return out
}
