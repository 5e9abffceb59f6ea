package util

import (
	"fmt"
	"sort"
)

// SortedKeys returns the keys of a map in order.
func SortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ConvertJSON converts json unfriendly types (as produced by yaml decoding)
// to json friendly ones.
func ConvertJSON(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		// convert all keys to strings
		ret := map[string]interface{}{}
		for k, v := range t {
			ret[fmt.Sprint(k)] = ConvertJSON(v)
		}
		return ret
	case map[string]interface{}:
		ret := map[string]interface{}{}
		for k, v := range t {
			ret[k] = ConvertJSON(v)
		}
		return ret
	case []interface{}:
		// convert all elements of array
		ret := []interface{}{}
		for _, v := range t {
			ret = append(ret, ConvertJSON(v))
		}
		return ret
	default:
		return v
	}
}

// ConvertMap is ConvertJSON for a string keyed map. nil stays nil.
func ConvertMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	return ConvertJSON(m).(map[string]interface{})
}

// DeepCopy copies nested maps and slices so the result shares no mutable
// memory with v. Scalars are returned as is.
func DeepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return CopyMap(t)
	case map[interface{}]interface{}:
		ret := make(map[interface{}]interface{}, len(t))
		for k, v := range t {
			ret[k] = DeepCopy(v)
		}
		return ret
	case []interface{}:
		ret := make([]interface{}, len(t))
		for i, v := range t {
			ret[i] = DeepCopy(v)
		}
		return ret
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// CopyMap deep copies a string keyed map. nil stays nil.
func CopyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	ret := make(map[string]interface{}, len(m))
	for k, v := range m {
		ret[k] = DeepCopy(v)
	}
	return ret
}
