package util

import (
	"strconv"
	"strings"
)

// KeywordArgs splits key=value arguments. A bare argument is stored under
// the empty key.
func KeywordArgs(args []string) map[string]string {
	ret := map[string]string{}
	for _, arg := range args {
		p := strings.SplitN(arg, "=", 2)
		if len(p) == 2 {
			ret[p[0]] = p[1]
		} else {
			ret[""] = p[0]
		}
	}
	return ret
}

// ParseArg turns numbers into float64 and true/false into bool, so they
// encode as JSON numbers and booleans in service data.
func ParseArg(value string) interface{} {
	if num, err := strconv.ParseFloat(value, 64); err == nil {
		return num
	}
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}

func ParseArgs(args []string) (string, map[string]interface{}) {
	kwargs := KeywordArgs(args)
	command := ""
	fields := map[string]interface{}{}
	for field, value := range kwargs {
		if field == "" {
			command = value
		} else {
			fields[field] = ParseArg(value)
		}
	}
	return command, fields
}

// Extract moves keys out of fields into a new map.
func Extract(fields map[string]interface{}, keys ...string) map[string]interface{} {
	ret := map[string]interface{}{}
	for _, key := range keys {
		if value, ok := fields[key]; ok {
			ret[key] = value
			delete(fields, key)
		}
	}
	return ret
}
