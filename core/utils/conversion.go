package utils

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ToInt converts a scanned column value to int.
// Integers, floats, booleans and numeric text are accepted; anything else yields 0.
func ToInt(val any) int {
	switch v := val.(type) {
	case nil:
		return 0
	case int, int8, int16, int32, int64:
		return int(reflect.ValueOf(v).Int())
	case uint, uint8, uint16, uint32, uint64:
		return int(reflect.ValueOf(v).Uint())
	case float32, float64:
		return int(reflect.ValueOf(v).Float())
	case bool:
		if v {
			return 1
		}
		return 0
	default:
		i, _ := strconv.Atoi(strings.TrimSpace(ToString(v)))
		return i
	}
}

// ToString converts a scanned column value to string. nil yields "".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts a scanned column value to bool.
// Non-zero numbers and the strings "1", "true" and "yes" are true.
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case string, []byte:
		switch strings.ToLower(strings.TrimSpace(ToString(v))) {
		case "1", "true", "yes":
			return true
		default:
			return false
		}
	default:
		return ToInt(v) != 0
	}
}
