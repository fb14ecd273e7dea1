package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind is the shape of a field value.
type Kind int

const (
	KindInvalid Kind = iota
	KindScalar
	KindList
	KindRecords
	// KindEmptyList is an empty list; it fits either list kind.
	KindEmptyList
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindRecords:
		return "records"
	case KindEmptyList:
		return "empty list"
	default:
		return "invalid"
	}
}

// KindOf classifies v. Mixed lists, nested records and nil values are
// KindInvalid.
func KindOf(v any) Kind {
	if isScalar(v) {
		return KindScalar
	}
	list, ok := v.([]any)
	if !ok {
		return KindInvalid
	}
	if len(list) == 0 {
		return KindEmptyList
	}
	if isScalar(list[0]) {
		for _, item := range list {
			if !isScalar(item) {
				return KindInvalid
			}
		}
		return KindList
	}
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok || !validRecord(rec) {
			return KindInvalid
		}
	}
	return KindRecords
}

func validRecord(rec map[string]any) bool {
	for _, v := range rec {
		switch KindOf(v) {
		case KindScalar, KindList, KindEmptyList:
		default:
			return false
		}
	}
	return true
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// compatible reports whether a value of kind got may stand in for a value of
// kind want.
func compatible(want, got Kind) bool {
	if want == KindInvalid || got == KindInvalid {
		return false
	}
	if want == got {
		return true
	}
	listish := func(k Kind) bool { return k == KindList || k == KindRecords || k == KindEmptyList }
	return (want == KindEmptyList && listish(got)) || (got == KindEmptyList && listish(want))
}

// deepCopy clones maps and slices so resolved documents never alias catalog data.
func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case Section:
		out := make(Section, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}

// CloneDocument returns a deep copy of d.
func CloneDocument(d Document) Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for name, s := range d {
		out[name] = deepCopy(s).(Section)
	}
	return out
}

// toInt64 converts integral numbers to int64.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", n)
		}
		return int64(n), nil
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return floatToInt(f)
	case string:
		return strconv.ParseInt(n, 10, 64)
	}
	return 0, fmt.Errorf("%T is not a number", v)
}

func floatToInt(f float64) (int64, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	return int64(f), nil
}
