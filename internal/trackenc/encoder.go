package trackenc

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Date is a date-only value. Marshal renders it as date-only ISO-8601.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the UTC calendar date of t.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return Date{Year: u.Year(), Month: u.Month(), Day: u.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Marshal serializes v like encoding/json, except that temporal values are
// normalized first: every time.Time in the map/slice tree is converted to
// UTC and rendered as an ISO-8601 string, and Date values render date-only.
// Values with no serialization form return a wrapped "not serializable"
// error.
func Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(normalize(v))
	if err != nil {
		return nil, fmt.Errorf("trackenc: value not serializable: %w", err)
	}
	return b, nil
}

// MarshalRepaired is Marshal with a pre-pass over legacy text: every map
// string value that is not valid UTF-8 is reinterpreted as Latin-1 in place
// before serialization. Output never carries a decode failure from
// mixed-encoding data.
func MarshalRepaired(v any) ([]byte, error) {
	if m, ok := v.(map[string]any); ok {
		RepairLatin1(m)
	}
	return Marshal(v)
}

// RepairLatin1 walks m depth-first and replaces every string value that is
// not valid UTF-8 with the same bytes reinterpreted as Latin-1. Nested maps
// are repaired before their parent; strings inside slices are left alone.
func RepairLatin1(m map[string]any) {
	for k, v := range m {
		switch val := v.(type) {
		case map[string]any:
			RepairLatin1(val)
		case string:
			if !utf8.ValidString(val) {
				if fixed, err := charmap.ISO8859_1.NewDecoder().String(val); err == nil {
					m[k] = fixed
				}
			}
		}
	}
}

func normalize(v any) any {
	switch val := v.(type) {
	case time.Time:
		return isoUTC(val)
	case *time.Time:
		if val == nil {
			return nil
		}
		return isoUTC(*val)
	case Date:
		return val.String()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	default:
		return normalizeTyped(v)
	}
}

// normalizeTyped walks typed containers ([]time.Time, map[string]time.Time,
// and the like) that the any-based cases above cannot match, so datetimes are
// normalized regardless of how the container is typed. []byte is left alone;
// it has its own base64 serialization.
func normalizeTyped(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return v
		}
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return v
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String || rv.IsNil() {
			return v
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalize(iter.Value().Interface())
		}
		return out
	}
	return v
}

func isoUTC(t time.Time) string {
	u := t.UTC()
	if u.Nanosecond() != 0 {
		return u.Format("2006-01-02T15:04:05.999999999Z07:00")
	}
	return u.Format(time.RFC3339)
}
