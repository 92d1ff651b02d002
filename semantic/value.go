package semantic

import (
	"fmt"
	"strconv"
	"time"
)

// valueText normalizes a raw row value to its text form. Result rows come
// back from the executor as whatever the driver produced, so numeric trend
// codes may arrive as int64, float64, []byte or string; all of them must
// compare equal to the catalog's text keys.
func valueText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return trimFloat(float64(val))
	case float64:
		return trimFloat(val)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", val)
	}
}

// trimFloat renders whole-number floats without a fractional part so a
// driver that decodes "1" as 1.0 still matches the "1" value meaning.
func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
