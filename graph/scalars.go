package graph

import (
	"encoding/json"
	"fmt"
	"time"
)

// dateTimeLayout matches ECMAScript's Date.prototype.toISOString
const dateTimeLayout = "2006-01-02T15:04:05.000Z"

// DateTime is the DateTime scalar, serialized as an ISO-8601 UTC string
type DateTime struct {
	time.Time
}

// ImplementsGraphQLType maps this type to the DateTime scalar
func (DateTime) ImplementsGraphQLType(name string) bool {
	return name == "DateTime"
}

// UnmarshalGraphQL accepts RFC 3339 strings and epoch milliseconds
func (t *DateTime) UnmarshalGraphQL(input interface{}) error {
	switch v := input.(type) {
	case time.Time:
		t.Time = v.UTC()
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return fmt.Errorf("invalid DateTime %q: %w", v, err)
		}
		t.Time = parsed.UTC()
	case int32:
		t.Time = time.UnixMilli(int64(v)).UTC()
	case int64:
		t.Time = time.UnixMilli(v).UTC()
	case float64:
		t.Time = time.UnixMilli(int64(v)).UTC()
	default:
		return fmt.Errorf("wrong type for DateTime: %T", v)
	}
	return nil
}

// MarshalJSON implements json.Marshaler
func (t DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(dateTimeLayout))
}
