package utility

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// ToMap converts a struct into a map keyed by its bson field names
func ToMap(s interface{}) (map[string]interface{}, error) {
	var out map[string]interface{}
	raw, err := bson.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("bson marshal failed: %w", err)
	}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("bson unmarshal failed: %w", err)
	}
	return out, nil
}
