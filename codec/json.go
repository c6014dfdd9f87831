package codec

import (
	"encoding/json"
	"fmt"
)

// JSON encodes with the standard-library JSON encoder.
//
// Notes:
//   - Map keys are sorted by encoding/json, so maps encode deterministically.
//   - Struct fields encode in declaration order; reordering fields changes keys.
func JSON[T any]() KeyFunc[T] {
	return func(v T) ([]byte, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("codec: json: %w", err)
		}
		return b, nil
	}
}
