package repository

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// decodeList decodes a JSON array element by element. A document that is not
// an array is an error; elements that do not decode are skipped and counted.
func decodeList[R any](data []byte) (_ []R, skipped int, _ error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("json.Unmarshal: %w", err)
	}

	records := make([]R, 0, len(raw))
	for _, element := range raw {
		var record R
		if err := json.Unmarshal(element, &record); err != nil {
			skipped++
			continue
		}
		records = append(records, record)
	}

	return records, skipped, nil
}

func encodeList[R any](records []R) ([]byte, error) {
	return encodeListWith(records, nil)
}

// encodeListWith encodes records followed by the raw elements in tail.
func encodeListWith[R any](records []R, tail []json.RawMessage) ([]byte, error) {
	elements := make([]json.RawMessage, 0, len(records)+len(tail))
	for _, record := range records {
		element, err := json.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("json.Marshal: %w", err)
		}
		elements = append(elements, element)
	}
	elements = append(elements, tail...)

	data, err := json.Marshal(elements)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return data, nil
}

// unrecognized returns, in order, the elements of the JSON array in data that
// recognized rejects. A document that is not an array yields nothing.
func unrecognized(data []byte, recognized func(json.RawMessage) bool) []json.RawMessage {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	var kept []json.RawMessage
	for _, element := range raw {
		if !recognized(element) {
			kept = append(kept, element)
		}
	}
	return kept
}

// flexString reads a JSON string or number. Other values read as empty.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = flexString(str)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*s = flexString(n.String())
		return nil
	}

	*s = ""
	return nil
}

// flexInt reads a JSON integer, also when quoted or written as 5.0.
// Other values read as zero.
type flexInt int

func (i *flexInt) UnmarshalJSON(data []byte) error {
	*i = 0

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil || n == "" {
		return nil
	}

	d, err := decimal.NewFromString(n.String())
	if err != nil || !d.IsInteger() {
		return nil
	}

	*i = flexInt(d.IntPart())
	return nil
}
