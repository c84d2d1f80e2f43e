package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Evaluation struct {
	Text  string
	Score Score
}

// Score keeps the score exactly as it was recorded. Model output is not trusted to be
// numeric, so coercion happens when the score is read.
type Score struct {
	raw interface{}
}

func NumericScore(v float64) Score {
	return Score{raw: v}
}

func RawScore(v interface{}) Score {
	return Score{raw: v}
}

func (s Score) Raw() interface{} {
	return s.raw
}

// Float64 coerces the score to a float. Strings are accepted when they parse as numbers.
func (s Score) Float64() (float64, error) {
	switch v := s.raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("score %q is not numeric", v)
		}
		return f, nil
	case nil:
		return 0, fmt.Errorf("score is missing")
	default:
		return 0, fmt.Errorf("score of type %T is not numeric", v)
	}
}

func (s Score) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.raw)
}

func (s *Score) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if n, ok := v.(json.Number); ok {
		if f, err := n.Float64(); err == nil {
			v = f
		}
	}
	s.raw = v
	return nil
}
