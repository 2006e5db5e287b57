package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Score is a label with its percentage value.
type Score struct {
	Label string
	Value float64
}

// Scores is an ordered label -> percentage mapping. It serializes as a JSON
// object whose keys keep the slice order.
type Scores []Score

// Get returns the value stored for label.
func (s Scores) Get(label string) (float64, bool) {
	for _, sc := range s {
		if sc.Label == label {
			return sc.Value, true
		}
	}
	return 0, false
}

// Labels returns the labels in order.
func (s Scores) Labels() []string {
	labels := make([]string, len(s))
	for i, sc := range s {
		labels[i] = sc.Label
	}
	return labels
}

// Map returns an unordered copy.
func (s Scores) Map() map[string]float64 {
	m := make(map[string]float64, len(s))
	for _, sc := range s {
		m[sc.Label] = sc.Value
	}
	return m
}

// IsSortedDesc reports whether values never increase along the slice.
func (s Scores) IsSortedDesc() bool {
	for i := 1; i < len(s); i++ {
		if s[i-1].Value < s[i].Value {
			return false
		}
	}
	return true
}

func (s Scores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sc := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sc.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(sc.Value)
		if err != nil {
			return nil, fmt.Errorf("score %q: %w", sc.Label, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Scores) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("scores: expected object, got %v", tok)
	}

	out := Scores{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("scores: expected string key, got %v", tok)
		}
		var value float64
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("scores: value for %q: %w", label, err)
		}
		out = append(out, Score{Label: label, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}
