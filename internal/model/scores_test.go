package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScores_MarshalKeepsOrder(t *testing.T) {
	s := Scores{{"romaine", 90}, {"iceberg", 10}, {"butterhead", 0.5}}

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"romaine":90,"iceberg":10,"butterhead":0.5}`, string(data))
}

func TestScores_UnmarshalKeepsOrder(t *testing.T) {
	var s Scores
	require.NoError(t, json.Unmarshal([]byte(`{"b":1.5,"a":3,"c":0}`), &s))

	want := Scores{{"b", 1.5}, {"a", 3}, {"c", 0}}
	if diff := cmp.Diff(want, s); diff != "" {
		t.Errorf("Scores mismatch (-want +got):\n%s", diff)
	}
}

func TestScores_EmptyAndNull(t *testing.T) {
	data, err := json.Marshal(Scores{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	s := Scores{{"x", 1}}
	require.NoError(t, json.Unmarshal([]byte("null"), &s))
	assert.Nil(t, s)

	require.Error(t, json.Unmarshal([]byte(`[1,2]`), &s))
}

func TestScores_Helpers(t *testing.T) {
	s := Scores{{"a", 5}, {"b", 5}, {"c", 1}}

	v, ok := s.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)
	_, ok = s.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"a", "b", "c"}, s.Labels())
	assert.Equal(t, map[string]float64{"a": 5, "b": 5, "c": 1}, s.Map())
	assert.True(t, s.IsSortedDesc())
	assert.False(t, Scores{{"a", 1}, {"b", 2}}.IsSortedDesc())
}
