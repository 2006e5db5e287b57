package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() SubmissionDocument {
	var individual IndividualData
	for i := range individual {
		individual[i] = ImageRecord{
			ImagePath: "images/leaf" + string(rune('1'+i)) + ".jpg",
			Lettuce:   Scores{{"romaine", 80}, {"iceberg", 20}},
			Disease:   Scores{{"healthy", 99.5}},
			Pest:      Scores{{"aphid", 60}, {"none", 40}},
		}
	}
	ts := "2026-03-14T09:26:53.589793"
	return SubmissionDocument{
		Metadata:       Metadata{Tab: DocumentTab, ID: DocumentID("alice", ts)},
		CreateBy:       "alice",
		IndividualData: individual,
		AvgAll: AggregateRecord{
			Lettuce: Scores{{"romaine", 80}, {"iceberg", 20}},
			Disease: Scores{{"healthy", 99.5}},
			Pest:    Scores{{"aphid", 60}, {"none", 40}},
		},
		Timestamp: ts,
	}
}

func TestSubmissionDocument_JSONLayout(t *testing.T) {
	doc := sampleDocument()

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	body := string(data)

	for _, key := range []string{`"tab":"crop_mangmt_disease"`, `"create_dt":""`, `"update_by":""`, `"affected_dt":""`, `"average_percentage_lettuce"`} {
		assert.Contains(t, body, key)
	}
	// img1..img5 appear in order.
	last := -1
	for i := 0; i < ImagesPerSubmission; i++ {
		idx := strings.Index(body, `"`+ImageKey(i)+`"`)
		require.Greater(t, idx, last, "key %s out of order", ImageKey(i))
		last = idx
	}

	var back SubmissionDocument
	require.NoError(t, json.Unmarshal(data, &back))
	if diff := cmp.Diff(doc, back); diff != "" {
		t.Errorf("document changed after storage encoding (-want +got):\n%s", diff)
	}
}

func TestIndividualData_MissingImage(t *testing.T) {
	var d IndividualData
	err := json.Unmarshal([]byte(`{"img1":{},"img2":{},"img3":{},"img4":{}}`), &d)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "img5")
}

func TestDocumentID(t *testing.T) {
	assert.Equal(t, "bob_2026-01-02T03:04:05.000006", DocumentID("bob", "2026-01-02T03:04:05.000006"))
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2026-03-14T09:26:53.589793")
	require.NoError(t, err)
	assert.Equal(t, 2026, ts.Year())
	assert.Equal(t, time.March, ts.Month())
	assert.Equal(t, 14, ts.Day())
	assert.Equal(t, 589793000, ts.Nanosecond())

	_, err = ParseTimestamp("2026-03-14T09:26:53Z")
	require.NoError(t, err)

	_, err = ParseTimestamp("")
	require.Error(t, err)
	_, err = ParseTimestamp("yesterday")
	require.Error(t, err)
}
