package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// ImagesPerSubmission is the fixed batch size of one submission.
	ImagesPerSubmission = 5
	// DocumentTab tags every stored submission document.
	DocumentTab = "crop_mangmt_disease"
	// TimestampLayout is the capture time format, ISO-8601 with microseconds.
	TimestampLayout = "2006-01-02T15:04:05.000000"
)

// ImageRecord holds one image's per-category percentages.
type ImageRecord struct {
	ImagePath string `json:"image_path"`
	Lettuce   Scores `json:"lettuce"`
	Disease   Scores `json:"disease"`
	Pest      Scores `json:"pest"`
}

// Scores returns the mapping of the given category.
func (r ImageRecord) Scores(c Category) Scores {
	switch c {
	case CategoryLettuce:
		return r.Lettuce
	case CategoryDisease:
		return r.Disease
	case CategoryPest:
		return r.Pest
	}
	return nil
}

// SetScores stores the mapping of the given category.
func (r *ImageRecord) SetScores(c Category, s Scores) {
	switch c {
	case CategoryLettuce:
		r.Lettuce = s
	case CategoryDisease:
		r.Disease = s
	case CategoryPest:
		r.Pest = s
	}
}

// AggregateRecord holds the per-category average percentages of a batch.
type AggregateRecord struct {
	Lettuce Scores `json:"average_percentage_lettuce"`
	Disease Scores `json:"average_percentage_disease"`
	Pest    Scores `json:"average_percentage_pest"`
}

func (a AggregateRecord) Scores(c Category) Scores {
	switch c {
	case CategoryLettuce:
		return a.Lettuce
	case CategoryDisease:
		return a.Disease
	case CategoryPest:
		return a.Pest
	}
	return nil
}

func (a *AggregateRecord) SetScores(c Category, s Scores) {
	switch c {
	case CategoryLettuce:
		a.Lettuce = s
	case CategoryDisease:
		a.Disease = s
	case CategoryPest:
		a.Pest = s
	}
}

// IndividualData holds the five image records, serialized as img1..img5.
type IndividualData [ImagesPerSubmission]ImageRecord

// ImageKey returns the document key of the i-th (zero based) image.
func ImageKey(i int) string {
	return fmt.Sprintf("img%d", i+1)
}

func (d IndividualData) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rec := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		body, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "%q:", ImageKey(i))
		buf.Write(body)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *IndividualData) UnmarshalJSON(data []byte) error {
	var raw map[string]ImageRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for i := range d {
		rec, ok := raw[ImageKey(i)]
		if !ok {
			return fmt.Errorf("individual_data: missing %s", ImageKey(i))
		}
		d[i] = rec
	}
	return nil
}

// Metadata identifies a stored document.
type Metadata struct {
	Tab string `json:"tab"`
	ID  string `json:"id"`
}

// SubmissionDocument is the persisted record of one submission.
type SubmissionDocument struct {
	Metadata       Metadata        `json:"metadata"`
	CreateDt       string          `json:"create_dt"`
	CreateBy       string          `json:"create_by"`
	UpdateDt       string          `json:"update_dt"`
	UpdateBy       string          `json:"update_by"`
	AffectedDt     string          `json:"affected_dt"`
	IndividualData IndividualData  `json:"individual_data"`
	AvgAll         AggregateRecord `json:"avg_all"`
	Timestamp      string          `json:"timestamp"`
}

// ID returns the document identifier.
func (d *SubmissionDocument) ID() string {
	return d.Metadata.ID
}

// Time parses the capture timestamp.
func (d *SubmissionDocument) Time() (time.Time, error) {
	return ParseTimestamp(d.Timestamp)
}

// DocumentID joins author and capture timestamp into a document id.
func DocumentID(author, timestamp string) string {
	return author + "_" + timestamp
}

// ParseTimestamp accepts the capture layout (fraction optional) and RFC 3339.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
