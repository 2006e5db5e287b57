package dto

import "cropclassify/internal/model"

// DocumentRow is one stored submission flattened for tabular display.
// Per-image mappings are indexed by image position (img1 at index 0).
type DocumentRow struct {
	ID             string                                  `json:"id"`
	ImagePaths     [model.ImagesPerSubmission]string       `json:"image_paths"`
	Lettuce        [model.ImagesPerSubmission]model.Scores `json:"lettuce"`
	Disease        [model.ImagesPerSubmission]model.Scores `json:"disease"`
	Pest           [model.ImagesPerSubmission]model.Scores `json:"pest"`
	AverageLettuce model.Scores                            `json:"average_percentage_lettuce"`
	AverageDisease model.Scores                            `json:"average_percentage_disease"`
	AveragePest    model.Scores                            `json:"average_percentage_pest"`
	Timestamp      string                                  `json:"timestamp"`
	CreateDt       string                                  `json:"create_dt"`
	CreateBy       string                                  `json:"create_by"`
	UpdateDt       string                                  `json:"update_dt"`
	UpdateBy       string                                  `json:"update_by"`
	AffectedDt     string                                  `json:"affected_dt"`
}

// Category returns the per-image mappings of one category.
func (r DocumentRow) Category(c model.Category) [model.ImagesPerSubmission]model.Scores {
	switch c {
	case model.CategoryDisease:
		return r.Disease
	case model.CategoryPest:
		return r.Pest
	default:
		return r.Lettuce
	}
}

// Average returns the averaged mapping of one category.
func (r DocumentRow) Average(c model.Category) model.Scores {
	switch c {
	case model.CategoryDisease:
		return r.AverageDisease
	case model.CategoryPest:
		return r.AveragePest
	default:
		return r.AverageLettuce
	}
}

// DocumentsData is the payload of GET /api/documents.
type DocumentsData struct {
	Documents []DocumentRow `json:"documents"`
	Length    int           `json:"length"`
	StartDate string        `json:"startDate,omitempty"`
	EndDate   string        `json:"endDate,omitempty"`
}
