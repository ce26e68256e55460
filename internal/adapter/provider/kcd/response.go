package kcd

import "github.com/mediseek/medisearch-backend/internal/domain"

// apiRow is a single element of the lookup response array. All fields are
// optional; upstream gives no shape guarantee.
type apiRow struct {
	SickCode string `json:"sickCd"`
	SickName string `json:"sickKorNm"`
	SickEnNm string `json:"sickEngNm"`
}

// mapAPIRows converts API rows into domain candidate rows. No per-row
// validation happens here; the ranker's acceptance filter does that.
func mapAPIRows(entries []apiRow) []domain.CandidateRow {
	if len(entries) == 0 {
		return nil
	}

	rows := make([]domain.CandidateRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, domain.CandidateRow{
			Code:        e.SickCode,
			Name:        e.SickName,
			EnglishName: e.SickEnNm,
		})
	}
	return rows
}
