package indices

import (
	"encoding/json"

	"atelier/domain"
	"atelier/es"
	"atelier/session"

	"github.com/fundwit/go-commons/types"
)

var (
	SearchDrawingsFunc = SearchDrawings
)

type DrawingSearchQuery struct {
	ProjectID types.ID `form:"projectId" binding:"required"`
	Keyword   string   `form:"q" binding:"required"`
}

func SearchDrawings(q DrawingSearchQuery, s *session.Session) ([]domain.Drawing, error) {
	if !s.Perms.HasProjectViewPerm(q.ProjectID) {
		return []domain.Drawing{}, nil
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":  q.Keyword,
							"fields": []string{"name", "notes", "identifier"},
						},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{
						"term": map[string]interface{}{"projectId": q.ProjectID.String()},
					},
				},
			},
		},
	}

	sources, err := es.Search(DrawingIndexName, query)
	if err != nil {
		return nil, err
	}

	drawings := []domain.Drawing{}
	for _, source := range sources {
		d := domain.Drawing{}
		if err := json.Unmarshal(source, &d); err != nil {
			return nil, err
		}
		drawings = append(drawings, d)
	}
	return drawings, nil
}
