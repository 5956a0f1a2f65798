package indices

import (
	"fmt"
	"strings"

	"atelier/domain"
	"atelier/es"
	"atelier/event"
	"atelier/persistence"

	"github.com/fundwit/go-commons/types"
)

var (
	DrawingIndexName = "drawings"

	DrawingIndexEventHandlerName = "drawingIndexer"

	IndexFunc          = es.Index
	DeleteDocumentFunc = es.DeleteDocument
	LoadDrawingFunc    = loadDrawing
)

func Bootstrap() {
	event.EventHandlers = append(event.EventHandlers, IndexDrawingEventHandle)
}

func IndexDrawings(drawings []domain.Drawing) error {
	var failures []string
	for _, d := range drawings {
		if err := IndexFunc(DrawingIndexName, d.ID, d); err != nil {
			failures = append(failures, fmt.Sprintf("%v: %v", d.ID, err))
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("failed to index drawings: %s", strings.Join(failures, "; "))
	}
	return nil
}

// IndexDrawingEventHandle mirror drawing changes into the search index.
func IndexDrawingEventHandle(e *event.EventRecord) *event.EventHandleResult {
	if e.SourceType != event.SourceTypeDrawing {
		return nil
	}

	if e.EventCategory == event.EventCategoryDeleted {
		if err := DeleteDocumentFunc(DrawingIndexName, e.SourceId); err != nil {
			return &event.EventHandleResult{Success: false, Message: err.Error(), HandlerIdentifier: DrawingIndexEventHandlerName}
		}
		return &event.EventHandleResult{Success: true, HandlerIdentifier: DrawingIndexEventHandlerName}
	}

	d, err := LoadDrawingFunc(e.SourceId)
	if err != nil {
		return &event.EventHandleResult{Success: false, Message: err.Error(), HandlerIdentifier: DrawingIndexEventHandlerName}
	}
	if err := IndexDrawings([]domain.Drawing{*d}); err != nil {
		return &event.EventHandleResult{Success: false, Message: err.Error(), HandlerIdentifier: DrawingIndexEventHandlerName}
	}
	return &event.EventHandleResult{Success: true, HandlerIdentifier: DrawingIndexEventHandlerName}
}

func loadDrawing(id types.ID) (*domain.Drawing, error) {
	d := domain.Drawing{}
	db := persistence.ActiveDataSourceManager.GormDB(nil)
	if err := db.Where(&domain.Drawing{ID: id}).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}
