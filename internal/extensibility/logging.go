package extensibility

import (
	"log"
	"time"
)

// LoggingStateService wraps a StateService and logs every write.
type LoggingStateService struct {
	inner StateService
}

// NewLoggingStateService wraps inner with write logging.
func NewLoggingStateService(inner StateService) *LoggingStateService {
	return &LoggingStateService{inner: inner}
}

func (s *LoggingStateService) GetState(path []string) (any, bool) {
	return s.inner.GetState(path)
}

func (s *LoggingStateService) SetState(path []string, value any) {
	start := time.Now()
	s.inner.SetState(path, value)
	log.Printf("eventchain: state %v = %v (%v)", path, value, time.Since(start))
}

func (s *LoggingStateService) AddItem(itemType, id string, value any) {
	s.inner.AddItem(itemType, id, value)
	log.Printf("eventchain: item %s/%s added", itemType, id)
}

func (s *LoggingStateService) RemoveItem(itemType, id string) {
	s.inner.RemoveItem(itemType, id)
	log.Printf("eventchain: item %s/%s removed", itemType, id)
}

func (s *LoggingStateService) GetItemIDs(itemType string) []string {
	return s.inner.GetItemIDs(itemType)
}
