package pipeline

import (
	"github.com/lyp/geotag/internal/events"
	"github.com/lyp/geotag/internal/model"
)

// Event payloads published on the bus.
type (
	// StateChange reports one photo reaching a new state. Index is the
	// photo's stable queue position; consumers must key on it, not on
	// arrival order.
	StateChange struct {
		Index  int
		Record model.PhotoRecord
	}

	// Progress reports a monotonically increasing completed count.
	Progress struct {
		Completed int
		Total     int
	}

	// Complete reports the terminal run summary counts.
	Complete struct {
		Success int
		Total   int
	}
)

// BusObserver publishes pipeline notifications onto an event bus.
type BusObserver struct {
	bus *events.Bus
}

// NewBusObserver wraps a bus as a pipeline Observer.
func NewBusObserver(bus *events.Bus) *BusObserver {
	return &BusObserver{bus: bus}
}

func (o *BusObserver) OnStateChange(index int, record model.PhotoRecord) {
	o.bus.Publish(events.Event{Name: events.PhotoState, Payload: StateChange{Index: index, Record: record}})
}

func (o *BusObserver) OnProgress(completed, total int) {
	o.bus.Publish(events.Event{Name: events.RunProgress, Payload: Progress{Completed: completed, Total: total}})
}

func (o *BusObserver) OnComplete(successCount, total int) {
	o.bus.Publish(events.Event{Name: events.RunComplete, Payload: Complete{Success: successCount, Total: total}})
}
