package event

import (
	"github.com/sirupsen/logrus"
)

// EventHandler returns nil when the event is not its concern.
type EventHandler func(e *EventRecord) *EventHandleResult

type EventHandleResult struct {
	Success           bool
	Message           string
	HandlerIdentifier string
}

var EventHandlers []EventHandler

var InvokeHandlersFunc = invokeHandlers

// invokeHandlers run after the owning transaction has committed.
// Handler failures are logged, never propagated to the caller.
func invokeHandlers(ev *EventRecord) []EventHandleResult {
	results := []EventHandleResult{}
	for _, h := range EventHandlers {
		logrus.Debug("dispatching event ", ev.Event)
		r := h(ev)
		if r == nil {
			continue
		}

		results = append(results, *r)
		if r.Success {
			logrus.Info("event handled. ", r)
		} else {
			logrus.Error("event handler failed. ", r)
		}
	}
	return results
}
