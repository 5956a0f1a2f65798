package notification

import (
	"encoding/json"
	"net/http"
	"os"

	"atelier/event"
	"atelier/misc"
)

var (
	TransitionNotifierName = "transitionNotifier"

	WebhookURLFunc = webhookURL
	PostJsonFunc   = misc.HttpInvokeJson
)

func Bootstrap() {
	event.EventHandlers = append(event.EventHandlers, NotifyTransitionEventHandle)
}

func webhookURL() string {
	return os.ExpandEnv(os.Getenv("NOTIFICATION_WEBHOOK"))
}

// user visible transitions only
var notifiedCommands = map[string]bool{
	"approve":          true,
	"issue":            true,
	"request_revision": true,
	"resolve":          true,
}

// NotifyTransitionEventHandle push user visible drawing transitions to the
// configured webhook. Dispatch is fire and forget: a delivery failure is
// logged and never reaches the caller of the transition.
func NotifyTransitionEventHandle(e *event.EventRecord) *event.EventHandleResult {
	if e.SourceType != event.SourceTypeDrawing || e.EventCategory != event.EventCategoryStateTransited {
		return nil
	}
	if !notifiedCommands[e.Command] {
		return nil
	}

	url := WebhookURLFunc()
	if url == "" {
		return nil
	}

	body, err := json.Marshal(e)
	if err != nil {
		return &event.EventHandleResult{Success: false, Message: err.Error(), HandlerIdentifier: TransitionNotifierName}
	}
	if _, err := PostJsonFunc(http.MethodPost, url, nil, string(body)); err != nil {
		misc.Log.Warnf("failed to deliver notification of drawing %v: %v", e.SourceId, err)
		return &event.EventHandleResult{Success: false, Message: err.Error(), HandlerIdentifier: TransitionNotifierName}
	}
	return &event.EventHandleResult{Success: true, HandlerIdentifier: TransitionNotifierName}
}
