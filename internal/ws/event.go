package ws

import (
	"time"

	"jobboard/internal/notify"
)

const EventNotice = "notice"

type NoticeEvent struct {
	Type    string       `json:"type"`
	Level   notify.Level `json:"level"`
	Message string       `json:"message"`
	At      string       `json:"at"`
}

func newNoticeEvent(n notify.Notice) NoticeEvent {
	at := n.At
	if at.IsZero() {
		at = time.Now()
	}
	return NoticeEvent{
		Type:    EventNotice,
		Level:   n.Level,
		Message: n.Message,
		At:      at.UTC().Format(time.RFC3339),
	}
}
