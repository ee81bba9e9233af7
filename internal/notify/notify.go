package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is a one-way, user-facing message. SessionID is uuid.Nil for
// visitors without a session.
type Notice struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	SessionID uuid.UUID `json:"-"`
	At        time.Time `json:"at"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

func Success(session uuid.UUID, msg string) Notice {
	return Notice{Level: LevelSuccess, Message: msg, SessionID: session, At: time.Now().UTC()}
}

func Error(session uuid.UUID, msg string) Notice {
	return Notice{Level: LevelError, Message: msg, SessionID: session, At: time.Now().UTC()}
}

func Info(session uuid.UUID, msg string) Notice {
	return Notice{Level: LevelInfo, Message: msg, SessionID: session, At: time.Now().UTC()}
}

type LogNotifier struct {
	Logger logrus.FieldLogger
}

func (l LogNotifier) Notify(_ context.Context, n Notice) {
	if l.Logger == nil {
		return
	}
	entry := l.Logger.WithFields(logrus.Fields{
		"level_notice": string(n.Level),
		"session_id":   n.SessionID.String(),
	})
	if n.Level == LevelError {
		entry.Warn(n.Message)
		return
	}
	entry.Info(n.Message)
}

// Fanout delivers every notice to each non-nil notifier in order.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n Notice) {
	for _, x := range f {
		if x != nil {
			x.Notify(ctx, n)
		}
	}
}

type Discard struct{}

func (Discard) Notify(context.Context, Notice) {}

// Recorder keeps every notice in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = nil
}
