// Package mailertest provides an in-memory mailer.Sender for tests.
package mailertest

import (
	"context"
	"sync"

	"github.com/EmpoweredVote/EV-Dashboard/internal/mailer"
)

// Recorder keeps every message it is asked to send. When Err is set, Send
// fails with it and records nothing.
type Recorder struct {
	mu   sync.Mutex
	sent []mailer.Message
	Err  error
}

func (r *Recorder) Send(_ context.Context, msg mailer.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func (r *Recorder) Sent() []mailer.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mailer.Message(nil), r.sent...)
}

// Last returns the most recent message, or false when nothing was sent.
func (r *Recorder) Last() (mailer.Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return mailer.Message{}, false
	}
	return r.sent[len(r.sent)-1], true
}
