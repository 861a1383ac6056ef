// Package recorder keeps an append-only audit trail of committed events.
package recorder

import "github.com/openalpha/supercluster/app"

// Recorder persists committed events and serves them back newest first.
type Recorder interface {
	Record(events []app.Event) error
	// Recent returns at most limit events, newest first. A non-empty
	// eventType restricts the result to that type.
	Recent(limit int, eventType string) ([]app.Event, error)
	Close() error
}

// NoopRecorder is used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) Record(_ []app.Event) error { return nil }
func (n *NoopRecorder) Recent(_ int, _ string) ([]app.Event, error) { return nil, nil }
func (n *NoopRecorder) Close() error { return nil }
