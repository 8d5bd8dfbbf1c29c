package logging

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
)

type capturedLog struct {
	level  string
	msg    string
	err    error
	fields watermill.LogFields
}

type fakeAdapter struct {
	logs   *[]capturedLog
	fields watermill.LogFields
}

func newFakeAdapter() *fakeAdapter {
	logs := make([]capturedLog, 0, 8)
	return &fakeAdapter{logs: &logs}
}

func (f *fakeAdapter) record(level, msg string, err error, fields watermill.LogFields) {
	merged := watermill.LogFields{}
	for k, v := range f.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	*f.logs = append(*f.logs, capturedLog{level: level, msg: msg, err: err, fields: merged})
}

func (f *fakeAdapter) Error(msg string, err error, fields watermill.LogFields) {
	f.record("error", msg, err, fields)
}
func (f *fakeAdapter) Info(msg string, fields watermill.LogFields)  { f.record("info", msg, nil, fields) }
func (f *fakeAdapter) Debug(msg string, fields watermill.LogFields) { f.record("debug", msg, nil, fields) }
func (f *fakeAdapter) Trace(msg string, fields watermill.LogFields) { f.record("trace", msg, nil, fields) }

func (f *fakeAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	merged := watermill.LogFields{}
	for k, v := range f.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &fakeAdapter{logs: f.logs, fields: merged}
}

func TestWatermillServiceLoggerDelegates(t *testing.T) {
	adapter := newFakeAdapter()
	logger := NewWatermillServiceLogger(adapter)

	logger.Info("boot", LogFields{"system": "test"})

	child := logger.With(LogFields{"order_id": "ORD-001"})
	child.Debug("transforming", nil)

	boom := errors.New("boom")
	child.Error("stock check failed", boom, LogFields{"attempt": 2})
	child.Trace("trace", nil)

	logs := *adapter.logs
	if len(logs) != 4 {
		t.Fatalf("expected 4 log entries, got %d", len(logs))
	}
	if logs[0].level != "info" || logs[0].msg != "boot" {
		t.Fatalf("unexpected first log: %#v", logs[0])
	}
	if logs[1].fields["order_id"] != "ORD-001" {
		t.Fatalf("expected inherited field on child log, got %#v", logs[1].fields)
	}
	if logs[2].level != "error" || logs[2].err != boom {
		t.Fatalf("expected error with boom, got %#v", logs[2])
	}
	if logs[3].level != "trace" {
		t.Fatalf("expected trace level on final log, got %s", logs[3].level)
	}
}

func TestNewWatermillAdapterRoundTrip(t *testing.T) {
	adapter := newFakeAdapter()
	logger := NewWatermillServiceLogger(adapter)

	bridged := NewWatermillAdapter(logger)
	bridged.With(watermill.LogFields{"topic": "topic-router-orders"}).Info("published", nil)

	logs := *adapter.logs
	if len(logs) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(logs))
	}
	if logs[0].fields["topic"] != "topic-router-orders" {
		t.Fatalf("expected topic field to survive the bridge, got %#v", logs[0].fields)
	}
}

func TestConstructorsPanicOnNil(t *testing.T) {
	for name, fn := range map[string]func(){
		"slog":      func() { NewSlogServiceLogger(nil) },
		"watermill": func() { NewWatermillServiceLogger(nil) },
		"adapter":   func() { NewWatermillAdapter(nil) },
	} {
		func() {
			defer func() {
				if r := recover(); r == nil {
					t.Fatalf("%s: expected panic on nil input", name)
				}
			}()
			fn()
		}()
	}
}
