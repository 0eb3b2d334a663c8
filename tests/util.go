package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/trezcool/studyflow/core"
)

// Logger records log entries instead of printing them.
type Logger struct {
	mu      sync.Mutex
	Entries []string
}

var _ core.Logger = (*Logger)(nil)

func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := level + ": " + msg
	for _, arg := range args {
		if err, ok := arg.(error); ok {
			entry += ": " + err.Error()
		}
	}
	l.Entries = append(l.Entries, entry)
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("FATAL", msg, args) }

// Errors returns the logged ERROR entries.
func (l *Logger) Errors() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var errs []string
	for _, e := range l.Entries {
		if len(e) > 5 && e[:5] == "ERROR" {
			errs = append(errs, e)
		}
	}
	return errs
}

// StubClient answers every call with the same canned envelope (or error) and records the requests.
type StubClient struct {
	Envelope *core.Envelope
	Err      error

	Collections []string
	Queries     []core.Query
	Payloads    []core.RecordsPayload
	Deletes     []core.DeletePayload
}

var _ core.RecordClient = (*StubClient)(nil)

func (c *StubClient) answer(collection string) (*core.Envelope, error) {
	c.Collections = append(c.Collections, collection)
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Envelope, nil
}

func (c *StubClient) FetchRecords(_ context.Context, collection string, q core.Query) (*core.Envelope, error) {
	c.Queries = append(c.Queries, q)
	return c.answer(collection)
}

func (c *StubClient) GetRecordByID(_ context.Context, collection string, _ int, q core.Query) (*core.Envelope, error) {
	c.Queries = append(c.Queries, q)
	return c.answer(collection)
}

func (c *StubClient) CreateRecord(_ context.Context, collection string, p core.RecordsPayload) (*core.Envelope, error) {
	c.Payloads = append(c.Payloads, p)
	return c.answer(collection)
}

func (c *StubClient) UpdateRecord(_ context.Context, collection string, p core.RecordsPayload) (*core.Envelope, error) {
	c.Payloads = append(c.Payloads, p)
	return c.answer(collection)
}

func (c *StubClient) DeleteRecord(_ context.Context, collection string, p core.DeletePayload) (*core.Envelope, error) {
	c.Deletes = append(c.Deletes, p)
	return c.answer(collection)
}

// CreateRecord stores rec in the collection and returns its id.
func CreateRecord(t *testing.T, client core.RecordClient, collection string, rec core.Record) int {
	env, err := client.CreateRecord(context.Background(), collection, core.RecordsPayload{Records: []core.Record{rec}})
	if err != nil {
		t.Fatalf("createRecord() failed: %v", err)
	}
	created, err := core.WrittenRecord(env, fmt.Errorf("creating %s record", collection))
	if err != nil {
		t.Fatalf("createRecord() failed: %v", err)
	}
	return created.ID()
}
