package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
)

// DecodeRecords decodes a fetch payload. A null or absent payload is an empty list.
func DecodeRecords(data json.RawMessage) ([]Record, error) {
	if IsJSONNull(data) {
		return []Record{}, nil
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, errors.Wrap(err, "decoding records")
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

// DecodeRecord decodes a single record payload. A null or absent payload decodes to a nil Record.
func DecodeRecord(data json.RawMessage) (Record, error) {
	if IsJSONNull(data) {
		return nil, nil
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "decoding record")
	}
	return rec, nil
}

// IsJSONNull reports whether data is absent or the JSON null literal.
func IsJSONNull(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) == 0 || string(data) == "null"
}

func (r Record) ID() int {
	id, _ := intValue(r[IDField])
	return id
}

func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// NullString maps missing, null and empty values to null.
func (r Record) NullString(key string) null.String {
	s := r.String(key)
	return null.NewString(s, s != "")
}

func (r Record) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

func (r Record) Float(key string) float64 {
	return r.NullFloat(key).Float64
}

func (r Record) NullFloat(key string) null.Float64 {
	switch v := r[key].(type) {
	case float64:
		return null.Float64From(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return null.Float64From(f)
		}
	case int:
		return null.Float64From(float64(v))
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return null.Float64From(f)
		}
	}
	return null.Float64{}
}

// LookupID normalizes a foreign key to its decimal string form.
// The remote sends either a lookup object ({"Id": 3, "Name": "..."}) or the raw id.
func (r Record) LookupID(key string) null.String {
	v := r[key]
	if obj, ok := v.(map[string]interface{}); ok {
		v = obj[IDField]
	}
	if id, ok := intValue(v); ok {
		return null.StringFrom(strconv.Itoa(id))
	}
	return null.String{}
}

// LookupKey returns the comparable form of a scalar or lookup value, used when matching filters.
func LookupKey(v interface{}) string {
	if obj, ok := v.(map[string]interface{}); ok {
		v = obj[IDField]
	}
	if id, ok := intValue(v); ok {
		return strconv.Itoa(id)
	}
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func intValue(v interface{}) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		if val == float64(int(val)) {
			return int(val), true
		}
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i), true
		}
	case string:
		if i, err := strconv.Atoi(val); err == nil {
			return i, true
		}
	}
	return 0, false
}

// Write envelope handling

// MapFields translates domain keyed values into a remote record through a mapping table.
func MapFields(table map[string]string, values map[string]interface{}) (Record, error) {
	rec := make(Record, len(values)+1)
	for key, v := range values {
		field, ok := table[key]
		if !ok {
			return nil, errors.Errorf("no remote field for %q", key)
		}
		rec[field] = v
	}
	return rec, nil
}

func remoteFailure(msg string) error {
	if msg == "" {
		return errors.WithStack(ErrRemoteFailure)
	}
	return errors.WithMessage(ErrRemoteFailure, msg)
}

func partialWriteFailure(failed []Result) error {
	data, err := json.Marshal(failed)
	if err != nil {
		return errors.WithStack(ErrPartialWrite)
	}
	return errors.WithMessage(ErrPartialWrite, string(data))
}

// RemoteErr returns a RemoteFailure error if the envelope reports failure.
func (env *Envelope) RemoteErr() error {
	if env.Success {
		return nil
	}
	return remoteFailure(env.Message)
}

// WrittenRecord extracts the first written record of a create or update envelope.
// Failures are reported as an *OpError of the given kind, carrying the first failure's message.
func WrittenRecord(env *Envelope, kind error) (Record, error) {
	if !env.Success {
		return nil, NewOpError(kind, env.Message, remoteFailure(env.Message))
	}
	if env.Results != nil {
		successful, failed := env.Split()
		if len(failed) > 0 {
			return nil, NewOpError(kind, failed[0].Message, partialWriteFailure(failed))
		}
		if len(successful) > 0 {
			rec, err := DecodeRecord(successful[0].Data)
			if err != nil {
				return nil, NewOpError(kind, "", err)
			}
			if rec != nil {
				return rec, nil
			}
		}
	}
	return nil, NewOpError(kind, "", nil)
}

// DeletionResult checks a delete envelope. An absent results list counts as success.
func DeletionResult(env *Envelope, kind error) error {
	if !env.Success {
		return NewOpError(kind, env.Message, remoteFailure(env.Message))
	}
	if _, failed := env.Split(); len(failed) > 0 {
		return NewOpError(kind, failed[0].Message, partialWriteFailure(failed))
	}
	return nil
}

// Format prints the underlying cause (with its stack) on %+v.
func (e *OpError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') && e.Err != nil {
		_, _ = fmt.Fprintf(s, "%s\n%+v", e.Error(), e.Err)
		return
	}
	_, _ = io.WriteString(s, e.Error())
}
