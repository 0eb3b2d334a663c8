package core

import (
	"context"
	"encoding/json"
)

// Filter operators.
const OperatorEqualTo = "EqualTo"

// Sort types.
const (
	SortASC  = "ASC"
	SortDESC = "DESC"
)

// IDField is the primary key of every remote record.
const IDField = "Id"

type (
	// RecordClient issues generic record operations against named remote collections.
	RecordClient interface {
		FetchRecords(ctx context.Context, collection string, q Query) (*Envelope, error)
		GetRecordByID(ctx context.Context, collection string, id int, q Query) (*Envelope, error)
		CreateRecord(ctx context.Context, collection string, p RecordsPayload) (*Envelope, error)
		UpdateRecord(ctx context.Context, collection string, p RecordsPayload) (*Envelope, error)
		DeleteRecord(ctx context.Context, collection string, p DeletePayload) (*Envelope, error)
	}

	Query struct {
		Fields  []Field    `json:"fields,omitempty"`
		Where   []Filter   `json:"where,omitempty"`
		OrderBy []Ordering `json:"orderBy,omitempty"`
	}

	Field struct {
		Field FieldName `json:"field"`
	}

	FieldName struct {
		Name string `json:"Name"`
	}

	Filter struct {
		FieldName string        `json:"FieldName"`
		Operator  string        `json:"Operator"`
		Values    []interface{} `json:"Values"`
	}

	Ordering struct {
		Field     string
		Ascending bool
	}

	// Record is a remote record, keyed by remote field names.
	Record map[string]interface{}

	RecordsPayload struct {
		Records []Record `json:"records"`
	}

	DeletePayload struct {
		RecordIDs []int `json:"RecordIds"`
	}

	// Envelope is the uniform response of every remote operation.
	Envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message,omitempty"`
		Data    json.RawMessage `json:"data,omitempty"`
		Results []Result        `json:"results,omitempty"`
	}

	Result struct {
		Success bool            `json:"success"`
		Message string          `json:"message,omitempty"`
		Data    json.RawMessage `json:"data,omitempty"`
	}
)

// Fields builds a field selection from remote field names.
func Fields(names ...string) []Field {
	flds := make([]Field, len(names))
	for i, name := range names {
		flds[i] = Field{Field: FieldName{Name: name}}
	}
	return flds
}

// FieldNames returns the selected remote field names.
func (q Query) FieldNames() []string {
	names := make([]string, len(q.Fields))
	for i, f := range q.Fields {
		names[i] = f.Field.Name
	}
	return names
}

func (ord Ordering) SortType() string {
	if ord.Ascending {
		return SortASC
	}
	return SortDESC
}

func (ord Ordering) String() string {
	return ord.Field + " " + ord.SortType()
}

type orderingJSON struct {
	FieldName string `json:"fieldName"`
	SortType  string `json:"sorttype"`
}

func (ord Ordering) MarshalJSON() ([]byte, error) {
	return json.Marshal(orderingJSON{FieldName: ord.Field, SortType: ord.SortType()})
}

func (ord *Ordering) UnmarshalJSON(data []byte) error {
	var oj orderingJSON
	if err := json.Unmarshal(data, &oj); err != nil {
		return err
	}
	ord.Field = oj.FieldName
	ord.Ascending = oj.SortType != SortDESC
	return nil
}

// HasData reports whether the envelope carries a non-null data payload.
func (env *Envelope) HasData() bool {
	return len(env.Data) > 0 && string(env.Data) != "null"
}

// Split partitions the batch results into successful and failed entries.
func (env *Envelope) Split() (successful, failed []Result) {
	for _, r := range env.Results {
		if r.Success {
			successful = append(successful, r)
		} else {
			failed = append(failed, r)
		}
	}
	return successful, failed
}

// SuccessEnvelope wraps data into a successful envelope.
func SuccessEnvelope(data interface{}) (*Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Envelope{Success: true, Data: raw}, nil
}

// FailureEnvelope reports a remote failure.
func FailureEnvelope(msg string) *Envelope {
	return &Envelope{Success: false, Message: msg}
}

// SuccessResult wraps a written record into a batch result entry.
func SuccessResult(rec interface{}) Result {
	raw, err := json.Marshal(rec)
	if err != nil {
		return FailureResult(err.Error())
	}
	return Result{Success: true, Data: raw}
}

func FailureResult(msg string) Result {
	return Result{Success: false, Message: msg}
}
