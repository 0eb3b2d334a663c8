package core

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrdering_JSON(t *testing.T) {
	tests := []struct {
		name string
		ord  Ordering
		want string
	}{
		{name: "ascending", ord: Ordering{Field: "due_date_c", Ascending: true}, want: `{"fieldName":"due_date_c","sorttype":"ASC"}`},
		{name: "descending", ord: Ordering{Field: "name_c"}, want: `{"fieldName":"name_c","sorttype":"DESC"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.ord)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))

			var got Ordering
			require.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, tt.ord, got)
		})
	}
}

func TestQuery_JSON(t *testing.T) {
	q := Query{
		Fields:  Fields("Name", "title_c"),
		Where:   []Filter{{FieldName: "class_id_c", Operator: OperatorEqualTo, Values: []interface{}{3}}},
		OrderBy: []Ordering{{Field: "due_date_c", Ascending: true}},
	}
	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"fields": [{"field": {"Name": "Name"}}, {"field": {"Name": "title_c"}}],
		"where": [{"FieldName": "class_id_c", "Operator": "EqualTo", "Values": [3]}],
		"orderBy": [{"fieldName": "due_date_c", "sorttype": "ASC"}]
	}`, string(data))
	assert.Equal(t, []string{"Name", "title_c"}, q.FieldNames())
}

func TestEnvelope_Split(t *testing.T) {
	var env Envelope
	err := json.Unmarshal([]byte(`{
		"success": true,
		"results": [
			{"success": true, "data": {"Id": 1}},
			{"success": false, "message": "invalid due date"},
			{"success": true, "data": {"Id": 2}}
		]
	}`), &env)
	require.NoError(t, err)

	successful, failed := env.Split()
	assert.Len(t, successful, 2)
	require.Len(t, failed, 1)
	assert.Equal(t, "invalid due date", failed[0].Message)
	assert.False(t, env.HasData())
}

func TestEnvelope_ResultsPresence(t *testing.T) {
	var absent, empty Envelope
	require.NoError(t, json.Unmarshal([]byte(`{"success": true}`), &absent))
	require.NoError(t, json.Unmarshal([]byte(`{"success": true, "results": []}`), &empty))
	assert.Nil(t, absent.Results)
	assert.NotNil(t, empty.Results)
}

func TestOpError(t *testing.T) {
	errKind := errors.New("failed to create thing")
	cause := errors.New("connection reset")

	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "remote message", err: NewOpError(errKind, "title is required", nil), wantMsg: "title is required"},
		{name: "transport cause", err: NewOpError(errKind, "", cause), wantMsg: "failed to create thing: connection reset"},
		{name: "bare", err: NewOpError(errKind, "", nil), wantMsg: "failed to create thing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.wantMsg)
			assert.True(t, errors.Is(tt.err, errKind))

			wrapped := errors.Wrap(tt.err, "creating thing")
			assert.Equal(t, errKind, errors.Cause(wrapped))
			assert.True(t, errors.Is(wrapped, errKind))
		})
	}
}

func TestIsDate(t *testing.T) {
	assert.True(t, IsDate("2024-03-01"))
	assert.True(t, IsDate("2024-03-01T10:00:00Z"))
	assert.False(t, IsDate("03/01/2024"))
	assert.False(t, IsDate(""))
}

func TestWrittenRecord(t *testing.T) {
	errKind := errors.New("failed to create thing")

	tests := []struct {
		name     string
		body     string
		wantID   int
		wantMsg  string
		wantKind error
	}{
		{name: "written", body: `{"success": true, "results": [{"success": true, "data": {"Id": 7}}]}`, wantID: 7},
		{name: "remote failure", body: `{"success": false, "message": "quota exceeded"}`, wantMsg: "quota exceeded", wantKind: ErrRemoteFailure},
		{
			name:     "failed entry",
			body:     `{"success": true, "results": [{"success": false, "message": "title is required"}]}`,
			wantMsg:  "title is required",
			wantKind: ErrPartialWrite,
		},
		{name: "no results", body: `{"success": true}`, wantMsg: "failed to create thing"},
		{name: "no data", body: `{"success": true, "results": [{"success": true}]}`, wantMsg: "failed to create thing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env Envelope
			require.NoError(t, json.Unmarshal([]byte(tt.body), &env))

			rec, err := WrittenRecord(&env, errKind)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, rec.ID())
				return
			}
			assert.EqualError(t, err, tt.wantMsg)
			assert.True(t, errors.Is(err, errKind))
			if tt.wantKind != nil {
				assert.True(t, errors.Is(err, tt.wantKind))
			}
		})
	}
}

func TestDeletionResult(t *testing.T) {
	errKind := errors.New("failed to delete thing")

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "deleted", body: `{"success": true, "results": [{"success": true}]}`},
		{name: "no results", body: `{"success": true}`},
		{name: "remote failure", body: `{"success": false, "message": "unauthorized"}`, wantMsg: "unauthorized"},
		{name: "failed entry", body: `{"success": true, "results": [{"success": false, "message": "record 9 not found"}]}`, wantMsg: "record 9 not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var env Envelope
			require.NoError(t, json.Unmarshal([]byte(tt.body), &env))

			err := DeletionResult(&env, errKind)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantMsg)
			assert.True(t, errors.Is(err, errKind))
		})
	}
}

func TestMapFields(t *testing.T) {
	table := map[string]string{"title": "title_c", "dueDate": "due_date_c"}

	rec, err := MapFields(table, map[string]interface{}{"title": "Essay", "dueDate": nil})
	require.NoError(t, err)
	assert.Equal(t, Record{"title_c": "Essay", "due_date_c": nil}, rec)

	_, err = MapFields(table, map[string]interface{}{"grade": 12})
	assert.EqualError(t, err, `no remote field for "grade"`)
}
