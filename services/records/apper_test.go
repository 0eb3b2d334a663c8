package recordsvc

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyflow/core"
)

type capturedRequest struct {
	method  string
	path    string
	auth    string
	project string
	body    map[string]interface{}
}

func newApperServer(t *testing.T, status int, response string, captured *capturedRequest) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := ioutil.ReadAll(r.Body)
		require.NoError(t, err)

		captured.method = r.Method
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		captured.project = r.Header.Get("X-Project-Id")
		captured.body = nil
		if len(data) > 0 {
			require.NoError(t, json.Unmarshal(data, &captured.body))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestApperClient_Requests(t *testing.T) {
	ctx := context.Background()
	query := core.Query{
		Fields:  core.Fields("Name", "title_c"),
		OrderBy: []core.Ordering{{Field: "due_date_c", Ascending: true}},
	}

	tests := []struct {
		name       string
		call       func(c *ApperClient) (*core.Envelope, error)
		wantMethod string
		wantPath   string
		wantKey    string
	}{
		{
			name:       "fetch",
			call:       func(c *ApperClient) (*core.Envelope, error) { return c.FetchRecords(ctx, "assignment_c", query) },
			wantMethod: http.MethodPost,
			wantPath:   "/v1/tables/assignment_c/query",
			wantKey:    "fields",
		},
		{
			name:       "get by id",
			call:       func(c *ApperClient) (*core.Envelope, error) { return c.GetRecordByID(ctx, "assignment_c", 7, query) },
			wantMethod: http.MethodPost,
			wantPath:   "/v1/tables/assignment_c/query/7",
			wantKey:    "fields",
		},
		{
			name: "create",
			call: func(c *ApperClient) (*core.Envelope, error) {
				return c.CreateRecord(ctx, "class_item_c", core.RecordsPayload{Records: []core.Record{{"name_c": "Math"}}})
			},
			wantMethod: http.MethodPost,
			wantPath:   "/v1/tables/class_item_c/records",
			wantKey:    "records",
		},
		{
			name: "update",
			call: func(c *ApperClient) (*core.Envelope, error) {
				return c.UpdateRecord(ctx, "class_item_c", core.RecordsPayload{Records: []core.Record{{"Id": 3, "name_c": "Math"}}})
			},
			wantMethod: http.MethodPatch,
			wantPath:   "/v1/tables/class_item_c/records",
			wantKey:    "records",
		},
		{
			name: "delete",
			call: func(c *ApperClient) (*core.Envelope, error) {
				return c.DeleteRecord(ctx, "class_item_c", core.DeletePayload{RecordIDs: []int{3}})
			},
			wantMethod: http.MethodDelete,
			wantPath:   "/v1/tables/class_item_c/records",
			wantKey:    "RecordIds",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured capturedRequest
			srv := newApperServer(t, http.StatusOK, `{"success": true, "data": []}`, &captured)
			client := NewApperClient(srv.URL+"/v1/", "proj-1", "secret", time.Second)

			env, err := tt.call(client)
			require.NoError(t, err)
			assert.True(t, env.Success)

			assert.Equal(t, tt.wantMethod, captured.method)
			assert.Equal(t, tt.wantPath, captured.path)
			assert.Equal(t, "Bearer secret", captured.auth)
			assert.Equal(t, "proj-1", captured.project)
			assert.Contains(t, captured.body, tt.wantKey)
		})
	}
}

func TestApperClient_QueryBody(t *testing.T) {
	var captured capturedRequest
	srv := newApperServer(t, http.StatusOK, `{"success": true, "data": []}`, &captured)
	client := NewApperClient(srv.URL, "proj-1", "secret", time.Second)

	_, err := client.FetchRecords(context.Background(), "assignment_c", core.Query{
		Fields:  core.Fields("title_c"),
		Where:   []core.Filter{{FieldName: "class_id_c", Operator: core.OperatorEqualTo, Values: []interface{}{4}}},
		OrderBy: []core.Ordering{{Field: "due_date_c", Ascending: true}},
	})
	require.NoError(t, err)

	assert.Equal(t, []interface{}{map[string]interface{}{"field": map[string]interface{}{"Name": "title_c"}}}, captured.body["fields"])
	assert.Equal(t, []interface{}{map[string]interface{}{"fieldName": "due_date_c", "sorttype": "ASC"}}, captured.body["orderBy"])
	where := captured.body["where"].([]interface{})
	require.Len(t, where, 1)
	assert.Equal(t, "EqualTo", where[0].(map[string]interface{})["Operator"])
}

func TestApperClient_Responses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		response    string
		wantErr     bool
		wantSuccess bool
		wantMessage string
	}{
		{name: "success", status: http.StatusOK, response: `{"success": true, "data": [{"Id": 1}]}`, wantSuccess: true},
		{name: "reported failure", status: http.StatusOK, response: `{"success": false, "message": "quota exceeded"}`, wantMessage: "quota exceeded"},
		{name: "error status with envelope", status: http.StatusUnauthorized, response: `{"success": true}`, wantMessage: "Unauthorized"},
		{name: "error status keeps message", status: http.StatusBadRequest, response: `{"message": "bad field"}`, wantMessage: "bad field"},
		{name: "not an envelope", status: http.StatusBadGateway, response: `<html>bad gateway</html>`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured capturedRequest
			srv := newApperServer(t, tt.status, tt.response, &captured)
			client := NewApperClient(srv.URL, "proj-1", "secret", time.Second)

			env, err := client.FetchRecords(context.Background(), "assignment_c", core.Query{})
			if tt.wantErr {
				assert.ErrorIs(t, err, errUnexpectedResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, env.Success)
			assert.Equal(t, tt.wantMessage, env.Message)
		})
	}
}

func TestApperClient_Transport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	client := NewApperClient(srv.URL, "proj-1", "secret", time.Second)

	_, err := client.DeleteRecord(context.Background(), "assignment_c", core.DeletePayload{RecordIDs: []int{1}})
	assert.Error(t, err)
}

func TestNewApperClient_DefaultHost(t *testing.T) {
	client := NewApperClient("", "proj-1", "secret", time.Second)
	assert.Equal(t, "https://api.apper.io/v1/tables/class_item_c/records", client.endpoint("class_item_c", "records"))
	assert.Equal(t, "apper(https://api.apper.io/v1, project proj-1)", client.String())
}
