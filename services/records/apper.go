package recordsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/studyflow/core"
)

var (
	defaultApperHost = "https://api.apper.io/v1"

	errUnexpectedResponse = errors.New("unexpected response")
)

// ApperClient talks to the hosted Apper record API. Every endpoint answers with an envelope.
type ApperClient struct {
	host      string
	projectID string
	apiKey    string
	http      *rest.Client
}

var _ core.RecordClient = (*ApperClient)(nil)

func NewApperClient(host, projectID, apiKey string, timeout time.Duration) *ApperClient {
	if host == "" {
		host = defaultApperHost
	}
	return &ApperClient{
		host:      strings.TrimRight(host, "/"),
		projectID: projectID,
		apiKey:    apiKey,
		http:      &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
	}
}

func (c *ApperClient) endpoint(collection string, parts ...string) string {
	segments := append([]string{c.host, "tables", url.PathEscape(collection)}, parts...)
	return strings.Join(segments, "/")
}

func (c *ApperClient) send(ctx context.Context, method, endpoint string, body interface{}) (*core.Envelope, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "encoding request body")
	}

	req := rest.Request{
		Method:  rest.Method(method),
		BaseURL: endpoint,
		Headers: map[string]string{
			"Authorization": "Bearer " + c.apiKey,
			"X-Project-Id":  c.projectID,
			"Content-Type":  "application/json",
			"Accept":        "application/json",
		},
		Body: data,
	}
	res, err := c.http.SendWithContext(ctx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, endpoint)
	}

	var env core.Envelope
	if err = json.Unmarshal([]byte(res.Body), &env); err != nil {
		return nil, errors.Wrapf(errUnexpectedResponse, "%s %s: status %d", method, endpoint, res.StatusCode)
	}
	if res.StatusCode >= http.StatusBadRequest {
		env.Success = false
		if env.Message == "" {
			env.Message = http.StatusText(res.StatusCode)
		}
	}
	return &env, nil
}

func (c *ApperClient) FetchRecords(ctx context.Context, collection string, q core.Query) (*core.Envelope, error) {
	return c.send(ctx, http.MethodPost, c.endpoint(collection, "query"), q)
}

func (c *ApperClient) GetRecordByID(ctx context.Context, collection string, id int, q core.Query) (*core.Envelope, error) {
	return c.send(ctx, http.MethodPost, c.endpoint(collection, "query", strconv.Itoa(id)), q)
}

func (c *ApperClient) CreateRecord(ctx context.Context, collection string, p core.RecordsPayload) (*core.Envelope, error) {
	return c.send(ctx, http.MethodPost, c.endpoint(collection, "records"), p)
}

func (c *ApperClient) UpdateRecord(ctx context.Context, collection string, p core.RecordsPayload) (*core.Envelope, error) {
	return c.send(ctx, http.MethodPatch, c.endpoint(collection, "records"), p)
}

func (c *ApperClient) DeleteRecord(ctx context.Context, collection string, p core.DeletePayload) (*core.Envelope, error) {
	return c.send(ctx, http.MethodDelete, c.endpoint(collection, "records"), p)
}

func (c *ApperClient) String() string {
	return fmt.Sprintf("apper(%s, project %s)", c.host, c.projectID)
}
