package recordsvc

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"

	"github.com/trezcool/studyflow/core"
	"github.com/trezcool/studyflow/storage/database"
)

// SupabaseClient maps collections onto tables of a Supabase project (PostgREST).
// Tables carry an "Id" identity column; PostgREST errors are reported as failed envelopes.
// Fetches select every column, then order and project in Go.
type SupabaseClient struct {
	client *supabase.Client
}

var _ core.RecordClient = (*SupabaseClient)(nil)

func NewSupabaseClient(url, key string) (*SupabaseClient, error) {
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating supabase client")
	}
	return &SupabaseClient{client: client}, nil
}

func decodeRows(data []byte) ([]core.Record, error) {
	var rows []core.Record
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, errors.Wrap(err, "decoding rows")
	}
	return rows, nil
}

// filterValues renders EqualTo values the way PostgREST expects them (lookup objects become their Id).
func filterValues(values []interface{}) []string {
	vals := make([]string, len(values))
	for i, v := range values {
		vals[i] = core.LookupKey(v)
	}
	return vals
}

// patchDocument drops the Id, which only addresses the row.
func patchDocument(rec core.Record) core.Record {
	doc := make(core.Record, len(rec))
	for k, v := range rec {
		if k != core.IDField {
			doc[k] = v
		}
	}
	return doc
}

func (c *SupabaseClient) FetchRecords(ctx context.Context, collection string, q core.Query) (*core.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fb := c.client.From(collection).Select("*", "", false)
	for _, f := range q.Where {
		if f.Operator != core.OperatorEqualTo {
			return core.FailureEnvelope(errors.Wrap(database.ErrUnsupportedOperator, f.Operator).Error()), nil
		}
		vals := filterValues(f.Values)
		if len(vals) == 1 {
			fb = fb.Eq(f.FieldName, vals[0])
		} else {
			fb = fb.In(f.FieldName, vals)
		}
	}
	fb = fb.Order(core.IDField, &postgrest.OrderOpts{Ascending: true})

	data, _, err := fb.Execute()
	if err != nil {
		return core.FailureEnvelope(err.Error()), nil
	}
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}

	database.Sort(rows, q.OrderBy)
	fields := q.FieldNames()
	for i, row := range rows {
		rows[i] = database.Project(row, fields)
	}
	return core.SuccessEnvelope(rows)
}

func (c *SupabaseClient) GetRecordByID(ctx context.Context, collection string, id int, q core.Query) (*core.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, _, err := c.client.From(collection).Select("*", "", false).Eq(core.IDField, strconv.Itoa(id)).Execute()
	if err != nil {
		return core.FailureEnvelope(err.Error()), nil
	}
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return core.SuccessEnvelope(nil)
	}
	return core.SuccessEnvelope(database.Project(rows[0], q.FieldNames()))
}

func (c *SupabaseClient) CreateRecord(ctx context.Context, collection string, p core.RecordsPayload) (*core.Envelope, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make([]core.Record, len(p.Records))
	for i, rec := range p.Records {
		docs[i] = patchDocument(rec)
	}
	data, _, err := c.client.From(collection).Insert(docs, false, "", "representation", "").Execute()
	if err != nil {
		return core.FailureEnvelope(err.Error()), nil
	}
	rows, err := decodeRows(data)
	if err != nil {
		return nil, err
	}

	env := &core.Envelope{Success: true, Results: make([]core.Result, 0, len(rows))}
	for _, row := range rows {
		env.Results = append(env.Results, core.SuccessResult(row))
	}
	return env, nil
}

func (c *SupabaseClient) UpdateRecord(ctx context.Context, collection string, p core.RecordsPayload) (*core.Envelope, error) {
	env := &core.Envelope{Success: true, Results: make([]core.Result, 0, len(p.Records))}
	for _, patch := range p.Records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id, err := database.PatchID(patch)
		if err != nil {
			env.Results = append(env.Results, core.FailureResult(err.Error()))
			continue
		}

		data, _, err := c.client.From(collection).
			Update(patchDocument(patch), "representation", "").
			Eq(core.IDField, strconv.Itoa(id)).
			Execute()
		if err != nil {
			env.Results = append(env.Results, core.FailureResult(err.Error()))
			continue
		}
		rows, err := decodeRows(data)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			env.Results = append(env.Results, core.FailureResult("record "+strconv.Itoa(id)+" not found"))
			continue
		}
		env.Results = append(env.Results, core.SuccessResult(rows[0]))
	}
	return env, nil
}

func (c *SupabaseClient) DeleteRecord(ctx context.Context, collection string, p core.DeletePayload) (*core.Envelope, error) {
	env := &core.Envelope{Success: true, Results: make([]core.Result, 0, len(p.RecordIDs))}
	for _, id := range p.RecordIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, _, err := c.client.From(collection).
			Delete("representation", "").
			Eq(core.IDField, strconv.Itoa(id)).
			Execute()
		if err != nil {
			env.Results = append(env.Results, core.FailureResult(err.Error()))
			continue
		}
		rows, err := decodeRows(data)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			env.Results = append(env.Results, core.FailureResult("record "+strconv.Itoa(id)+" not found"))
			continue
		}
		env.Results = append(env.Results, core.Result{Success: true})
	}
	return env, nil
}
