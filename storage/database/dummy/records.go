package dummydb

import (
	"context"
	"fmt"

	"github.com/trezcool/studyflow/core"
	"github.com/trezcool/studyflow/storage/database"
)

type recordClient struct {
	db *DB
}

var _ core.RecordClient = (*recordClient)(nil) // interface compliance check

func NewRecordClient(db *DB) core.RecordClient {
	return &recordClient{db: db}
}

func (c *recordClient) FetchRecords(_ context.Context, collection string, q core.Query) (*core.Envelope, error) {
	tbl := c.db.table(collection)
	tbl.RLock()
	defer tbl.RUnlock()

	recs, err := database.Select(tbl.all(), q)
	if err != nil {
		return core.FailureEnvelope(err.Error()), nil
	}
	return core.SuccessEnvelope(recs)
}

func (c *recordClient) GetRecordByID(_ context.Context, collection string, id int, q core.Query) (*core.Envelope, error) {
	tbl := c.db.table(collection)
	tbl.RLock()
	defer tbl.RUnlock()

	rec, ok := tbl.rows[id]
	if !ok {
		return core.SuccessEnvelope(nil)
	}
	return core.SuccessEnvelope(database.Project(copyRecord(rec), q.FieldNames()))
}

func (c *recordClient) CreateRecord(_ context.Context, collection string, p core.RecordsPayload) (*core.Envelope, error) {
	tbl := c.db.table(collection)
	tbl.Lock()
	defer tbl.Unlock()

	env := &core.Envelope{Success: true, Results: make([]core.Result, 0, len(p.Records))}
	for _, rec := range p.Records {
		norm, err := database.Normalize(rec)
		if err != nil {
			env.Results = append(env.Results, core.FailureResult(err.Error()))
			continue
		}
		tbl.pkCount++
		norm[core.IDField] = tbl.pkCount
		tbl.rows[tbl.pkCount] = norm
		env.Results = append(env.Results, core.SuccessResult(norm))
	}
	return env, nil
}

func (c *recordClient) UpdateRecord(_ context.Context, collection string, p core.RecordsPayload) (*core.Envelope, error) {
	tbl := c.db.table(collection)
	tbl.Lock()
	defer tbl.Unlock()

	env := &core.Envelope{Success: true, Results: make([]core.Result, 0, len(p.Records))}
	for _, patch := range p.Records {
		id, err := database.PatchID(patch)
		if err != nil {
			env.Results = append(env.Results, core.FailureResult(err.Error()))
			continue
		}
		// only save set fields
		rec, ok := tbl.rows[id]
		if !ok {
			env.Results = append(env.Results, core.FailureResult(fmt.Sprintf("record %d not found", id)))
			continue
		}
		norm, err := database.Normalize(patch)
		if err != nil {
			env.Results = append(env.Results, core.FailureResult(err.Error()))
			continue
		}
		database.Merge(rec, norm)
		env.Results = append(env.Results, core.SuccessResult(rec))
	}
	return env, nil
}

func (c *recordClient) DeleteRecord(_ context.Context, collection string, p core.DeletePayload) (*core.Envelope, error) {
	tbl := c.db.table(collection)
	tbl.Lock()
	defer tbl.Unlock()

	env := &core.Envelope{Success: true, Results: make([]core.Result, 0, len(p.RecordIDs))}
	for _, id := range p.RecordIDs {
		if _, ok := tbl.rows[id]; !ok {
			env.Results = append(env.Results, core.FailureResult(fmt.Sprintf("record %d not found", id)))
			continue
		}
		delete(tbl.rows, id)
		env.Results = append(env.Results, core.Result{Success: true})
	}
	return env, nil
}
