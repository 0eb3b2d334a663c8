package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/studyflow/core"
	"github.com/trezcool/studyflow/storage/database"
)

// recordClient stores every collection in the "records" table, one jsonb document per record.
type recordClient struct {
	db *sqlx.DB
}

var _ core.RecordClient = (*recordClient)(nil) // interface compliance check

func NewRecordClient(db *sqlx.DB) core.RecordClient {
	return &recordClient{db: db}
}

type row struct {
	ID   int            `db:"id"`
	Data types.JSONText `db:"data"`
}

func (r row) record() (core.Record, error) {
	var rec core.Record
	if err := r.Data.Unmarshal(&rec); err != nil {
		return nil, errors.Wrap(err, "decoding record")
	}
	if rec == nil {
		rec = make(core.Record)
	}
	rec[core.IDField] = r.ID
	return rec, nil
}

// document encodes a record without its Id (the id column is authoritative).
func document(rec core.Record) ([]byte, error) {
	doc := make(core.Record, len(rec))
	for k, v := range rec {
		if k != core.IDField {
			doc[k] = v
		}
	}
	data, err := json.Marshal(doc)
	return data, errors.Wrap(err, "encoding record")
}

func trapNoRowsErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

// selectQuery builds the fetch statement. Field names are always bound as parameters.
func selectQuery(collection string, q core.Query) (string, []interface{}, error) {
	var sb strings.Builder
	args := []interface{}{collection}
	param := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	sb.WriteString("SELECT id, data FROM records WHERE collection = $1")
	for _, f := range q.Where {
		if f.Operator != core.OperatorEqualTo {
			return "", nil, errors.Wrap(database.ErrUnsupportedOperator, f.Operator)
		}
		keys := make([]string, len(f.Values))
		for i, v := range f.Values {
			keys[i] = core.LookupKey(v)
		}
		fld, vals := param(f.FieldName), param(pq.Array(keys))
		// raw scalars or lookup objects ({"Id": n})
		fmt.Fprintf(&sb, " AND (data->>%[1]s::text = ANY(%[2]s::text[]) OR data->%[1]s::text->>'Id' = ANY(%[2]s::text[]))", fld, vals)
	}

	sb.WriteString(" ORDER BY ")
	for _, ord := range q.OrderBy {
		fmt.Fprintf(&sb, "data->%s::text %s NULLS FIRST, ", param(ord.Field), ord.SortType())
	}
	sb.WriteString("id ASC")
	return sb.String(), args, nil
}

func (c *recordClient) FetchRecords(ctx context.Context, collection string, q core.Query) (*core.Envelope, error) {
	query, args, err := selectQuery(collection, q)
	if err != nil {
		return core.FailureEnvelope(err.Error()), nil
	}

	var rows []row
	if err = c.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "selecting records")
	}

	fields := q.FieldNames()
	recs := make([]core.Record, 0, len(rows))
	for _, r := range rows {
		rec, err := r.record()
		if err != nil {
			return nil, err
		}
		recs = append(recs, database.Project(rec, fields))
	}
	return core.SuccessEnvelope(recs)
}

func (c *recordClient) GetRecordByID(ctx context.Context, collection string, id int, q core.Query) (*core.Envelope, error) {
	var r row
	err := c.db.GetContext(ctx, &r, "SELECT id, data FROM records WHERE collection = $1 AND id = $2", collection, id)
	if err != nil {
		if err = trapNoRowsErr(err); err != nil {
			return nil, errors.Wrap(err, "getting record")
		}
		return core.SuccessEnvelope(nil)
	}
	rec, err := r.record()
	if err != nil {
		return nil, err
	}
	return core.SuccessEnvelope(database.Project(rec, q.FieldNames()))
}

// inTx runs fn in a transaction, committing only if fn succeeds.
func (c *recordClient) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func (c *recordClient) CreateRecord(ctx context.Context, collection string, p core.RecordsPayload) (*core.Envelope, error) {
	env := &core.Envelope{Success: true, Results: make([]core.Result, 0, len(p.Records))}
	err := c.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, rec := range p.Records {
			doc, err := document(rec)
			if err != nil {
				env.Results = append(env.Results, core.FailureResult(err.Error()))
				continue
			}
			var r row
			err = tx.GetContext(ctx, &r,
				"INSERT INTO records (collection, data) VALUES ($1, $2::jsonb) RETURNING id, data", collection, string(doc))
			if err != nil {
				return errors.Wrap(err, "inserting record")
			}
			created, err := r.record()
			if err != nil {
				return err
			}
			env.Results = append(env.Results, core.SuccessResult(created))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return env, nil
}

func (c *recordClient) UpdateRecord(ctx context.Context, collection string, p core.RecordsPayload) (*core.Envelope, error) {
	env := &core.Envelope{Success: true, Results: make([]core.Result, 0, len(p.Records))}
	err := c.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, patch := range p.Records {
			id, err := database.PatchID(patch)
			if err != nil {
				env.Results = append(env.Results, core.FailureResult(err.Error()))
				continue
			}
			doc, err := document(patch)
			if err != nil {
				env.Results = append(env.Results, core.FailureResult(err.Error()))
				continue
			}

			// only save set fields
			var r row
			err = tx.GetContext(ctx, &r,
				`UPDATE records SET data = data || $3::jsonb, updated_at = now()
				 WHERE collection = $1 AND id = $2 RETURNING id, data`, collection, id, string(doc))
			if err != nil {
				if err = trapNoRowsErr(err); err != nil {
					return errors.Wrap(err, "updating record")
				}
				env.Results = append(env.Results, core.FailureResult(fmt.Sprintf("record %d not found", id)))
				continue
			}
			updated, err := r.record()
			if err != nil {
				return err
			}
			env.Results = append(env.Results, core.SuccessResult(updated))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return env, nil
}

func (c *recordClient) DeleteRecord(ctx context.Context, collection string, p core.DeletePayload) (*core.Envelope, error) {
	env := &core.Envelope{Success: true, Results: make([]core.Result, 0, len(p.RecordIDs))}
	err := c.inTx(ctx, func(tx *sqlx.Tx) error {
		for _, id := range p.RecordIDs {
			res, err := tx.ExecContext(ctx, "DELETE FROM records WHERE collection = $1 AND id = $2", collection, id)
			if err != nil {
				return errors.Wrap(err, "deleting record")
			}
			n, err := res.RowsAffected()
			if err != nil {
				return errors.Wrap(err, "deleting record")
			}
			if n == 0 {
				env.Results = append(env.Results, core.FailureResult(fmt.Sprintf("record %d not found", id)))
				continue
			}
			env.Results = append(env.Results, core.Result{Success: true})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return env, nil
}
