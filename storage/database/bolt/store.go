// Package boltdb is a record backend on an embedded bbolt file: one bucket per collection,
// records stored as JSON under their big-endian sequence id.
package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"

	"github.com/trezcool/studyflow/core"
	"github.com/trezcool/studyflow/storage/database"
)

type Store struct {
	db *bbolt.DB
}

var _ core.RecordClient = (*Store)(nil)

// Open opens (or creates) the bolt file at path.
func Open(path string, timeout time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, errors.Wrap(err, "opening bolt file")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func itob(id int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(id))
	return b
}

func decode(data []byte) (core.Record, error) {
	var rec core.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(err, "decoding record")
	}
	return rec, nil
}

func put(b *bbolt.Bucket, id int, rec core.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "encoding record")
	}
	return b.Put(itob(id), data)
}

func (s *Store) FetchRecords(_ context.Context, collection string, q core.Query) (*core.Envelope, error) {
	var recs []core.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			rec, err := decode(v)
			if err != nil {
				return err
			}
			recs = append(recs, rec)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading records")
	}

	selected, err := database.Select(recs, q)
	if err != nil {
		return core.FailureEnvelope(err.Error()), nil
	}
	return core.SuccessEnvelope(selected)
}

func (s *Store) GetRecordByID(_ context.Context, collection string, id int, q core.Query) (*core.Envelope, error) {
	var rec core.Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		v := b.Get(itob(id))
		if v == nil {
			return nil
		}
		var err error
		rec, err = decode(v)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading record")
	}
	if rec == nil {
		return core.SuccessEnvelope(nil)
	}
	return core.SuccessEnvelope(database.Project(rec, q.FieldNames()))
}

func (s *Store) CreateRecord(_ context.Context, collection string, p core.RecordsPayload) (*core.Envelope, error) {
	env := &core.Envelope{Success: true, Results: make([]core.Result, 0, len(p.Records))}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return err
		}
		for _, rec := range p.Records {
			norm, err := database.Normalize(rec)
			if err != nil {
				env.Results = append(env.Results, core.FailureResult(err.Error()))
				continue
			}

			// generate auto id
			id64, err := b.NextSequence()
			if err != nil {
				return err
			}
			id := int(id64)
			norm[core.IDField] = id

			if err = put(b, id, norm); err != nil {
				return err
			}
			env.Results = append(env.Results, core.SuccessResult(norm))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating records")
	}
	return env, nil
}

func (s *Store) UpdateRecord(_ context.Context, collection string, p core.RecordsPayload) (*core.Envelope, error) {
	env := &core.Envelope{Success: true, Results: make([]core.Result, 0, len(p.Records))}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return err
		}
		for _, patch := range p.Records {
			id, err := database.PatchID(patch)
			if err != nil {
				env.Results = append(env.Results, core.FailureResult(err.Error()))
				continue
			}
			v := b.Get(itob(id))
			if v == nil {
				env.Results = append(env.Results, core.FailureResult(fmt.Sprintf("record %d not found", id)))
				continue
			}
			rec, err := decode(v)
			if err != nil {
				return err
			}
			norm, err := database.Normalize(patch)
			if err != nil {
				env.Results = append(env.Results, core.FailureResult(err.Error()))
				continue
			}
			database.Merge(rec, norm)
			if err = put(b, id, rec); err != nil {
				return err
			}
			env.Results = append(env.Results, core.SuccessResult(rec))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "updating records")
	}
	return env, nil
}

func (s *Store) DeleteRecord(_ context.Context, collection string, p core.DeletePayload) (*core.Envelope, error) {
	env := &core.Envelope{Success: true, Results: make([]core.Result, 0, len(p.RecordIDs))}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return err
		}
		for _, id := range p.RecordIDs {
			key := itob(id)
			if b.Get(key) == nil {
				env.Results = append(env.Results, core.FailureResult(fmt.Sprintf("record %d not found", id)))
				continue
			}
			if err = b.Delete(key); err != nil {
				return err
			}
			env.Results = append(env.Results, core.Result{Success: true})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "deleting records")
	}
	return env, nil
}
