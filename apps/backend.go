package apps

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/studyflow/core"
	recordsvc "github.com/trezcool/studyflow/services/records"
	"github.com/trezcool/studyflow/storage/database"
	boltdb "github.com/trezcool/studyflow/storage/database/bolt"
	dummydb "github.com/trezcool/studyflow/storage/database/dummy"
	sqlxrepos "github.com/trezcool/studyflow/storage/database/sqlx"
)

// Backend is the record backend selected by Backend.Driver.
type Backend struct {
	Driver string
	Client core.RecordClient
	DB     *sqlx.DB // postgres driver only

	close func() error
}

func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenBackend connects the configured record backend. The postgres database is created and
// migrated when migrate is set.
func OpenBackend(ctx context.Context, conf *core.Config, migrate bool) (*Backend, error) {
	b := &Backend{Driver: conf.Backend.Driver}

	switch conf.Backend.Driver {
	case core.DriverApper:
		if conf.Backend.ProjectID == "" || conf.Backend.APIKey == "" {
			return nil, NewArgumentError("apper backend: project id and api key are required")
		}
		b.Client = recordsvc.NewApperClient(conf.Backend.URL, conf.Backend.ProjectID, conf.Backend.APIKey, conf.Backend.Timeout)

	case core.DriverSupabase:
		client, err := recordsvc.NewSupabaseClient(conf.Backend.URL, conf.Backend.APIKey)
		if err != nil {
			return nil, err
		}
		b.Client = client

	case core.DriverPostgres:
		if migrate {
			if err := database.CreateIfNotExist(ctx, conf); err != nil {
				return nil, err
			}
		}
		db, err := database.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err = database.Migrate(db.DB); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		b.DB = db
		b.Client = sqlxrepos.NewRecordClient(db)
		b.close = db.Close

	case core.DriverBolt:
		store, err := boltdb.Open(conf.Bolt.Path, conf.Bolt.Timeout)
		if err != nil {
			return nil, errors.Wrap(err, "opening bolt store")
		}
		b.Client = store
		b.close = store.Close

	case core.DriverMemory:
		b.Client = dummydb.NewRecordClient(dummydb.Open())

	default:
		return nil, NewArgumentError(fmt.Sprintf("unknown backend driver %q", conf.Backend.Driver))
	}
	return b, nil
}
