package class

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/studyflow/core"
)

var (
	// errors
	ErrNotFound       = errors.New("class not found")
	ErrCreationFailed = errors.New("failed to create class")
	ErrUpdateFailed   = errors.New("failed to update class")
	ErrDeletionFailed = errors.New("failed to delete class")
)

type (
	ServiceInterface interface {
		GetAll(ctx context.Context) []Class
		GetByID(ctx context.Context, id int) (Class, error)
		Create(ctx context.Context, nc NewClass) (Class, error)
		Update(ctx context.Context, id int, uc UpdateClass) (Class, error)
		Delete(ctx context.Context, id int) error
	}

	Service struct {
		client core.RecordClient
		logger core.Logger
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(client core.RecordClient, logger core.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// GetAll returns every class ordered by name. Failures are logged and yield an empty list.
func (svc *Service) GetAll(ctx context.Context) []Class {
	q := core.Query{Fields: core.Fields(queryFields...), OrderBy: defaultOrdering}

	env, err := svc.client.FetchRecords(ctx, Collection, q)
	if err != nil {
		svc.logger.Error("fetching classes", errors.Wrap(err, "fetching records"))
		return []Class{}
	}
	if err = env.RemoteErr(); err != nil {
		svc.logger.Error("fetching classes", err)
		return []Class{}
	}
	recs, err := core.DecodeRecords(env.Data)
	if err != nil {
		svc.logger.Error("fetching classes", err)
		return []Class{}
	}

	classes := make([]Class, 0, len(recs))
	for _, rec := range recs {
		cls, err := fromRecord(rec)
		if err != nil {
			svc.logger.Error("fetching classes", errors.Wrapf(err, "class %d", rec.ID()))
			return []Class{}
		}
		classes = append(classes, cls)
	}
	return classes
}

func (svc *Service) GetByID(ctx context.Context, id int) (Class, error) {
	msg := "fetching class " + strconv.Itoa(id)

	env, err := svc.client.GetRecordByID(ctx, Collection, id, core.Query{Fields: core.Fields(queryFields...)})
	if err != nil {
		svc.logger.Error(msg, errors.Wrap(err, "getting record"))
		return Class{}, ErrNotFound
	}
	if err = env.RemoteErr(); err != nil {
		svc.logger.Error(msg, err)
		return Class{}, ErrNotFound
	}
	rec, err := core.DecodeRecord(env.Data)
	if err != nil {
		svc.logger.Error(msg, err)
		return Class{}, ErrNotFound
	}
	if rec == nil {
		return Class{}, ErrNotFound
	}
	cls, err := fromRecord(rec)
	if err != nil {
		svc.logger.Error(msg, err)
		return Class{}, ErrNotFound
	}
	return cls, nil
}

func (svc *Service) Create(ctx context.Context, nc NewClass) (Class, error) {
	rec, err := nc.record()
	if err != nil {
		return Class{}, core.NewOpError(ErrCreationFailed, "", err)
	}

	env, err := svc.client.CreateRecord(ctx, Collection, core.RecordsPayload{Records: []core.Record{rec}})
	if err != nil {
		err = core.NewOpError(ErrCreationFailed, "", errors.Wrap(err, "creating record"))
		svc.logger.Error("creating class", err)
		return Class{}, err
	}
	created, err := core.WrittenRecord(env, ErrCreationFailed)
	if err != nil {
		svc.logger.Error("creating class", err)
		return Class{}, err
	}
	cls, err := fromRecord(created)
	if err != nil {
		err = core.NewOpError(ErrCreationFailed, "", err)
		svc.logger.Error("creating class", err)
		return Class{}, err
	}
	return cls, nil
}

func (svc *Service) Update(ctx context.Context, id int, uc UpdateClass) (Class, error) {
	msg := "updating class " + strconv.Itoa(id)

	rec, err := uc.record(id)
	if err != nil {
		return Class{}, core.NewOpError(ErrUpdateFailed, "", err)
	}

	env, err := svc.client.UpdateRecord(ctx, Collection, core.RecordsPayload{Records: []core.Record{rec}})
	if err != nil {
		err = core.NewOpError(ErrUpdateFailed, "", errors.Wrap(err, "updating record"))
		svc.logger.Error(msg, err)
		return Class{}, err
	}
	updated, err := core.WrittenRecord(env, ErrUpdateFailed)
	if err != nil {
		svc.logger.Error(msg, err)
		return Class{}, err
	}
	cls, err := fromRecord(updated)
	if err != nil {
		err = core.NewOpError(ErrUpdateFailed, "", err)
		svc.logger.Error(msg, err)
		return Class{}, err
	}
	return cls, nil
}

// Delete removes the class. A nil error means the backend confirmed the deletion.
func (svc *Service) Delete(ctx context.Context, id int) error {
	msg := "deleting class " + strconv.Itoa(id)

	env, err := svc.client.DeleteRecord(ctx, Collection, core.DeletePayload{RecordIDs: []int{id}})
	if err != nil {
		err = core.NewOpError(ErrDeletionFailed, "", errors.Wrap(err, "deleting record"))
		svc.logger.Error(msg, err)
		return err
	}
	if err = core.DeletionResult(env, ErrDeletionFailed); err != nil {
		svc.logger.Error(msg, err)
		return err
	}
	return nil
}
