package assignment

import (
	"context"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/studyflow/core"
)

var (
	// errors
	ErrNotFound       = errors.New("assignment not found")
	ErrCreationFailed = errors.New("failed to create assignment")
	ErrUpdateFailed   = errors.New("failed to update assignment")
	ErrDeletionFailed = errors.New("failed to delete assignment")
	ErrInvalidClassID = core.NewValidationError(nil, core.FieldError{Field: "classId", Error: "classId must be a valid numeric value"})
)

type (
	ServiceInterface interface {
		GetAll(ctx context.Context) []Assignment
		GetByID(ctx context.Context, id int) (Assignment, error)
		GetByClassID(ctx context.Context, classID string) []Assignment
		Create(ctx context.Context, na NewAssignment) (Assignment, error)
		Update(ctx context.Context, id int, ua UpdateAssignment) (Assignment, error)
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

func (svc *Service) query(where ...core.Filter) core.Query {
	return core.Query{
		Fields:  core.Fields(queryFields...),
		Where:   where,
		OrderBy: defaultOrdering,
	}
}

// list never fails: errors are logged and an empty list is returned.
func (svc *Service) list(ctx context.Context, msg string, q core.Query) []Assignment {
	env, err := svc.client.FetchRecords(ctx, Collection, q)
	if err != nil {
		svc.logger.Error(msg, errors.Wrap(err, "fetching records"))
		return []Assignment{}
	}
	if err = env.RemoteErr(); err != nil {
		svc.logger.Error(msg, err)
		return []Assignment{}
	}
	recs, err := core.DecodeRecords(env.Data)
	if err != nil {
		svc.logger.Error(msg, err)
		return []Assignment{}
	}

	asgmts := make([]Assignment, 0, len(recs))
	for _, rec := range recs {
		asgmts = append(asgmts, fromRecord(rec))
	}
	return asgmts
}

// GetAll returns every assignment ordered by due date.
func (svc *Service) GetAll(ctx context.Context) []Assignment {
	return svc.list(ctx, "fetching assignments", svc.query())
}

func (svc *Service) GetByID(ctx context.Context, id int) (Assignment, error) {
	env, err := svc.client.GetRecordByID(ctx, Collection, id, core.Query{Fields: core.Fields(queryFields...)})
	if err != nil {
		svc.logger.Error("fetching assignment "+strconv.Itoa(id), errors.Wrap(err, "getting record"))
		return Assignment{}, ErrNotFound
	}
	if err = env.RemoteErr(); err != nil {
		svc.logger.Error("fetching assignment "+strconv.Itoa(id), err)
		return Assignment{}, ErrNotFound
	}
	rec, err := core.DecodeRecord(env.Data)
	if err != nil {
		svc.logger.Error("fetching assignment "+strconv.Itoa(id), err)
		return Assignment{}, ErrNotFound
	}
	if rec == nil {
		return Assignment{}, ErrNotFound
	}
	return fromRecord(rec), nil
}

// GetByClassID returns the assignments of a class ordered by due date.
func (svc *Service) GetByClassID(ctx context.Context, classID string) []Assignment {
	msg := "fetching assignments of class " + classID
	cid, err := strconv.Atoi(core.CleanString(classID))
	if err != nil {
		svc.logger.Error(msg, errors.Wrap(err, "parsing class id"))
		return []Assignment{}
	}
	return svc.list(ctx, msg, svc.query(core.Filter{
		FieldName: fieldClassID,
		Operator:  core.OperatorEqualTo,
		Values:    []interface{}{cid},
	}))
}

func (svc *Service) Create(ctx context.Context, na NewAssignment) (Assignment, error) {
	rec, err := na.record()
	if err != nil {
		return Assignment{}, err
	}

	env, err := svc.client.CreateRecord(ctx, Collection, core.RecordsPayload{Records: []core.Record{rec}})
	if err != nil {
		err = core.NewOpError(ErrCreationFailed, "", errors.Wrap(err, "creating record"))
		svc.logger.Error("creating assignment", err)
		return Assignment{}, err
	}
	created, err := core.WrittenRecord(env, ErrCreationFailed)
	if err != nil {
		svc.logger.Error("creating assignment", err)
		return Assignment{}, err
	}
	return fromRecord(created), nil
}

func (svc *Service) Update(ctx context.Context, id int, ua UpdateAssignment) (Assignment, error) {
	rec, err := ua.record(id)
	if err != nil {
		return Assignment{}, err
	}

	env, err := svc.client.UpdateRecord(ctx, Collection, core.RecordsPayload{Records: []core.Record{rec}})
	if err != nil {
		err = core.NewOpError(ErrUpdateFailed, "", errors.Wrap(err, "updating record"))
		svc.logger.Error("updating assignment "+strconv.Itoa(id), err)
		return Assignment{}, err
	}
	updated, err := core.WrittenRecord(env, ErrUpdateFailed)
	if err != nil {
		svc.logger.Error("updating assignment "+strconv.Itoa(id), err)
		return Assignment{}, err
	}
	return fromRecord(updated), nil
}

// Delete removes the assignment. A nil error means the backend confirmed the deletion.
func (svc *Service) Delete(ctx context.Context, id int) error {
	env, err := svc.client.DeleteRecord(ctx, Collection, core.DeletePayload{RecordIDs: []int{id}})
	if err != nil {
		err = core.NewOpError(ErrDeletionFailed, "", errors.Wrap(err, "deleting record"))
		svc.logger.Error("deleting assignment "+strconv.Itoa(id), err)
		return err
	}
	if err = core.DeletionResult(env, ErrDeletionFailed); err != nil {
		svc.logger.Error("deleting assignment "+strconv.Itoa(id), err)
		return err
	}
	return nil
}
