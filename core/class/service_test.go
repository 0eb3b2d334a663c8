package class

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/studyflow/core"
	"github.com/trezcool/studyflow/storage/database/dummy"
	"github.com/trezcool/studyflow/tests"
)

func setup(t *testing.T) (*Service, core.RecordClient, *testutil.Logger) {
	t.Helper()
	client := dummydb.NewRecordClient(dummydb.Open())
	logger := testutil.NewLogger()
	return NewService(client, logger), client, logger
}

func createClass(t *testing.T, svc *Service, nc NewClass) Class {
	t.Helper()
	cls, err := svc.Create(context.Background(), nc)
	require.NoError(t, err)
	return cls
}

func names(classes []Class) []string {
	out := make([]string, len(classes))
	for i, c := range classes {
		out[i] = c.Name
	}
	return out
}

func TestService_CreateAndGet(t *testing.T) {
	svc, client, _ := setup(t)
	ctx := context.Background()

	schedule := Schedule{
		json.RawMessage(`{"day":"Monday","startTime":"09:00","endTime":"10:30","room":"B12"}`),
		json.RawMessage(`{"day":"Thursday","startTime":"14:00","endTime":"15:30"}`),
	}
	created := createClass(t, svc, NewClass{
		Name:       "Physics",
		Code:       "PHY101",
		Instructor: "Dr. Curie",
		Credits:    4,
		Color:      "#3b82f6",
		Schedule:   schedule,
	})
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, schedule, created.Schedule)
	assert.False(t, created.CurrentGrade.Valid)

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	env, err := client.GetRecordByID(ctx, Collection, created.ID, core.Query{})
	require.NoError(t, err)
	rec, err := core.DecodeRecord(env.Data)
	require.NoError(t, err)
	assert.Equal(t, `[{"day":"Monday","startTime":"09:00","endTime":"10:30","room":"B12"},{"day":"Thursday","startTime":"14:00","endTime":"15:30"}]`, rec[fieldSchedule])
	assert.Contains(t, rec, fieldCurrentGrade)
	assert.Nil(t, rec[fieldCurrentGrade])

	_, err = svc.GetByID(ctx, 42)
	assert.Equal(t, ErrNotFound, err)
}

func TestService_CreateWithoutSchedule(t *testing.T) {
	svc, client, _ := setup(t)

	created := createClass(t, svc, NewClass{Name: "Art"})
	assert.Equal(t, Schedule{}, created.Schedule)

	env, err := client.GetRecordByID(context.Background(), Collection, created.ID, core.Query{})
	require.NoError(t, err)
	rec, err := core.DecodeRecord(env.Data)
	require.NoError(t, err)
	assert.Equal(t, "[]", rec[fieldSchedule])
}

func TestService_GetAll(t *testing.T) {
	svc, client, logger := setup(t)
	ctx := context.Background()

	assert.Equal(t, []Class{}, svc.GetAll(ctx))

	createClass(t, svc, NewClass{Name: "Physics"})
	createClass(t, svc, NewClass{Name: "Algebra"})
	testutil.CreateRecord(t, client, Collection, core.Record{fieldClassName: "Chemistry", fieldSchedule: "  "})

	classes := svc.GetAll(ctx)
	assert.Equal(t, []string{"Algebra", "Chemistry", "Physics"}, names(classes))
	assert.Equal(t, Schedule{}, classes[1].Schedule)

	t.Run("corrupt schedule", func(t *testing.T) {
		testutil.CreateRecord(t, client, Collection, core.Record{fieldClassName: "Biology", fieldSchedule: "{not json"})

		assert.Equal(t, []Class{}, svc.GetAll(ctx))
		assert.Len(t, logger.Errors(), 1)
	})
}

func TestService_ForeignSchedules(t *testing.T) {
	svc, client, logger := setup(t)
	ctx := context.Background()

	foreign := `[{"day":"Monday","time":"09:00-10:30","building":"North"}]`
	mixed := `[{"day":1,"startTime":"09:00"},"Fri 14:00"]`
	id := testutil.CreateRecord(t, client, Collection, core.Record{fieldClassName: "Physics", fieldSchedule: foreign})
	testutil.CreateRecord(t, client, Collection, core.Record{fieldClassName: "Algebra", fieldSchedule: mixed})

	classes := svc.GetAll(ctx)
	require.Len(t, classes, 2)
	assert.Empty(t, logger.Errors())

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	text, err := SerializeSchedule(got.Schedule)
	require.NoError(t, err)
	assert.Equal(t, foreign, text)

	data, err := json.Marshal(classes[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"schedule":[{"day":1,"startTime":"09:00"},"Fri 14:00"]`)

	t.Run("updates keep the stored schedule", func(t *testing.T) {
		credits := 3.0
		_, err := svc.Update(ctx, id, UpdateClass{Credits: &credits})
		require.NoError(t, err)

		env, err := client.GetRecordByID(ctx, Collection, id, core.Query{})
		require.NoError(t, err)
		rec, err := core.DecodeRecord(env.Data)
		require.NoError(t, err)
		assert.Equal(t, foreign, rec[fieldSchedule])
	})

	t.Run("resaving round trips", func(t *testing.T) {
		_, err := svc.Update(ctx, id, UpdateClass{Schedule: &got.Schedule})
		require.NoError(t, err)

		env, err := client.GetRecordByID(ctx, Collection, id, core.Query{})
		require.NoError(t, err)
		rec, err := core.DecodeRecord(env.Data)
		require.NoError(t, err)
		assert.Equal(t, foreign, rec[fieldSchedule])
	})
}

func TestService_Update(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	created := createClass(t, svc, NewClass{
		Name:     "Physics",
		Credits:  4,
		Schedule: Schedule{json.RawMessage(`{"day":"Monday","startTime":"09:00","endTime":"10:30"}`)},
	})

	grade := null.Float64From(87.5)
	updated, err := svc.Update(ctx, created.ID, UpdateClass{CurrentGrade: &grade})
	require.NoError(t, err)

	want := created
	want.CurrentGrade = grade
	assert.Equal(t, want, updated)

	t.Run("replace schedule", func(t *testing.T) {
		schedule := Schedule{json.RawMessage(`{"day":"Friday","startTime":"08:00","endTime":"09:00"}`)}
		updated, err := svc.Update(ctx, created.ID, UpdateClass{Schedule: &schedule})
		require.NoError(t, err)
		assert.Equal(t, schedule, updated.Schedule)
		assert.Equal(t, grade, updated.CurrentGrade)
	})

	t.Run("clear grade and schedule", func(t *testing.T) {
		updated, err := svc.Update(ctx, created.ID, UpdateClass{CurrentGrade: &null.Float64{}, Schedule: &Schedule{}})
		require.NoError(t, err)
		assert.False(t, updated.CurrentGrade.Valid)
		assert.Equal(t, Schedule{}, updated.Schedule)
		assert.Equal(t, "Physics", updated.Name)
	})

	t.Run("missing record", func(t *testing.T) {
		name := "Chemistry"
		_, err := svc.Update(ctx, 42, UpdateClass{Name: &name})
		assert.True(t, errors.Is(err, ErrUpdateFailed))
		assert.EqualError(t, err, "record 42 not found")
	})
}

func TestService_Delete(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	created := createClass(t, svc, NewClass{Name: "Physics"})

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err := svc.GetByID(ctx, created.ID)
	assert.Equal(t, ErrNotFound, err)

	err = svc.Delete(ctx, created.ID)
	assert.True(t, errors.Is(err, ErrDeletionFailed))
}

func TestService_RemoteFailures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		client  *testutil.StubClient
		run     func(svc *Service) error
		wantErr error
		wantMsg string
	}{
		{
			name:   "fetch reports failure",
			client: &testutil.StubClient{Envelope: core.FailureEnvelope("quota exceeded")},
			run: func(svc *Service) error {
				assert.Equal(t, []Class{}, svc.GetAll(ctx))
				return nil
			},
		},
		{
			name:   "get transport error",
			client: &testutil.StubClient{Err: errors.New("timeout")},
			run: func(svc *Service) error {
				_, err := svc.GetByID(ctx, 1)
				return err
			},
			wantErr: ErrNotFound,
			wantMsg: "class not found",
		},
		{
			name: "create partially failed",
			client: &testutil.StubClient{Envelope: &core.Envelope{
				Success: true,
				Results: []core.Result{core.FailureResult("name_c is required")},
			}},
			run: func(svc *Service) error {
				_, err := svc.Create(ctx, NewClass{Name: "Physics"})
				return err
			},
			wantErr: ErrCreationFailed,
			wantMsg: "name_c is required",
		},
		{
			name: "update without written record",
			client: &testutil.StubClient{Envelope: &core.Envelope{
				Success: true,
				Results: []core.Result{{Success: true}},
			}},
			run: func(svc *Service) error {
				name := "Physics"
				_, err := svc.Update(ctx, 1, UpdateClass{Name: &name})
				return err
			},
			wantErr: ErrUpdateFailed,
			wantMsg: "failed to update class",
		},
		{
			name: "delete partially failed",
			client: &testutil.StubClient{Envelope: &core.Envelope{
				Success: true,
				Results: []core.Result{core.FailureResult("record is referenced")},
			}},
			run: func(svc *Service) error {
				return svc.Delete(ctx, 1)
			},
			wantErr: ErrDeletionFailed,
			wantMsg: "record is referenced",
		},
		{
			name:   "delete confirmed",
			client: &testutil.StubClient{Envelope: &core.Envelope{Success: true, Results: []core.Result{{Success: true}}}},
			run: func(svc *Service) error {
				return svc.Delete(ctx, 1)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.client, testutil.NewLogger())

			err := tt.run(svc)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestService_Requests(t *testing.T) {
	ctx := context.Background()
	client := &testutil.StubClient{Envelope: &core.Envelope{Success: true}}
	svc := NewService(client, testutil.NewLogger())

	svc.GetAll(ctx)
	require.Len(t, client.Queries, 1)
	assert.Equal(t, []core.Ordering{{Field: "Name", Ascending: true}, {Field: "name_c", Ascending: true}}, client.Queries[0].OrderBy)
	assert.Empty(t, client.Queries[0].Where)

	_, _ = svc.Create(ctx, NewClass{Name: "Physics"})
	require.Len(t, client.Payloads, 1)
	rec := client.Payloads[0].Records[0]
	assert.Equal(t, "[]", rec["schedule_c"])
	assert.Contains(t, rec, "current_grade_c")
	assert.Nil(t, rec["current_grade_c"])

	credits := 3.0
	_, _ = svc.Update(ctx, 5, UpdateClass{Credits: &credits})
	require.Len(t, client.Payloads, 2)
	assert.Equal(t, core.Record{"Id": 5, "credits_c": 3.0}, client.Payloads[1].Records[0])
}
