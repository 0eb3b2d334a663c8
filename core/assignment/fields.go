package assignment

import (
	"strconv"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/studyflow/core"
)

// Collection is the remote collection holding assignments.
const Collection = "assignment_c"

// Remote fields
const (
	fieldName          = "Name"
	fieldTitle         = "title_c"
	fieldDescription   = "description_c"
	fieldClassID       = "class_id_c"
	fieldDueDate       = "due_date_c"
	fieldPriority      = "priority_c"
	fieldCompleted     = "completed_c"
	fieldCompletedDate = "completed_date_c"
	fieldGrade         = "grade_c"
)

// Fields maps domain keys to remote fields. Writes are translated through it.
var Fields = map[string]string{
	"title":         fieldTitle,
	"description":   fieldDescription,
	"classId":       fieldClassID,
	"dueDate":       fieldDueDate,
	"priority":      fieldPriority,
	"completed":     fieldCompleted,
	"completedDate": fieldCompletedDate,
	"grade":         fieldGrade,
}

var queryFields = []string{
	fieldName,
	fieldTitle,
	fieldDescription,
	fieldClassID,
	fieldDueDate,
	fieldPriority,
	fieldCompleted,
	fieldCompletedDate,
	fieldGrade,
}

var defaultOrdering = []core.Ordering{{Field: fieldDueDate, Ascending: true}}

func fromRecord(rec core.Record) Assignment {
	return Assignment{
		ID:            rec.ID(),
		Title:         rec.String(fieldTitle),
		Description:   rec.String(fieldDescription),
		ClassID:       rec.LookupID(fieldClassID),
		DueDate:       rec.String(fieldDueDate),
		Priority:      rec.Bool(fieldPriority),
		Completed:     rec.Bool(fieldCompleted),
		CompletedDate: rec.NullString(fieldCompletedDate),
		Grade:         rec.NullFloat(fieldGrade),
	}
}

// classIDValue converts a stringified class id to its remote (integer) form. Blank ids are null.
func classIDValue(id string) (interface{}, error) {
	if id == "" {
		return nil, nil
	}
	cid, err := strconv.Atoi(id)
	if err != nil {
		return nil, ErrInvalidClassID
	}
	return cid, nil
}

func nullString(s null.String) interface{} {
	if !s.Valid || s.String == "" {
		return nil
	}
	return s.String
}

func nullFloat(f null.Float64) interface{} {
	if !f.Valid {
		return nil
	}
	return f.Float64
}

func (na NewAssignment) record() (core.Record, error) {
	classID, err := classIDValue(na.ClassID)
	if err != nil {
		return nil, err
	}
	return core.MapFields(Fields, map[string]interface{}{
		"title":         na.Title,
		"description":   na.Description,
		"classId":       classID,
		"dueDate":       na.DueDate,
		"priority":      na.Priority,
		"completed":     na.Completed,
		"completedDate": nullString(null.StringFrom(na.CompletedDate)),
		"grade":         nullFloat(na.Grade),
	})
}

// record holds the Id and only the fields set on the update.
func (ua UpdateAssignment) record(id int) (core.Record, error) {
	values := make(map[string]interface{})
	if ua.Title != nil {
		values["title"] = *ua.Title
	}
	if ua.Description != nil {
		values["description"] = *ua.Description
	}
	if ua.ClassID != nil {
		var cid string
		if ua.ClassID.Valid {
			cid = ua.ClassID.String
		}
		classID, err := classIDValue(cid)
		if err != nil {
			return nil, err
		}
		values["classId"] = classID
	}
	if ua.DueDate != nil {
		values["dueDate"] = *ua.DueDate
	}
	if ua.Priority != nil {
		values["priority"] = *ua.Priority
	}
	if ua.Completed != nil {
		values["completed"] = *ua.Completed
	}
	if ua.CompletedDate != nil {
		values["completedDate"] = nullString(*ua.CompletedDate)
	}
	if ua.Grade != nil {
		values["grade"] = nullFloat(*ua.Grade)
	}

	rec, err := core.MapFields(Fields, values)
	if err != nil {
		return nil, err
	}
	rec[core.IDField] = id
	return rec, nil
}
