package assignment

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/studyflow/core"
)

type Assignment struct {
	ID            int          `json:"Id"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	ClassID       null.String  `json:"classId"`
	DueDate       string       `json:"dueDate"`
	Priority      bool         `json:"priority"`
	Completed     bool         `json:"completed"`
	CompletedDate null.String  `json:"completedDate"`
	Grade         null.Float64 `json:"grade"`
}

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title         string       `json:"title" validate:"required"`
	Description   string       `json:"description"`
	ClassID       string       `json:"classId" validate:"omitempty,numeric"`
	DueDate       string       `json:"dueDate" validate:"required,date_"`
	Priority      bool         `json:"priority"`
	Completed     bool         `json:"completed"`
	CompletedDate string       `json:"completedDate" validate:"omitempty,date_"`
	Grade         null.Float64 `json:"grade"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.SanitizeHTML(na.Description)
	na.ClassID = core.CleanString(na.ClassID)
	na.DueDate = core.CleanString(na.DueDate)
	na.CompletedDate = core.CleanString(na.CompletedDate)
	return validate.Struct(na)
}

// UpdateAssignment defines what information may be provided to modify an existing Assignment.
// Nil fields are left untouched; a non-nil invalid null value clears the field.
type UpdateAssignment struct {
	Title         *string       `json:"title"`
	Description   *string       `json:"description"`
	ClassID       *null.String  `json:"classId"`
	DueDate       *string       `json:"dueDate"`
	Priority      *bool         `json:"priority"`
	Completed     *bool         `json:"completed"`
	CompletedDate *null.String  `json:"completedDate"`
	Grade         *null.Float64 `json:"grade"`
}

// UnmarshalJSON keeps explicit nulls: {"grade": null} clears the grade, a missing key leaves it as is.
func (ua *UpdateAssignment) UnmarshalJSON(data []byte) error {
	type alias UpdateAssignment
	if err := json.Unmarshal(data, (*alias)(ua)); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["classId"]; ok && core.IsJSONNull(v) {
		ua.ClassID = &null.String{}
	}
	if v, ok := raw["completedDate"]; ok && core.IsJSONNull(v) {
		ua.CompletedDate = &null.String{}
	}
	if v, ok := raw["grade"]; ok && core.IsJSONNull(v) {
		ua.Grade = &null.Float64{}
	}
	return nil
}

func (ua *UpdateAssignment) IsEmpty() bool {
	return ua.Title == nil && ua.Description == nil && ua.ClassID == nil && ua.DueDate == nil &&
		ua.Priority == nil && ua.Completed == nil && ua.CompletedDate == nil && ua.Grade == nil
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	var fldErrs []core.FieldError

	if ua.Title != nil {
		title := core.CleanString(*ua.Title)
		ua.Title = &title
		if err := validate.Var(title, "required"); err != nil {
			fldErrs = append(fldErrs, core.FieldError{Field: "title", Error: "this field is required"})
		}
	}
	if ua.Description != nil {
		desc := core.SanitizeHTML(*ua.Description)
		ua.Description = &desc
	}
	if ua.ClassID != nil && ua.ClassID.Valid {
		ua.ClassID.String = core.CleanString(ua.ClassID.String)
		if err := validate.Var(ua.ClassID.String, "omitempty,numeric"); err != nil {
			fldErrs = append(fldErrs, core.FieldError{Field: "classId", Error: "classId must be a valid numeric value"})
		}
	}
	if ua.DueDate != nil {
		due := core.CleanString(*ua.DueDate)
		ua.DueDate = &due
		if !core.IsDate(due) {
			fldErrs = append(fldErrs, core.FieldError{Field: "dueDate", Error: "dueDate must be a date (YYYY-MM-DD) or an RFC 3339 timestamp"})
		}
	}
	if ua.CompletedDate != nil && ua.CompletedDate.Valid {
		ua.CompletedDate.String = core.CleanString(ua.CompletedDate.String)
		if ua.CompletedDate.String != "" && !core.IsDate(ua.CompletedDate.String) {
			fldErrs = append(fldErrs, core.FieldError{Field: "completedDate", Error: "completedDate must be a date (YYYY-MM-DD) or an RFC 3339 timestamp"})
		}
	}

	if fldErrs != nil {
		return core.NewValidationError(nil, fldErrs...)
	}
	return nil
}
