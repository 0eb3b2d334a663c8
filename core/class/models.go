package class

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/studyflow/core"
)

type Class struct {
	ID           int          `json:"Id"`
	Name         string       `json:"name"`
	Code         string       `json:"code"`
	Instructor   string       `json:"instructor"`
	Location     string       `json:"location"`
	Credits      float64      `json:"credits"`
	Color        string       `json:"color"`
	Schedule     Schedule     `json:"schedule"`
	CurrentGrade null.Float64 `json:"currentGrade"`
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name       string   `json:"name" validate:"required"`
	Code       string   `json:"code"`
	Instructor string   `json:"instructor"`
	Location   string   `json:"location"`
	Credits    float64  `json:"credits" validate:"gte=0"`
	Color      string   `json:"color" validate:"omitempty,hexcolor"`
	Schedule   Schedule `json:"schedule"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code)
	nc.Instructor = core.CleanString(nc.Instructor)
	nc.Location = core.CleanString(nc.Location)
	nc.Color = core.CleanString(nc.Color, true /* lower */)
	return validate.Struct(nc)
}

// UpdateClass defines what information may be provided to modify an existing Class.
type UpdateClass struct {
	Name         *string       `json:"name"`
	Code         *string       `json:"code"`
	Instructor   *string       `json:"instructor"`
	Location     *string       `json:"location"`
	Credits      *float64      `json:"credits"`
	Color        *string       `json:"color"`
	Schedule     *Schedule     `json:"schedule"`
	CurrentGrade *null.Float64 `json:"currentGrade"`
}

// UnmarshalJSON keeps explicit nulls: {"currentGrade": null} clears the grade and {"schedule": null} empties the schedule.
func (uc *UpdateClass) UnmarshalJSON(data []byte) error {
	type alias UpdateClass
	if err := json.Unmarshal(data, (*alias)(uc)); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["schedule"]; ok && core.IsJSONNull(v) {
		uc.Schedule = &Schedule{}
	}
	if v, ok := raw["currentGrade"]; ok && core.IsJSONNull(v) {
		uc.CurrentGrade = &null.Float64{}
	}
	return nil
}

func (uc *UpdateClass) IsEmpty() bool {
	return uc.Name == nil && uc.Code == nil && uc.Instructor == nil && uc.Location == nil &&
		uc.Credits == nil && uc.Color == nil && uc.Schedule == nil && uc.CurrentGrade == nil
}

func (uc *UpdateClass) Validate(validate *validator.Validate) error {
	var fldErrs []core.FieldError

	cleanPtr := func(s *string, lower ...bool) *string {
		if s == nil {
			return nil
		}
		cs := core.CleanString(*s, lower...)
		return &cs
	}
	uc.Name = cleanPtr(uc.Name)
	uc.Code = cleanPtr(uc.Code)
	uc.Instructor = cleanPtr(uc.Instructor)
	uc.Location = cleanPtr(uc.Location)
	uc.Color = cleanPtr(uc.Color, true /* lower */)

	if uc.Name != nil && *uc.Name == "" {
		fldErrs = append(fldErrs, core.FieldError{Field: "name", Error: "this field is required"})
	}
	if uc.Credits != nil && *uc.Credits < 0 {
		fldErrs = append(fldErrs, core.FieldError{Field: "credits", Error: "credits must be 0 or greater"})
	}
	if uc.Color != nil && *uc.Color != "" {
		if err := validate.Var(*uc.Color, "hexcolor"); err != nil {
			fldErrs = append(fldErrs, core.FieldError{Field: "color", Error: "color must be a valid HEX color"})
		}
	}

	if fldErrs != nil {
		return core.NewValidationError(nil, fldErrs...)
	}
	return nil
}
