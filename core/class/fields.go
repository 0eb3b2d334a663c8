package class

import (
	"github.com/trezcool/studyflow/core"
)

// Collection is the remote collection holding classes.
const Collection = "class_item_c"

// Remote fields
const (
	fieldName         = "Name"
	fieldClassName    = "name_c"
	fieldCode         = "code_c"
	fieldInstructor   = "instructor_c"
	fieldLocation     = "location_c"
	fieldCredits      = "credits_c"
	fieldColor        = "color_c"
	fieldSchedule     = "schedule_c"
	fieldCurrentGrade = "current_grade_c"
)

// Fields maps domain keys to remote fields. Writes are translated through it.
var Fields = map[string]string{
	"name":         fieldClassName,
	"code":         fieldCode,
	"instructor":   fieldInstructor,
	"location":     fieldLocation,
	"credits":      fieldCredits,
	"color":        fieldColor,
	"schedule":     fieldSchedule,
	"currentGrade": fieldCurrentGrade,
}

var queryFields = []string{
	fieldName,
	fieldClassName,
	fieldCode,
	fieldInstructor,
	fieldLocation,
	fieldCredits,
	fieldColor,
	fieldSchedule,
	fieldCurrentGrade,
}

// Classes sort by the system Name field. Backends that do not fill it fall back to name_c.
var defaultOrdering = []core.Ordering{
	{Field: fieldName, Ascending: true},
	{Field: fieldClassName, Ascending: true},
}

func fromRecord(rec core.Record) (Class, error) {
	schedule, err := ParseSchedule(rec.String(fieldSchedule))
	if err != nil {
		return Class{}, err
	}
	return Class{
		ID:           rec.ID(),
		Name:         rec.String(fieldClassName),
		Code:         rec.String(fieldCode),
		Instructor:   rec.String(fieldInstructor),
		Location:     rec.String(fieldLocation),
		Credits:      rec.Float(fieldCredits),
		Color:        rec.String(fieldColor),
		Schedule:     schedule,
		CurrentGrade: rec.NullFloat(fieldCurrentGrade),
	}, nil
}

func (nc NewClass) record() (core.Record, error) {
	schedule, err := SerializeSchedule(nc.Schedule)
	if err != nil {
		return nil, err
	}
	return core.MapFields(Fields, map[string]interface{}{
		"name":         nc.Name,
		"code":         nc.Code,
		"instructor":   nc.Instructor,
		"location":     nc.Location,
		"credits":      nc.Credits,
		"color":        nc.Color,
		"schedule":     schedule,
		"currentGrade": nil,
	})
}

// record holds the Id and only the fields set on the update.
func (uc UpdateClass) record(id int) (core.Record, error) {
	values := make(map[string]interface{})
	if uc.Name != nil {
		values["name"] = *uc.Name
	}
	if uc.Code != nil {
		values["code"] = *uc.Code
	}
	if uc.Instructor != nil {
		values["instructor"] = *uc.Instructor
	}
	if uc.Location != nil {
		values["location"] = *uc.Location
	}
	if uc.Credits != nil {
		values["credits"] = *uc.Credits
	}
	if uc.Color != nil {
		values["color"] = *uc.Color
	}
	if uc.Schedule != nil {
		schedule, err := SerializeSchedule(*uc.Schedule)
		if err != nil {
			return nil, err
		}
		values["schedule"] = schedule
	}
	if uc.CurrentGrade != nil {
		if uc.CurrentGrade.Valid {
			values["currentGrade"] = uc.CurrentGrade.Float64
		} else {
			values["currentGrade"] = nil
		}
	}

	rec, err := core.MapFields(Fields, values)
	if err != nil {
		return nil, err
	}
	rec[core.IDField] = id
	return rec, nil
}
