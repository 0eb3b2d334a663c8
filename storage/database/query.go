package database

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/studyflow/core"
)

var ErrUnsupportedOperator = errors.New("unsupported filter operator")

// Normalize deep copies a record through its JSON form, so stored values have JSON types (float64, string, ...).
func Normalize(rec core.Record) (core.Record, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(err, "encoding record")
	}
	var norm core.Record
	if err = json.Unmarshal(data, &norm); err != nil {
		return nil, errors.Wrap(err, "decoding record")
	}
	return norm, nil
}

// Select evaluates the query against records: filters, then ordering, then projection.
func Select(recs []core.Record, q core.Query) ([]core.Record, error) {
	selected := make([]core.Record, 0, len(recs))
	for _, rec := range recs {
		ok, err := Matches(rec, q.Where)
		if err != nil {
			return nil, err
		}
		if ok {
			selected = append(selected, rec)
		}
	}

	Sort(selected, q.OrderBy)

	fields := q.FieldNames()
	for i, rec := range selected {
		selected[i] = Project(rec, fields)
	}
	return selected, nil
}

// Matches reports whether the record satisfies every filter.
func Matches(rec core.Record, where []core.Filter) (bool, error) {
	for _, f := range where {
		if f.Operator != core.OperatorEqualTo {
			return false, errors.Wrap(ErrUnsupportedOperator, f.Operator)
		}
		if !equalsAny(rec[f.FieldName], f.Values) {
			return false, nil
		}
	}
	return true, nil
}

func equalsAny(v interface{}, values []interface{}) bool {
	key := core.LookupKey(v)
	for _, val := range values {
		if key == core.LookupKey(val) {
			return true
		}
	}
	return false
}

// Sort orders records in place, by Id when no ordering applies.
func Sort(recs []core.Record, orderings []core.Ordering) {
	sort.SliceStable(recs, func(i, j int) bool {
		for _, ord := range orderings {
			c := Compare(recs[i][ord.Field], recs[j][ord.Field])
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return recs[i].ID() < recs[j].ID()
	})
}

// Compare orders two JSON values. Nulls sort first.
func Compare(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if fa, ok := a.(float64); ok {
		if fb, ok := b.(float64); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}
	if ba, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			switch {
			case ba == bb:
				return 0
			case !ba:
				return -1
			default:
				return 1
			}
		}
	}
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return strings.Compare(sa, sb)
		}
	}
	return strings.Compare(core.LookupKey(a), core.LookupKey(b))
}

// Project keeps the Id and the selected fields. An empty selection keeps every field.
func Project(rec core.Record, fields []string) core.Record {
	if len(fields) == 0 {
		return rec
	}
	out := make(core.Record, len(fields)+1)
	out[core.IDField] = rec[core.IDField]
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			out[f] = v
		}
	}
	return out
}

// Merge copies the patch fields (except the Id) onto rec.
func Merge(rec, patch core.Record) {
	for k, v := range patch {
		if k == core.IDField {
			continue
		}
		rec[k] = v
	}
}

// PatchID extracts the record id of an update patch.
func PatchID(patch core.Record) (int, error) {
	id := patch.ID()
	if id <= 0 {
		return 0, fmt.Errorf("invalid record id %v", patch[core.IDField])
	}
	return id, nil
}
