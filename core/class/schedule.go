package class

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Schedule is the ordered list of weekly meetings of a class.
// Entries are opaque JSON values: whatever shape a client stored is read back unchanged.
type Schedule []json.RawMessage

// SerializeSchedule encodes a schedule to the text stored remotely. A nil schedule is "[]".
func SerializeSchedule(s Schedule) (string, error) {
	if s == nil {
		s = Schedule{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return "", errors.Wrap(err, "serializing schedule")
	}
	return string(data), nil
}

// ParseSchedule decodes the stored schedule text. Blank (or null) text is an empty schedule and
// a JSON value that is not a list is a single entry. Only text that is not JSON fails.
func ParseSchedule(text string) (Schedule, error) {
	text = strings.TrimSpace(text)
	if text == "" || text == "null" {
		return Schedule{}, nil
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(text)); err != nil {
		return nil, errors.Wrap(err, "parsing schedule")
	}
	data := buf.Bytes()
	if data[0] != '[' {
		return Schedule{json.RawMessage(data)}, nil
	}

	var s Schedule
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "parsing schedule")
	}
	if s == nil {
		s = Schedule{}
	}
	return s, nil
}
