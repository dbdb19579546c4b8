// Package screening models the status of a cancer screening or treatment
// case as a closed enumeration, and maps it onto the steps of the progress
// stepper shown to patients and reviewers.
package screening

import (
	"encoding/json"
	"strings"

	"github.com/jrsteele09/cares-session/internal/errors"
)

type Status string

const (
	StatusPending    Status = "Pending"
	StatusApproved   Status = "Approved"
	StatusInProgress Status = "In Progress"
	StatusComplete   Status = "Complete"
)

var steps = map[Status]int{
	StatusPending:    0,
	StatusApproved:   1,
	StatusInProgress: 2,
	StatusComplete:   3,
}

// Statuses lists every status in stepper order.
func Statuses() []Status {
	return []Status{StatusPending, StatusApproved, StatusInProgress, StatusComplete}
}

// ParseStatus normalises the spellings the API has been seen to use
// ("in_progress", "In Progress", "INPROGRESS") and rejects anything else.
func ParseStatus(value string) (Status, error) {
	key := strings.ToLower(strings.TrimSpace(value))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "pending":
		return StatusPending, nil
	case "approved":
		return StatusApproved, nil
	case "inprogress", "ongoing":
		return StatusInProgress, nil
	case "complete", "completed":
		return StatusComplete, nil
	}
	return "", errors.Wrapf(errors.ErrUnknownStatus, "status %q", value)
}

// Step returns the zero based stepper index for the status. ok is false
// for a value outside the enumeration.
func (s Status) Step() (step int, ok bool) {
	step, ok = steps[s]
	return step, ok
}

func (s Status) String() string {
	return string(s)
}

func (s Status) MarshalJSON() ([]byte, error) {
	if _, ok := steps[s]; !ok {
		return nil, errors.Wrapf(errors.ErrUnknownStatus, "status %q", string(s))
	}
	return json.Marshal(string(s))
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
