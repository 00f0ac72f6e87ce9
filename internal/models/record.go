package models

import (
	"errors"
	"math"
)

// ErrUnknownField is returned when a request names a field the form does not have.
var ErrUnknownField = errors.New("unknown form field")

// Field names a single input of the alumni form.
type Field string

const (
	FullName   Field = "fullName"
	NationalID Field = "nationalId"
	StudentID  Field = "studentId"
	WorkInfo   Field = "workInfo"
	Phone      Field = "phone"
	Email      Field = "email"
	LineID     Field = "lineId"
	Facebook   Field = "facebook"
	Instagram  Field = "instagram"
)

// Fields lists every form field in display order. Validation, "first invalid
// field" lookups and exports all follow this order.
var Fields = []Field{
	FullName,
	NationalID,
	StudentID,
	WorkInfo,
	Phone,
	Email,
	LineID,
	Facebook,
	Instagram,
}

// ParseField maps a request parameter onto a known field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", ErrUnknownField
}

// FormRecord holds the current value of every field. The JSON tags and field
// order define the export document.
type FormRecord struct {
	FullName   string `json:"fullName"`
	NationalID string `json:"nationalId"`
	StudentID  string `json:"studentId"`
	WorkInfo   string `json:"workInfo"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	LineID     string `json:"lineId"`
	Facebook   string `json:"facebook"`
	Instagram  string `json:"instagram"`
}

// Get returns the value stored for field.
func (r *FormRecord) Get(field Field) string {
	if p := r.slot(field); p != nil {
		return *p
	}
	return ""
}

// Set stores value for field.
func (r *FormRecord) Set(field Field, value string) error {
	p := r.slot(field)
	if p == nil {
		return ErrUnknownField
	}
	*p = value
	return nil
}

func (r *FormRecord) slot(field Field) *string {
	switch field {
	case FullName:
		return &r.FullName
	case NationalID:
		return &r.NationalID
	case StudentID:
		return &r.StudentID
	case WorkInfo:
		return &r.WorkInfo
	case Phone:
		return &r.Phone
	case Email:
		return &r.Email
	case LineID:
		return &r.LineID
	case Facebook:
		return &r.Facebook
	case Instagram:
		return &r.Instagram
	}
	return nil
}

// Filled counts fields with a non-empty value.
func (r FormRecord) Filled() int {
	n := 0
	for _, f := range Fields {
		if r.Get(f) != "" {
			n++
		}
	}
	return n
}

// CompletionPercentage is round(100 * filled / total).
func (r FormRecord) CompletionPercentage() int {
	return int(math.Round(float64(r.Filled()) / float64(len(Fields)) * 100))
}

// IsEmpty reports whether no field has been filled in.
func (r FormRecord) IsEmpty() bool {
	return r.Filled() == 0
}
