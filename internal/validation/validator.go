// Package validation holds the per-field rules of the alumni form. Rules are
// pure: the same field and value always produce the same message, and an
// empty message means the value is valid.
package validation

import (
	"fmt"

	"alumni-form/internal/models"
	"alumni-form/internal/utils"
)

const (
	nationalIDDigits = 13
	minNameLength    = 3
	minPhoneDigits   = 9
	maxPhoneDigits   = 10
)

const (
	MsgFullNameRequired   = "กรุณากรอกชื่อ-สกุล"
	MsgFullNameTooShort   = "ชื่อต้องมีอย่างน้อย 3 ตัวอักษร"
	MsgNationalIDRequired = "กรุณากรอกเลขบัตรประชาชน"
	MsgEmailInvalid       = "รูปแบบอีเมลไม่ถูกต้อง"
	MsgPhoneLength        = "เบอร์โทรศัพท์ต้องมี 9-10 หลัก"
	MsgStudentIDInvalid   = "รหัสนักศึกษาต้องเป็นตัวเลข 7 หลัก"
)

// NationalIDIncomplete formats the digit-count message, e.g. "กรอกไม่ครบ (3/13 หลัก)".
func NationalIDIncomplete(digits int) string {
	return fmt.Sprintf("กรอกไม่ครบ (%d/%d หลัก)", digits, nationalIDDigits)
}

// Validate checks a single field value and returns a user-facing message,
// or "" when the value is acceptable.
func Validate(field models.Field, value string) string {
	switch field {
	case models.FullName:
		n := utils.TrimmedLength(value)
		if n == 0 {
			return MsgFullNameRequired
		}
		if n < minNameLength {
			return MsgFullNameTooShort
		}

	case models.NationalID:
		if value == "" {
			return MsgNationalIDRequired
		}
		if digits := len(utils.DigitsOnly(value)); digits != nationalIDDigits {
			return NationalIDIncomplete(digits)
		}

	case models.Email:
		if value != "" && !utils.IsValidEmail(value) {
			return MsgEmailInvalid
		}

	case models.Phone:
		if value == "" {
			return ""
		}
		if digits := len(utils.DigitsOnly(value)); digits < minPhoneDigits || digits > maxPhoneDigits {
			return MsgPhoneLength
		}

	case models.StudentID:
		if value != "" && !utils.IsSevenDigits(value) {
			return MsgStudentIDInvalid
		}
	}
	return ""
}

// ValidateAll validates every field of record. The returned map only holds
// fields with an error; ok is true when it is empty.
func ValidateAll(record models.FormRecord) (errs map[models.Field]string, ok bool) {
	errs = make(map[models.Field]string)
	for _, f := range models.Fields {
		if msg := Validate(f, record.Get(f)); msg != "" {
			errs[f] = msg
		}
	}
	return errs, len(errs) == 0
}

// FirstInvalid returns the earliest field, in form order, that has an error.
func FirstInvalid(errs map[models.Field]string) (models.Field, bool) {
	for _, f := range models.Fields {
		if errs[f] != "" {
			return f, true
		}
	}
	return "", false
}
