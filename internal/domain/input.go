package domain

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxNameLen     = 50
	maxUserNameLen = 20
	maxNicknameLen = 12
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt input limit, in bytes
)

var phonePattern = regexp.MustCompile(`^\d{11}$`)

type SignupInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Birthday time.Time
	Gender   Gender
}

func (in SignupInput) Validate() error {
	if err := ValidateEmail(in.Email); err != nil {
		return err
	}
	if err := ValidatePassword(in.Password); err != nil {
		return err
	}
	if strings.TrimSpace(in.Name) == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if utf8.RuneCountInString(in.Name) > maxUserNameLen {
		return &ValidationError{Field: "name", Reason: "too long"}
	}
	if !phonePattern.MatchString(in.Phone) {
		return &ValidationError{Field: "phone", Reason: "must be 11 digits"}
	}
	if in.Birthday.IsZero() {
		return &ValidationError{Field: "birthday", Reason: "required"}
	}
	if !in.Gender.Valid() {
		return &ValidationError{Field: "gender", Reason: "unknown value"}
	}
	return nil
}

type AreaInput struct {
	Name string
}

func (in AreaInput) Validate() error { return validateName("name", in.Name) }

type RoomInput struct {
	Name string
}

func (in RoomInput) Validate() error { return validateName("name", in.Name) }

type FurnitureInput struct {
	Name        string
	Rows        int
	Location    *string
	Description *string
}

func (in FurnitureInput) Validate() error {
	if err := validateName("name", in.Name); err != nil {
		return err
	}
	if in.Rows < 1 {
		return &ValidationError{Field: "rows", Reason: "must be at least 1"}
	}
	return nil
}

type ItemInput struct {
	Name      string
	Type      ItemType
	Quantity  int
	RowNumber int
	ExpiresOn *Date
}

func (in ItemInput) Validate() error {
	if err := validateName("name", in.Name); err != nil {
		return err
	}
	if !in.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "unknown value"}
	}
	if in.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be greater than 0"}
	}
	if in.RowNumber < 1 {
		return &ValidationError{Field: "row_number", Reason: "must be at least 1"}
	}
	return nil
}

type ProfileInput struct {
	Nickname string
}

func (in ProfileInput) Validate() error { return validateNickname(in.Nickname) }

// CheckRow rejects a row number outside the furniture's shelf count.
func CheckRow(f *Furniture, row int) error {
	if row < 1 || row > f.Rows {
		return &ValidationError{Field: "row_number", Reason: "outside furniture rows"}
	}
	return nil
}

func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &ValidationError{Field: "email", Reason: "malformed address"}
	}
	return nil
}

func ValidatePassword(pw string) error {
	if len(pw) < minPasswordLen || len(pw) > maxPasswordLen {
		return &ValidationError{Field: "password", Reason: "must be 6 to 72 bytes"}
	}
	return nil
}

func validateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: field, Reason: "required"}
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return &ValidationError{Field: field, Reason: "too long"}
	}
	return nil
}

func validateNickname(nick string) error {
	if utf8.RuneCountInString(nick) > maxNicknameLen {
		return &ValidationError{Field: "nickname", Reason: "too long"}
	}
	return nil
}
