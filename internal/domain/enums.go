package domain

import (
	"fmt"
	"strings"
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

var genderLabels = map[Gender]string{
	GenderMale:   "남성",
	GenderFemale: "여성",
	GenderOther:  "기타",
}

// ParseGender accepts either the wire code ("female") or the Korean label
// ("여성").
func ParseGender(s string) (Gender, error) {
	s = strings.TrimSpace(s)
	for g, label := range genderLabels {
		if strings.EqualFold(s, string(g)) || s == label {
			return g, nil
		}
	}
	return "", &ValidationError{Field: "gender", Reason: fmt.Sprintf("unknown value %q", s)}
}

func (g Gender) Label() string { return genderLabels[g] }

func (g *Gender) UnmarshalText(b []byte) error {
	v, err := ParseGender(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

func (g Gender) Valid() bool {
	_, ok := genderLabels[g]
	return ok
}

type ItemType string

const (
	ItemTypeFood        ItemType = "food"
	ItemTypeElectronics ItemType = "electronics"
	ItemTypeClothing    ItemType = "clothing"
	ItemTypeOffice      ItemType = "office"
	ItemTypeHousehold   ItemType = "household"
	ItemTypeOther       ItemType = "other"
)

var itemTypeLabels = map[ItemType]string{
	ItemTypeFood:        "식품",
	ItemTypeElectronics: "전자제품",
	ItemTypeClothing:    "의류",
	ItemTypeOffice:      "사무용품",
	ItemTypeHousehold:   "생활용품",
	ItemTypeOther:       "기타",
}

// ParseItemType accepts either the wire code ("food") or the Korean label
// ("식품").
func ParseItemType(s string) (ItemType, error) {
	s = strings.TrimSpace(s)
	for t, label := range itemTypeLabels {
		if strings.EqualFold(s, string(t)) || s == label {
			return t, nil
		}
	}
	return "", &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown value %q", s)}
}

func (t ItemType) Label() string { return itemTypeLabels[t] }

func (t *ItemType) UnmarshalText(b []byte) error {
	v, err := ParseItemType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

func (t ItemType) Valid() bool {
	_, ok := itemTypeLabels[t]
	return ok
}

// Date is a calendar day with no time-of-day component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const dateLayout = "2006-01-02"

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &ValidationError{Field: "expires_on", Reason: "expected YYYY-MM-DD"}
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func (d Date) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format(dateLayout)
}

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
