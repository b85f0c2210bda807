package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Category is the closed set of expense classifications. Expenses and alert
// settings reference these values; anything else is rejected at validation.
type Category string

const (
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryHousing       Category = "Housing"
	CategoryUtilities     Category = "Utilities"
	CategoryEntertainment Category = "Entertainment"
	CategoryHealthcare    Category = "Healthcare"
	CategoryShopping      Category = "Shopping"
	CategoryPersonalCare  Category = "Personal Care"
	CategoryEducation     Category = "Education"
	CategoryOther         Category = "Other"
)

// Categories returns every category in canonical display order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTransport,
		CategoryHousing,
		CategoryUtilities,
		CategoryEntertainment,
		CategoryHealthcare,
		CategoryShopping,
		CategoryPersonalCare,
		CategoryEducation,
		CategoryOther,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryTransport, CategoryHousing, CategoryUtilities,
		CategoryEntertainment, CategoryHealthcare, CategoryShopping,
		CategoryPersonalCare, CategoryEducation, CategoryOther:
		return true
	default:
		return false
	}
}

func (c Category) String() string { return string(c) }

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidLimit    = errors.New("invalid limit")
	ErrEmptySource     = errors.New("empty income source")
	ErrLongDescription = errors.New("description too long (max 200 characters)")
)

type (
	// Date is a calendar date. It marshals as an ISO 8601 date string.
	Date struct {
		time.Time
	}

	// Income is a single income record.
	Income struct {
		ID          string `json:"id"`
		Amount      Money  `json:"amount"`
		Date        Date   `json:"date"`
		Source      string `json:"source"`
		Description string `json:"description,omitempty"`
	}

	// Expense is a single expense record.
	Expense struct {
		ID          string   `json:"id"`
		Amount      Money    `json:"amount"`
		Date        Date     `json:"date"`
		Category    Category `json:"category"`
		Description string   `json:"description,omitempty"`
	}

	// AlertSetting is a user-configured spending ceiling for one category.
	// At most one setting exists per category; the service layer enforces it.
	AlertSetting struct {
		ID       string   `json:"id"`
		Category Category `json:"category"`
		Limit    Money    `json:"limit"`
	}
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO 8601 date. Full timestamps are accepted too and
// reduced to their date part.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return NewDate(t.Year(), int(t.Month()), t.Day()), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (i Income) Validate() error {
	if err := i.Amount.Validate(); err != nil {
		return err
	}
	if err := i.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(i.Source) == "" {
		return ErrEmptySource
	}
	if len(i.Description) > 200 {
		return ErrLongDescription
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if len(e.Description) > 200 {
		return ErrLongDescription
	}
	return nil
}

func (a AlertSetting) Validate() error {
	if !a.Category.Valid() {
		return ErrInvalidCategory
	}
	if a.Limit.Cents <= 0 {
		return ErrInvalidLimit
	}
	return nil
}
