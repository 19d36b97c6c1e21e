// Package flashcard holds the flashcard data model and the pure text
// operations applied to it: tanwin normalization and grouping by the
// Arabic natural key.
package flashcard

import (
	"errors"
	"fmt"
	"strings"
)

// Field names one editable column of a flashcard.
type Field string

const (
	FieldArabic   Field = "arabic"
	FieldSpanish  Field = "spanish"
	FieldCategory Field = "category"
	FieldPhonetic Field = "phonetic"
)

// EditableFields lists every field the editor can change, in display order.
var EditableFields = []Field{FieldArabic, FieldSpanish, FieldCategory, FieldPhonetic}

// ErrUnknownField is returned when a field name is not a flashcard column.
var ErrUnknownField = errors.New("unknown field")

// ParseField converts a column name into a Field.
func ParseField(name string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	switch f {
	case FieldArabic, FieldSpanish, FieldCategory, FieldPhonetic:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
}

// Auditable reports whether the suggestion service may propose a value for f.
// Phonetic transliterations are never sent for review.
func (f Field) Auditable() bool {
	return f == FieldArabic || f == FieldSpanish || f == FieldCategory
}

// Card is one flashcard row. Absent values are empty strings.
type Card struct {
	ID       int64  `json:"id" db:"id"`
	Arabic   string `json:"arabic" db:"arabic"`
	Spanish  string `json:"spanish" db:"spanish"`
	Category string `json:"category" db:"category"`
	Phonetic string `json:"phonetic" db:"phonetic"`
}

// Get returns the value of field f.
func (c *Card) Get(f Field) string {
	switch f {
	case FieldArabic:
		return c.Arabic
	case FieldSpanish:
		return c.Spanish
	case FieldCategory:
		return c.Category
	case FieldPhonetic:
		return c.Phonetic
	}
	return ""
}

// Set assigns v to field f. Unknown fields are ignored.
func (c *Card) Set(f Field, v string) {
	switch f {
	case FieldArabic:
		c.Arabic = v
	case FieldSpanish:
		c.Spanish = v
	case FieldCategory:
		c.Category = v
	case FieldPhonetic:
		c.Phonetic = v
	}
}

// Fields is a partial set of column values used for updates.
type Fields map[Field]string

// AllFields returns the four editable columns of c.
func (c *Card) AllFields() Fields {
	return Fields{
		FieldArabic:   c.Arabic,
		FieldSpanish:  c.Spanish,
		FieldCategory: c.Category,
		FieldPhonetic: c.Phonetic,
	}
}

// Apply copies every value in fields into c.
func (c *Card) Apply(fields Fields) {
	for f, v := range fields {
		c.Set(f, v)
	}
}

// Validate checks that every key in fields is a known column.
func (fields Fields) Validate() error {
	if len(fields) == 0 {
		return errors.New("no fields to update")
	}
	for f := range fields {
		if parsed, err := ParseField(string(f)); err != nil || parsed != f {
			return fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
	}
	return nil
}

// Sorted returns the field names in EditableFields order, which keeps
// generated statements stable.
func (fields Fields) Sorted() []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range EditableFields {
		if _, ok := fields[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Projection is the reduced view of a card sent for content review.
type Projection struct {
	ID       int64  `json:"id"`
	Arabic   string `json:"arabic"`
	Spanish  string `json:"spanish"`
	Category string `json:"category"`
}

// Project returns the review projection of c.
func (c *Card) Project() Projection {
	return Projection{ID: c.ID, Arabic: c.Arabic, Spanish: c.Spanish, Category: c.Category}
}

// Finding is one suspected content error reported against a card field.
type Finding struct {
	RecordID   int64  `json:"id"`
	Problem    string `json:"problem"`
	Suggestion string `json:"suggestion"`
	Field      Field  `json:"field_to_fix"`
}
