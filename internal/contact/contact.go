// Package contact defines the contact record and its single-line file form.
package contact

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrEmptyField    = errors.New("contact: empty field")
	ErrMalformedLine = errors.New("contact: malformed line")
)

// fieldSep separates name, phone and email in the line form.
const fieldSep = ","

// Contact is a single address book entry.
type Contact struct {
	Name  string
	Phone string
	Email string
}

// New builds a Contact, rejecting any empty field.
func New(name, phone, email string) (Contact, error) {
	switch {
	case name == "":
		return Contact{}, fmt.Errorf("%w: name", ErrEmptyField)
	case phone == "":
		return Contact{}, fmt.Errorf("%w: phone", ErrEmptyField)
	case email == "":
		return Contact{}, fmt.Errorf("%w: email", ErrEmptyField)
	}
	return Contact{Name: name, Phone: phone, Email: email}, nil
}

// ParseLine decodes a "name,phone,email" line. The line is split into at
// most three parts, so anything after the second comma belongs to Email.
// Fields are not checked for emptiness.
func ParseLine(line string) (Contact, error) {
	parts := strings.SplitN(line, fieldSep, 3)
	if len(parts) != 3 {
		return Contact{}, fmt.Errorf("%w: %q", ErrMalformedLine, line)
	}
	return Contact{Name: parts[0], Phone: parts[1], Email: parts[2]}, nil
}

// Line encodes c in the file form. Embedded commas are written as-is.
func (c Contact) Line() string {
	return c.Name + fieldSep + c.Phone + fieldSep + c.Email
}

// String returns the display form.
func (c Contact) String() string {
	return fmt.Sprintf("Name: %s, Phone: %s, Email: %s", c.Name, c.Phone, c.Email)
}

// NameMatches reports whether term is a case-insensitive substring of the name.
func (c Contact) NameMatches(term string) bool {
	return strings.Contains(strings.ToLower(c.Name), strings.ToLower(term))
}

// NameEquals reports whether name equals c.Name ignoring case.
func (c Contact) NameEquals(name string) bool {
	return strings.ToLower(c.Name) == strings.ToLower(name)
}
