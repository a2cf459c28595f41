package models

import (
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// PlaceholderPhotoURL is the image service used for imported employees without a photo.
	PlaceholderPhotoURL = "https://picsum.photos/seed/%s/400/400"
	// PlaceholderAvatarURL is used by the views when an employee has no photo at all.
	PlaceholderAvatarURL = "https://i.pravatar.cc/%d?u=%s"
)

// Employee represents one directory entry and is the persisted shape of the collection.
type Employee struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Department  string `json:"department"`
	PhotoURL    string `json:"photoUrl,omitempty"`
	LinkedIn    string `json:"linkedIn,omitempty"`
	Website     string `json:"website,omitempty"`
}

// AvatarURL returns the photo URL or a placeholder avatar keyed by the employee id.
func (e Employee) AvatarURL(size int) string {
	if e.PhotoURL != "" {
		return e.PhotoURL
	}

	return fmt.Sprintf(PlaceholderAvatarURL, size, url.QueryEscape(e.ID))
}

// Validate checks that every field the admin form requires is present. Errors are
// keyed by JSON field name. Formats are left to the browser inputs.
func (e Employee) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required.Error("name is required")),
		validation.Field(&e.Designation, validation.Required.Error("designation is required")),
		validation.Field(&e.Email, validation.Required.Error("email is required")),
		validation.Field(&e.Phone, validation.Required.Error("phone is required")),
		validation.Field(&e.Department, validation.Required.Error("department is required")),
	)
}

// Trimmed returns e with surrounding whitespace removed from every field.
func (e Employee) Trimmed() Employee {
	return Employee{
		ID:          strings.TrimSpace(e.ID),
		Name:        strings.TrimSpace(e.Name),
		Designation: strings.TrimSpace(e.Designation),
		Email:       strings.TrimSpace(e.Email),
		Phone:       strings.TrimSpace(e.Phone),
		Department:  strings.TrimSpace(e.Department),
		PhotoURL:    strings.TrimSpace(e.PhotoURL),
		LinkedIn:    strings.TrimSpace(e.LinkedIn),
		Website:     strings.TrimSpace(e.Website),
	}
}

// PartialEmployee is an employee without identity, as read from one CSV row.
type PartialEmployee struct {
	Name        string
	Designation string
	Email       string
	Phone       string
	Department  string
	PhotoURL    string
	LinkedIn    string
	Website     string
}

// Complete assigns the identifier and fills the photo from the placeholder service when missing.
func (p PartialEmployee) Complete(id string) Employee {
	photo := p.PhotoURL
	if photo == "" {
		photo = fmt.Sprintf(PlaceholderPhotoURL, url.PathEscape(p.Email))
	}

	return Employee{
		ID:          id,
		Name:        p.Name,
		Designation: p.Designation,
		Email:       p.Email,
		Phone:       p.Phone,
		Department:  p.Department,
		PhotoURL:    photo,
		LinkedIn:    p.LinkedIn,
		Website:     p.Website,
	}
}

// Find returns the employee with the given id.
func Find(employees []Employee, id string) (Employee, bool) {
	for _, e := range employees {
		if e.ID == id {
			return e, true
		}
	}

	return Employee{}, false
}

// Replace returns a copy of employees with the entry sharing updated.ID swapped for updated.
// The second result is false when no entry has that id.
func Replace(employees []Employee, updated Employee) ([]Employee, bool) {
	out := make([]Employee, len(employees))
	copy(out, employees)

	for i := range out {
		if out[i].ID == updated.ID {
			out[i] = updated
			return out, true
		}
	}

	return out, false
}

// Remove returns a copy of employees without the entry with the given id, preserving order.
func Remove(employees []Employee, id string) ([]Employee, bool) {
	out := make([]Employee, 0, len(employees))
	found := false

	for _, e := range employees {
		if e.ID == id {
			found = true
			continue
		}
		out = append(out, e)
	}

	return out, found
}
