package web

import (
	"html/template"
	"net/url"

	"github.com/UnknownOlympus/iris/internal/models"
)

const (
	levelSuccess = "success"
	levelError   = "error"
)

// Notices shown on the admin page.
const (
	NoticeAdded           = "Employee added successfully!"
	NoticeUpdated         = "Employee updated successfully!"
	NoticeDeleted         = "Employee deleted successfully!"
	NoticeImported        = "%d employees imported successfully!"
	NoticeNothingImported = "Could not import any employees. Check CSV format."
	NoticeParseError      = "CSV parsing error: %s"
	NoticeNotFound        = "Employee not found."
	NoticeNoFile          = "Please choose a CSV file to import."
	NoticeSaveFailed      = "Could not save changes. Please try again."
)

// loadingRefreshSeconds is how often the loading page reloads itself.
const loadingRefreshSeconds = 1

type page struct {
	Title        string
	Organization string
	Notice       string
	Level        string
	Refresh      int
	Live         bool
}

type adminPage struct {
	page
	Employees []models.Employee
	Loading   bool
	Required  []string
	Optional  []string
}

type cardPage struct {
	page
	Employee  models.Employee
	TelHref   template.URL
	VCardHref template.URL
	FileName  string
}

type formField struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Required bool
}

type formPage struct {
	page
	Action string
	Fields []formField
	Errors map[string]string
}

type sharePage struct {
	page
	Employee models.Employee
	URL      string
	QRCode   template.URL
}

// employeeForm is the admin form as posted by the browser.
type employeeForm struct {
	Name        string `form:"name"`
	Designation string `form:"designation"`
	Email       string `form:"email"`
	Phone       string `form:"phone"`
	Department  string `form:"department"`
	PhotoURL    string `form:"photoUrl"`
	LinkedIn    string `form:"linkedIn"`
	Website     string `form:"website"`
}

func (f employeeForm) employee(id string) models.Employee {
	return models.Employee{
		ID:          id,
		Name:        f.Name,
		Designation: f.Designation,
		Email:       f.Email,
		Phone:       f.Phone,
		Department:  f.Department,
		PhotoURL:    f.PhotoURL,
		LinkedIn:    f.LinkedIn,
		Website:     f.Website,
	}
}

func formFields(e models.Employee) []formField {
	return []formField{
		{Name: "name", Label: "Full Name", Type: "text", Value: e.Name, Required: true},
		{Name: "designation", Label: "Designation", Type: "text", Value: e.Designation, Required: true},
		{Name: "email", Label: "Email", Type: "email", Value: e.Email, Required: true},
		{Name: "phone", Label: "Phone", Type: "tel", Value: e.Phone, Required: true},
		{Name: "department", Label: "Department", Type: "text", Value: e.Department, Required: true},
		{Name: "photoUrl", Label: "Photo URL", Type: "url", Value: e.PhotoURL},
		{Name: "linkedIn", Label: "LinkedIn Profile URL", Type: "url", Value: e.LinkedIn},
		{Name: "website", Label: "Website URL", Type: "url", Value: e.Website},
	}
}

// adminURL returns the admin page address carrying a notice.
func adminURL(notice, level string) string {
	query := url.Values{}
	query.Set("notice", notice)
	query.Set("level", level)

	return "/admin?" + query.Encode()
}
