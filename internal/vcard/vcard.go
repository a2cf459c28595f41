// Package vcard renders employees as vCard 3.0 contact files.
package vcard

import (
	"net/url"
	"strings"
	"time"

	"github.com/UnknownOlympus/iris/internal/models"
)

const (
	lineBreak = "\r\n"
	// revLayout matches the ISO-8601 form browsers produce for Date.toISOString.
	revLayout = "2006-01-02T15:04:05.000Z"
)

// Encoder turns employees into vCard text for one organization.
type Encoder struct {
	Organization string
	Now          func() time.Time
}

// NewEncoder creates an Encoder stamping REV with the wall clock.
func NewEncoder(organization string) *Encoder {
	return &Encoder{Organization: organization, Now: time.Now}
}

// Encode produces the vCard for the employee. Values are written as-is, without escaping.
func (enc *Encoder) Encode(employee models.Employee) string {
	given, family := splitName(employee.Name)

	lines := []string{
		"BEGIN:VCARD",
		"VERSION:3.0",
		"N:" + family + ";" + given + ";;;",
		"FN:" + employee.Name,
		"TITLE:" + employee.Designation,
		"ORG:" + enc.Organization + ";" + employee.Department,
		"TEL;TYPE=WORK,VOICE:" + employee.Phone,
		"EMAIL;TYPE=PREF,INTERNET:" + employee.Email,
	}

	if employee.PhotoURL != "" {
		lines = append(lines, "PHOTO;VALUE=URL:"+employee.PhotoURL)
	}
	if employee.Website != "" {
		lines = append(lines, "URL;TYPE=WORK:"+employee.Website)
	}
	if employee.LinkedIn != "" {
		lines = append(lines, "URL;TYPE=LINKEDIN:"+employee.LinkedIn)
	}

	lines = append(lines, "REV:"+enc.now().UTC().Format(revLayout), "END:VCARD")

	return strings.Join(lines, lineBreak)
}

func (enc *Encoder) now() time.Time {
	if enc.Now == nil {
		return time.Now()
	}
	return enc.Now()
}

// splitName returns the first whitespace-separated token and the rest joined by single spaces.
func splitName(name string) (string, string) {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return "", ""
	}

	return tokens[0], strings.Join(tokens[1:], " ")
}

// FileName returns the download name for an employee's card: the name without whitespace.
func FileName(name string) string {
	base := strings.Join(strings.Fields(name), "")
	if base == "" {
		base = "contact"
	}

	return base + ".vcf"
}

// DataURI embeds vCard text into an inline link target.
func DataURI(card string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(card), "+", "%20")
	return "data:text/vcard;charset=utf-8," + encoded
}
