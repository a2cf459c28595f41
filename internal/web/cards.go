package web

import (
	"html/template"
	"mime"
	"net/http"
	"net/url"

	"github.com/UnknownOlympus/iris/internal/services/directory"
	"github.com/UnknownOlympus/iris/internal/vcard"
	"github.com/gin-gonic/gin"
)

func (h *Handler) page(title string) page {
	return page{Title: title, Organization: h.organization}
}

// card renders the public business card of one employee.
func (h *Handler) card(c *gin.Context) {
	employee, state := h.dir.Lookup(c.Param("id"))

	switch state {
	case directory.StateLoading:
		p := h.page("Loading")
		p.Refresh = loadingRefreshSeconds
		c.HTML(http.StatusOK, "loading.html", p)
	case directory.StateNotFound:
		c.Redirect(http.StatusFound, "/admin")
	case directory.StateFound:
		p := h.page(employee.Name)
		p.Live = true
		card := h.cards.Encode(employee)
		c.HTML(http.StatusOK, "card.html", cardPage{
			page:      p,
			Employee:  employee,
			TelHref:   template.URL("tel:" + url.PathEscape(employee.Phone)), //nolint:gosec // escaped above
			VCardHref: template.URL(vcard.DataURI(card)),                     //nolint:gosec // percent-encoded
			FileName:  vcard.FileName(employee.Name),
		})
	}
}

// downloadVCard serves the card of one employee as a .vcf attachment.
func (h *Handler) downloadVCard(c *gin.Context) {
	employee, state := h.dir.Lookup(c.Param("id"))

	switch state {
	case directory.StateLoading:
		c.Header("Retry-After", "1")
		c.String(http.StatusServiceUnavailable, "Directory is still loading.")
	case directory.StateNotFound:
		c.Redirect(http.StatusFound, "/admin")
	case directory.StateFound:
		disposition := mime.FormatMediaType("attachment", map[string]string{"filename": vcard.FileName(employee.Name)})
		c.Header("Content-Disposition", disposition)
		c.Data(http.StatusOK, "text/vcard; charset=utf-8", []byte(h.cards.Encode(employee)))
	}
}
