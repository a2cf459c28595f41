package web

import (
	"encoding/base64"
	"html/template"
	"net/http"

	"github.com/UnknownOlympus/iris/internal/lib/logger/sl"
	"github.com/UnknownOlympus/iris/internal/services/directory"
	"github.com/UnknownOlympus/iris/internal/share"
	"github.com/gin-gonic/gin"
)

// shareCard renders the QR code and link of one employee card.
func (h *Handler) shareCard(c *gin.Context) {
	const opn = "Web.Share"
	log := h.initLogger(opn)

	employee, state := h.dir.Lookup(c.Param("id"))
	if state != directory.StateFound {
		c.Redirect(http.StatusFound, adminURL(NoticeNotFound, levelError))
		return
	}

	link := share.URL(h.baseURL, employee.ID)
	png, err := share.QRCode(link, share.QRSize)
	if err != nil {
		log.ErrorContext(c.Request.Context(), "Failed to render QR code", sl.Err(err))
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.HTML(http.StatusOK, "share.html", sharePage{
		page:     h.page("Share " + employee.Name),
		Employee: employee,
		URL:      link,
		QRCode:   template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), //nolint:gosec // base64
	})
}

// qrCode serves the QR code PNG of one employee card.
func (h *Handler) qrCode(c *gin.Context) {
	employee, state := h.dir.Lookup(c.Param("id"))
	if state != directory.StateFound {
		c.Status(http.StatusNotFound)
		return
	}

	png, err := share.QRCode(share.URL(h.baseURL, employee.ID), share.QRSize)
	if err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
