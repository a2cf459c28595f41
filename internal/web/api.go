package web

import (
	"net/http"

	"github.com/UnknownOlympus/iris/internal/models"
	"github.com/UnknownOlympus/iris/internal/services/directory"
	"github.com/gin-gonic/gin"
)

// EventEmployees is the server-sent event carrying the full collection.
const EventEmployees = "employees"

func (h *Handler) listEmployees(c *gin.Context) {
	Success(c, http.StatusOK, h.dir.List())
}

func (h *Handler) getEmployee(c *gin.Context) {
	employee, state := h.dir.Lookup(c.Param("id"))

	switch state {
	case directory.StateLoading:
		c.Header("Retry-After", "1")
		Error(c, http.StatusServiceUnavailable, "LOADING", "directory is still loading")
	case directory.StateNotFound:
		Error(c, http.StatusNotFound, "NOT_FOUND", "employee not found")
	case directory.StateFound:
		Success(c, http.StatusOK, employee)
	}
}

// streamEmployees sends the collection once on connect and again after every change,
// until the client goes away or the handler shuts down. Only the latest pending
// collection is kept for slow clients.
func (h *Handler) streamEmployees(c *gin.Context) {
	const opn = "Web.Stream"
	log := h.initLogger(opn)

	updates := make(chan []models.Employee, 1)
	unsubscribe := h.dir.Subscribe(func(employees []models.Employee) {
		for {
			select {
			case updates <- employees:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()
	log.DebugContext(ctx, "Stream opened")

	c.SSEvent(EventEmployees, h.dir.List())
	c.Writer.Flush()

	for {
		select {
		case <-ctx.Done():
			log.DebugContext(ctx, "Stream closed by client")
			return
		case <-h.stop:
			return
		case employees := <-updates:
			c.SSEvent(EventEmployees, employees)
			c.Writer.Flush()
		}
	}
}
