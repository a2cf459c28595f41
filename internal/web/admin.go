package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/UnknownOlympus/iris/internal/importer"
	"github.com/UnknownOlympus/iris/internal/lib/logger/sl"
	"github.com/UnknownOlympus/iris/internal/models"
	"github.com/UnknownOlympus/iris/internal/services/directory"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gin-gonic/gin"
)

// admin renders the employee table.
func (h *Handler) admin(c *gin.Context) {
	p := h.page("Employee Directory")
	p.Live = true
	p.Notice = c.Query("notice")
	switch level := c.Query("level"); level {
	case levelSuccess, levelError:
		p.Level = level
	default:
		p.Level = levelSuccess
	}

	c.HTML(http.StatusOK, "admin.html", adminPage{
		page:      p,
		Employees: h.dir.List(),
		Loading:   h.dir.Loading(),
		Required:  importer.Columns[:5],
		Optional:  importer.Columns[5:],
	})
}

func (h *Handler) newForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, "/admin/employees", models.Employee{}, nil)
}

func (h *Handler) editForm(c *gin.Context) {
	id := c.Param("id")
	employee, state := h.dir.Lookup(id)
	if state != directory.StateFound {
		c.Redirect(http.StatusFound, adminURL(NoticeNotFound, levelError))
		return
	}

	h.renderForm(c, http.StatusOK, "/admin/employees/"+id, employee, nil)
}

func (h *Handler) renderForm(c *gin.Context, status int, action string, employee models.Employee, errs validation.Errors) {
	title := "Add New Employee"
	if employee.ID != "" {
		title = "Edit Employee"
	}

	messages := make(map[string]string, len(errs))
	for field, err := range errs {
		messages[field] = err.Error()
	}

	c.HTML(status, "form.html", formPage{
		page:   h.page(title),
		Action: action,
		Fields: formFields(employee),
		Errors: messages,
	})
}

func (h *Handler) create(c *gin.Context) {
	h.save(c, "", "/admin/employees")
}

func (h *Handler) update(c *gin.Context) {
	id := c.Param("id")
	h.save(c, id, "/admin/employees/"+id)
}

func (h *Handler) save(c *gin.Context, id, action string) {
	const opn = "Web.Save"
	log := h.initLogger(opn)

	var form employeeForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderForm(c, http.StatusBadRequest, action, models.Employee{ID: id}, nil)
		return
	}
	employee := form.employee(id)

	saved, created, err := h.dir.Save(c.Request.Context(), employee)

	var errs validation.Errors
	switch {
	case errors.As(err, &errs):
		h.renderForm(c, http.StatusBadRequest, action, employee, errs)
	case errors.Is(err, directory.ErrNotFound):
		c.Redirect(http.StatusFound, adminURL(NoticeNotFound, levelError))
	case err != nil:
		log.ErrorContext(c.Request.Context(), "Failed to save employee", sl.Err(err))
		c.Redirect(http.StatusFound, adminURL(NoticeSaveFailed, levelError))
	case created:
		log.DebugContext(c.Request.Context(), "Employee created", "id", saved.ID)
		c.Redirect(http.StatusFound, adminURL(NoticeAdded, levelSuccess))
	default:
		c.Redirect(http.StatusFound, adminURL(NoticeUpdated, levelSuccess))
	}
}

func (h *Handler) delete(c *gin.Context) {
	const opn = "Web.Delete"
	log := h.initLogger(opn)

	err := h.dir.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, directory.ErrNotFound):
		c.Redirect(http.StatusFound, adminURL(NoticeNotFound, levelError))
	case err != nil:
		log.ErrorContext(c.Request.Context(), "Failed to delete employee", sl.Err(err))
		c.Redirect(http.StatusFound, adminURL(NoticeSaveFailed, levelError))
	default:
		c.Redirect(http.StatusFound, adminURL(NoticeDeleted, levelSuccess))
	}
}

// importCSV appends the employees of an uploaded CSV file.
func (h *Handler) importCSV(c *gin.Context) {
	const opn = "Web.Import"
	log := h.initLogger(opn)

	header, err := c.FormFile("file")
	if err != nil {
		c.Redirect(http.StatusFound, adminURL(NoticeNoFile, levelError))
		return
	}

	file, err := header.Open()
	if err != nil {
		log.ErrorContext(c.Request.Context(), "Failed to open upload", sl.Err(err))
		c.Redirect(http.StatusFound, adminURL(fmt.Sprintf(NoticeParseError, err.Error()), levelError))
		return
	}
	defer file.Close()

	result, err := h.dir.Import(c.Request.Context(), file)

	var parseErr *importer.ParseError
	switch {
	case errors.As(err, &parseErr):
		c.Redirect(http.StatusFound, adminURL(fmt.Sprintf(NoticeParseError, parseErr.Error()), levelError))
	case errors.Is(err, directory.ErrNothingImported):
		c.Redirect(http.StatusFound, adminURL(NoticeNothingImported, levelError))
	case err != nil:
		log.ErrorContext(c.Request.Context(), "Failed to import employees", sl.Err(err))
		c.Redirect(http.StatusFound, adminURL(NoticeSaveFailed, levelError))
	default:
		c.Redirect(http.StatusFound, adminURL(fmt.Sprintf(NoticeImported, len(result.Employees)), levelSuccess))
	}
}
