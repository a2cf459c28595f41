package web

import (
	"context"
	"embed"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/UnknownOlympus/iris/internal/importer"
	"github.com/UnknownOlympus/iris/internal/models"
	"github.com/UnknownOlympus/iris/internal/services/directory"
	"github.com/UnknownOlympus/iris/internal/store"
	"github.com/UnknownOlympus/iris/internal/vcard"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Directory is the employee directory served by the handlers.
type Directory interface {
	Loading() bool
	List() []models.Employee
	Lookup(id string) (models.Employee, directory.State)
	Save(ctx context.Context, employee models.Employee) (models.Employee, bool, error)
	Delete(ctx context.Context, id string) error
	Import(ctx context.Context, r io.Reader) (importer.Result, error)
	Subscribe(fn func([]models.Employee)) store.Unsubscribe
}

var _ Directory = (*directory.Directory)(nil)

// Handler serves the admin console, the public cards and the JSON API.
type Handler struct {
	log          *slog.Logger
	dir          Directory
	cards        *vcard.Encoder
	baseURL      string
	organization string

	stop     chan struct{}
	stopOnce sync.Once
}

// NewHandler creates the web handlers. baseURL is the public origin share links point to.
func NewHandler(log *slog.Logger, dir Directory, cards *vcard.Encoder, baseURL string) *Handler {
	return &Handler{
		log:          log,
		dir:          dir,
		cards:        cards,
		baseURL:      baseURL,
		organization: cards.Organization,
		stop:         make(chan struct{}),
	}
}

func (h *Handler) initLogger(opn string) *slog.Logger {
	return h.log.With(
		slog.String("op", opn),
		slog.String("division", "web"),
	)
}

// Shutdown ends every open event stream.
func (h *Handler) Shutdown() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(log *slog.Logger, h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(log))
	router.SetHTMLTemplate(template.Must(template.New("").ParseFS(templatesFS, "templates/*.html")))

	toAdmin := func(c *gin.Context) { c.Redirect(http.StatusFound, "/admin") }
	router.GET("/", toAdmin)
	router.NoRoute(toAdmin)

	router.GET("/employee/:id", h.card)
	router.GET("/employee/:id/vcard", h.downloadVCard)

	admin := router.Group("/admin")
	{
		admin.GET("", h.admin)
		admin.GET("/employees/new", h.newForm)
		admin.GET("/employees/:id/edit", h.editForm)
		admin.POST("/employees", h.create)
		admin.POST("/employees/:id", h.update)
		admin.POST("/employees/:id/delete", h.delete)
		admin.POST("/import", h.importCSV)
		admin.GET("/employees/:id/share", h.shareCard)
		admin.GET("/employees/:id/qr.png", h.qrCode)
	}

	api := router.Group("/api/employees")
	{
		api.GET("", h.listEmployees)
		api.GET("/stream", h.streamEmployees)
		api.GET("/:id", h.getEmployee)
	}

	return router
}
