package directory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/UnknownOlympus/iris/internal/importer"
	"github.com/UnknownOlympus/iris/internal/lib/logger/sl"
	"github.com/UnknownOlympus/iris/internal/metrics"
	"github.com/UnknownOlympus/iris/internal/models"
	"github.com/UnknownOlympus/iris/internal/store"
	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("employee not found")
	ErrNothingImported = errors.New("no employees imported")
)

// State is the outcome of looking up one employee.
type State int

const (
	StateLoading State = iota
	StateFound
	StateNotFound
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateFound:
		return "found"
	case StateNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Collection is the synchronized employee list the directory edits.
type Collection interface {
	Key() string
	Value() []models.Employee
	Loading() bool
	Write(ctx context.Context, value []models.Employee) error
	Subscribe(fn func([]models.Employee)) store.Unsubscribe
}

var _ Collection = (*store.Handle[[]models.Employee])(nil)

// Directory implements the admin and card operations on top of a Collection.
type Directory struct {
	log        *slog.Logger
	collection Collection
	metrics    *metrics.Metrics
	newID      func() string
	strict     bool

	mu    sync.Mutex
	unsub store.Unsubscribe
}

func NewDirectory(log *slog.Logger, collection Collection, metrics *metrics.Metrics) *Directory {
	dir := &Directory{
		log:        log,
		collection: collection,
		metrics:    metrics,
		newID:      uuid.NewString,
	}

	size := metrics.CollectionSize.WithLabelValues(collection.Key())
	size.Set(float64(len(collection.Value())))
	dir.unsub = collection.Subscribe(func(employees []models.Employee) {
		size.Set(float64(len(employees)))
	})

	return dir
}

// WithIDGenerator replaces the generator used for new employee ids.
func (d *Directory) WithIDGenerator(newID func() string) *Directory {
	d.newID = newID
	return d
}

// WithStrictWrites makes a failed remote write an error for the caller. Without it
// the change stays in the local mirror and only a closed collection fails.
func (d *Directory) WithStrictWrites() *Directory {
	d.strict = true
	return d
}

func (d *Directory) initLogger(opn string) *slog.Logger {
	return d.log.With(
		slog.String("op", opn),
		slog.String("division", "directory"),
	)
}

// Close stops tracking the collection.
func (d *Directory) Close() {
	d.unsub()
}

// Loading reports whether the first remote snapshot is still outstanding.
func (d *Directory) Loading() bool {
	return d.collection.Loading()
}

// List returns the current collection.
func (d *Directory) List() []models.Employee {
	return d.collection.Value()
}

// Subscribe calls fn with the collection after every change.
func (d *Directory) Subscribe(fn func([]models.Employee)) store.Unsubscribe {
	return d.collection.Subscribe(fn)
}

// Lookup resolves id against the collection. While the collection is loading the
// result is StateLoading, never StateNotFound.
func (d *Directory) Lookup(id string) (models.Employee, State) {
	if d.collection.Loading() {
		return models.Employee{}, StateLoading
	}

	employee, ok := models.Find(d.collection.Value(), id)
	if !ok {
		return models.Employee{}, StateNotFound
	}

	return employee, StateFound
}

// Save creates employee when it has no id, or replaces the entry with the same id.
// The returned bool reports whether a new employee was created. Validation failures
// are returned as validation.Errors.
func (d *Directory) Save(ctx context.Context, employee models.Employee) (models.Employee, bool, error) {
	const opn = "Directory.Save"
	log := d.initLogger(opn)

	employee = employee.Trimmed()
	if err := employee.Validate(); err != nil {
		return employee, false, err //nolint:wrapcheck // validation.Errors is matched by callers
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	current := d.collection.Value()
	created := employee.ID == ""

	var next []models.Employee
	if created {
		employee.ID = d.newID()
		next = append(append(make([]models.Employee, 0, len(current)+1), current...), employee)
	} else {
		var ok bool
		if next, ok = models.Replace(current, employee); !ok {
			return employee, false, ErrNotFound
		}
	}

	if err := d.write(ctx, next); err != nil {
		return employee, created, err
	}

	log.InfoContext(ctx, "Employee saved", slog.String("id", employee.ID), slog.Bool("created", created))

	return employee, created, nil
}

// Delete removes the employee with the given id.
func (d *Directory) Delete(ctx context.Context, id string) error {
	const opn = "Directory.Delete"
	log := d.initLogger(opn)

	d.mu.Lock()
	defer d.mu.Unlock()

	next, ok := models.Remove(d.collection.Value(), id)
	if !ok {
		return ErrNotFound
	}

	if err := d.write(ctx, next); err != nil {
		return err
	}

	log.InfoContext(ctx, "Employee deleted", slog.String("id", id))

	return nil
}

// Import parses a CSV upload and appends every accepted row to the collection.
// A file-level failure wraps importer.ErrMalformedCSV; an input with no usable
// rows returns ErrNothingImported. In both cases the collection is unchanged.
func (d *Directory) Import(ctx context.Context, r io.Reader) (importer.Result, error) {
	result, err := importer.Parse(r, d.newID)
	return d.commitImport(ctx, result, err)
}

// ImportFile is Import reading the CSV file at path.
func (d *Directory) ImportFile(ctx context.Context, path string) (importer.Result, error) {
	result, err := importer.ParseFile(path, d.newID)
	return d.commitImport(ctx, result, err)
}

func (d *Directory) commitImport(ctx context.Context, result importer.Result, err error) (importer.Result, error) {
	const opn = "Directory.Import"
	log := d.initLogger(opn)

	if err != nil {
		d.metrics.Imports.WithLabelValues("failure").Inc()
		log.WarnContext(ctx, "CSV rejected", sl.Err(err))
		return result, fmt.Errorf("failed to parse csv: %w", err)
	}

	if len(result.Employees) == 0 {
		d.metrics.Imports.WithLabelValues("failure").Inc()
		log.WarnContext(ctx, "CSV contained no employees", slog.Int("dropped", result.Dropped))
		return result, ErrNothingImported
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	current := d.collection.Value()
	next := append(append(make([]models.Employee, 0, len(current)+len(result.Employees)), current...), result.Employees...)

	if err = d.write(ctx, next); err != nil {
		d.metrics.Imports.WithLabelValues("failure").Inc()
		return result, err
	}

	d.metrics.Imports.WithLabelValues("success").Inc()
	d.metrics.EmployeesImported.Add(float64(len(result.Employees)))
	log.InfoContext(ctx, "Employees imported",
		slog.Int("imported", len(result.Employees)),
		slog.Int("dropped", result.Dropped))

	return result, nil
}

// write pushes next to the collection. A failed remote write has already updated the
// local mirror and been logged by the store; it is returned only in strict mode.
func (d *Directory) write(ctx context.Context, next []models.Employee) error {
	err := d.collection.Write(ctx, next)
	if err == nil || (!d.strict && !errors.Is(err, store.ErrClosed)) {
		return nil
	}

	return fmt.Errorf("failed to write collection: %w", err)
}
