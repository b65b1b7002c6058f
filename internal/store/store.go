package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/bep-cli/internal/breakeven"
	"github.com/sells-group/bep-cli/internal/model"
	"github.com/sells-group/bep-cli/internal/sensitivity"
)

// Errors returned by every Store implementation. Test with errors.Is.
var (
	ErrNotValidated = eris.New("store: only successfully validated records can be saved")
	ErrNotFound     = eris.New("store: project not found")
)

// ProjectFilter specifies criteria for listing projects.
type ProjectFilter struct {
	Name   string `json:"name,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

func (f ProjectFilter) limit() int {
	if f.Limit <= 0 {
		return 100
	}
	return f.Limit
}

// Store persists validated projects.
type Store interface {
	// SaveProject stores a validated record with its derived results. It
	// returns ErrNotValidated unless res.OK is true.
	SaveProject(ctx context.Context, name string, res model.ValidationResult) (*model.Project, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	ListProjects(ctx context.Context, filter ProjectFilter) ([]model.Project, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the store selected by driver. poolCfg only applies to
// Postgres and may be nil.
func Open(ctx context.Context, driver, dsn string, poolCfg *PoolConfig) (Store, error) {
	switch strings.ToLower(driver) {
	case DriverSQLite, "":
		return NewSQLite(dsn)
	case DriverPostgres:
		return NewPostgres(ctx, dsn, poolCfg)
	default:
		return nil, eris.Errorf("store: unsupported driver %q", driver)
	}
}

// newProject derives everything persisted alongside a validated record.
func newProject(name string, res model.ValidationResult) (model.Project, error) {
	if !res.OK || res.Value == nil {
		return model.Project{}, ErrNotValidated
	}
	in := *res.Value
	result, ok := breakeven.Calculate(in)
	if !ok {
		return model.Project{}, ErrNotValidated
	}
	if strings.TrimSpace(name) == "" {
		name = "untitled"
	}
	return model.Project{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Inputs:      in,
		Result:      result,
		Sensitivity: sensitivity.ExportTable(in),
		CreatedAt:   time.Now().UTC(),
	}, nil
}
