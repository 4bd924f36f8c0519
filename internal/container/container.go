package container

import (
	"context"
	"fmt"
	"os"

	"gotreat/adapters/casestudy"
	"gotreat/adapters/excel"
	"gotreat/adapters/literature"
	"gotreat/adapters/postgres"
	"gotreat/adapters/rng"
	"gotreat/app"
	"gotreat/domain/simulation"
	"gotreat/internal"
	"gotreat/internal/config"
	"gotreat/internal/errors"
	"gotreat/internal/migration"
	"gotreat/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB *sqlx.DB

	// Data sources
	Literature  ports.LiteratureRepository
	CaseStudies map[string]ports.CaseStudyProvider

	// Services
	RNG       ports.RNGPort
	Exporter  *excel.Exporter
	Simulator *app.SimulationService
	Batch     *app.BatchService

	logger *internal.Logger
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config:      cfg,
		CaseStudies: map[string]ports.CaseStudyProvider{},
		RNG:         rng.NewPCGAdapter(),
		Exporter:    excel.NewExporter(),
		logger:      internal.DefaultLogger.With("container"),
	}

	return c, nil
}

// Init builds the literature source selected by the configuration, loads
// the case studies and wires the services. The postgres source connects to
// DATABASE_URL unless InitWithDatabase was called first.
func (c *Container) Init(ctx context.Context) error {
	if err := c.initLiterature(ctx); err != nil {
		return fmt.Errorf("failed to initialize literature data: %w", err)
	}

	if err := c.initCaseStudies(); err != nil {
		return fmt.Errorf("failed to load case studies: %w", err)
	}

	c.initServices()
	c.logger.Info("initialized with %s literature and %d case studies", c.Config.Literature.Source, len(c.CaseStudies))
	return nil
}

// InitWithDatabase attaches an open database connection
func (c *Container) InitWithDatabase(db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	// Test database connection
	if err := db.Ping(); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.DB = db
	return nil
}

// Connect opens the database named by DATABASE_URL.
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func (c *Container) initLiterature(ctx context.Context) error {
	var repo ports.LiteratureRepository
	switch c.Config.Literature.Source {
	case config.LiteratureDir:
		tables, err := literature.LoadFS(os.DirFS(c.Config.Literature.Dir))
		if err != nil {
			return err
		}
		repo = literature.NewRepository(tables)
	case config.LiteraturePostgres:
		if c.DB == nil {
			db, err := Connect(ctx, c.Config.Database.URL)
			if err != nil {
				return err
			}
			c.DB = db
		}
		if err := migration.NewRunner().Run(ctx, c.DB); err != nil {
			return err
		}
		repo = postgres.NewLiteratureRepository(c.DB)
	default:
		embedded, err := literature.NewEmbeddedRepository()
		if err != nil {
			return err
		}
		repo = embedded
	}
	c.Literature = literature.NewCachedRepository(repo)
	return nil
}

func (c *Container) initCaseStudies() error {
	if c.Config.CaseStudy.Dir == "" {
		return nil
	}
	studies, err := casestudy.LoadDir(c.Config.CaseStudy.Dir)
	if err != nil {
		return err
	}
	warn := internal.DefaultLogger.With("casestudy")
	for name, cs := range studies {
		cs.OnAmbiguous(warn.Warn)
		c.CaseStudies[name] = cs
	}
	return nil
}

func (c *Container) initServices() {
	c.Simulator = app.NewSimulationService(c.Literature, c.RNG)
	c.Batch = app.NewBatchService(c.Simulator, c.Exporter, c.Config.Simulation.Workers)
}

// CaseStudy returns the named case study; an empty name returns nil.
func (c *Container) CaseStudy(name string) (ports.CaseStudyProvider, error) {
	if name == "" {
		return nil, nil
	}
	cs, ok := c.CaseStudies[name]
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("case study %q", name))
	}
	return cs, nil
}

// Options returns the configured simulation defaults.
func (c *Container) Options() simulation.Options {
	return simulation.Options{
		Runs:       c.Config.Simulation.Runs,
		Resolution: c.Config.Simulation.Resolution,
		PriorPower: c.Config.Simulation.PriorPower,
		Seed:       c.Config.Simulation.Seed,
	}
}

// Close releases the database connection
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
