// Package server wires the notes store together: configuration, storage,
// the gRPC service and the HTTP share gateway.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/finiam/notes-app/internal/logging"
	"github.com/finiam/notes-app/internal/server/config"
	"github.com/finiam/notes-app/internal/server/httpapi"
	"github.com/finiam/notes-app/internal/server/repositories/repomanager"
	"github.com/finiam/notes-app/internal/server/repositories/snapshots"
	"github.com/finiam/notes-app/internal/server/services"

	gs "github.com/finiam/notes-app/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	manager repomanager.RepositoryManager
	grpc    *gs.GRPCServer
	http    *httpapi.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	opts, err := snapshotOptions(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	m := repomanager.NewPostgresRepositoryManager(opts...)

	us := services.NewUserService(db, m, c, logger.With("service", "users"))
	ns := services.NewNoteService(db, m, logger.With("service", "notes"))
	ss := services.NewSnapshotService(db, m, logger.With("service", "snapshots"))

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		manager: m,
		grpc:    gs.NewGRPCServer(c.EndpointAddrGRPC, logger, us, ns, ss, c.SecretKey),
		http:    httpapi.NewHTTPServer(c.EndpointAddrHTTP, httpapi.NewRouter(ss, db, logger), logger),
	}, nil
}

// snapshotOptions selects where shared snapshots live.
func snapshotOptions(ctx context.Context, c *config.Config) ([]repomanager.Option, error) {
	switch c.SnapshotBackend {
	case config.SnapshotBackendS3:
		client, err := newS3Client(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		return []repomanager.Option{
			repomanager.WithSnapshotStore(snapshots.NewS3Repository(client, c.S3Bucket)),
		}, nil
	case config.SnapshotBackendPostgres, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", c.SnapshotBackend)
	}
}

// newS3Client targets an S3-compatible endpoint such as MinIO.
func newS3Client(ctx context.Context, c *config.Config) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(c.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		o.UsePathStyle = true
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	}), nil
}

// Run migrates the schema, then serves gRPC and HTTP until ctx is cancelled
// or either server fails.
func (app *App) Run(ctx context.Context) error {
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	if err := app.manager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, f func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(ctx); err != nil {
				app.logger.Error(ctx, "server stopped", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancel()
			}
		}()
	}

	run("grpc", app.grpc.Run)
	run("http", app.http.Run)

	wg.Wait()
	app.logger.Info(context.Background(), "App stopped")

	return errors.Join(errs...)
}
