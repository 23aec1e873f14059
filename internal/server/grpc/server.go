package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/finiam/notes-app/internal/api"
	"github.com/finiam/notes-app/internal/logging"
	"github.com/finiam/notes-app/internal/server/models"
	"github.com/finiam/notes-app/internal/server/services"
)

// UserService is the identity part of the store.
type UserService interface {
	LookupUser(ctx context.Context, signature string) (*services.Session, error)
	CreateUser(ctx context.Context, signature, token string) (*services.Session, error)
}

// NoteService manages notes and folders for an owner.
type NoteService interface {
	ListNotes(ctx context.Context, owner string) ([]*models.Note, error)
	CreateNote(ctx context.Context, note *models.Note) (*models.Note, error)
	UpdateNote(ctx context.Context, update *models.NoteUpdate) (*models.Note, error)
	DeleteNote(ctx context.Context, id, owner string) error
	ListFolders(ctx context.Context, owner string) ([]*models.Folder, error)
	CreateFolder(ctx context.Context, folder *models.Folder) (*models.Folder, error)
}

// SnapshotService stores shared snapshots.
type SnapshotService interface {
	Create(ctx context.Context, snap *models.Snapshot) (*models.Snapshot, error)
	Get(ctx context.Context, id string) (*models.Snapshot, error)
}

type GRPCServer struct {
	address   string
	users     UserService
	notes     NoteService
	snapshots SnapshotService
	logger    logging.Logger
	jwtSecret []byte
}

var _ api.NotesServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, us UserService, ns NoteService, ss SnapshotService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		notes:     ns,
		snapshots: ss,
		jwtSecret: []byte(secretKey),
	}
}

// newServer builds the grpc.Server with interceptors and the service
// registered.
func (s *GRPCServer) newServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor),
	}, opts...)
	srv := grpc.NewServer(opts...)
	api.RegisterNotesServiceServer(srv, s)
	return srv
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	return srv.Serve(listen)
}
