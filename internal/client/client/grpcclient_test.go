package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/finiam/notes-app/internal/api"
	"github.com/finiam/notes-app/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type fakeServer struct {
	api.NotesServiceServer

	tokens      []string
	deleteErr   error
	pingState   string
	lookups     int
	rejectToken string
}

func (f *fakeServer) seen(ctx context.Context) {
	md, _ := metadata.FromIncomingContext(ctx)
	f.tokens = append(f.tokens, md.Get(common.AccessTokenHeaderName)...)
}

func (f *fakeServer) Ping(ctx context.Context, _ *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: f.pingState}, nil
}

func (f *fakeServer) LookupUser(ctx context.Context, req *api.LookupUserRequest) (*api.LookupUserResponse, error) {
	f.seen(ctx)
	if req.Signature == "unknown" {
		return nil, status.Error(codes.NotFound, "user not found")
	}
	f.lookups++
	return &api.LookupUserResponse{Token: "tok-" + req.Signature, AccessToken: fmt.Sprintf("jwt-%d", f.lookups)}, nil
}

func (f *fakeServer) CreateUser(ctx context.Context, req *api.CreateUserRequest) (*api.CreateUserResponse, error) {
	f.seen(ctx)
	if req.Signature == "dup" {
		return nil, status.Error(codes.AlreadyExists, "exists")
	}
	return &api.CreateUserResponse{AccessToken: "jwt-2"}, nil
}

func (f *fakeServer) ListNotes(ctx context.Context, req *api.ListNotesRequest) (*api.ListNotesResponse, error) {
	f.seen(ctx)
	if md, _ := metadata.FromIncomingContext(ctx); f.rejectToken != "" && len(md.Get(common.AccessTokenHeaderName)) > 0 &&
		md.Get(common.AccessTokenHeaderName)[0] == f.rejectToken {
		return nil, status.Error(codes.Unauthenticated, "token expired")
	}
	return &api.ListNotesResponse{Notes: []*api.Note{{ID: "n1", Owner: req.Identity}}}, nil
}

func (f *fakeServer) UpdateNote(ctx context.Context, req *api.UpdateNoteRequest) (*api.UpdateNoteResponse, error) {
	return nil, status.Error(codes.InvalidArgument, "nothing to update")
}

func (f *fakeServer) DeleteNote(ctx context.Context, req *api.DeleteNoteRequest) (*api.DeleteNoteResponse, error) {
	f.seen(ctx)
	return &api.DeleteNoteResponse{}, f.deleteErr
}

func (f *fakeServer) CreateSharedSnapshot(ctx context.Context, req *api.CreateSharedSnapshotRequest) (*api.CreateSharedSnapshotResponse, error) {
	return &api.CreateSharedSnapshotResponse{ID: "snap-1"}, nil
}

func (f *fakeServer) GetSharedSnapshot(ctx context.Context, req *api.GetSharedSnapshotRequest) (*api.GetSharedSnapshotResponse, error) {
	return &api.GetSharedSnapshotResponse{Snapshot: &api.SharedSnapshot{ID: req.ID, EncryptedContent: "c"}}, nil
}

func newTestClient(t *testing.T, srv *fakeServer) *GRPCClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	api.RegisterNotesServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	c, err := NewGRPCClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGRPCClient_TokenAttachedAfterLookup(t *testing.T) {
	srv := &fakeServer{}
	c := newTestClient(t, srv)
	ctx := context.Background()

	token, err := c.LookupUser(ctx, "sig")
	require.NoError(t, err)
	assert.Equal(t, "tok-sig", token)

	notes, err := c.ListNotes(ctx, "me")
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "me", notes[0].Owner)

	assert.Equal(t, []string{"jwt-1"}, srv.tokens)
}

func TestGRPCClient_RenewsExpiredToken(t *testing.T) {
	srv := &fakeServer{}
	c := newTestClient(t, srv)
	ctx := context.Background()

	_, err := c.LookupUser(ctx, "sig")
	require.NoError(t, err)

	srv.rejectToken = "jwt-1"
	notes, err := c.ListNotes(ctx, "me")
	require.NoError(t, err)
	require.Len(t, notes, 1)

	assert.Equal(t, 2, srv.lookups)
	assert.Equal(t, "jwt-2", srv.tokens[len(srv.tokens)-1])
}

func TestGRPCClient_CreateUserReplacesToken(t *testing.T) {
	srv := &fakeServer{}
	c := newTestClient(t, srv)
	ctx := context.Background()

	require.NoError(t, c.CreateUser(ctx, "sig", "tok"))
	require.NoError(t, c.DeleteNote(ctx, "n1"))

	assert.Equal(t, []string{"jwt-2"}, srv.tokens)
}

func TestGRPCClient_ErrorMapping(t *testing.T) {
	srv := &fakeServer{}
	c := newTestClient(t, srv)
	ctx := context.Background()

	_, err := c.LookupUser(ctx, "unknown")
	require.ErrorIs(t, err, ErrNotFound)

	err = c.CreateUser(ctx, "dup", "t")
	require.ErrorIs(t, err, ErrAlreadyExists)

	_, err = c.UpdateNote(ctx, &api.UpdateNoteRequest{ID: "n1"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	srv.deleteErr = status.Error(codes.Unauthenticated, "missing token")
	require.ErrorIs(t, c.DeleteNote(ctx, "n1"), ErrUnauthorized)

	srv.deleteErr = status.Error(codes.Internal, "db down")
	err = c.DeleteNote(ctx, "n1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rpc error")
}

func TestGRPCClient_Snapshots(t *testing.T) {
	c := newTestClient(t, &fakeServer{})
	ctx := context.Background()

	id, err := c.CreateSharedSnapshot(ctx, &api.CreateSharedSnapshotRequest{EncryptedContent: "c"})
	require.NoError(t, err)
	assert.Equal(t, "snap-1", id)

	snap, err := c.GetSharedSnapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "snap-1", snap.ID)
}

func TestGRPCClient_Ping(t *testing.T) {
	srv := &fakeServer{pingState: "OK"}
	c := newTestClient(t, srv)
	require.NoError(t, c.Ping(context.Background()))

	srv.pingState = "DEGRADED"
	require.ErrorIs(t, c.Ping(context.Background()), ErrUnavailable)
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}
	assert.NoError(t, c.mapError(nil))
	assert.ErrorIs(t, c.mapError(status.Error(codes.DeadlineExceeded, "")), ErrUnavailable)
	assert.ErrorIs(t, c.mapError(status.Error(codes.PermissionDenied, "")), ErrUnauthorized)

	plain := errors.New("plain")
	assert.ErrorIs(t, c.mapError(plain), plain)
}
