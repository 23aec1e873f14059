package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/finiam/notes-app/internal/api"
	"github.com/finiam/notes-app/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      api.NotesServiceClient

	mu          sync.RWMutex
	accessToken string
	// signature is the last identity signature the store accepted. It is
	// replayed once to renew an expired access token.
	signature string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	token, signature := s.credentials()
	callCtx := ctx
	if token != "" {
		callCtx = withAccessToken(ctx, token)
	}
	err := invoker(callCtx, method, req, reply, cc, opts...)
	if status.Code(err) != codes.Unauthenticated || signature == "" ||
		method == api.MethodLookupUser || method == api.MethodCreateUser {
		return err
	}

	resp, lerr := s.client.LookupUser(ctx, &api.LookupUserRequest{Signature: signature})
	if lerr != nil {
		return err
	}
	s.setCredentials(resp.AccessToken, signature)
	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func (s *GRPCClient) credentials() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.signature
}

func (s *GRPCClient) setCredentials(token, signature string) {
	s.mu.Lock()
	s.accessToken = token
	s.signature = signature
	s.mu.Unlock()
}

// NewGRPCClient prepares a client for endpointURL. The connection is lazy;
// extra dial options are appended after the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewNotesServiceClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) LookupUser(ctx context.Context, signature string) (string, error) {
	resp, err := s.client.LookupUser(ctx, &api.LookupUserRequest{Signature: signature})
	if err != nil {
		return "", s.mapError(err)
	}
	s.setCredentials(resp.AccessToken, signature)
	return resp.Token, nil
}

func (s *GRPCClient) CreateUser(ctx context.Context, signature, token string) error {
	resp, err := s.client.CreateUser(ctx, &api.CreateUserRequest{Signature: signature, Token: token})
	if err != nil {
		return s.mapError(err)
	}
	s.setCredentials(resp.AccessToken, signature)
	return nil
}

func (s *GRPCClient) ListNotes(ctx context.Context, identity string) ([]*api.Note, error) {
	resp, err := s.client.ListNotes(ctx, &api.ListNotesRequest{Identity: identity})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Notes, nil
}

func (s *GRPCClient) CreateNote(ctx context.Context, req *api.CreateNoteRequest) (*api.Note, error) {
	resp, err := s.client.CreateNote(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Note, nil
}

func (s *GRPCClient) UpdateNote(ctx context.Context, req *api.UpdateNoteRequest) (*api.Note, error) {
	resp, err := s.client.UpdateNote(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Note, nil
}

func (s *GRPCClient) DeleteNote(ctx context.Context, id string) error {
	if _, err := s.client.DeleteNote(ctx, &api.DeleteNoteRequest{ID: id}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) ListFolders(ctx context.Context, identity string) ([]*api.Folder, error) {
	resp, err := s.client.ListFolders(ctx, &api.ListFoldersRequest{Identity: identity})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Folders, nil
}

func (s *GRPCClient) CreateFolder(ctx context.Context, name, owner string) (*api.Folder, error) {
	resp, err := s.client.CreateFolder(ctx, &api.CreateFolderRequest{Name: name, Owner: owner})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Folder, nil
}

func (s *GRPCClient) CreateSharedSnapshot(ctx context.Context, req *api.CreateSharedSnapshotRequest) (string, error) {
	resp, err := s.client.CreateSharedSnapshot(ctx, req)
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.ID, nil
}

func (s *GRPCClient) GetSharedSnapshot(ctx context.Context, id string) (*api.SharedSnapshot, error) {
	resp, err := s.client.GetSharedSnapshot(ctx, &api.GetSharedSnapshotRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Snapshot, nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
