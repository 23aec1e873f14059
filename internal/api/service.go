package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "notes.v1.NotesService"

const (
	MethodPing                 = "/" + ServiceName + "/Ping"
	MethodLookupUser           = "/" + ServiceName + "/LookupUser"
	MethodCreateUser           = "/" + ServiceName + "/CreateUser"
	MethodListNotes            = "/" + ServiceName + "/ListNotes"
	MethodCreateNote           = "/" + ServiceName + "/CreateNote"
	MethodUpdateNote           = "/" + ServiceName + "/UpdateNote"
	MethodDeleteNote           = "/" + ServiceName + "/DeleteNote"
	MethodListFolders          = "/" + ServiceName + "/ListFolders"
	MethodCreateFolder         = "/" + ServiceName + "/CreateFolder"
	MethodCreateSharedSnapshot = "/" + ServiceName + "/CreateSharedSnapshot"
	MethodGetSharedSnapshot    = "/" + ServiceName + "/GetSharedSnapshot"
)

// NotesServiceServer is implemented by the store.
type NotesServiceServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	LookupUser(context.Context, *LookupUserRequest) (*LookupUserResponse, error)
	CreateUser(context.Context, *CreateUserRequest) (*CreateUserResponse, error)
	ListNotes(context.Context, *ListNotesRequest) (*ListNotesResponse, error)
	CreateNote(context.Context, *CreateNoteRequest) (*CreateNoteResponse, error)
	UpdateNote(context.Context, *UpdateNoteRequest) (*UpdateNoteResponse, error)
	DeleteNote(context.Context, *DeleteNoteRequest) (*DeleteNoteResponse, error)
	ListFolders(context.Context, *ListFoldersRequest) (*ListFoldersResponse, error)
	CreateFolder(context.Context, *CreateFolderRequest) (*CreateFolderResponse, error)
	CreateSharedSnapshot(context.Context, *CreateSharedSnapshotRequest) (*CreateSharedSnapshotResponse, error)
	GetSharedSnapshot(context.Context, *GetSharedSnapshotRequest) (*GetSharedSnapshotResponse, error)
}

// unary adapts a typed server method to a grpc.MethodHandler, running the
// configured interceptor chain the same way generated code does.
func unary[Req, Resp any](fullMethod string, call func(NotesServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(NotesServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(NotesServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NotesServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(MethodPing, NotesServiceServer.Ping)},
		{MethodName: "LookupUser", Handler: unary(MethodLookupUser, NotesServiceServer.LookupUser)},
		{MethodName: "CreateUser", Handler: unary(MethodCreateUser, NotesServiceServer.CreateUser)},
		{MethodName: "ListNotes", Handler: unary(MethodListNotes, NotesServiceServer.ListNotes)},
		{MethodName: "CreateNote", Handler: unary(MethodCreateNote, NotesServiceServer.CreateNote)},
		{MethodName: "UpdateNote", Handler: unary(MethodUpdateNote, NotesServiceServer.UpdateNote)},
		{MethodName: "DeleteNote", Handler: unary(MethodDeleteNote, NotesServiceServer.DeleteNote)},
		{MethodName: "ListFolders", Handler: unary(MethodListFolders, NotesServiceServer.ListFolders)},
		{MethodName: "CreateFolder", Handler: unary(MethodCreateFolder, NotesServiceServer.CreateFolder)},
		{MethodName: "CreateSharedSnapshot", Handler: unary(MethodCreateSharedSnapshot, NotesServiceServer.CreateSharedSnapshot)},
		{MethodName: "GetSharedSnapshot", Handler: unary(MethodGetSharedSnapshot, NotesServiceServer.GetSharedSnapshot)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "notes/v1/notes.json",
}

func RegisterNotesServiceServer(s grpc.ServiceRegistrar, srv NotesServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
