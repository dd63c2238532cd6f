// Package control serves a Session over gRPC on the local IPC socket so CLI
// sub-commands can drive a running daemon. Messages are JSON-encoded Go
// structs; the service descriptor is registered by hand.
package control

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go.klb.dev/cliptrans/internal/clip"
	"go.klb.dev/cliptrans/internal/hub"
	"go.klb.dev/cliptrans/internal/session"
	"go.klb.dev/cliptrans/internal/translate"
)

// watchBuffer is how many undelivered results a Watch stream may queue
// before older ones are dropped.
const watchBuffer = 16

// Server exposes one Session.
type Server struct {
	sess *session.Session
	gs   *grpc.Server

	done     chan struct{}
	stopOnce sync.Once
}

// NewServer returns a Server for sess. Call Serve to start accepting.
func NewServer(sess *session.Session) *Server {
	s := &Server{
		sess: sess,
		gs:   grpc.NewServer(grpc.ForceServerCodec(Codec{})),
		done: make(chan struct{}),
	}
	s.gs.RegisterService(&serviceDesc, s)
	return s
}

// Serve accepts connections on ln until Stop. It returns nil after Stop.
func (s *Server) Serve(ln net.Listener) error {
	slog.Info("control plane listening", "addr", ln.Addr().String())
	err := s.gs.Serve(ln)
	if errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return err
}

// Stop ends open Watch streams and shuts the server down.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.gs.GracefulStop()
	})
}

func (s *Server) Status(context.Context, *Empty) (*session.Status, error) {
	st := s.sess.Status()
	return &st, nil
}

func (s *Server) SetLanguage(_ context.Context, req *LanguageRequest) (*LanguageResponse, error) {
	prev := s.sess.Language()
	if err := s.sess.SetLanguage(req.Language); err != nil {
		return nil, toStatus(err)
	}
	return &LanguageResponse{Previous: prev, Language: s.sess.Language()}, nil
}

func (s *Server) Open(context.Context, *Empty) (*ToggleResponse, error) {
	s.sess.Open()
	return &ToggleResponse{State: s.sess.Status().State}, nil
}

func (s *Server) Hide(context.Context, *Empty) (*ToggleResponse, error) {
	s.sess.Hide()
	return &ToggleResponse{State: s.sess.Status().State}, nil
}

func (s *Server) Copy(context.Context, *Empty) (*CopyResponse, error) {
	text, err := s.sess.CopyResult()
	if err != nil {
		return nil, toStatus(err)
	}
	return &CopyResponse{Text: text}, nil
}

func (s *Server) Translate(ctx context.Context, req *TranslateRequest) (*translate.Result, error) {
	res, err := s.sess.TranslateOnce(ctx, req.Text, req.Language)
	if err != nil {
		return nil, toStatus(err)
	}
	return &res, nil
}

// Watch streams every result shown by the session's hub, starting with the
// current one unless req.SkipLatest is set, until the client goes away or
// the server stops.
func (s *Server) Watch(req *WatchRequest, stream grpc.ServerStream) error {
	sub := hub.NewChanSubscriber(uuid.NewString(), "watch", watchBuffer)
	h := s.sess.Hub()
	if req.SkipLatest {
		h.RegisterQuiet(sub)
	} else {
		h.Register(sub)
	}
	defer h.Unregister(sub)

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case r := <-sub.C():
			if err := stream.SendMsg(&r); err != nil {
				return err
			}
		}
	}
}

// toStatus maps domain errors to gRPC status codes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, translate.ErrUnsupportedLanguage), errors.Is(err, translate.ErrEmptyText):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, session.ErrNothingToCopy):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, clip.ErrAccess):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
