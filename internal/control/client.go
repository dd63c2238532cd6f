package control

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"go.klb.dev/cliptrans/internal/ipc"
	"go.klb.dev/cliptrans/internal/session"
	"go.klb.dev/cliptrans/internal/translate"
)

const dialTimeout = 2 * time.Second

// Client talks to a running daemon.
type Client struct {
	conn *grpc.ClientConn
	path string
}

// Dial returns a Client for the daemon listening on the IPC socket at path.
// The connection is made lazily; the first RPC reports an unreachable daemon.
// No auth: the socket is local and owner-restricted by the OS.
func Dial(path string) (*Client, error) {
	conn, err := grpc.NewClient(
		"passthrough:///cliptrans",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return ipc.Dial(path, dialTimeout)
		}),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{})),
	)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", path, err)
	}
	return &Client{conn: conn, path: path}, nil
}

// Path returns the socket path the client dials.
func (c *Client) Path() string { return c.path }

func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) Status(ctx context.Context) (*session.Status, error) {
	out := new(session.Status)
	if err := c.conn.Invoke(ctx, fullMethod("Status"), &Empty{}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SetLanguage(ctx context.Context, lang string) (*LanguageResponse, error) {
	out := new(LanguageResponse)
	if err := c.conn.Invoke(ctx, fullMethod("SetLanguage"), &LanguageRequest{Language: lang}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Open(ctx context.Context) (string, error) {
	return c.toggle(ctx, "Open")
}

func (c *Client) Hide(ctx context.Context) (string, error) {
	return c.toggle(ctx, "Hide")
}

func (c *Client) toggle(ctx context.Context, method string) (string, error) {
	out := new(ToggleResponse)
	if err := c.conn.Invoke(ctx, fullMethod(method), &Empty{}, out); err != nil {
		return "", err
	}
	return out.State, nil
}

// Copy asks the daemon to put its latest translation on the clipboard.
func (c *Client) Copy(ctx context.Context) (string, error) {
	out := new(CopyResponse)
	if err := c.conn.Invoke(ctx, fullMethod("Copy"), &Empty{}, out); err != nil {
		return "", err
	}
	return out.Text, nil
}

// Translate runs a one-shot translation on the daemon. lang may be empty.
func (c *Client) Translate(ctx context.Context, text, lang string) (*translate.Result, error) {
	out := new(translate.Result)
	req := &TranslateRequest{Text: text, Language: lang}
	if err := c.conn.Invoke(ctx, fullMethod("Translate"), req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Watch calls fn for every result the daemon shows until ctx ends, the
// daemon stops, or fn returns an error. A daemon shutdown is not an error.
func (c *Client) Watch(ctx context.Context, req WatchRequest, fn func(translate.Result) error) error {
	stream, err := c.conn.NewStream(ctx, &serviceDesc.Streams[0], fullMethod("Watch"))
	if err != nil {
		return err
	}
	if err := stream.SendMsg(&req); err != nil {
		return err
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}
	for {
		var r translate.Result
		if err := stream.RecvMsg(&r); err != nil {
			if errors.Is(err, io.EOF) || status.Code(err) == codes.Canceled {
				return nil
			}
			return err
		}
		if err := fn(r); err != nil {
			return err
		}
	}
}

// ErrorMessage returns the server-side message of an RPC error, or err's text
// for anything else.
func ErrorMessage(err error) string {
	if s, ok := status.FromError(err); ok {
		return s.Message()
	}
	return err.Error()
}
