package e2e

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	inferenco "github.com/inferenco/inferenco-mcp"
	"github.com/inferenco/inferenco-mcp/config"
)

// pipeTransport connects an SDK client to the stdio binding through a pair
// of in-process pipes.
type pipeTransport struct {
	conn *pipeConn
}

func (t *pipeTransport) Connect(context.Context) (sdk.Connection, error) {
	return t.conn, nil
}

type pipeConn struct {
	reader    io.ReadCloser
	writer    io.WriteCloser
	incoming  chan readResult
	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

type readResult struct {
	msg jsonrpc.Message
	err error
}

func newPipeConn(r io.ReadCloser, w io.WriteCloser) *pipeConn {
	c := &pipeConn{
		reader:   r,
		writer:   w,
		incoming: make(chan readResult, 1),
	}
	go c.readLoop()
	return c
}

func (c *pipeConn) readLoop() {
	dec := json.NewDecoder(c.reader)
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			c.incoming <- readResult{err: err}
			close(c.incoming)
			return
		}
		msg, err := jsonrpc.DecodeMessage(raw)
		c.incoming <- readResult{msg: msg, err: err}
		if err != nil {
			close(c.incoming)
			return
		}
	}
}

func (c *pipeConn) Read(ctx context.Context) (jsonrpc.Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res, ok := <-c.incoming:
		if !ok {
			return nil, io.EOF
		}
		if res.err != nil {
			return nil, res.err
		}
		return res.msg, nil
	}
}

func (c *pipeConn) Write(_ context.Context, msg jsonrpc.Message) error {
	data, err := jsonrpc.EncodeMessage(msg)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_, err = c.writer.Write(data)
	return err
}

func (c *pipeConn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = errors.Join(c.reader.Close(), c.writer.Close())
	})
	return c.closeErr
}

func (c *pipeConn) SessionID() string { return "" }

// startStdio runs a server on the stdio binding and returns a connected SDK
// client session. Closing the session ends the server with EOF.
func startStdio(t *testing.T, cfg config.Config, opts ...inferenco.Option) (*sdk.ClientSession, *inferenco.Server) {
	t.Helper()

	serverIn, clientOut := io.Pipe()
	clientIn, serverOut := io.Pipe()

	srv, err := inferenco.New(cfg, append(opts, inferenco.WithStdio(serverIn, serverOut))...)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(context.Background())
		_ = serverOut.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := sdk.NewClient(&sdk.Implementation{Name: "e2e-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, &pipeTransport{conn: newPipeConn(clientIn, clientOut)}, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop after stdin closed")
		}
	})
	return session, srv
}
