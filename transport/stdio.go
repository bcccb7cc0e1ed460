package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/inferenco/inferenco-mcp/middleware"
	"github.com/inferenco/inferenco-mcp/protocol"
)

// DefaultMaxLineBytes bounds a single stdio message.
const DefaultMaxLineBytes = middleware.MB

// Stdio serves newline-delimited JSON-RPC over stdin and stdout. Lines are
// handled one at a time; the response to line N is written before line N+1
// is read.
type Stdio struct {
	in      io.Reader
	out     io.Writer
	maxLine int
	logger  middleware.Logger
	mu      sync.Mutex
}

// StdioOption configures Stdio.
type StdioOption func(*Stdio)

// WithStdin sets the input stream.
func WithStdin(r io.Reader) StdioOption {
	return func(s *Stdio) {
		s.in = r
	}
}

// WithStdout sets the output stream.
func WithStdout(w io.Writer) StdioOption {
	return func(s *Stdio) {
		s.out = w
	}
}

// WithMaxLineBytes bounds the size of one input line, newline excluded.
// Values below one keep the default.
func WithMaxLineBytes(n int) StdioOption {
	return func(s *Stdio) {
		if n > 0 {
			s.maxLine = n
		}
	}
}

// WithStdioLogger sets the logger. It must not write to the output stream.
func WithStdioLogger(l middleware.Logger) StdioOption {
	return func(s *Stdio) {
		s.logger = l
	}
}

// NewStdio creates a stdio binding on os.Stdin and os.Stdout.
func NewStdio(opts ...StdioOption) *Stdio {
	s := &Stdio{
		in:      os.Stdin,
		out:     os.Stdout,
		maxLine: DefaultMaxLineBytes,
		logger:  middleware.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Addr returns "stdio".
func (s *Stdio) Addr() string {
	return "stdio"
}

// Serve reads lines until EOF or until ctx is canceled. EOF is a clean
// shutdown and returns nil. A line longer than the limit is answered with
// -32600 and skipped; the session continues with the next line.
func (s *Stdio) Serve(ctx context.Context, handler Handler) error {
	reader := bufio.NewReaderSize(s.in, min(64*1024, max(s.maxLine, 16)))

	lines := make(chan stdioLine)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		for {
			line, err := s.readLine(reader)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	reqCtx := protocol.SetRequestMeta(ctx, protocol.MetaTransport, "stdio")

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return fmt.Errorf("read stdin: %w", err)
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return fmt.Errorf("read stdin: %w", err)
				default:
				}
				s.logger.Info("stdin closed")
				return nil
			}
			var resp *protocol.Response
			if line.tooLong {
				s.logger.Warn("stdin line exceeds limit", middleware.F("max", s.maxLine))
				resp = protocol.NewErrorResponse(nil, protocol.NewInvalidRequest(
					fmt.Sprintf("message exceeds %d bytes", s.maxLine)))
			} else {
				data := bytes.TrimSpace(line.data)
				if len(data) == 0 {
					continue
				}
				resp = dispatch(reqCtx, handler, data, s.logger)
			}
			if resp != nil {
				if err := s.write(resp); err != nil {
					return fmt.Errorf("write stdout: %w", err)
				}
			}
		}
	}
}

// stdioLine is one input line. An over-long line carries no data.
type stdioLine struct {
	data    []byte
	tooLong bool
}

// readLine reads up to the next newline. Content beyond maxLine is
// discarded rather than buffered. A final line without a newline is
// returned as is; io.EOF is only returned once nothing is left.
func (s *Stdio) readLine(r *bufio.Reader) (stdioLine, error) {
	var line stdioLine
	for {
		chunk, err := r.ReadSlice('\n')
		if !line.tooLong {
			content := bytes.TrimSuffix(chunk, []byte{'\n'})
			if len(line.data)+len(content) > s.maxLine {
				line.tooLong = true
				line.data = nil
			} else {
				line.data = append(line.data, chunk...)
			}
		}
		switch {
		case err == nil:
			return line, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && (len(line.data) > 0 || line.tooLong):
			return line, nil
		default:
			return stdioLine{}, err
		}
	}
}

// write emits v as one line. The mutex keeps lines whole.
func (s *Stdio) write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode response", middleware.F("error", err.Error()))
		return nil
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.out.Write(data)
	return err
}
