package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/loomkit/loom/internal/analytics"
	"github.com/loomkit/loom/internal/service"
)

// MaxMessageSize is the maximum size for a single message (1MB). Scaffold
// responses with inline file bodies can get large.
const MaxMessageSize = 1024 * 1024

const protocolVersion = "2024-11-05"

// Server runs the JSON-RPC tool loop over a pair of streams. One instance
// serves stdio; the HTTP and WebSocket transports share its Dispatch.
type Server struct {
	stdin   io.Reader
	stdout  io.Writer
	scanner *bufio.Scanner
	logger  *zap.Logger
	version string

	service   *service.Service
	analytics *analytics.Dispatcher
	tools     map[string]ToolHandler
	observer  ToolObserver
}

// ToolObserver is notified after every tool call. env is nil when the call
// failed at the protocol level.
type ToolObserver func(tool string, failed bool, duration time.Duration, env *Envelope)

// NewServer creates a server bound to stdin/stdout. The analytics
// dispatcher is optional.
func NewServer(svc *service.Service, dispatcher *analytics.Dispatcher, version string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		logger:    logger,
		version:   version,
		service:   svc,
		analytics: dispatcher,
	}
	s.registerTools()
	return s
}

// SetObserver installs a per-tool-call hook, used by the HTTP transport to
// export metrics.
func (s *Server) SetObserver(observer ToolObserver) {
	s.observer = observer
}

// SetStdin sets the input stream (for testing).
func (s *Server) SetStdin(r io.Reader) {
	s.stdin = r
	s.scanner = nil
}

// SetStdout sets the output stream (for testing).
func (s *Server) SetStdout(w io.Writer) {
	s.stdout = w
}

// Start runs the message loop until EOF or a read error. EOF is a clean
// shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("rpc server starting", zap.String("version", s.version))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("rpc server stopping", zap.Error(ctx.Err()))
			return ctx.Err()
		default:
		}

		msg, err := s.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info("rpc server shutting down (EOF)")
				return nil
			}
			s.logger.Error("read message", zap.Error(err))
			_ = s.writeMessage(NewErrorMessage(nil, ParseError, fmt.Sprintf("failed to parse message: %v", err), nil))
			continue
		}

		response := s.Dispatch(ctx, msg)
		if response == nil {
			continue
		}
		if err := s.writeMessage(response); err != nil {
			s.logger.Error("write response", zap.Error(err))
		}
	}
}

// Dispatch routes one message and returns the response, or nil for
// notifications. Shared by the stdio loop and the HTTP/WebSocket bridges.
func (s *Server) Dispatch(ctx context.Context, msg *Message) *Message {
	if msg.IsNotification() {
		s.handleNotification(msg)
		return nil
	}
	if !msg.IsRequest() {
		return NewErrorMessage(msg.Id, InvalidRequest, "invalid message: not a request or notification", nil)
	}

	s.logger.Debug("handling request", zap.String("method", msg.Method), zap.Any("id", msg.Id))

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "ping":
		return NewResultMessage(msg.Id, map[string]interface{}{})
	case "tools/list":
		return NewResultMessage(msg.Id, map[string]interface{}{
			"tools": s.GetToolDefinitions(),
		})
	case "tools/call":
		return s.handleToolCall(ctx, msg)
	default:
		return NewErrorMessage(msg.Id, MethodNotFound, fmt.Sprintf("method not found: %s", msg.Method), nil)
	}
}

func (s *Server) handleInitialize(msg *Message) *Message {
	return NewResultMessage(msg.Id, map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    "loom",
			"version": s.version,
		},
	})
}

func (s *Server) handleToolCall(ctx context.Context, msg *Message) *Message {
	params, ok := msg.Params.(map[string]interface{})
	if !ok {
		return NewErrorMessage(msg.Id, InvalidParams, "tools/call params must be an object", nil)
	}
	name, _ := params["name"].(string)
	handler, ok := s.tools[name]
	if !ok {
		return NewErrorMessage(msg.Id, MethodNotFound, fmt.Sprintf("unknown tool: %s", name), nil)
	}

	args, _ := params["arguments"].(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}

	if s.analytics != nil {
		s.analytics.Record(analytics.Event{Type: analytics.EventToolInvoked, Tool: name})
	}

	start := time.Now()
	env, err := handler(ctx, args)
	if err != nil {
		if s.observer != nil {
			s.observer(name, true, time.Since(start), nil)
		}
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return NewErrorMessage(msg.Id, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		}
		s.logger.Error("tool call failed", zap.String("tool", name), zap.Error(err))
		return NewErrorMessage(msg.Id, InternalError, "internal error", nil)
	}
	if s.observer != nil {
		s.observer(name, env.Error != nil, time.Since(start), env)
	}

	result, err := env.result()
	if err != nil {
		s.logger.Error("serialize tool result", zap.String("tool", name), zap.Error(err))
		return NewErrorMessage(msg.Id, InternalError, "internal error", nil)
	}

	s.logger.Debug("tool call completed",
		zap.String("tool", name),
		zap.Duration("duration", time.Since(start)),
		zap.Bool("isError", result.IsError))
	return NewResultMessage(msg.Id, result)
}

func (s *Server) handleNotification(msg *Message) {
	switch msg.Method {
	case "notifications/initialized":
		s.logger.Info("client initialized")
	default:
		s.logger.Debug("ignoring notification", zap.String("method", msg.Method))
	}
}

// readMessage reads one newline-delimited JSON-RPC message.
func (s *Server) readMessage() (*Message, error) {
	if s.scanner == nil {
		s.scanner = bufio.NewScanner(s.stdin)
		s.scanner.Buffer(make([]byte, MaxMessageSize), MaxMessageSize)
	}

	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return nil, fmt.Errorf("read from stdin: %w", err)
		}
		return nil, io.EOF
	}

	var msg Message
	if err := json.Unmarshal(s.scanner.Bytes(), &msg); err != nil {
		return nil, fmt.Errorf("parse message: %w", err)
	}
	return &msg, nil
}

// writeMessage writes one newline-delimited JSON-RPC message.
func (s *Server) writeMessage(msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if _, err := fmt.Fprintf(s.stdout, "%s\n", data); err != nil {
		return fmt.Errorf("write to stdout: %w", err)
	}
	return nil
}
