package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"podbridge/internal/logging"
	"podbridge/internal/mediakeys"
	"podbridge/internal/protocol"
	"podbridge/internal/session"
	"podbridge/internal/voicesearch"
)

// Server exposes bridge control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, bridge *session.Bridge, state *protocol.SessionState, logger *slog.Logger) (*Server, error) {
	if bridge == nil {
		return nil, errors.New("ipc server requires bridge")
	}
	if state == nil {
		return nil, errors.New("ipc server requires session state")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{bridge: bridge, state: state, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Bridge", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon if needed"))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldErrorHint, "remove the socket file manually before the next start"))
	}
}

type service struct {
	bridge *session.Bridge
	state  *protocol.SessionState
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

// accepted folds a bridge submission result into the queued/message pair the
// control DTOs share. Only ErrBusy maps to a rejected submission; anything
// else is a transport-level failure.
func accepted(err error) (bool, string, error) {
	if err == nil {
		return true, "", nil
	}
	if errors.Is(err, session.ErrBusy) {
		return false, err.Error(), nil
	}
	return false, "", err
}

func (s *service) Play(req PlayRequest, resp *PlayResponse) error {
	s.log().Debug("play requested")
	var err error
	if req.EpisodeID != "" {
		err = s.bridge.PlayFromID(s.ctx, req.EpisodeID)
	} else {
		err = s.bridge.Play()
	}
	var rpcErr error
	resp.Queued, resp.Message, rpcErr = accepted(err)
	return rpcErr
}

func (s *service) Pause(_ PauseRequest, resp *PauseResponse) error {
	s.log().Debug("pause requested")
	var rpcErr error
	resp.Queued, resp.Message, rpcErr = accepted(s.bridge.Pause())
	return rpcErr
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("stop requested")
	var rpcErr error
	resp.Queued, resp.Message, rpcErr = accepted(s.bridge.StopPlayback())
	return rpcErr
}

func (s *service) Seek(req SeekRequest, resp *SeekResponse) error {
	s.log().Debug("seek requested", logging.Int64("position_ms", req.PositionMs))
	var rpcErr error
	resp.Queued, resp.Message, rpcErr = accepted(s.bridge.SeekTo(req.PositionMs))
	return rpcErr
}

func (s *service) Key(req KeyRequest, resp *KeyResponse) error {
	key, err := parseKey(req.Key)
	if err != nil {
		return err
	}
	s.log().Debug("media key received", logging.String("key", req.Key))
	if err := s.bridge.HandleKey(s.ctx, key); err != nil {
		resp.Handled = false
		resp.Message = err.Error()
		return nil
	}
	resp.Handled = true
	return nil
}

func (s *service) Search(req SearchRequest, resp *SearchResponse) error {
	s.log().Debug("voice search requested", logging.String(logging.FieldQuery, req.Query))
	err := s.bridge.PlayFromSearch(s.ctx, req.Query)
	if err == nil {
		resp.Matched = true
		return nil
	}
	if errors.Is(err, voicesearch.ErrNoResults) {
		resp.Matched = false
		resp.Message = voicesearch.NoResultsMessage
		return nil
	}
	if errors.Is(err, voicesearch.ErrBusy) {
		resp.Matched = false
		resp.Message = err.Error()
		return nil
	}
	return err
}

func (s *service) CustomAction(req CustomActionRequest, resp *CustomActionResponse) error {
	s.log().Debug("custom action requested", logging.String("action", req.Name))
	var rpcErr error
	resp.Queued, resp.Message, rpcErr = accepted(s.bridge.CustomAction(s.ctx, req.Name))
	return rpcErr
}

func (s *service) SkipToQueueItem(req SkipToQueueItemRequest, resp *SkipToQueueItemResponse) error {
	s.log().Debug("skip to queue item requested", logging.Int64("queue_id", req.QueueID))
	var rpcErr error
	resp.Queued, resp.Message, rpcErr = accepted(s.bridge.SkipToQueueItem(req.QueueID))
	return rpcErr
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	desc, ok := s.state.Descriptor()
	if ok {
		resp.State = desc.State.String()
		resp.PositionMs = desc.PositionMs
		resp.Speed = desc.Speed
		if !desc.UpdatedAt.IsZero() {
			resp.UpdatedAt = desc.UpdatedAt.Format(time.RFC3339)
		}
		resp.ErrorMessage = desc.ErrorMessage
		resp.CustomActions = make([]string, 0, len(desc.CustomActions))
		for _, action := range desc.CustomActions {
			resp.CustomActions = append(resp.CustomActions, action.Name)
		}
	} else {
		resp.State = protocol.StateNone.String()
	}
	meta := s.state.Metadata()
	resp.EpisodeID = meta.EpisodeID
	resp.Title = meta.Title
	resp.Artist = meta.Artist
	resp.Album = meta.Album
	resp.DurationMs = meta.DurationMs
	resp.Starred = meta.Rating.Starred
	resp.Active = s.state.Active()
	resp.PendingCommands = s.bridge.Pending()
	return nil
}

func (s *service) Queue(_ QueueRequest, resp *QueueResponse) error {
	items := s.state.Queue()
	resp.Items = make([]QueueEntry, 0, len(items))
	for _, item := range items {
		resp.Items = append(resp.Items, QueueEntry{
			QueueID:   item.QueueID,
			EpisodeID: item.EpisodeID,
			Title:     item.Title,
			Subtitle:  item.Subtitle,
		})
	}
	return nil
}

func parseKey(name string) (mediakeys.Key, error) {
	switch name {
	case "play_pause", "":
		return mediakeys.KeyPlayPause, nil
	case "next":
		return mediakeys.KeyNext, nil
	case "previous":
		return mediakeys.KeyPrevious, nil
	default:
		return 0, fmt.Errorf("unknown media key %q", name)
	}
}
