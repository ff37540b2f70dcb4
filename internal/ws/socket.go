package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/kiliankoe/calculecrit/internal/ai"
	"github.com/kiliankoe/calculecrit/internal/config"
	"github.com/kiliankoe/calculecrit/internal/game"
	"github.com/kiliankoe/calculecrit/internal/narration"
	"github.com/kiliankoe/calculecrit/internal/store"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

type ConnCtx struct {
	Code  string
	Token string
	Role  game.Role
	Lang  language.Tag
}

// Archiver keeps finished sessions.
type Archiver interface {
	Save(ctx context.Context, r store.Result) error
}

type Server struct {
	RM *game.RoomManager

	mu      sync.Mutex
	members map[string]map[string]socketio.Conn // sessionCode -> socketID -> Conn

	voice    *ai.Voice
	archive  Archiver
	config   config.Config
	fallback language.Tag
}

func New(rm *game.RoomManager, cfg config.Config) *Server {
	return &Server{
		RM:       rm,
		members:  make(map[string]map[string]socketio.Conn),
		config:   cfg,
		fallback: narration.ResolveTag(cfg.Language),
	}
}

func (srv *Server) SetVoice(v *ai.Voice)  { srv.voice = v }
func (srv *Server) SetArchive(a Archiver) { srv.archive = a }

// CreateConfig is a session setup as sent by a client. A nil
// SubtractionRatio takes the server default; 0 asks for addition only.
type CreateConfig struct {
	Module           int      `json:"module"`
	Level            int      `json:"level"`
	TotalQuestions   int      `json:"totalQuestions"`
	SubtractionRatio *float64 `json:"subtractionRatio"`
}

type answerPayload struct {
	Value game.Answer `json:"value"`
}

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{Lang: srv.fallback})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	// exercise:create opens a room; the creator holds the teacher token.
	io.OnEvent("/", "exercise:create", func(s socketio.Conn, payload struct {
		Config CreateConfig `json:"config"`
		Lang   string       `json:"lang"`
	}) map[string]any {
		cfg := srv.SessionConfig(payload.Config)
		code, teacherToken, err := srv.RM.CreateSession(cfg)
		if err != nil {
			return srv.err(s, "bad_request", err.Error())
		}
		s.SetContext(&ConnCtx{Code: code, Token: teacherToken, Role: game.RoleTeacher, Lang: srv.langFor(payload.Lang)})
		s.Join(code)
		srv.addMember(code, s)
		log.Info().Str("sid", s.ID()).Str("code", code).Msg("exercise:create")
		srv.emitStateTo(code)
		return map[string]any{"sessionCode": code, "teacherToken": teacherToken}
	})

	io.OnEvent("/", "exercise:join", func(s socketio.Conn, payload struct {
		SessionCode string `json:"sessionCode"`
		Name        string `json:"name"`
		Lang        string `json:"lang"`
	}) map[string]any {
		room, err := srv.RM.Get(payload.SessionCode)
		if err != nil {
			return srv.err(s, "session_not_found", "Session not found")
		}
		learnerID, learnerToken := room.Join(payload.Name)
		s.SetContext(&ConnCtx{Code: payload.SessionCode, Token: learnerToken, Role: game.RoleLearner, Lang: srv.langFor(payload.Lang)})
		s.Join(payload.SessionCode)
		srv.addMember(payload.SessionCode, s)
		log.Info().Str("sid", s.ID()).Str("code", payload.SessionCode).Str("learnerId", learnerID).Msg("exercise:join")
		srv.emitStateTo(payload.SessionCode)
		return map[string]any{"learnerToken": learnerToken, "learnerId": learnerID}
	})

	io.OnEvent("/", "exercise:resume", func(s socketio.Conn, payload struct {
		SessionCode string `json:"sessionCode"`
		Token       string `json:"token"`
		Lang        string `json:"lang"`
	}) map[string]any {
		room, err := srv.RM.Get(payload.SessionCode)
		if err != nil {
			return srv.err(s, "session_not_found", "Session not found")
		}
		role, err := room.Authorize(payload.Token)
		if err != nil {
			return srv.err(s, "unauthorized", "Invalid token")
		}
		ctx := &ConnCtx{Code: payload.SessionCode, Token: payload.Token, Role: role, Lang: srv.langFor(payload.Lang)}
		s.SetContext(ctx)
		s.Join(payload.SessionCode)
		srv.addMember(payload.SessionCode, s)
		log.Info().Str("sid", s.ID()).Str("code", payload.SessionCode).Str("role", string(role)).Msg("exercise:resume")
		s.Emit("exercise:state", srv.statePayload(room, room.Snapshot(), ctx))
		return map[string]any{"ok": true}
	})

	io.OnEvent("/", "exercise:start", func(s socketio.Conn) map[string]any {
		return srv.act(s, "exercise:start", func(r *game.Room) (game.Update, error) { return r.Start() })
	})
	io.OnEvent("/", "exercise:submitRed", func(s socketio.Conn, p answerPayload) map[string]any {
		return srv.act(s, "exercise:submitRed", func(r *game.Room) (game.Update, error) { return r.SubmitRedCount(p.Value) })
	})
	io.OnEvent("/", "exercise:submitBlue", func(s socketio.Conn, p answerPayload) map[string]any {
		return srv.act(s, "exercise:submitBlue", func(r *game.Room) (game.Update, error) { return r.SubmitBlueCount(p.Value) })
	})
	io.OnEvent("/", "exercise:submitTotal", func(s socketio.Conn, p answerPayload) map[string]any {
		return srv.act(s, "exercise:submitTotal", func(r *game.Room) (game.Update, error) { return r.SubmitTotal(p.Value) })
	})
	io.OnEvent("/", "exercise:submitSecondColor", func(s socketio.Conn, p answerPayload) map[string]any {
		return srv.act(s, "exercise:submitSecondColor", func(r *game.Room) (game.Update, error) { return r.SubmitSecondColor(p.Value) })
	})
	io.OnEvent("/", "exercise:submitVenn", func(s socketio.Conn, p struct {
		Red  game.Answer `json:"red"`
		Blue game.Answer `json:"blue"`
	}) map[string]any {
		return srv.act(s, "exercise:submitVenn", func(r *game.Room) (game.Update, error) { return r.SubmitVennDiagram(p.Red, p.Blue) })
	})
	io.OnEvent("/", "exercise:submitEquation", func(s socketio.Conn, p struct {
		Operation string      `json:"operation"`
		Result    game.Answer `json:"result"`
	}) map[string]any {
		return srv.act(s, "exercise:submitEquation", func(r *game.Room) (game.Update, error) { return r.SubmitEquation(p.Operation, p.Result) })
	})
	io.OnEvent("/", "exercise:continue", func(s socketio.Conn) map[string]any {
		return srv.act(s, "exercise:continue", func(r *game.Room) (game.Update, error) { return r.Continue() })
	})
	io.OnEvent("/", "exercise:restart", func(s socketio.Conn) map[string]any {
		return srv.act(s, "exercise:restart", func(r *game.Room) (game.Update, error) { return r.Restart(), nil })
	})
	io.OnEvent("/", "exercise:changeModule", func(s socketio.Conn, p struct {
		Module int `json:"module"`
	}) map[string]any {
		return srv.act(s, "exercise:changeModule", func(r *game.Room) (game.Update, error) { return r.ChangeModule(p.Module) })
	})
	io.OnEvent("/", "exercise:changeLevel", func(s socketio.Conn, p struct {
		Level int `json:"level"`
	}) map[string]any {
		return srv.act(s, "exercise:changeLevel", func(r *game.Room) (game.Update, error) { return r.ChangeLevel(p.Level) })
	})

	// exercise:speechEnded clears the speak flag once the client finished talking.
	io.OnEvent("/", "exercise:speechEnded", func(s socketio.Conn) map[string]any {
		_, room, errAck := srv.authorized(s)
		if errAck != nil {
			return errAck
		}
		srv.emitState(room, room.SpeechEnded())
		return map[string]any{"ok": true}
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		if ctx, ok := s.Context().(*ConnCtx); ok && ctx.Code != "" {
			srv.removeMember(ctx.Code, s)
		}
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// SessionConfig fills the server-wide defaults into a client config and
// bounds what a client may ask for.
func (srv *Server) SessionConfig(c CreateConfig) game.SessionConfig {
	cfg := game.SessionConfig{
		Module:           c.Module,
		Level:            c.Level,
		TotalQuestions:   c.TotalQuestions,
		SubtractionRatio: srv.config.SubtractionRatio,
	}
	if cfg.TotalQuestions <= 0 {
		cfg.TotalQuestions = srv.config.TotalQuestions
	}
	cfg.TotalQuestions = min(cfg.TotalQuestions, game.MaxTotalQuestions)
	if c.SubtractionRatio != nil {
		cfg.SubtractionRatio = min(max(*c.SubtractionRatio, 0), 1)
	}
	return cfg
}

func (srv *Server) langFor(value string) language.Tag {
	if value == "" {
		return srv.fallback
	}
	return narration.ResolveTag(value)
}

func (srv *Server) authorized(s socketio.Conn) (*ConnCtx, *game.Room, map[string]any) {
	ctx, ok := s.Context().(*ConnCtx)
	if !ok || ctx.Code == "" {
		return nil, nil, srv.err(s, "unauthorized", "Not in a session")
	}
	room, err := srv.RM.Get(ctx.Code)
	if err != nil {
		return nil, nil, srv.err(s, "session_not_found", "Session not found")
	}
	if _, err := room.Authorize(ctx.Token); err != nil {
		return nil, nil, srv.err(s, "unauthorized", err.Error())
	}
	return ctx, room, nil
}

// act runs one exercise action and broadcasts its outcome.
func (srv *Server) act(s socketio.Conn, event string, fn func(*game.Room) (game.Update, error)) map[string]any {
	ctx, room, errAck := srv.authorized(s)
	if errAck != nil {
		return errAck
	}
	previous := room.Snapshot().Phase
	u, err := fn(room)
	if err != nil {
		code := "bad_request"
		if errors.Is(err, game.ErrInvalidPhase) {
			code = "invalid_phase"
		}
		return srv.err(s, code, err.Error())
	}
	log.Info().Str("code", ctx.Code).Str("event", event).
		Str("from", previous.String()).Str("to", u.State.Phase.String()).
		Str("outcome", string(u.Intent.Outcome)).Msg("exercise action")

	srv.emitState(room, u.State)
	if u.Verdict != nil {
		srv.broadcast(ctx.Code, "exercise:verdict", u.Verdict)
	}
	if u.Intent.Speak {
		srv.speak(ctx.Code, u.State)
	}
	if u.State.Phase == game.PhaseResult {
		srv.finish(room)
	}
	return map[string]any{"ok": true, "intent": u.Intent}
}

// finish exports and archives a room that just reached the result phase.
func (srv *Server) finish(room *game.Room) {
	if srv.config.ExportEnabled && srv.config.ExportFile != "" {
		if err := game.ExportSession(room, srv.config.ExportFile); err != nil {
			log.Error().Err(err).Str("code", room.Code).Msg("failed to export session")
		} else {
			log.Info().Str("code", room.Code).Str("file", srv.config.ExportFile).Msg("exported session")
		}
	}
	if srv.archive != nil {
		res, err := store.ResultFromRoom(room, time.Now())
		if err == nil {
			err = srv.archive.Save(context.Background(), res)
		}
		if err != nil {
			log.Error().Err(err).Str("code", room.Code).Msg("failed to archive session")
		}
	}
}

// speak asks the LLM voice, if any, for a friendlier wording of the current
// narration. The catalog text has already been pushed with the state.
func (srv *Server) speak(code string, snap game.Snapshot) {
	if srv.voice == nil {
		return
	}
	go func() {
		for _, c := range srv.conns(code) {
			ctx, ok := c.Context().(*ConnCtx)
			if !ok {
				continue
			}
			text := narration.New(ctx.Lang).Text(snap.MessageKey, snap)
			out, err := srv.voice.Rephrase(context.Background(), ctx.Lang.String(), text)
			if err != nil {
				log.Warn().Err(err).Str("code", code).Msg("narration rephrase failed")
				continue
			}
			c.Emit("exercise:speech", map[string]any{
				"phase":      snap.Phase,
				"messageKey": snap.MessageKey,
				"text":       out,
			})
		}
	}()
}

func (srv *Server) addMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.members[code] == nil {
		srv.members[code] = make(map[string]socketio.Conn)
	}
	srv.members[code][c.ID()] = c
}

func (srv *Server) removeMember(code string, c socketio.Conn) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if m := srv.members[code]; m != nil {
		delete(m, c.ID())
		if len(m) == 0 {
			delete(srv.members, code)
		}
	}
}

func (srv *Server) conns(code string) []socketio.Conn {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	out := make([]socketio.Conn, 0, len(srv.members[code]))
	for _, c := range srv.members[code] {
		out = append(out, c)
	}
	return out
}

func (srv *Server) broadcast(code, event string, v any) {
	for _, c := range srv.conns(code) {
		c.Emit(event, v)
	}
}

// emitStateTo pushes the current state of a room to its members.
func (srv *Server) emitStateTo(code string) {
	room, err := srv.RM.Get(code)
	if err != nil {
		return
	}
	srv.emitState(room, room.Snapshot())
}

// emitState pushes snap to every member, narrated in each member's language.
// Actions pass the snapshot taken together with their intent.
func (srv *Server) emitState(room *game.Room, snap game.Snapshot) {
	for _, c := range srv.conns(room.Code) {
		ctx, ok := c.Context().(*ConnCtx)
		if !ok {
			continue
		}
		c.Emit("exercise:state", srv.statePayload(room, snap, ctx))
	}
}

func (srv *Server) statePayload(room *game.Room, snap game.Snapshot, ctx *ConnCtx) map[string]any {
	lang := ctx.Lang
	if lang == language.Und {
		lang = srv.fallback
	}
	you := map[string]any{"role": ctx.Role}
	if ctx.Role == game.RoleLearner {
		if id := room.LearnerIDByToken(ctx.Token); id != "" {
			you["learnerId"] = id
		}
	}
	return map[string]any{
		"sessionCode": room.Code,
		"state":       snap,
		"text":        narration.New(lang).Text(snap.MessageKey, snap),
		"lang":        lang.String(),
		"learners":    room.Learners(),
		"you":         you,
	}
}

func (srv *Server) err(s socketio.Conn, code, message string) map[string]any {
	s.Emit("error", map[string]any{"code": code, "message": message})
	return map[string]any{"error": message}
}
