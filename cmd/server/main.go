package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kiliankoe/calculecrit/internal/ai"
	"github.com/kiliankoe/calculecrit/internal/ai/ollama"
	"github.com/kiliankoe/calculecrit/internal/ai/openai"
	"github.com/kiliankoe/calculecrit/internal/config"
	"github.com/kiliankoe/calculecrit/internal/game"
	"github.com/kiliankoe/calculecrit/internal/store"
	"github.com/kiliankoe/calculecrit/internal/ws"
	staticserver "github.com/kiliankoe/calculecrit/static"
	"github.com/rs/zerolog"
	zerologlog "github.com/rs/zerolog/log"
)

var version = "dev" // Set at build time via -ldflags

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Calcul écrit - counting and arithmetic exercises with a virtual teacher

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)

Environment Variables:
  PORT                Port to listen on (default: 8080)
  LOG_LEVEL           zerolog level (default: info)
  LANGUAGE            Default narration language: "fr" or "en" (default: fr)
  TOTAL_QUESTIONS     Questions per session (default: 5)
  SUBTRACTION_RATIO   Share of subtraction rounds where allowed (default: 0.5)
  NARRATOR_PROVIDER   LLM rephrasing: "none", "openai" or "ollama" (default: none)
  NARRATOR_MODEL      Model used for rephrasing (optional)
  NARRATOR_PROMPT     System prompt used for rephrasing (optional)
  OPENAI_API_KEY      OpenAI API key (required for the OpenAI provider)
  OPENAI_BASE_URL     Custom OpenAI API base URL (optional)
  OLLAMA_HOST         Ollama host URL (default: http://localhost:11434)
  TEACHER_USER        Teacher dashboard username for basic auth
  TEACHER_PASS        Teacher dashboard password for basic auth
  SINGLE_SESSION      Advertise only the latest session (default: true)
  EXPORT_ENABLED      Export session results to file (default: true)
  EXPORT_FILE         Path to export session results (default: ./calcul-results.txt)
  RESULTS_DB          SQLite file finished sessions are archived to (optional)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Visit http://localhost:8080 after starting the server.
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Calcul écrit %s\n", version)
		return
	}

	_ = godotenv.Load()
	cfg := config.FromEnv()
	if *portFlag != "" {
		cfg.Port = *portFlag
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	zerologlog.Logger = zerologlog.Output(cw)
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	r, closeAll, err := newRouter(cfg)
	if err != nil {
		zerologlog.Error().Err(err).Msg("startup failed")
		os.Exit(1)
	}
	zerologlog.Info().Str("port", cfg.Port).Str("version", version).Msg("listening")
	err = r.Run(":" + cfg.Port)
	closeAll()
	if err != nil {
		zerologlog.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

// newRouter wires the HTTP routes and the socket server. closeAll releases
// the socket server and the results database.
func newRouter(cfg config.Config) (*gin.Engine, func(), error) {
	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
	}

	var results *store.SQLiteStore
	if cfg.ResultsDB != "" {
		db, err := store.NewSQLite(cfg.ResultsDB)
		if err != nil {
			return nil, nil, fmt.Errorf("open results database %s: %w", cfg.ResultsDB, err)
		}
		closers = append(closers, db.Close)
		results = db
	}

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		zerologlog.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})

	// Healthcheck
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	// Socket server + room manager
	rm := game.NewRoomManager()
	sock := ws.New(rm, cfg)
	if voice := narratorVoice(cfg); voice != nil {
		sock.SetVoice(voice)
		zerologlog.Info().Str("provider", cfg.NarratorProvider).Str("model", voice.Model).Msg("narration rephrasing enabled")
	}
	if results != nil {
		sock.SetArchive(results)
	}
	io := sock.Mount(r)
	closers = append(closers, io.Close)

	r.GET("/api/session/active", func(c *gin.Context) {
		if !cfg.SingleSession {
			c.Status(http.StatusNotFound)
			return
		}
		if code, room := rm.Active(); room != nil {
			c.JSON(http.StatusOK, gin.H{"sessionCode": code})
			return
		}
		c.Status(http.StatusNotFound)
	})

	r.GET("/api/levels", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"levels": game.Levels()})
	})

	// Read-only state for reconnecting clients; any room token works.
	r.GET("/api/session/:code", func(c *gin.Context) {
		room, err := rm.Get(c.Param("code"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session_not_found"})
			return
		}
		if _, err := room.Authorize(c.GetHeader("X-Session-Token")); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessionCode": room.Code, "state": room.Snapshot(), "learners": room.Learners()})
	})

	// Teacher-protected routes (SPA index, session creation and archive)
	if cfg.TeacherUser != "" && cfg.TeacherPass != "" {
		auth := gin.BasicAuth(gin.Accounts{cfg.TeacherUser: cfg.TeacherPass})
		r.GET("/teacher", auth, func(c *gin.Context) {
			staticserver.Handler().ServeHTTP(c.Writer, c.Request)
		})
		r.GET("/teacher/*any", auth, func(c *gin.Context) {
			staticserver.Handler().ServeHTTP(c.Writer, c.Request)
		})

		type createReq struct {
			Config ws.CreateConfig `json:"config"`
		}
		r.POST("/api/teacher/create", auth, func(c *gin.Context) {
			var req createReq
			if err := c.BindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_config"})
				return
			}
			code, teacherToken, err := rm.CreateSession(sock.SessionConfig(req.Config))
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"sessionCode": code, "teacherToken": teacherToken})
		})

		r.GET("/api/teacher/results", auth, func(c *gin.Context) {
			if results == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "archive_disabled"})
				return
			}
			level, _ := strconv.Atoi(c.Query("level"))
			limit, _ := strconv.Atoi(c.Query("limit"))
			list, err := results.Recent(c.Request.Context(), level, limit)
			if err != nil {
				zerologlog.Error().Err(err).Msg("failed to read results")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"results": list})
		})
	}

	// Serve frontend (if embedded build is present) for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	return r, closeAll, nil
}

// narratorVoice builds the LLM voice selected by NARRATOR_PROVIDER, or nil.
func narratorVoice(cfg config.Config) *ai.Voice {
	var provider ai.Provider
	switch cfg.NarratorProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			zerologlog.Warn().Msg("NARRATOR_PROVIDER=openai without OPENAI_API_KEY, rephrasing disabled")
			return nil
		}
		provider = openai.New(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	case "ollama":
		provider = ollama.New(cfg.OllamaHost)
	case "", "none":
		return nil
	default:
		zerologlog.Warn().Str("provider", cfg.NarratorProvider).Msg("unknown narrator provider, rephrasing disabled")
		return nil
	}
	return &ai.Voice{Provider: provider, Model: cfg.NarratorModel, SystemPrompt: cfg.NarratorPrompt}
}
