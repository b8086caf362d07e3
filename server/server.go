package server

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/cratequest/gameserver/broadcast"
	"github.com/cratequest/gameserver/config"
	"github.com/cratequest/gameserver/leaderboard"
	"github.com/cratequest/gameserver/logger"
	"github.com/cratequest/gameserver/monitor"
	"github.com/cratequest/gameserver/network"
	"github.com/cratequest/gameserver/persistence"
	"github.com/cratequest/gameserver/session"
	"github.com/cratequest/gameserver/timer"
)

type GameServer struct {
	httpServer     *http.Server
	router         *mux.Router
	upgrader       websocket.Upgrader
	sessionManager *session.Manager
	scheduler      *timer.Scheduler
	engine         *timer.Engine
	notifier       *leaderboard.Notifier
	store          persistence.Store
	monitor        *monitor.Monitor
	adminPassword  string
	totalGameTime  int
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, store persistence.Store, mon *monitor.Monitor) *GameServer {
	sessionManager := session.NewManager()
	emitter := broadcast.NewSessionEmitter(sessionManager)
	scheduler := timer.NewScheduler(100 * time.Millisecond)

	s := &GameServer{
		router:         mux.NewRouter(),
		sessionManager: sessionManager,
		scheduler:      scheduler,
		engine:         timer.NewEngine(scheduler, emitter, cfg.Game.TotalGameTime, cfg.Game.TickInterval),
		notifier:       leaderboard.NewNotifier(store, emitter),
		store:          store,
		monitor:        mon,
		adminPassword:  cfg.Admin.Password,
		totalGameTime:  cfg.Game.TotalGameTime,
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	s.router.Use(LoggingMiddleware)
	s.router.Use(CORSMiddleware)
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.HTTPAddress,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *GameServer) registerRoutes() {
	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/timer", s.handleGetTimer).Methods(http.MethodGet)
	s.router.HandleFunc("/game", s.handleCheckAnswer).Methods(http.MethodPost)
	s.router.HandleFunc("/endgame", s.handleEndGame).Methods(http.MethodPost)
	s.router.HandleFunc("/", s.handleRegisterTeam).Methods(http.MethodPost)
	s.router.HandleFunc("/questions", s.handleGetQuestions).Methods(http.MethodGet)
	s.router.HandleFunc("/leaderboard", s.handleGetLeaderboard).Methods(http.MethodGet)
}

func (s *GameServer) Start() error {
	logger.Log.Infof("Game server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *GameServer) Shutdown(ctx context.Context) error {
	close(s.shutdownChan)
	s.scheduler.Stop()
	// Websocket connections are hijacked, so httpServer.Shutdown does
	// not drain them. Closing them fails the blocked ReadEvent calls
	// and lets the connection goroutines unwind.
	s.sessionManager.CloseAll()
	return s.httpServer.Shutdown(ctx)
}

// Router exposes the HTTP handler, used by tests.
func (s *GameServer) Router() http.Handler {
	return s.router
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}

	role := r.URL.Query().Get("role")
	if role != network.RoleAdmin {
		role = network.RolePlayer
	}
	s.handleConnection(network.NewWSConnection(conn), role)
}

func (s *GameServer) handleConnection(conn network.Connection, role string) {
	sess := session.NewSession(uuid.New().String(), role, conn)
	s.sessionManager.Add(sess)

	logger.Log.Infof("New %s connection from %s, session ID: %s", role, conn.RemoteAddr(), sess.GetID())

	// Disclose the session id so the client can address itself later,
	// e.g. GET /timer?socketId=<id>.
	if err := sess.Emit(network.EventConnected, sess.GetID()); err != nil {
		logger.Log.Infof("Failed to send session id to %s: %v", conn.RemoteAddr(), err)
	}

	if sess.IsAdmin() {
		if s.monitor != nil {
			s.monitor.SetAdminConnected(true)
		}
		// The admin always receives one immediate refresh on connect.
		s.pushLeaderboard(context.Background())
	} else {
		if s.monitor != nil {
			s.monitor.IncOnlinePlayers()
		}
		s.engine.Register(sess.GetID())
		s.pushLeaderboard(context.Background())
	}

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", conn.RemoteAddr(), sess.GetID())
		s.sessionManager.Remove(sess)
		if sess.IsAdmin() {
			if s.monitor != nil {
				s.monitor.SetAdminConnected(s.sessionManager.Admin() != nil)
			}
		} else {
			s.engine.Remove(sess.GetID())
			if s.monitor != nil {
				s.monitor.DecOnlinePlayers()
			}
			// Roster changes reach the admin as a full refresh.
			s.pushLeaderboard(context.Background())
		}
		conn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			env, err := conn.ReadEvent()
			if err != nil {
				return
			}
			s.handleEvent(sess, env)
		}
	}
}

func (s *GameServer) handleEvent(sess *session.Session, env *network.Envelope) {
	if s.monitor != nil {
		s.monitor.IncEventsReceived()
	}

	switch env.Event {
	case network.EventStartTimer:
		s.engine.Start(sess.GetID())
	default:
		logger.Log.Infof("Unknown event %q from session %s", env.Event, sess.GetID())
	}
}

func (s *GameServer) pushLeaderboard(ctx context.Context) {
	s.notifier.Push(ctx)
	if s.monitor != nil {
		s.monitor.IncLeaderboardPushes()
	}
}
