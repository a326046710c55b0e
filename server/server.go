package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"weather-dashboard/dashboard"
	"weather-dashboard/models"
	"weather-dashboard/providers"
	"weather-dashboard/render"
)

const (
	sessionCookie = "wd_session"
	sessionIdle   = 24 * time.Hour
)

type session struct {
	dash     *dashboard.Dashboard
	lastSeen time.Time
}

// Server HTTP дашборд: у каждой сессии браузера свой Dashboard
type Server struct {
	provider providers.Provider
	renderer *render.Renderer
	logger   *zap.Logger
	// baseCtx живет дольше HTTP запроса: загрузки продолжаются после редиректа
	baseCtx context.Context

	mu       sync.Mutex
	sessions map[string]*session

	mux *http.ServeMux
}

func New(baseCtx context.Context, provider providers.Provider, renderer *render.Renderer, logger *zap.Logger) *Server {
	s := &Server{
		provider: provider,
		renderer: renderer,
		logger:   logger,
		baseCtx:  baseCtx,
		sessions: make(map[string]*session),
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) Router() http.Handler { return s.mux }

func (s *Server) routes() {
	// UI
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /weather", s.handleGetWeather)
	s.mux.HandleFunc("POST /forecast", s.handleGetForecast)
	s.mux.HandleFunc("POST /unit", s.handleToggleUnit)

	// API
	s.mux.HandleFunc("GET /api/state", s.handleState)
	s.mux.HandleFunc("GET /api/weather", s.handleAPIWeather)
	s.mux.HandleFunc("GET /api/forecast", s.handleAPIForecast)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
}

// Run запускает сервер и останавливает его при отмене ctx
func (s *Server) Run(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      s.mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("сервер запущен", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("завершение работы сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	s.logger.Info("сервер остановлен")
	return nil
}

// dashboardFor возвращает Dashboard сессии, создавая сессию при необходимости
func (s *Server) dashboardFor(w http.ResponseWriter, r *http.Request) *dashboard.Dashboard {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			if sess, ok := s.sessions[c.Value]; ok {
				sess.lastSeen = now
				return sess.dash
			}
		}
	}

	s.pruneLocked(now)

	id := uuid.NewString()
	sess := &session{
		dash:     dashboard.New(s.provider, s.logger.With(zap.String("session", id))),
		lastSeen: now,
	}
	s.sessions[id] = sess

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Debug("новая сессия", zap.String("session", id))

	return sess.dash
}

// pruneLocked удаляет давно неактивные сессии
func (s *Server) pruneLocked(now time.Time) {
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > sessionIdle {
			delete(s.sessions, id)
		}
	}
}

// SessionCount количество активных сессий
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	d := s.dashboardFor(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.HTML(w, render.Page{State: d.Snapshot()}); err != nil {
		s.logger.Error("ошибка рендера страницы", zap.Error(err))
	}
}

// POST /weather
func (s *Server) handleGetWeather(w http.ResponseWriter, r *http.Request) {
	d := s.dashboardFor(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "некорректная форма", http.StatusBadRequest)
		return
	}

	d.SetQuery(r.FormValue("location"))
	d.FetchCurrentWeather(s.baseCtx)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// POST /forecast
func (s *Server) handleGetForecast(w http.ResponseWriter, r *http.Request) {
	d := s.dashboardFor(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "некорректная форма", http.StatusBadRequest)
		return
	}

	d.SetQuery(r.FormValue("location"))
	d.FetchForecast(s.baseCtx)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// POST /unit
func (s *Server) handleToggleUnit(w http.ResponseWriter, r *http.Request) {
	s.dashboardFor(w, r).ToggleUnit()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GET /api/state: снимок состояния сессии
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	d := s.dashboardFor(w, r)
	writeJSON(w, http.StatusOK, d.Snapshot())
}

// GET /api/weather?q=
func (s *Server) handleAPIWeather(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("q")
	if location == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: dashboard.MsgEmptyQuery})
		return
	}

	weather, err := s.provider.GetCurrentWeather(r.Context(), location)
	if err != nil {
		s.logger.Error("ошибка получения текущей погоды", zap.String("location", location), zap.Error(err))
		writeJSON(w, upstreamStatus(err), models.ErrorResponse{
			Error:   dashboard.MsgWeatherNotFound,
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, weather)
}

// GET /api/forecast?q=: прогноз уже свернут до одной точки в день
func (s *Server) handleAPIForecast(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("q")
	if location == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: dashboard.MsgEmptyQuery})
		return
	}

	samples, err := s.provider.GetForecast(r.Context(), location, dashboard.ForecastSampleCount)
	if err != nil {
		s.logger.Error("ошибка получения прогноза", zap.String("location", location), zap.Error(err))
		writeJSON(w, upstreamStatus(err), models.ErrorResponse{
			Error:   dashboard.MsgForecastFailed,
			Details: err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, dashboard.DailyForecast(samples))
}

// GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"provider":  s.provider.Name(),
		"available": s.provider.IsAvailable(),
		"sessions":  s.SessionCount(),
	})
}

func upstreamStatus(err error) int {
	if errors.Is(err, providers.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
