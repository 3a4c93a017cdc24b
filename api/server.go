package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"github.com/skip2/go-qrcode"

	"github.com/wricardo/flying-chess/game/catalog"
	"github.com/wricardo/flying-chess/game/engine"
	"github.com/wricardo/flying-chess/game/service"
	"github.com/wricardo/flying-chess/transport/websocket"
)

const (
	// maxUploadSize bounds import bodies
	maxUploadSize = 4 << 20

	defaultQRSize = 256
	maxQRSize     = 1024
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server. hub may be nil, in which case no
// updates are pushed.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// A known path with the wrong method answers 405, including under /api
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed", r.Method))
	})
	s.router.MethodNotAllowedHandler = methodNotAllowed
	api.MethodNotAllowedHandler = methodNotAllowed

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Game operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/players", s.handleSetPlayers).Methods("POST")
	api.HandleFunc("/sessions/{id}/start", s.handleStartGame).Methods("POST")
	api.HandleFunc("/sessions/{id}/roll", s.handleRollDice).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/event", s.handleClearEvent).Methods("DELETE")

	// Maps (fixed paths must be before {id} patterns)
	api.HandleFunc("/maps", s.handleListMaps).Methods("GET")
	api.HandleFunc("/maps", s.handleCreateMap).Methods("POST")
	api.HandleFunc("/maps/import", s.handleImportMaps).Methods("POST")
	api.HandleFunc("/maps/export", s.handleExportMaps).Methods("GET")
	api.HandleFunc("/maps/{id}", s.handleGetMap).Methods("GET")
	api.HandleFunc("/maps/{id}", s.handleUpdateMap).Methods("PUT")
	api.HandleFunc("/maps/{id}", s.handleDeleteMap).Methods("DELETE")
	api.HandleFunc("/maps/{id}/options", s.handleApplyOptions).Methods("POST")
	api.HandleFunc("/maps/{id}/specials", s.handleRandomizeSpecials).Methods("POST")

	// Options libraries
	api.HandleFunc("/libraries", s.handleListLibraries).Methods("GET")
	api.HandleFunc("/libraries", s.handleCreateLibrary).Methods("POST")
	api.HandleFunc("/libraries/import-text", s.handleImportLibraryText).Methods("POST")
	api.HandleFunc("/libraries/import", s.handleImportLibraries).Methods("POST")
	api.HandleFunc("/libraries/{id}", s.handleGetLibrary).Methods("GET")
	api.HandleFunc("/libraries/{id}", s.handleUpdateLibrary).Methods("PUT")
	api.HandleFunc("/libraries/{id}", s.handleDeleteLibrary).Methods("DELETE")
	api.HandleFunc("/libraries/{id}/export", s.handleExportLibrary).Methods("GET")

	// Sharing and health
	api.HandleFunc("/qr", s.handleQRCode).Methods("GET")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	code := strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}

// respondServiceError maps a service error onto its status and machine code
func respondServiceError(w http.ResponseWriter, err error) {
	status, code := classifyError(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Request failed")
	}
	respondJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxUploadSize)).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadSize))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "Upload too large")
		return nil, false
	}
	return data, true
}

// broadcastState pushes a snapshot to the session's watchers
func (s *Server) broadcastState(sessionID string, state *engine.GameState) {
	if s.hub != nil && state != nil {
		s.hub.BroadcastToSession(sessionID, state)
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.CreateSession(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	total := len(sessions)

	// Parse query parameters
	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	limitStr := query.Get("limit") // number of sessions to return

	// Set defaults
	if sortBy != "created" {
		sortBy = "accessed"
	}
	if order != "asc" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	// Apply limit if specified
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Game Operation Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetGameState(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleSetPlayers(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Count int      `json:"count"`
		Names []string `json:"names,omitempty"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := s.service.SetPlayers(r.Context(), sessionID, req.Count, req.Names)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastState(sessionID, state)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		MapID string `json:"map_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := s.service.StartGame(r.Context(), sessionID, req.MapID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastState(sessionID, state)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleRollDice(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	result, err := s.service.RollDice(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if result.Rolled {
		s.broadcastState(sessionID, result.GameState)
		if s.hub != nil && result.Event != nil {
			s.hub.BroadcastEvent(sessionID, websocket.EventRoll, result.Event)
		}

		// Compact server log for observability
		if e := result.Event; e != nil {
			log.WithFields(log.Fields{
				"session": sessionID,
				"player":  e.PlayerID,
				"dice":    e.Dice,
				"from":    e.From,
				"to":      e.To,
				"kind":    e.Kind,
			}).Info("Roll")
		}
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.ResetGame(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastState(sessionID, state)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Game reset successfully",
		"state":   state,
	})
}

func (s *Server) handleClearEvent(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.ClearEvent(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastState(sessionID, state)
	respondJSON(w, http.StatusOK, state)
}

// Map Handlers

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	maps, err := s.service.ListMaps(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, maps)
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	m, err := s.service.GetMap(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, m)
}

func (s *Server) handleCreateMap(w http.ResponseWriter, r *http.Request) {
	var edit engine.MapEdit
	if err := decodeBody(r, &edit); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := s.service.CreateMap(r.Context(), edit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdateMap(w http.ResponseWriter, r *http.Request) {
	var edit engine.MapEdit
	if err := decodeBody(r, &edit); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	edit.ID = mux.Vars(r)["id"]

	m, err := s.service.UpdateMap(r.Context(), edit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMap(w http.ResponseWriter, r *http.Request) {
	mapID := mux.Vars(r)["id"]

	if err := s.service.DeleteMap(r.Context(), mapID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Map %s deleted", mapID),
	})
}

func (s *Server) handleApplyOptions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LibraryID string `json:"library_id"`
		Mode      string `json:"mode"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := s.service.ApplyOptions(r.Context(), mux.Vars(r)["id"], req.LibraryID, req.Mode)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, m)
}

func (s *Server) handleRandomizeSpecials(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rewards   int `json:"rewards"`
		Penalties int `json:"penalties"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := s.service.RandomizeSpecials(r.Context(), mux.Vars(r)["id"], req.Rewards, req.Penalties)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, m)
}

func (s *Server) handleImportMaps(w http.ResponseWriter, r *http.Request) {
	data, ok := readUpload(w, r)
	if !ok {
		return
	}

	maps, err := s.service.ImportMaps(r.Context(), data, r.URL.Query().Get("format"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"imported": len(maps),
		"maps":     maps,
	})
}

func (s *Server) handleExportMaps(w http.ResponseWriter, r *http.Request) {
	format, err := catalog.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	data, err := s.service.ExportMaps(r.Context(), string(format))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	filename := strings.TrimSuffix(catalog.MapExportFilename, ".json") + "." + format.Extension()
	respondAttachment(w, format.ContentType(), filename, data)
}

// Library Handlers

func (s *Server) handleListLibraries(w http.ResponseWriter, r *http.Request) {
	libraries, err := s.service.ListLibraries(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, libraries)
}

func (s *Server) handleGetLibrary(w http.ResponseWriter, r *http.Request) {
	lib, err := s.service.GetLibrary(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lib)
}

type libraryRequest struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

func (s *Server) handleCreateLibrary(w http.ResponseWriter, r *http.Request) {
	var req libraryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lib, err := s.service.CreateLibrary(r.Context(), req.Name, req.Options)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, lib)
}

func (s *Server) handleUpdateLibrary(w http.ResponseWriter, r *http.Request) {
	var req libraryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lib, err := s.service.UpdateLibrary(r.Context(), mux.Vars(r)["id"], req.Name, req.Options)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, lib)
}

func (s *Server) handleDeleteLibrary(w http.ResponseWriter, r *http.Request) {
	libraryID := mux.Vars(r)["id"]

	if err := s.service.DeleteLibrary(r.Context(), libraryID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Library %s deleted", libraryID),
	})
}

func (s *Server) handleImportLibraryText(w http.ResponseWriter, r *http.Request) {
	filename := r.URL.Query().Get("filename")
	if filename == "" {
		respondError(w, http.StatusBadRequest, "filename parameter required")
		return
	}

	data, ok := readUpload(w, r)
	if !ok {
		return
	}

	lib, err := s.service.ImportLibraryText(r.Context(), filename, string(data))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, lib)
}

func (s *Server) handleImportLibraries(w http.ResponseWriter, r *http.Request) {
	data, ok := readUpload(w, r)
	if !ok {
		return
	}

	libraries, err := s.service.ImportLibraries(r.Context(), data, r.URL.Query().Get("format"))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"imported":  len(libraries),
		"libraries": libraries,
	})
}

func (s *Server) handleExportLibrary(w http.ResponseWriter, r *http.Request) {
	filename, text, err := s.service.ExportLibraryText(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondAttachment(w, "text/plain; charset=utf-8", filename, []byte(text))
}

func respondAttachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Sharing

func (s *Server) handleQRCode(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	link := query.Get("url")
	if link == "" {
		respondError(w, http.StatusBadRequest, "url parameter required")
		return
	}

	size := defaultQRSize
	if sizeStr := query.Get("size"); sizeStr != "" {
		n, err := strconv.Atoi(sizeStr)
		if err != nil || n <= 0 || n > maxQRSize {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("size must be between 1 and %d", maxQRSize))
			return
		}
		size = n
	}

	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("cannot encode url: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}
	if s.hub == nil {
		http.Error(w, "live updates disabled", http.StatusServiceUnavailable)
		return
	}

	// Verify session exists
	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
