package api

import (
	"errors"
	"net/http"

	"github.com/wricardo/flying-chess/game/catalog"
	"github.com/wricardo/flying-chess/game/engine"
	"github.com/wricardo/flying-chess/game/service"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// errorCodes lists the errors caused by bad input, checked in order
var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},
	{catalog.ErrMapNotFound, http.StatusNotFound, "map_not_found"},
	{catalog.ErrLibraryNotFound, http.StatusNotFound, "library_not_found"},
	{engine.ErrInvalidSquare, http.StatusBadRequest, "invalid_square"},
	{engine.ErrInvalidMap, http.StatusBadRequest, "invalid_map"},
	{engine.ErrInvalidLibrary, http.StatusBadRequest, "invalid_library"},
	{engine.ErrEmptyLibrary, http.StatusBadRequest, "empty_library"},
	{engine.ErrUnknownMode, http.StatusBadRequest, "unknown_mode"},
	{engine.ErrCapacityExceeded, http.StatusBadRequest, "capacity_exceeded"},
	{engine.ErrNoMapSelected, http.StatusBadRequest, "no_map_selected"},
	{engine.ErrNoPlayers, http.StatusBadRequest, "no_players"},
	{engine.ErrInvalidPlayerCount, http.StatusBadRequest, "invalid_player_count"},
	{engine.ErrMalformedImport, http.StatusBadRequest, "malformed_import"},
	{catalog.ErrUnknownFormat, http.StatusBadRequest, "unknown_format"},
}

// classifyError returns the HTTP status and machine code for err
func classifyError(err error) (int, string) {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.status, ec.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}
