// server/handlers.go
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/cratequest/gameserver/logger"
	"github.com/cratequest/gameserver/persistence"
	"github.com/cratequest/gameserver/timer"
)

type checkAnswerRequest struct {
	QID        int    `json:"qId"`
	UserAnswer string `json:"userAnswer"`
}

type checkAnswerResponse struct {
	Success bool `json:"success"`
}

type endGameRequest struct {
	Timer    string `json:"timer"`
	Crates   int    `json:"crates"`
	TeamName string `json:"teamName"`
}

type registerTeamRequest struct {
	AdminPass string `json:"adminPass"`
	TeamName  string `json:"teamName"`
}

type timerResponse struct {
	Timer string `json:"timer"`
}

type timerErrorResponse struct {
	Error string `json:"error"`
}

// GET /timer?socketId=<id>
func (s *GameServer) handleGetTimer(w http.ResponseWriter, r *http.Request) {
	socketID := r.URL.Query().Get("socketId")

	value, err := s.engine.CurrentValue(socketID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, timerErrorResponse{
			Error: "Timer not found for the specified user",
		})
		return
	}
	writeJSON(w, http.StatusOK, timerResponse{Timer: value})
}

// POST /game — case-insensitive exact match against the stored answer.
func (s *GameServer) handleCheckAnswer(w http.ResponseWriter, r *http.Request) {
	var req checkAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if s.monitor != nil {
		s.monitor.IncAnswerChecks()
	}

	start := time.Now()
	answer, err := s.store.Answer(r.Context(), req.QID)
	s.observeStore(start)
	if err != nil {
		if errors.Is(err, persistence.ErrQuestionNotFound) {
			writeError(w, http.StatusNotFound, "Question not found")
			return
		}
		logger.Log.Errorf("Failed to check answer for question %d: %v", req.QID, err)
		writeError(w, http.StatusInternalServerError, "Failed to check answer")
		return
	}

	success := strings.EqualFold(answer, req.UserAnswer)
	writeJSON(w, http.StatusOK, checkAnswerResponse{Success: success})
}

// POST /endgame — records the client-submitted final score and refreshes
// the admin view.
func (s *GameServer) handleEndGame(w http.ResponseWriter, r *http.Request) {
	var req endGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TeamName == "" {
		writeError(w, http.StatusBadRequest, "Missing team name")
		return
	}

	timeLeft, err := timer.ParseClock(req.Timer)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Malformed timer value")
		return
	}
	timeTaken := s.totalGameTime - timeLeft
	if timeTaken < 0 {
		writeError(w, http.StatusBadRequest, "Timer value exceeds total game time")
		return
	}

	start := time.Now()
	err = s.store.UpdateScore(r.Context(), req.TeamName, timeTaken, req.Crates)
	s.observeStore(start)
	if err != nil {
		if errors.Is(err, persistence.ErrTeamNotFound) {
			writeError(w, http.StatusNotFound, "Team not found")
			return
		}
		logger.Log.Errorf("Failed to update score for team %s: %v", req.TeamName, err)
		writeError(w, http.StatusInternalServerError, "Failed to update score")
		return
	}

	s.pushLeaderboard(r.Context())
	writeJSON(w, http.StatusOK, StatusResponse{Description: "OK"})
}

// POST / — password gate plus team-name uniqueness check. A fresh team
// entry is created zeroed; an existing one is left untouched.
func (s *GameServer) handleRegisterTeam(w http.ResponseWriter, r *http.Request) {
	var req registerTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.AdminPass != s.adminPassword {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if req.TeamName == "" {
		writeError(w, http.StatusBadRequest, "Missing team name")
		return
	}

	start := time.Now()
	_, existed, err := s.store.EnsureTeam(r.Context(), req.TeamName)
	s.observeStore(start)
	if err != nil {
		logger.Log.Errorf("Failed to register team %s: %v", req.TeamName, err)
		writeError(w, http.StatusInternalServerError, "Error creating team")
		return
	}
	if existed {
		writeError(w, http.StatusConflict, "Team name already exists")
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Description: "Authorized"})
}

// GET /questions — answers withheld.
func (s *GameServer) handleGetQuestions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	questions, err := s.store.Questions(r.Context())
	s.observeStore(start)
	if err != nil {
		logger.Log.Errorf("Failed to fetch questions: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch questions")
		return
	}
	writeJSON(w, http.StatusOK, questions)
}

// GET /leaderboard — same ranking the admin receives over the channel.
func (s *GameServer) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entries, err := s.store.GetRanked(r.Context())
	s.observeStore(start)
	if err != nil {
		logger.Log.Errorf("Failed to fetch leaderboard: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch leaderboard")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *GameServer) observeStore(start time.Time) {
	if s.monitor != nil {
		s.monitor.ObserveStoreLatency(time.Since(start))
	}
}
