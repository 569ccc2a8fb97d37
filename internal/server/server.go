// Package server exposes the journal as JSON over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/classify"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/journal"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/model"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/questions"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/score"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/session"
	"github.com/PerkyG/Tradingbot-TeeAa-sub000/internal/timecalc"
)

// Server holds the collaborators behind the HTTP handlers.
type Server struct {
	Journal   *journal.Service
	Scores    *score.Service
	Questions *questions.Bank
	Sessions  session.Store
	Logger    *slog.Logger
	// Secret enables bearer-token auth on /api when non-empty.
	Secret         []byte
	AllowedOrigins []string
	Now            func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Handler returns the routed, CORS-wrapped handler.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("POST /api/classify", s.handleClassify)
	api.HandleFunc("POST /api/answers", s.handleAnswer)
	api.HandleFunc("GET /api/score", s.handleScore)
	api.HandleFunc("GET /api/entries", s.handleEntries)
	api.HandleFunc("GET /api/questions", s.handleQuestions)
	api.HandleFunc("POST /api/sessions/{id}/next", s.handleSessionNext)
	api.HandleFunc("POST /api/sessions/{id}/answer", s.handleSessionAnswer)

	var apiHandler http.Handler = api
	if len(s.Secret) > 0 {
		apiHandler = requireToken(s.Secret, api)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/api/", apiHandler)

	origins := s.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(mux)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// date returns the ?date= parameter, defaulting to today.
func (s *Server) date(r *http.Request) (string, error) {
	d := r.URL.Query().Get("date")
	if d == "" {
		return timecalc.DateKey(s.now()), nil
	}
	if _, err := timecalc.ParseDate(d, time.UTC); err != nil {
		return "", err
	}
	return d, nil
}

// slot returns the ?slot= parameter, defaulting to the current bucket.
func (s *Server) slot(r *http.Request) (model.TimeOfDay, bool) {
	v := r.URL.Query().Get("slot")
	if v == "" {
		return timecalc.Bucket(s.now()), true
	}
	return model.ParseTimeOfDay(v)
}

type classifyRequest struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Options  []string `json:"options"`
	Kind     string   `json:"kind"`
}

type classifyResponse struct {
	Color  model.Color `json:"color"`
	Weight int         `json:"weight"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	kind := model.KindMultipleChoice
	if req.Kind != "" {
		k, ok := model.ParseKind(req.Kind)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown question kind")
			return
		}
		kind = k
	}
	c := s.Journal.Classifier.Classify(req.Question, req.Answer, req.Options, kind)
	writeJSON(w, http.StatusOK, classifyResponse{Color: c, Weight: classify.Weight(c)})
}

type answerResponse struct {
	Entry      model.JournalEntry       `json:"entry"`
	Summary    *model.DailyScoreSummary `json:"summary,omitempty"`
	ScoreError string                   `json:"score_error,omitempty"`
}

type persistFailure struct {
	Error   string             `json:"error"`
	Entry   model.JournalEntry `json:"entry"`
	Pending bool               `json:"pending"`
}

func (s *Server) record(w http.ResponseWriter, r *http.Request, a journal.Answer) bool {
	res, err := s.Journal.Record(r.Context(), a)
	var perr *journal.PersistError
	switch {
	case errors.Is(err, journal.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	case errors.As(err, &perr):
		writeJSON(w, http.StatusBadGateway, persistFailure{Error: "entry could not be stored", Entry: perr.Entry, Pending: perr.Queued})
		return true
	case err != nil:
		s.logger().Error("recording answer", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return false
	}

	resp := answerResponse{Entry: res.Entry}
	if res.ScoreErr != nil {
		resp.ScoreError = "score unavailable"
	} else {
		resp.Summary = &res.Summary
	}
	writeJSON(w, http.StatusCreated, resp)
	return true
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var a journal.Answer
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	s.record(w, r, a)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	date, err := s.date(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	summary, err := s.Scores.ForDate(r.Context(), date)
	if err != nil {
		s.logger().Error("reading score", "date", date, "error", err)
		writeError(w, http.StatusBadGateway, "journal store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	date, err := s.date(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entries, err := s.Scores.Entries(r.Context(), date)
	if err != nil {
		s.logger().Error("reading entries", "date", date, "error", err)
		writeError(w, http.StatusBadGateway, "journal store unavailable")
		return
	}
	if entries == nil {
		entries = []model.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"date": date, "entries": entries})
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("slot") == "" {
		writeJSON(w, http.StatusOK, s.Questions.Questions)
		return
	}
	tod, ok := s.slot(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown slot")
		return
	}
	qs := s.Questions.ForSlot(tod)
	if qs == nil {
		qs = []questions.Question{}
	}
	writeJSON(w, http.StatusOK, qs)
}

func (s *Server) handleSessionNext(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	tod, ok := s.slot(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown slot")
		return
	}
	entries, err := s.Scores.Entries(r.Context(), timecalc.DateKey(s.now()))
	if err != nil {
		writeError(w, http.StatusBadGateway, "journal store unavailable")
		return
	}
	q, ok := s.Questions.Next(tod, s.Questions.Answered(entries))
	if !ok {
		s.Sessions.Expire(id)
		writeJSON(w, http.StatusOK, map[string]any{"done": true})
		return
	}
	s.Sessions.Set(id, session.State{
		QuestionID: q.ID,
		Question:   q.Text,
		Options:    q.Options,
		Kind:       q.Kind,
		Category:   q.Category,
		AskedAt:    s.now(),
	})
	writeJSON(w, http.StatusOK, map[string]any{"done": false, "question": q})
}

func (s *Server) handleSessionAnswer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	st, ok := s.Sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no open question for this session")
		return
	}
	var body struct {
		Answer string       `json:"answer"`
		Media  *model.Media `json:"media,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	done := s.record(w, r, journal.Answer{
		Question: st.Question,
		Answer:   body.Answer,
		Options:  st.Options,
		Kind:     st.Kind,
		Category: st.Category,
		Media:    body.Media,
	})
	if done {
		s.Sessions.Expire(id)
	}
}
