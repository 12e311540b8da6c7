package web

import (
	"html/template"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/a38062an/Atomic-Resource-Broker/internal/application/coordinator"
	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/booking"
	"github.com/a38062an/Atomic-Resource-Broker/internal/domain/slot"
)

// Server is a small control panel over the coordinator: one action per
// coordinator operation plus a dashboard of held and candidate slots.
// Coordinator calls run on the request goroutine; at one outbound
// request per second a page can take a few seconds, which is fine for
// an operator tool.
type Server struct {
	addr         string
	sessions     *SessionManager
	passwordHash string
	co           *coordinator.Coordinator
	tmpl         *template.Template
	log          *zap.Logger
}

func New(addr string, sessions *SessionManager, passwordHash string, co *coordinator.Coordinator, tmpl *template.Template, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{addr: addr, sessions: sessions, passwordHash: passwordHash, co: co, tmpl: tmpl, log: log}
}

func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/", s.requireAuth(s.handleHome))
	mux.HandleFunc("/reserve", s.requireAuth(s.handleReserve))
	mux.HandleFunc("/cancel", s.requireAuth(s.handleCancel))
	mux.HandleFunc("/snipe", s.requireAuth(s.handleSnipe))
	mux.HandleFunc("/cleanup", s.requireAuth(s.handleCleanup))
	mux.HandleFunc("/cancel-all", s.requireAuth(s.handleCancelAll))

	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.logging(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info("listening", zap.String("addr", s.addr))
	return srv.ListenAndServe()
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.sessions.IsAuthed(r) {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r)
	}
}

func writeErr(w http.ResponseWriter, err error, code int) {
	w.WriteHeader(code)
	_, _ = w.Write([]byte(err.Error()))
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("content-type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		writeErr(w, err, http.StatusInternalServerError)
	}
}

type loginData struct {
	Error string
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		s.render(w, "login.html", loginData{})
	case "POST":
		_ = r.ParseForm()
		password := r.FormValue("password")
		if bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)) != nil {
			s.render(w, "login.html", loginData{Error: "Invalid password"})
			return
		}
		if err := s.sessions.SetAuthed(w); err != nil {
			writeErr(w, err, http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusFound)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

type homeData struct {
	Hotel      []slot.ID
	Band       []slot.ID
	Matched    []slot.ID
	Candidates []slot.ID
	Message    string
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	heldA, heldB, err := s.co.Held(r.Context())
	if err != nil {
		writeErr(w, err, http.StatusBadGateway)
		return
	}
	candidates, err := s.co.Candidates(r.Context(), coordinator.SearchLimit)
	if err != nil {
		writeErr(w, err, http.StatusBadGateway)
		return
	}
	s.render(w, "home.html", homeData{
		Hotel:      heldA.Sorted(),
		Band:       heldB.Sorted(),
		Matched:    slot.Matched(heldA, heldB).Sorted(),
		Candidates: candidates,
		Message:    r.URL.Query().Get("msg"),
	})
}

func (s *Server) formSlot(r *http.Request) (slot.ID, booking.Side, bool) {
	_ = r.ParseForm()
	n, err := strconv.Atoi(r.FormValue("slot"))
	if err != nil || n < 1 {
		return 0, "", false
	}
	side := booking.Side(r.FormValue("side"))
	if side == "" {
		side = booking.SideBoth
	}
	if !side.Valid() {
		return 0, "", false
	}
	return slot.ID(n), side, true
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, side, ok := s.formSlot(r)
	if !ok {
		redirectMsg(w, r, "invalid slot or side")
		return
	}
	res, err := s.co.Reserve(r.Context(), id, side)
	if err != nil {
		writeErr(w, err, http.StatusBadGateway)
		return
	}
	redirectMsg(w, r, pairMessage(res, "reserved"))
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id, side, ok := s.formSlot(r)
	if !ok {
		redirectMsg(w, r, "invalid slot or side")
		return
	}
	res, err := s.co.Cancel(r.Context(), id, side)
	if err != nil {
		writeErr(w, err, http.StatusBadGateway)
		return
	}
	redirectMsg(w, r, pairMessage(res, "cancelled"))
}

func (s *Server) handleSnipe(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	res, err := s.co.ReserveEarliest(r.Context())
	if err != nil {
		writeErr(w, err, http.StatusBadGateway)
		return
	}
	msg := res.Status.String()
	if res.Success() {
		msg = msg + " (slot " + strconv.Itoa(int(res.Slot)) + ")"
	}
	if res.Inconsistent {
		msg += " — WARNING: state may be inconsistent"
	}
	redirectMsg(w, r, msg)
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	report, err := s.co.CancelUnmatched(r.Context())
	if err != nil {
		writeErr(w, err, http.StatusBadGateway)
		return
	}
	redirectMsg(w, r, sweepMessage(report))
}

func (s *Server) handleCancelAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	report, err := s.co.CancelAll(r.Context())
	if err != nil {
		writeErr(w, err, http.StatusBadGateway)
		return
	}
	redirectMsg(w, r, sweepMessage(report))
}

func pairMessage(res coordinator.PairResult, verb string) string {
	if res.OK() {
		return "slot " + strconv.Itoa(int(res.Slot)) + " " + verb
	}
	side, err := res.FailedSide()
	msg := "slot " + strconv.Itoa(int(res.Slot)) + " not " + verb + ": " + string(side) + " side: " + err.Error()
	if res.Inconsistent {
		msg += " — WARNING: state may be inconsistent"
	}
	return msg
}

func sweepMessage(report coordinator.SweepReport) string {
	msg := strconv.Itoa(len(report.Released)) + " released, " + strconv.Itoa(len(report.Failed)) + " failed"
	if report.Inconsistent {
		msg += " — WARNING: state may be inconsistent"
	}
	return msg
}

func redirectMsg(w http.ResponseWriter, r *http.Request, msg string) {
	u := "/?msg=" + template.URLQueryEscaper(msg)
	http.Redirect(w, r, u, http.StatusFound)
}
