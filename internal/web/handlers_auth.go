package web

import (
	"crypto/rand"
	"errors"
	"math/big"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"marketinsights/internal/storage"
)

const sessionCookie = "session"

// handleHome serves the dashboard for an authenticated session and the
// login page otherwise.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	page := "login.html"
	if s.sessionEmail(r) != "" {
		page = "index.html"
	}
	http.ServeFile(w, r, filepath.Join(s.config.Server.StaticDir, page))
}

// sessionEmail resolves the session token from the cookie, falling back to
// the ?session= query parameter for cookie-restricted environments.
func (s *Server) sessionEmail(r *http.Request) string {
	token := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		token = r.URL.Query().Get(sessionCookie)
	}
	if token == "" {
		return ""
	}

	sess, err := s.repo.GetSession(token, time.Now())
	if err != nil {
		return ""
	}
	return sess.Email
}

func (s *Server) handleRequestCode(w http.ResponseWriter, r *http.Request) {
	var req emailStartRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validCheck(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid email")
		return
	}

	code, err := generateCode()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "code generation failed")
		return
	}

	if err := s.repo.EnsureUser(req.Email); err != nil {
		respondError(w, http.StatusInternalServerError, "store user failed")
		return
	}
	if err := s.repo.InsertEmailCode(req.Email, code, s.config.CodeTTL()); err != nil {
		respondError(w, http.StatusInternalServerError, "store code failed")
		return
	}

	sent := false
	smtpFailed := false
	if s.mailer.Configured() {
		if err := s.mailer.SendCode(req.Email, code); err != nil {
			s.logger.Warn("SMTP send failed", "error", err)
			smtpFailed = true
		} else {
			sent = true
		}
	}

	out := map[string]any{"ok": true, "sent": sent}
	if !sent {
		// Dev mode: no mail went out, so hand the code back to the caller
		// and push it to the operator channel.
		s.logger.Info("dev mode sign-in code", "email", req.Email, "code", code)
		s.notifier.NotifySignInCode(req.Email, code)
		out["dev_code"] = code
		if smtpFailed {
			out["error"] = "smtp_failed"
		}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var req emailVerifyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Code = strings.TrimSpace(req.Code)
	if err := validCheck(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid email or code")
		return
	}

	if err := s.repo.VerifyEmailCode(req.Email, req.Code, time.Now()); err != nil {
		if errors.Is(err, storage.ErrCodeInvalid) {
			respondError(w, http.StatusBadRequest, "Invalid or expired code")
			return
		}
		respondError(w, http.StatusInternalServerError, "verify code failed")
		return
	}

	token := uuid.NewString()
	if err := s.repo.CreateSession(req.Email, token, s.config.SessionTTL()); err != nil {
		respondError(w, http.StatusInternalServerError, "create session failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.SessionTTL().Seconds()),
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<html><head><meta http-equiv='refresh' content='0; url=/'/></head><body>OK</body></html>"))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		token = r.URL.Query().Get(sessionCookie)
	}
	if token != "" {
		if _, err := s.repo.DeleteSession(token); err != nil {
			s.logger.Warn("delete session failed", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:   sessionCookie,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

// generateCode returns a 6-digit numeric one-time code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	code := n.String()
	for len(code) < 6 {
		code = "0" + code
	}
	return code, nil
}
