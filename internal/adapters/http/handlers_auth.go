package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"growfitness/internal/adapters/http/middleware"
	"growfitness/internal/application/orchestrators"
	"growfitness/internal/application/projections"
)

func (s *Server) authRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/refresh", s.handleRefresh)
		r.Post("/forgot-password", s.handleForgotPassword)
		r.Post("/reset-password", s.handleResetPassword)
		r.With(middleware.RequireAuth).Post("/logout", s.handleLogout)
		r.With(middleware.RequireAuth).Get("/me", s.handleMe)
	})
}

func (s *Server) authDeps() orchestrators.AuthDeps {
	return orchestrators.AuthDeps{
		UserStore:   s.Stores.Users,
		Tokens:      s.Tokens,
		Notifier:    s.Notifier,
		RefreshTTL:  s.Config.RefreshTTL,
		ResetTTL:    s.Config.ResetTTL,
		FrontendURL: s.Config.FrontendURL,
		GenerateID:  s.GenerateID,
		Now:         s.Now,
	}
}

// handleLogin exchanges credentials for a token pair (POST /api/auth/login).
// PRE: body is {email, password}
// POST: 200 with {accessToken, refreshToken, user}; 401 on bad credentials or a locked account
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.LoginInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := orchestrators.ExecuteLogin(r.Context(), in, s.authDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRefresh rotates a refresh token (POST /api/auth/refresh).
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.RefreshInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := orchestrators.ExecuteRefresh(r.Context(), in, s.authDeps())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteLogout(r.Context(), actorID(r), s.authDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Logged out successfully")
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, err := projections.QueryGetMe(r.Context(), actorID(r), s.Stores.Users)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// handleForgotPassword always answers the same message so emails cannot be enumerated.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.ForgotPasswordInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := orchestrators.ExecuteForgotPassword(r.Context(), in, s.authDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "If the email exists, a password reset link has been sent")
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var in orchestrators.ResetPasswordInput
	if err := decodeAndValidate(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := orchestrators.ExecuteResetPassword(r.Context(), in, s.authDeps()); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Password reset successfully")
}

// invalidateDashboardOnWrite drops cached dashboard aggregates after any successful mutation.
func (s *Server) invalidateDashboardOnWrite(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		if status := ww.Status(); status != 0 && status < 400 {
			projections.InvalidateDashboard(r.Context(), s.Cache)
		}
	})
}
