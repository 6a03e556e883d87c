package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-chat-admin/internal/httputil"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func HandleLogin(iss *Issuer, w http.ResponseWriter, r *http.Request) error {
	var req loginReq
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		return httputil.BadRequest("invalid request body")
	}
	sess, err := iss.Login(req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		slog.WarnContext(r.Context(), "admin login rejected", "request_id", httputil.RequestID(r.Context()))
		return httputil.Unauthorized(err.Error())
	}
	if err != nil {
		return err
	}
	slog.InfoContext(r.Context(), "admin login", "username", sess.Username, "request_id", httputil.RequestID(r.Context()))
	return httputil.WriteJSON(w, http.StatusOK, sess)
}

// HandleMe echoes the identity of the presented token.
func HandleMe(w http.ResponseWriter, r *http.Request) error {
	username, ok := httputil.AdminFromContext(r.Context())
	if !ok {
		return httputil.Unauthorized(httputil.MsgUnauthorized)
	}
	return httputil.WriteJSON(w, http.StatusOK, map[string]string{"username": username})
}
