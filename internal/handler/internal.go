package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/liubai-app/liubai/internal/model"
)

type UserUpserter interface {
	Upsert(ctx context.Context, email, name string) (*model.User, error)
}

type InternalHandler struct {
	users UserUpserter
}

func NewInternalHandler(users UserUpserter) *InternalHandler {
	return &InternalHandler{users: users}
}

// UpsertUser returns the id for an email, creating the user on first sight. Called by the
// web app's session callback behind middleware.InternalSecret.
func (h *InternalHandler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string  `json:"email"`
		Name  *string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || strings.TrimSpace(body.Email) == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	email := strings.ToLower(strings.TrimSpace(body.Email))
	name := ""
	if body.Name != nil {
		name = strings.TrimSpace(*body.Name)
	}
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}

	user, err := h.users.Upsert(r.Context(), email, name)
	if err != nil {
		writeRepoError(w, err)
		return
	}
	writeJSON(w, map[string]string{"id": user.ID})
}
