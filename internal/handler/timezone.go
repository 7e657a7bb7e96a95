package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/liubai-app/liubai/internal/timeutil"
)

const timezoneCookieMaxAge = 365 * 24 * 60 * 60

func SetTimezone(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Timezone string `json:"timezone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	tz := strings.TrimSpace(body.Timezone)
	if err := timeutil.ValidateTimezone(tz); err != nil {
		writeError(w, http.StatusBadRequest, "无效的时区")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     timeutil.TimezoneCookie,
		Value:    url.QueryEscape(tz),
		Path:     "/",
		MaxAge:   timezoneCookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, map[string]string{"timezone": tz})
}
