// controllers/srv.go
package controllers

import (
	"net/http"
	"strings"
	"time"

	"radio_rental_tool/app"
	"radio_rental_tool/db"
	"radio_rental_tool/session"
)

type Srv struct {
	Repo      *db.Repo
	AdminSess *session.AdminSessionStore
	WebOrigin string
	Cfg       app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:      db.NewRepo(a.DB),
		AdminSess: a.AdminSessions(),
		WebOrigin: a.Config.WebOrigin,
		Cfg:       a.Config,
	}
}

// --- helpers ---

func (s *Srv) setAdminCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AdminSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

// cleanPhone strips dashes and surrounding whitespace from a phone number.
func cleanPhone(phone string) string {
	return strings.TrimSpace(strings.ReplaceAll(phone, "-", ""))
}

// formatPhone renders a cleaned number back in dashed form for display.
func formatPhone(phone string) string {
	p := cleanPhone(phone)
	switch len(p) {
	case 11:
		return p[:3] + "-" + p[3:7] + "-" + p[7:]
	case 10:
		return p[:3] + "-" + p[3:6] + "-" + p[6:]
	}
	return phone
}
