package services

import (
	"errors"
	"net/http"
	"strconv"

	"Marquee/config"

	"github.com/gorilla/sessions"
)

const (
	sessionName   = "marquee-session"
	sessionUserID = "user_id"
)

var ErrNoSession = errors.New("no authenticated session")

var store *sessions.CookieStore

func InitSessionStore(cfg *config.Config) {
	store = sessions.NewCookieStore([]byte(cfg.SessionSecret))

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
}

func GetSession(r *http.Request) (*sessions.Session, error) {
	return store.Get(r, sessionName)
}

func SaveSession(w http.ResponseWriter, r *http.Request, session *sessions.Session) error {
	return session.Save(r, w)
}

// SetUserSession marks the request's session as belonging to userID.
func SetUserSession(w http.ResponseWriter, r *http.Request, userID int64) error {
	session, err := GetSession(r)
	if err != nil {
		// A cookie signed with an old secret still yields a fresh session.
		if session == nil {
			return err
		}
	}
	session.Values[sessionUserID] = userID
	return SaveSession(w, r, session)
}

func ClearSession(w http.ResponseWriter, r *http.Request) error {
	session, err := GetSession(r)
	if session == nil {
		return err
	}
	session.Values = make(map[any]any)
	session.Options.MaxAge = -1
	return SaveSession(w, r, session)
}

// SessionUserID returns the user id stored in the request's session.
func SessionUserID(r *http.Request) (int64, error) {
	session, err := GetSession(r)
	if err != nil {
		return 0, ErrNoSession
	}
	v, ok := session.Values[sessionUserID]
	if !ok {
		return 0, ErrNoSession
	}
	switch id := v.(type) {
	case int64:
		return id, nil
	case int:
		return int64(id), nil
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0, ErrNoSession
		}
		return n, nil
	}
	return 0, ErrNoSession
}
