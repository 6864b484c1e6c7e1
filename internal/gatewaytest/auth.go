package gatewaytest

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"boardsync/domain"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) register(c echo.Context) error {
	var creds credentials
	if err := c.Bind(&creds); err != nil || creds.Email == "" || creds.Password == "" {
		return fail(c, http.StatusBadRequest, "Email and password are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[creds.Email]; exists {
		return fail(c, http.StatusConflict, "Email already registered")
	}
	u := &user{User: newUser(creds.Email), password: creds.Password}
	s.users[creds.Email] = u
	return respond(c, http.StatusCreated, "Registered", u.User)
}

func (s *Server) login(c echo.Context) error {
	var creds credentials
	if err := c.Bind(&creds); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid body")
	}
	s.mu.Lock()
	u, ok := s.users[creds.Email]
	s.mu.Unlock()
	if !ok || u.password != creds.Password {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}
	token, err := s.mintToken(u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "token"})
	}
	s.mu.Lock()
	s.sessions[token] = u.ID
	s.mu.Unlock()
	c.SetCookie(&http.Cookie{Name: "token", Value: token, Path: "/", Expires: time.Now().Add(time.Hour)})
	return respond(c, http.StatusOK, "Logged in", u.User)
}

func (s *Server) logout(c echo.Context) error {
	if cookie, err := c.Cookie("token"); err == nil {
		s.mu.Lock()
		delete(s.sessions, cookie.Value)
		s.mu.Unlock()
	}
	c.SetCookie(&http.Cookie{Name: "token", Value: "", Path: "/", MaxAge: -1})
	return respond(c, http.StatusOK, "Logged out", nil)
}

func (s *Server) me(c echo.Context, u domain.User) error {
	return respond(c, http.StatusOK, "OK", u)
}
