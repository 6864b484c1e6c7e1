// Package gatewaytest runs an in-process stand-in for the remote gateway so
// store and board tests can exercise real HTTP round-trips, cookie sessions
// and failure injection without a network.
package gatewaytest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"boardsync/domain"
)

// Secret signs the HS256 session tokens the fake gateway issues.
const Secret = "gatewaytest-secret"

type user struct {
	domain.User
	password string
}

// Server is the fake gateway. All state lives in memory behind one mutex.
type Server struct {
	srv *httptest.Server

	// Publish, when set, receives one notification per mutation, scoped to
	// the affected project.
	Publish func(projectID string, n domain.Notification)

	mu       sync.Mutex
	users    map[string]*user // by email
	sessions map[string]string
	projects []*domain.Project
	tasks    []*domain.Task
	members  []*domain.ProjectMember

	failStatus  int
	failMessage string
}

// New starts the fake gateway.
func New() *Server {
	s := &Server{
		users:    make(map[string]*user),
		sessions: make(map[string]string),
	}
	e := echo.New()
	e.HideBanner = true
	e.Use(s.failInjection)

	e.POST("/login", s.login)
	e.POST("/register", s.register)
	e.POST("/logout", s.logout)
	e.GET("/me", s.authed(s.me))

	e.GET("/projects", s.authed(s.listProjects))
	e.POST("/project", s.authed(s.createProject))
	e.GET("/project/:slug", s.authed(s.projectBySlug))
	e.PUT("/project/:id", s.authed(s.updateProject))
	e.DELETE("/project/:id", s.authed(s.deleteProject))

	e.GET("/tasks/:projectId", s.authed(s.listTasks))
	e.POST("/task", s.authed(s.createTask))
	e.PUT("/task/:id", s.authed(s.updateTask))
	e.DELETE("/task/:id", s.authed(s.deleteTask))

	e.GET("/project-members", s.authed(s.listMembers))
	e.POST("/project-member", s.authed(s.createMember))
	e.GET("/project-member/:id", s.authed(s.memberByID))
	e.DELETE("/project-member/:id", s.authed(s.deleteMember))

	s.srv = httptest.NewServer(e)
	return s
}

// URL is the gateway base address.
func (s *Server) URL() string {
	return s.srv.URL
}

// Close shuts the server down.
func (s *Server) Close() {
	s.srv.Close()
}

// FailNext makes the next request fail with the given status and a flat
// message body, whatever endpoint it hits.
func (s *Server) FailNext(status int, message string) {
	s.mu.Lock()
	s.failStatus = status
	s.failMessage = message
	s.mu.Unlock()
}

// Seed registers a user without going through /register.
func (s *Server) Seed(email, password string) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := &user{User: newUser(email), password: password}
	s.users[email] = u
	return u.User
}

func newUser(email string) domain.User {
	now := time.Now().UTC()
	return domain.User{ID: uuid.NewString(), Email: email, CreatedAt: now, UpdatedAt: now}
}

func (s *Server) failInjection(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		status, message := s.failStatus, s.failMessage
		s.failStatus, s.failMessage = 0, ""
		s.mu.Unlock()
		if status != 0 {
			return c.JSON(status, map[string]string{"message": message})
		}
		return next(c)
	}
}

func (s *Server) publish(projectID string, entity domain.EntityKind, kind domain.MutationKind) {
	if s.Publish != nil {
		s.Publish(projectID, domain.Notification{Entity: entity, Kind: kind})
	}
}

func respond(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, map[string]any{
		"status":  status,
		"message": message,
		"code":    http.StatusText(status),
		"data":    data,
	})
}

// fail writes the nested error shape the gateway uses for domain errors.
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]any{
		"error": map[string]string{"message": message},
	})
}

func (s *Server) mintToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(Secret))
}

func (s *Server) authed(next func(echo.Context, domain.User) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie("token")
		if err != nil || cookie.Value == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		}
		s.mu.Lock()
		userID, ok := s.sessions[cookie.Value]
		var u domain.User
		if ok {
			ok = false
			for _, usr := range s.users {
				if usr.ID == userID {
					u = usr.User
					ok = true
					break
				}
			}
		}
		s.mu.Unlock()
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Not authenticated"})
		}
		return next(c, u)
	}
}
