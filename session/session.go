package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/waste-point/web-go/models"
)

const CookieName = "wp_session"

var ErrNoSession = errors.New("no active session")

// Context is the authenticated identity behind one browser session. It is
// passed explicitly to the workflows that need it.
type Context struct {
	SessionID string
	UserID    uint
	Name      string
	Role      models.Role
}

func (c *Context) Can(capability models.Capability) bool {
	return c != nil && c.Role.Can(capability)
}

func (c *Context) IsAdmin() bool {
	return c.Can(models.CapabilityTriageReports)
}

type claims struct {
	Name string      `json:"name"`
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(store Store, secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

// Secure reports whether cookies are marked Secure.
func (m *Manager) Secure() bool {
	return m.secure
}

// Start records a new session for user and returns its signed token.
func (m *Manager) Start(ctx context.Context, user *models.User) (string, *Context, error) {
	now := m.now()
	id := uuid.NewString()
	expiresAt := now.Add(m.ttl)

	if err := m.store.Create(ctx, id, user.ID, expiresAt); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name: user.Name,
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session: %w", err)
	}

	return signed, &Context{SessionID: id, UserID: user.ID, Name: user.Name, Role: user.Role}, nil
}

// Load verifies the token and that its session has not been ended.
func (m *Manager) Load(ctx context.Context, token string) (*Context, error) {
	if token == "" {
		return nil, ErrNoSession
	}

	var cl claims
	parsed, err := jwt.ParseWithClaims(token, &cl, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrNoSession
	}

	userID, err := strconv.ParseUint(cl.Subject, 10, 64)
	if err != nil || cl.ID == "" {
		return nil, ErrNoSession
	}

	active, err := m.store.Exists(ctx, cl.ID)
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}
	if !active {
		return nil, ErrNoSession
	}

	return &Context{SessionID: cl.ID, UserID: uint(userID), Name: cl.Name, Role: cl.Role}, nil
}

// End removes the server-side record so the token stops working.
func (m *Manager) End(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return m.store.Delete(ctx, sessionID)
}

// Login starts a session and sets the cookie.
func (m *Manager) Login(c *gin.Context, user *models.User) (*Context, error) {
	token, sess, err := m.Start(c.Request.Context(), user)
	if err != nil {
		return nil, err
	}
	m.setCookie(c, token, int(m.ttl.Seconds()))
	return sess, nil
}

// Logout ends the session behind the request cookie, if any, and expires the cookie.
func (m *Manager) Logout(c *gin.Context) error {
	defer m.setCookie(c, "", -1)

	sess, err := m.FromRequest(c)
	if errors.Is(err, ErrNoSession) {
		return nil
	}
	if err != nil {
		return err
	}
	return m.End(c.Request.Context(), sess.SessionID)
}

// FromRequest loads the session named by the request cookie.
func (m *Manager) FromRequest(c *gin.Context) (*Context, error) {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoSession
	}
	return m.Load(c.Request.Context(), token)
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
