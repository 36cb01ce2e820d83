package storefront

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"Halwa/internal/cart"
)

const (
	sessionCookie = "halwa_session"
	sessionTTL    = 30 * 24 * time.Hour
)

// TokenMaker signs and checks the session cookie. The only claim is the
// cart key, so a client cannot point its cookie at another session's cart.
// This is cart-key integrity, not user authentication.
type TokenMaker struct {
	secret []byte
	issuer string
}

func NewTokenMaker(secret string) *TokenMaker {
	return &TokenMaker{
		secret: []byte(secret),
		issuer: "halwa-storefront",
	}
}

type sessionClaims struct {
	CartID string `json:"cart_id"`
	jwt.RegisteredClaims
}

func (t *TokenMaker) New(cartID string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := sessionClaims{
		CartID: cartID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cartID,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *TokenMaker) Parse(tokenStr string) (string, error) {
	var c sessionClaims

	token, err := jwt.ParseWithClaims(tokenStr, &c, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return t.secret, nil
	})
	if err != nil || token == nil || !token.Valid || c.CartID == "" {
		return "", errors.New("invalid session token")
	}

	if c.Issuer != "" && c.Issuer != t.issuer {
		return "", errors.New("invalid issuer")
	}

	return c.CartID, nil
}

// StorageFactory builds the blob storage for one cart key.
type StorageFactory func(key string) cart.Storage

// Manager hands out one cart store per session, lazily. Every store shares
// the same storage backend, suffix-keyed off cart.DefaultKey.
type Manager struct {
	// OnCreate, when set, is called once per new store before it is
	// handed out; surfaces hook their subscriptions here.
	OnCreate func(*cart.Store)

	mu      sync.Mutex
	stores  map[string]*cart.Store
	factory StorageFactory
	opts    []cart.Option
}

func NewManager(factory StorageFactory, opts ...cart.Option) *Manager {
	return &Manager{
		stores:  map[string]*cart.Store{},
		factory: factory,
		opts:    opts,
	}
}

func (m *Manager) Store(cartID string) *cart.Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[cartID]; ok {
		return s
	}

	s := cart.NewStore(m.factory(cart.DefaultKey+":"+cartID), m.opts...)
	if m.OnCreate != nil {
		m.OnCreate(s)
	}
	m.stores[cartID] = s
	return s
}

func (m *Manager) Sessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}

type ctxKey string

const cartIDKey ctxKey = "cart_id"

func cartIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(cartIDKey).(string)
	return v, ok
}

// withSession resolves the cart id from the session cookie, minting a fresh
// session when the cookie is missing or fails verification.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(sessionCookie); err == nil {
			id, _ = s.Tokens.Parse(c.Value)
		}

		if id == "" {
			id = uuid.NewString()

			tok, err := s.Tokens.New(id, sessionTTL)
			if err != nil {
				// cart still works for this request, it just won't stick
				s.logWarn("session token issue failed", err)
			} else {
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    tok,
					Path:     "/",
					MaxAge:   int(sessionTTL.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
		}

		ctx := context.WithValue(r.Context(), cartIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
