package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/minaret/internal/model"
)

type loader map[int]*model.Admin

func (l loader) GetAdminByID(_ context.Context, id int) (*model.Admin, error) {
	if a, ok := l[id]; ok {
		return a, nil
	}
	return nil, errors.New("admin not found")
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)
	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "other"))
}

func TestGenerateAndParseJWT(t *testing.T) {
	tok, err := GenerateJWT(42, "k1")
	require.NoError(t, err)

	id, err := parseToken(tok, "k1")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = parseToken(tok, "k2")
	assert.Error(t, err)
}

func TestParseJWT_Expired(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 1,
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	_, err = parseToken(tok, "k")
	assert.Error(t, err)
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	admins := loader{1: {ID: 1, Email: "admin@masjid.org"}}
	r.GET("/me", JWTMiddleware("k", admins), func(c *gin.Context) {
		a, ok := GetCurrentAdmin(c)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.String(http.StatusOK, a.Email)
	})
	return r
}

func TestJWTMiddleware(t *testing.T) {
	r := authRouter()
	valid, _ := GenerateJWT(1, "k")
	unknown, _ := GenerateJWT(2, "k")

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + valid, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + valid, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"unknown admin", "Bearer " + unknown, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "admin@masjid.org", w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"name":"UnauthorizedError"`)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestNilNotifier(t *testing.T) {
	var n *Notifier
	assert.NoError(t, n.Publish([]byte(`{}`)))
	n.Close()
}

func TestNotifier_Broker(t *testing.T) {
	broker := os.Getenv("TEST_MQTT_BROKER_URL")
	if broker == "" {
		t.Skip("TEST_MQTT_BROKER_URL not set")
	}

	n, err := NewNotifier(broker, "minaret-test", "minaret/test/prayer-times")
	require.NoError(t, err)
	defer n.Close()

	assert.NoError(t, n.Publish([]byte(`{"prayerTimes":{}}`)))
}
