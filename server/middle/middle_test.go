package middle

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dekarrin/frbs/server/token"
	"github.com/stretchr/testify/assert"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// recordingHandler remembers the auth values it saw in the request context.
type recordingHandler struct {
	called   bool
	loggedIn bool
	client   string
}

func (rh *recordingHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	rh.called = true
	rh.loggedIn = req.Context().Value(AuthLoggedIn).(bool)
	rh.client = req.Context().Value(AuthClient).(string)
	w.WriteHeader(http.StatusOK)
}

func Test_AuthHandler(t *testing.T) {
	goodTok, err := token.Generate(testSecret, "alice", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	badTok, err := token.Generate([]byte("ffffffffffffffffffffffffffffffff"), "mallory", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name           string
		mw             Middleware
		authHeader     string
		expectStatus   int
		expectCalled   bool
		expectLoggedIn bool
		expectClient   string
	}{
		{
			name:           "required, valid token",
			mw:             RequireAuth(testSecret, 0),
			authHeader:     "Bearer " + goodTok,
			expectStatus:   http.StatusOK,
			expectCalled:   true,
			expectLoggedIn: true,
			expectClient:   "alice",
		},
		{
			name:         "required, no token",
			mw:           RequireAuth(testSecret, 0),
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:         "required, token signed with other secret",
			mw:           RequireAuth(testSecret, 0),
			authHeader:   "Bearer " + badTok,
			expectStatus: http.StatusUnauthorized,
		},
		{
			name:           "optional, valid token",
			mw:             OptionalAuth(testSecret, 0, "anonymous"),
			authHeader:     "Bearer " + goodTok,
			expectStatus:   http.StatusOK,
			expectCalled:   true,
			expectLoggedIn: true,
			expectClient:   "alice",
		},
		{
			name:         "optional, no token",
			mw:           OptionalAuth(testSecret, 0, "anonymous"),
			expectStatus: http.StatusOK,
			expectCalled: true,
			expectClient: "anonymous",
		},
		{
			name:         "optional, bad token",
			mw:           OptionalAuth(testSecret, 0, "anonymous"),
			authHeader:   "Bearer " + badTok,
			expectStatus: http.StatusOK,
			expectCalled: true,
			expectClient: "anonymous",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			next := &recordingHandler{}
			h := tc.mw(next)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			assert.Equal(tc.expectStatus, w.Code)
			assert.Equal(tc.expectCalled, next.called)
			if tc.expectCalled {
				assert.Equal(tc.expectLoggedIn, next.loggedIn)
				assert.Equal(tc.expectClient, next.client)
			}
		})
	}
}
