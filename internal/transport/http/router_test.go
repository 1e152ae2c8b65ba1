package httptransport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ErlanBelekov/travel-buddy/config"
	"github.com/ErlanBelekov/travel-buddy/internal/credential"
	"github.com/ErlanBelekov/travel-buddy/internal/email"
	"github.com/ErlanBelekov/travel-buddy/internal/infrastructure/memory"
	"github.com/ErlanBelekov/travel-buddy/internal/otp"
	"github.com/ErlanBelekov/travel-buddy/internal/session"
	"github.com/ErlanBelekov/travel-buddy/internal/storage"
	"github.com/ErlanBelekov/travel-buddy/internal/throttle"
	httptransport "github.com/ErlanBelekov/travel-buddy/internal/transport/http"
	"github.com/ErlanBelekov/travel-buddy/internal/transport/http/handler"
	"github.com/ErlanBelekov/travel-buddy/internal/usecase"
	"github.com/gin-gonic/gin"
)

const testJWTKey = "router-test-secret-at-least-32-chars"

func init() {
	gin.SetMode(gin.TestMode)
}

// inbox captures outgoing mail so tests can read the code a user would receive.
type inbox struct {
	mu   sync.Mutex
	last map[string]string
}

func (i *inbox) Send(_ context.Context, to, _, body string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.last[to] = body
	return nil
}

var codePattern = regexp.MustCompile(`\b\d{6}\b`)

func (i *inbox) code(t *testing.T, to string) string {
	t.Helper()
	i.mu.Lock()
	defer i.mu.Unlock()
	code := codePattern.FindString(i.last[to])
	if code == "" {
		t.Fatalf("no code mailed to %s", to)
	}
	return code
}

func newTestRouter() (*gin.Engine, *inbox) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mail := &inbox{last: make(map[string]string)}

	accounts := memory.NewAccountRepository()
	authUsecase := usecase.NewAuthUsecase(
		accounts,
		credential.NewHasher(config.HashCostFor("test")),
		otp.NewGenerator(),
		email.NewOTPNotifier(mail, time.Second),
		session.NewJWTIssuer([]byte(testJWTKey), time.Hour),
		throttle.Unlimited{},
		logger,
	)

	r := httptransport.NewRouter(logger,
		handler.NewAuthHandler(authUsecase, logger),
		handler.NewProfileHandler(usecase.NewProfileUsecase(accounts), logger),
		handler.NewTicketHandler(usecase.NewTicketUsecase(memory.NewTicketRepository(), storage.NewMemorySink()), logger),
		[]byte(testJWTKey),
	)
	return r, mail
}

func do(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRouter_SignupVerifyProfileFlow(t *testing.T) {
	r, mail := newTestRouter()

	w := do(r, http.MethodPost, "/api/auth/signup", "",
		`{"name":"Ada","email":"Ada@Example.com","password":"password1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("signup status = %d: %s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}

	code := mail.code(t, "ada@example.com")

	w = do(r, http.MethodPost, "/api/auth/verify-otp", "",
		`{"email":"ada@example.com","otp":"`+code+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("verify status = %d: %s", w.Code, w.Body.String())
	}
	var verified struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &verified); err != nil || verified.Token == "" {
		t.Fatalf("verify body %s: %v", w.Body.String(), err)
	}

	// Same code a second time.
	w = do(r, http.MethodPost, "/api/auth/verify-otp", "",
		`{"email":"ada@example.com","otp":"`+code+`"}`)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "InvalidOTP") {
		t.Errorf("second verify = %d %s, want 400 InvalidOTP", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPatch, "/api/user/profile", verified.Token, `{"location":"Lisbon"}`)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"location":"Lisbon"`) {
		t.Errorf("profile update = %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodPost, "/api/auth/login", "", `{"email":"ada@example.com","password":"password1"}`)
	if w.Code != http.StatusOK {
		t.Errorf("login status = %d: %s", w.Code, w.Body.String())
	}
}

func TestRouter_ResendIsUniform(t *testing.T) {
	r, _ := newTestRouter()

	do(r, http.MethodPost, "/api/auth/signup", "", `{"name":"Ada","email":"ada@example.com","password":"password1"}`)

	pending := do(r, http.MethodPost, "/api/auth/resend-otp", "", `{"email":"ada@example.com"}`)
	unknown := do(r, http.MethodPost, "/api/auth/resend-otp", "", `{"email":"nobody@example.com"}`)

	if pending.Code != http.StatusOK || unknown.Code != http.StatusOK {
		t.Fatalf("status pending=%d unknown=%d, want 200", pending.Code, unknown.Code)
	}
	if !bytes.Equal(pending.Body.Bytes(), unknown.Body.Bytes()) {
		t.Errorf("bodies differ: %s vs %s", pending.Body.String(), unknown.Body.String())
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter()

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/user/profile"},
		{http.MethodPatch, "/api/user/profile"},
		{http.MethodPost, "/api/tickets"},
		{http.MethodGet, "/api/tickets"},
	} {
		w := do(r, tc.method, tc.path, "", `{}`)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s = %d, want 401", tc.method, tc.path, w.Code)
		}
	}
}
