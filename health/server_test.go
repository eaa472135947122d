package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/suzume/renamebot/session"
)

func TestRootEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := NewServer(":0", session.NewStore(time.Hour, nil), nil)
	engine := srv.setupRoutes()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != "Bot is running!" {
		t.Errorf("body = %q", w.Body.String())
	}
}
