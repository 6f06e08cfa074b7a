package e2e

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/you/leadsvc/internal/app"
	"github.com/you/leadsvc/internal/client"
	"github.com/you/leadsvc/internal/config"
)

const adminEmail = "admin@shreeai.test"

// TestSuite runs the fully wired service against in-memory SQLite and miniredis
type TestSuite struct {
	Container *app.Container
	Server    *httptest.Server
	Redis     *miniredis.Miniredis
}

// SetupTestSuite builds a container and serves its router on a local listener
func SetupTestSuite(t *testing.T) *TestSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)

	file := config.Defaults()
	file.Database = config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:"}
	file.Redis.Addr = mr.Addr()
	file.JWT.Secret = "e2e-secret"
	file.App.AdminEmails = []string{adminEmail}
	file.Booking.Timezone = "UTC"
	file.RateLimit.Limit = 1000

	cfg, err := config.Build(file)
	require.NoError(t, err)

	container, err := app.NewContainer(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	srv := httptest.NewServer(container.Router())
	t.Cleanup(func() {
		srv.Close()
		_ = container.Close()
	})

	return &TestSuite{Container: container, Server: srv, Redis: mr}
}

// NewClient returns an API client with no token
func (s *TestSuite) NewClient() *client.Client {
	return client.New(s.Server.URL, client.WithHTTPClient(s.Server.Client()))
}
