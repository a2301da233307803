package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"salonpos/models"
	"salonpos/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protected(jwt *utils.JWT, roles ...models.Role) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	r.GET("/x", AuthMiddleware(jwt, roles...), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextUserID))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	jwt := utils.NewJWT("secret", time.Hour)
	r := protected(jwt, models.RoleAdmin, models.RoleManager)

	adminToken, err := jwt.GenerateToken("u1", string(models.RoleAdmin))
	require.NoError(t, err)
	staffToken, err := jwt.GenerateToken("u2", string(models.RoleStaff))
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"no token", "", "", http.StatusUnauthorized},
		{"bad format", "Token abc", "", http.StatusUnauthorized},
		{"garbage", "Bearer abc", "", http.StatusUnauthorized},
		{"wrong role", "Bearer " + staffToken, "", http.StatusForbidden},
		{"header", "Bearer " + adminToken, "", http.StatusOK},
		{"cookie", "", adminToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "token", Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusOK {
				require.Equal(t, "u1", w.Body.String())
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := InitMetrics(reg)

	r := gin.New()
	r.Use(m.PrometheusMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", MetricsHandler(reg, []string{"192.0.2.1"}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	m.Checkout("success")
	m.Checkout("success")
	m.LoyaltyPoints("Earned", 30)
	m.LoyaltyPoints("Earned", 0)
	m.LowStock(3)
	m.SMS("sent")
	m.SMS("failed")
	m.SMS("sent")

	// httptest requests come from 192.0.2.1
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	for _, line := range []string{
		`http_requests_total{method="GET",path="/ping",status="204"} 1`,
		`pos_checkouts_total{result="success"} 2`,
		`pos_loyalty_points_total{type="Earned"} 30`,
		`pos_low_stock_items 3`,
		`pos_sms_total{result="sent"} 2`,
		`pos_sms_total{result="failed"} 1`,
	} {
		require.True(t, strings.Contains(body, line), line)
	}

	r2 := gin.New()
	r2.GET("/metrics", MetricsHandler(reg, []string{"10.0.0.9"}))
	w = httptest.NewRecorder()
	r2.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusForbidden, w.Code)
}
