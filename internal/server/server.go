package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"chargecost/internal/config"
	"chargecost/internal/easee"
	"chargecost/internal/ledger"
	"chargecost/internal/spot"
)

// Server exposes the reconciliation engine over HTTP.
type Server struct {
	cfg    *config.Config
	easee  *easee.Client
	prices *spot.Builder

	log  *logrus.Entry
	http *http.Server
}

// New wires a server from config. prices may carry a caching source; it is
// only consulted when price reconciliation is enabled.
func New(cfg *config.Config, easeeClient *easee.Client, prices *spot.Builder) *Server {
	s := &Server{
		cfg:    cfg,
		easee:  easeeClient,
		prices: prices,
		log:    logrus.WithField("component", "server"),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api")
	{
		api.GET("/sites", s.handleSites)
		api.GET("/chargers/:siteID", s.handleChargers)
		api.GET("/report/:chargerID", s.handleReport)
	}

	s.http = &http.Server{
		Addr:    cfg.Server.GetAddress(),
		Handler: router,
	}
	return s
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

// Handler returns the underlying HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// bearerToken pulls the token from the Authorization header, falling back to
// the configured access token.
func (s *Server) bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			return token
		}
	}
	return s.cfg.Easee.AccessToken
}

func errorResponse(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

// statusFor maps upstream failures onto HTTP statuses: auth failures come
// back as 401, everything else as a client-visible 400.
func statusFor(err error) int {
	var authErr *easee.AuthError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized
	}
	return http.StatusBadRequest
}

func (s *Server) handleSites(c *gin.Context) {
	sites, err := s.easee.GetSites(c.Request.Context(), s.bearerToken(c))
	if err != nil {
		errorResponse(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "sites": sites})
}

func (s *Server) handleChargers(c *gin.Context) {
	chargers, err := s.easee.GetChargers(c.Request.Context(), s.bearerToken(c), c.Param("siteID"))
	if err != nil {
		errorResponse(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "chargers": chargers})
}

// handleReport reconciles one charger's month of consumption against spot
// prices. Parameters are validated before anything is fetched.
func (s *Server) handleReport(c *gin.Context) {
	chargerID := c.Param("chargerID")

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, errors.New("year is required and must be an integer"))
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		errorResponse(c, http.StatusBadRequest, errors.New("month is required and must be an integer between 1 and 12"))
		return
	}
	zone := spot.NormalizeZone(c.DefaultQuery("price_zone", s.cfg.Prices.GetZone()))

	ctx := c.Request.Context()
	raw, err := s.easee.GetHourlyConsumption(ctx, s.bearerToken(c), chargerID, year, month)
	if err != nil {
		errorResponse(c, statusFor(err), err)
		return
	}
	records := ledger.NormalizeConsumption(raw)

	if !s.cfg.Prices.Enabled {
		totalKWh, totalPrice := ledger.AggregateFlat(records)
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"total_kwh":   totalKWh,
			"total_price": totalPrice,
			"hourly_data": records,
		})
		return
	}

	table := s.prices.Build(ctx, year, month, zone)
	report := ledger.Aggregate(records, table, zone)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"total_kwh":   report.TotalKWh,
		"total_cost":  report.TotalCost,
		"price_zone":  report.PriceZone,
		"hourly_data": report.HourlyData,
	})
}
