// Package server wires the HTTP surface: router, middleware and the
// JSON handlers for the movie game, collections and profiles.
package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/emreb/cinematch/internal/app"
	"github.com/emreb/cinematch/internal/catalog"
	svcErr "github.com/emreb/cinematch/internal/errors"
	"github.com/emreb/cinematch/internal/repository"
	"github.com/emreb/cinematch/internal/service/collection"
	"github.com/emreb/cinematch/internal/service/game"
)

var limiter = rate.NewLimiter(20, 40)

func rateLimitMiddleware(c *gin.Context) {
	if !limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		c.Abort()
		return
	}
	c.Next()
}

func securityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Next()
}

// noStore marks randomized and per-user responses non-cacheable so a
// mobile client (or a proxy) never replays yesterday's deck.
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Next()
}

// Router builds the gin engine with all routes registered.
func Router(appCtx *app.AppContext, gameSvc *game.Service, colSvc *collection.Service) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(appCtx))
	router.Use(securityHeaders)
	router.Use(rateLimitMiddleware)

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding"}
	corsCfg.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsCfg))

	h := &handlers{appCtx: appCtx, game: gameSvc, col: colSvc}

	router.GET("/healthz", h.healthz)
	router.POST("/login", h.login)
	router.POST("/add-partner", h.addPartner)
	router.GET("/get-partners", h.getPartners)
	router.POST("/delete-partner", h.deletePartner)
	router.GET("/get-game-movies", noStore, h.getGameMovies)
	router.POST("/save-match", h.saveMatch)
	router.GET("/get-library", noStore, h.getLibrary)
	router.GET("/get-profile", h.getProfile)
	router.GET("/get-movie", noStore, h.getMovie)

	return router
}

func requestLogger(appCtx *app.AppContext) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		appCtx.Logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

type handlers struct {
	appCtx *app.AppContext
	game   *game.Service
	col    *collection.Service
}

// fail logs the cause and answers with the taxonomy's status and public
// message. Raw store/classifier errors never reach the body.
func (h *handlers) fail(c *gin.Context, err error) {
	status := svcErr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.appCtx.Logger.Error("handler error", "path", c.Request.URL.Path, "err", err)
	}
	c.JSON(status, gin.H{"error": svcErr.PublicMessage(err)})
}

func (h *handlers) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.col.Login(c.Request.Context(), req.Username)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *handlers) addPartner(c *gin.Context) {
	var req struct {
		UserID uint64 `json:"user_id"`
		Name   string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	partner, err := h.col.AddPartner(c.Request.Context(), req.UserID, req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": partner.ID, "name": partner.Name})
}

func (h *handlers) getPartners(c *gin.Context) {
	userID, err := parseUintQuery(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}

	partners, err := h.col.Partners(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, partners)
}

func (h *handlers) deletePartner(c *gin.Context) {
	var req struct {
		PartnerID uint64 `json:"partner_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.col.DeletePartner(c.Request.Context(), req.PartnerID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "partner deleted"})
}

func (h *handlers) getGameMovies(c *gin.Context) {
	f := catalog.ParseFilter(
		c.Query("min_year"),
		c.Query("max_year"),
		c.Query("genres"),
		c.Query("platforms"),
	)

	movies, err := h.game.Movies(c.Request.Context(), f, catalog.GamePageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, movies)
}

func (h *handlers) saveMatch(c *gin.Context) {
	var req struct {
		UserID    uint64  `json:"user_id"`
		MovieID   uint64  `json:"movie_id"`
		PartnerID *uint64 `json:"partner_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.col.SaveMatch(c.Request.Context(), req.UserID, req.MovieID, req.PartnerID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *handlers) getLibrary(c *gin.Context) {
	userID, err := parseUintQuery(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}

	scope := repository.ScopeAll()
	switch raw := c.Query("partner_id"); raw {
	case "":
	case "solo":
		scope = repository.ScopeSolo()
	default:
		partnerID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			h.fail(c, svcErr.InvalidArgument("partner_id must be a number or \"solo\""))
			return
		}
		scope = repository.ScopePartner(partnerID)
	}

	items, err := h.col.Library(c.Request.Context(), userID, scope)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *handlers) getProfile(c *gin.Context) {
	userID, err := parseUintQuery(c, "user_id")
	if err != nil {
		h.fail(c, err)
		return
	}

	profile, err := h.col.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *handlers) getMovie(c *gin.Context) {
	pick, err := h.game.PickMovie(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pick)
}

func parseUintQuery(c *gin.Context, name string) (uint64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, svcErr.InvalidArgument(name + " is required")
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, svcErr.InvalidArgument(name + " must be a positive number")
	}
	return v, nil
}
