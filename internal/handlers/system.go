package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/shovanmaity/chaos-demo-app/internal/config"
	"github.com/shovanmaity/chaos-demo-app/internal/emissary"
	"github.com/shovanmaity/chaos-demo-app/internal/store"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves the non-todo surface: root banner, liveness and API
// metadata. It reports the emissary's reachability so chaos experiments can
// tell apart "app down" from "emissary down".
type SystemHandler struct {
	cfg      config.Config
	store    *store.Store
	emissary *emissary.Client
	routes   gin.RoutesInfo
}

func NewSystemHandler(cfg config.Config, st *store.Store, em *emissary.Client) *SystemHandler {
	return &SystemHandler{cfg: cfg, store: st, emissary: em}
}

// SetRoutes records the registered routes for /api/info. Called once after
// route registration.
func (h *SystemHandler) SetRoutes(routes gin.RoutesInfo) {
	h.routes = routes
}

// Root godoc
// @Summary      Service banner
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
		"env":     h.cfg.App.Env,
		"docs":    "/swagger/index.html",
		"health":  "/health",
		"api":     "/api",
	})
}

// Health godoc
// @Summary      Liveness check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"application":     h.cfg.App.Name,
		"todos_in_memory": h.store.Count(),
		"emissary":        h.emissary.Probe(c.Request.Context()),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
	})
}

// Info godoc
// @Summary      API metadata and endpoint list
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /info [get]
func (h *SystemHandler) Info(c *gin.Context) {
	type endpoint struct {
		Method string `json:"method"`
		Path   string `json:"path"`
	}
	endpoints := make([]endpoint, 0, len(h.routes))
	for _, r := range h.routes {
		endpoints = append(endpoints, endpoint{Method: r.Method, Path: r.Path})
	}
	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i].Path != endpoints[j].Path {
			return endpoints[i].Path < endpoints[j].Path
		}
		return endpoints[i].Method < endpoints[j].Method
	})

	c.JSON(http.StatusOK, gin.H{
		"application":            h.cfg.App.Name,
		"version":                h.cfg.App.Version,
		"data_retention_seconds": int(h.store.TTL().Seconds()),
		"emissary":               h.emissary.Probe(c.Request.Context()),
		"endpoints":              endpoints,
	})
}
