package app

import (
	"context"
	"time"

	"github.com/shovanmaity/chaos-demo-app/internal/config"
	"github.com/shovanmaity/chaos-demo-app/internal/emissary"
	"github.com/shovanmaity/chaos-demo-app/internal/events"
	"github.com/shovanmaity/chaos-demo-app/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// broadcastInterval is how often the websocket hub pushes a snapshot.
const broadcastInterval = 5 * time.Second

type App struct {
	cfg      config.Config
	store    *store.Store
	emissary *emissary.Client
	hub      *events.Hub
	router   *gin.Engine
}

func New(cfg config.Config) *App {
	a := &App{cfg: cfg}
	a.store = store.New(cfg.Store.TTL.Duration())
	a.emissary = emissary.New(cfg.Emissary.URL, cfg.Emissary.ProbeTimeout.Duration())
	a.hub = events.New(a.store, broadcastInterval)
	a.router = newRouter(cfg, a.store, a.emissary, a.hub)
	return a
}

func (a *App) Router() *gin.Engine { return a.router }

func (a *App) Emissary() *emissary.Client { return a.emissary }

// Run starts the background loops (store janitor and websocket hub) and
// blocks until ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	go a.hub.Run(ctx)
	a.store.Run(ctx, a.cfg.Store.SweepInterval.Duration())
}

func newRouter(cfg config.Config, st *store.Store, em *emissary.Client, hub *events.Hub) *gin.Engine {
	r := gin.Default()

	r.Use(requestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, st, em, hub)
	return r
}
