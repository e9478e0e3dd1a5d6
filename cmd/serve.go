package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Albumate/Albumate-Back/auth"
	"github.com/Albumate/Albumate-Back/config"
	"github.com/Albumate/Albumate-Back/db"
	"github.com/Albumate/Albumate-Back/handlers"
	"github.com/Albumate/Albumate-Back/logger"
	"github.com/Albumate/Albumate-Back/models"
	"github.com/Albumate/Albumate-Back/storage"
	"github.com/Albumate/Albumate-Back/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

const shutdownTimeout = 15 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newRouter() *gin.Engine {
	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(gin.Logger())
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        30 * 24 * time.Hour,
	}))
	if !config.DEBUG_MODE {
		// photos are compressed already
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/uploads", "/ws"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that
	handlers.SetupRoutes(router)
	return router
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db.Init()
	if err := models.Init(); err != nil {
		logger.Fatal("migrate database", logger.ErrorField(err))
	}
	if err := storage.Init(); err != nil {
		logger.Fatal("set up storage", logger.ErrorField(err))
	}
	if err := auth.Init(ctx); err != nil {
		logger.Fatal("set up tokens", logger.ErrorField(err))
	}

	router := newRouter()
	var err error
	if config.TLS_DOMAINS != "" {
		logger.Info("serving with TLS", logger.String("domains", config.TLS_DOMAINS))
		err = autotls.RunWithContext(ctx, router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		var ln net.Listener
		if ln, err = net.Listen("tcp", config.BIND_ADDRESS); err == nil {
			logger.Info("serving", logger.String("address", ln.Addr().String()))
			err = serveHTTP(ctx, &http.Server{Handler: router}, ln)
		}
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server stopped", logger.ErrorField(err))
	}
	logger.Info("server stopped")
}

// serveHTTP serves until ctx is done, then waits up to shutdownTimeout for requests in flight
func serveHTTP(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errs := make(chan error, 1)
	go func() {
		errs <- srv.Serve(ln)
	}()
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
