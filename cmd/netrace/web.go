// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/netrace/netrace/internal/pkg/logging"
	"github.com/netrace/netrace/internal/pkg/must"
	"github.com/netrace/netrace/pkg/build"
	"github.com/netrace/netrace/pkg/rest"
	"github.com/netrace/netrace/pkg/service"
	"github.com/spf13/cobra"
)

var webCmd = &cobra.Command{
	Use:   "web [flags]",
	Short: "Start the REST server.",
	Long: `Start the REST server.

The server starts even if the first load fails, it retries in the background
and reports status 503 until a graph is loaded.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		if *configFlag == "" {
			must.Must(errNoConfig)
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc := service.New(*configFlag, nil)
		go func() {
			if err := svc.Load(ctx); err != nil {
				if err := svc.Reload(ctx); err != nil {
					log.Error(err, "Giving up on initial load")
				}
			}
			if *watchFlag {
				if err := svc.Watch(ctx); err != nil {
					log.Error(err, "Watch stopped")
				}
			}
		}()

		gin.DefaultWriter = logging.LogWriter(3)
		gin.DefaultErrorWriter = logging.LogWriter(0)
		gin.SetMode(gin.ReleaseMode)
		gin.DisableConsoleColor()
		router := gin.New()
		router.Use(gin.Recovery())
		_ = must.Must1(rest.New(svc, router))
		if *profileWebFlag {
			rest.WebProfile(router)
		}
		s := &http.Server{Addr: *httpFlag, Handler: router, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			<-ctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), *shutdownFlag)
			defer cancel()
			if err := s.Shutdown(shutdown); err != nil {
				log.Error(err, "Shutdown")
			}
		}()
		log.Info("Listening for http", "addr", s.Addr, "version", build.Version, "config", *configFlag, "watch", *watchFlag)
		if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			must.Must(err)
		}
		log.Info("Server stopped")
	},
}

var (
	httpFlag       *string
	watchFlag      *bool
	profileWebFlag *bool
	shutdownFlag   *time.Duration
)

func init() {
	rootCmd.AddCommand(webCmd)
	httpFlag = webCmd.Flags().String("http", ":8080", "host:port address for the http listener")
	watchFlag = webCmd.Flags().Bool("watch", false, "Reload when the configuration or local data files change")
	profileWebFlag = webCmd.Flags().Bool("profile-web", false, "Serve profiling data at /debug/pprof")
	shutdownFlag = webCmd.Flags().Duration("shutdown-timeout", 5*time.Second, "Time allowed for requests to finish on shutdown")
}
