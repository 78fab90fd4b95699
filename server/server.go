// Package server exposes buffered media and the resolution pipeline over HTTP.
//
// The player shell runs it on a loopback port so mpv can read buffered blobs by URL.
// "vidlink serve" additionally mounts the JSON API for other clients.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/mo"
	"github.com/vidlink-cli/vidlink/blob"
	"github.com/vidlink-cli/vidlink/constant"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/source"
)

// Parser resolves pasted text.
type Parser interface {
	Parse(ctx context.Context, raw string) (*source.Data, error)
}

// Enricher decorates a resolved video.
type Enricher interface {
	Enrich(ctx context.Context, title string, platform source.Platform) source.Enrichment
}

// Server serves blobs and, optionally, the API.
type Server struct {
	engine   *gin.Engine
	store    *blob.Store
	parser   mo.Option[Parser]
	enricher mo.Option[Enricher]
	origins  []string

	http     *http.Server
	listener net.Listener
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// New returns a server for store with the health and blob routes mounted.
func New(store *blob.Store) *Server {
	s := &Server{
		engine:   gin.New(),
		store:    store,
		parser:   mo.None[Parser](),
		enricher: mo.None[Enricher](),
	}

	s.engine.Use(gin.Recovery(), requestLogger())
	s.engine.GET("/healthz", s.health)
	s.engine.GET("/blob/:id", s.blob)
	s.engine.HEAD("/blob/:id", s.blob)

	return s
}

// WithOrigins limits which browser origins may use the API. Call it before WithAPI.
func (s *Server) WithOrigins(origins []string) *Server {
	s.origins = origins
	return s
}

// WithAPI mounts the JSON API.
// Without configured origins any browser may call parse and enrich.
func (s *Server) WithAPI(parser Parser, enricher Enricher) *Server {
	s.parser = mo.Some(parser)
	s.enricher = mo.Some(enricher)

	policy := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(s.origins) == 0 {
		policy.AllowAllOrigins = true
	} else {
		policy.AllowOrigins = s.origins
	}

	api := s.engine.Group("/api")
	api.Use(cors.New(policy))
	{
		api.GET("/parse", s.parse)
		api.POST("/enrich", s.enrich)
		api.GET("/buffer", s.buffer)
	}

	return s
}

// Handler returns the routes as a plain http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Listen binds addr and serves in the background until Shutdown.
func (s *Server) Listen(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	s.listener = listener
	s.http = &http.Server{Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		if err := s.http.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("server: %v", err)
		}
	}()

	log.Infof("server listening on %s", listener.Addr())
	return nil
}

// BaseURL is the address the server is reachable at. Empty before Listen.
func (s *Server) BaseURL() string {
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String()
}

// Shutdown stops serving and waits for in-flight requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    constant.Vidlink,
		"version": constant.Version,
		"blobs":   s.store.Len(),
	})
}

// blob serves a buffered source with range support so players can seek in it.
func (s *Server) blob(c *gin.Context) {
	obj, err := s.store.Open(blob.Handle(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	if obj.ContentType != "" {
		c.Header("Content-Type", obj.ContentType)
	}
	http.ServeContent(c.Writer, c.Request, "", obj.Minted, obj)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		log.For("server").
			WithField("status", c.Writer.Status()).
			WithField("elapsed", time.Since(started)).
			Debugf("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}
