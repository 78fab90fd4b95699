package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"github.com/vidlink-cli/vidlink/buffer"
	"github.com/vidlink-cli/vidlink/log"
	"github.com/vidlink-cli/vidlink/resolver"
	"github.com/vidlink-cli/vidlink/source"
)

type enrichRequest struct {
	Title    string          `json:"title" binding:"required"`
	Platform source.Platform `json:"platform"`
}

// parse answers GET /api/parse?url=<text>[&enrich=true].
func (s *Server) parse(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter is required"})
		return
	}

	parser, _ := s.parser.Get()
	data, err := parser.Parse(c.Request.Context(), raw)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, resolver.ErrUnsupported) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if withEnrichment, _ := strconv.ParseBool(c.Query("enrich")); withEnrichment && data.AISummary == nil {
		if enricher, ok := s.enricher.Get(); ok {
			enrichment := enricher.Enrich(c.Request.Context(), data.Title, data.Platform)
			data.AISummary = &enrichment
		}
	}

	c.JSON(http.StatusOK, data)
}

// enrich answers POST /api/enrich with {title, platform}.
func (s *Server) enrich(c *gin.Context) {
	var request enrichRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if request.Platform == "" {
		request.Platform = source.Unknown
	}

	enricher, _ := s.enricher.Get()
	c.JSON(http.StatusOK, enricher.Enrich(c.Request.Context(), request.Title, request.Platform))
}

// allowOrigin admits non-browser clients, pages served by this host and configured origins.
func (s *Server) allowOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || lo.Contains(s.origins, origin) {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// bufferMessage is one state update on the buffering socket.
type bufferMessage struct {
	Phase       string `json:"phase"`
	Progress    int    `json:"progress"`
	Fallback    bool   `json:"fallback"`
	PlaybackURL string `json:"playbackUrl"`
}

// buffer answers GET /api/buffer?url=<media> with a websocket that streams buffering state.
// The client may send "skip". The blob lives as long as the socket.
func (s *Server) buffer(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter is required"})
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: s.allowOrigin}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warnf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	machine := buffer.FromConfig(s.store, s.baseURL(c))
	defer machine.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if string(message) == "skip" {
				machine.Skip()
			}
		}
	}()

	// The request context ends with the upgrade; the socket owns the transfer instead.
	machine.Load(context.Background(), target)

	for {
		select {
		case <-closed:
			return
		case <-machine.Changed():
			state := machine.State()
			message := bufferMessage{
				Phase:       state.Phase.String(),
				Progress:    state.Progress,
				Fallback:    state.Fallback,
				PlaybackURL: machine.PlaybackURL(),
			}
			if err := conn.WriteJSON(message); err != nil {
				return
			}
		}
	}
}

// baseURL is the origin the request reached this server on.
func (s *Server) baseURL(c *gin.Context) string {
	if base := s.BaseURL(); base != "" {
		return base
	}
	return "http://" + c.Request.Host
}
