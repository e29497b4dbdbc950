package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/recipehub/backend/internal/service"
)

// StreamHandler pushes recipe list snapshots to websocket clients.
type StreamHandler struct {
	broker      *service.RecipeBroker
	authService service.IAuthService
	upgrader    websocket.Upgrader
}

func NewStreamHandler(broker *service.RecipeBroker, authService service.IAuthService) *StreamHandler {
	return &StreamHandler{
		broker:      broker,
		authService: authService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == "http://localhost:5173" || origin == "http://frontend:5173"
			},
		},
	}
}

func (h *StreamHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/recipes/stream", h.Stream)
}

// Stream upgrades the connection and forwards every recipe list snapshot
// the broker emits. The first message is the current list; a client that
// falls behind only ever misses intermediate snapshots, never the latest.
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote an HTTP error to the client.
		return
	}
	defer conn.Close()

	viewer := viewerFromToken(c, h.authService)

	ctx := c.Request.Context()
	snapshots, cancel := h.broker.Subscribe(ctx)
	defer cancel()

	// Read pump: discard client frames, detect close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case recipes, ok := <-snapshots:
			if !ok {
				return
			}
			feed := service.Feed(recipes)
			if err := conn.WriteJSON(gin.H{"recipes": toRecipeResponses(feed, viewer)}); err != nil {
				log.Printf("stream write failed: %v", err)
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// viewerFromToken resolves an optional token passed as a query parameter.
// Browsers cannot set an Authorization header on a websocket handshake.
func viewerFromToken(c *gin.Context, auth service.IAuthService) *service.Viewer {
	token := c.Query("token")
	if token == "" {
		return nil
	}
	claims, err := auth.ValidateToken(token)
	if err != nil {
		return nil
	}
	return &service.Viewer{ID: claims.UserID, Username: claims.Username}
}
