package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/lanternhq/lantern/utils"
	Logger "github.com/lanternhq/lantern/utils/log"
)

// ViewerKey is the gin context key under which the resolved viewer user id
// is stored. Empty string means anonymous.
const ViewerKey = "viewer"

var (
	// sessionStore resolves session tokens to user ids. May stay nil when no
	// Redis is configured, in which case only the "sub" header is honoured.
	sessionStore *utils.RedisSessionStore
)

// Setup initializes package scoped state needed by the middlewares. Safe to
// skip in tests; the viewer middleware degrades to header-only resolution.
func Setup() {
	store, err := utils.GetRedisSessionStore()
	if err != nil {
		Logger.Log.Warn("session store unavailable, token resolution disabled: ", err)
		return
	}
	sessionStore = store
}

// Viewer resolves the request's viewer identity and never rejects a
// request: authentication belongs to the identity provider upstream, the
// core only consumes its result. A request with neither a "sub" header nor
// a resolvable session token proceeds as anonymous.
func Viewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := c.Request.Header.Get("sub")

		if viewer == "" && sessionStore != nil {
			if token := c.Request.Header.Get("X-Session-Token"); token != "" {
				resolved, err := sessionStore.ResolveToken(token)
				if err != nil {
					Logger.Log.Warn("session token resolution failed: ", err)
				} else {
					viewer = resolved
				}
			}
		}

		c.Set(ViewerKey, viewer)
		c.Next()
	}
}

// ViewerFrom extracts the viewer id set by Viewer; empty for anonymous.
func ViewerFrom(c *gin.Context) string {
	return c.GetString(ViewerKey)
}
