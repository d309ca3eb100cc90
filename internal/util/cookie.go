package util

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AccessCookie is the cookie carrying the session token.
const AccessCookie = "access_token"

// SetAuthCookie attaches the session token to the response. The cookie
// max-age equals the token TTL: the token's exp claim is the single
// lifetime authority and the transport must not outlive it.
func SetAuthCookie(c *gin.Context, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearAuthCookie removes the session cookie. The token itself stays valid
// until its exp claim; logout only clears the client-side carrier.
func ClearAuthCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, "", -1, "/", "", secure, true)
}
