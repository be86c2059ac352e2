package mocktandoor

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Throttle gates requests on a shared token bucket. A drained bucket gets a
// 429 with a Retry-After header, matching the real server's throttle
// closely enough to exercise the importer's full rate-limit recovery path:
// burst N lets N requests through before the first 429, and the limit
// decides how fast tokens return.
func Throttle(l *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		r := l.Reserve()
		if d := r.Delay(); d > 0 {
			r.Cancel()
			secs := int(math.Ceil(d.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"detail": fmt.Sprintf("Request was throttled. Expected available in %d seconds.", secs),
			})
			return
		}
		c.Next()
	}
}
