package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	CacheNoCache = 0
	CacheCustom  = -1
	CacheOneYear = 365 * 86400
)

type CacheRouter struct {
	CacheTime int  // defaults to CacheNoCache = 0
	Immutable bool // stored files never change under the same name
}

func (cr *CacheRouter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if cr.CacheTime != CacheCustom {
			if cr.CacheTime == CacheNoCache {
				c.Header("cache-control", "no-cache")
			} else if cr.Immutable {
				c.Header("cache-control", "public, max-age="+strconv.Itoa(cr.CacheTime)+", immutable")
			} else {
				c.Header("cache-control", "private, max-age="+strconv.Itoa(cr.CacheTime))
			}
		}
		c.Next()
	}
}
