// Command hoard-demo is a small HTTP surface demonstrating a memoized
// lookup backed by a bounded cache, with gin wiring and a
// /cache/stats endpoint.
package main

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/hoard/pkg/cache"
	"github.com/yourusername/hoard/pkg/decorator"
	"github.com/yourusername/hoard/pkg/eviction"
	"github.com/yourusername/hoard/pkg/keymap"
)

// slowLookup simulates an expensive computation (e.g. a downstream
// call) that the decorator memoizes.
func slowLookup(id int) string {
	time.Sleep(20 * time.Millisecond)
	return "product-" + strconv.Itoa(id)
}

func main() {
	c := cache.New(cache.Config{Capacity: 1024, Policy: eviction.NewLRU()})
	d, err := decorator.New(slowLookup, keymap.Raw{}, c, []string{"id"}, nil)
	if err != nil {
		log.Fatalf("hoard-demo: failed to build decorator: %v", err)
	}

	r := gin.Default()

	r.GET("/product/:id", func(ctx *gin.Context) {
		id, err := strconv.Atoi(ctx.Param("id"))
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}
		out, err := d.Call(id)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"id": id, "name": out[0]})
	})

	r.GET("/cache/stats", func(ctx *gin.Context) {
		s := c.Stats()
		ctx.JSON(http.StatusOK, gin.H{
			"entries":   c.Len(),
			"hits":      s.Hits,
			"misses":    s.Misses,
			"loads":     s.Loads,
			"evictions": s.Evictions,
		})
	})

	log.Println("hoard-demo listening on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("hoard-demo: server exited: %v", err)
	}
}
