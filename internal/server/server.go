package server

import (
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/vj7harsh/SmallWorld/internal/mapgen"
	"github.com/vj7harsh/SmallWorld/internal/relay"
)

func SetupRouter(r *relay.Relay) *gin.Engine {
	router := gin.Default()

	// browser clients run off another origin during development
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/map", mapHandler)
	router.GET("/ws", HandleWebsocket(r))

	return router
}

func healthHandler(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// mapHandler generates a board preview from query params. Bad or missing
// params fall back to defaults, an unknown variant falls back to floodfill.
func mapHandler(c *gin.Context) {
	params := mapgen.Params{
		Variant: mapgen.Variant(c.DefaultQuery("variant", string(mapgen.VariantFloodFill))),
		Seed:    queryInt64(c, "seed"),
		Width:   int(queryInt64(c, "width")),
		Height:  int(queryInt64(c, "height")),
		Regions: int(queryInt64(c, "regions")),
		Smooth:  int(queryInt64(c, "smooth")),
	}
	if d, err := strconv.ParseFloat(c.Query("density"), 64); err == nil {
		params.Density = d
	}

	board, regions := mapgen.Generate(params)
	c.JSON(http.StatusOK, gin.H{
		"board":   board,
		"regions": regions,
	})
}

func queryInt64(c *gin.Context, key string) int64 {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
