package handlers

import (
	"net/http"
	"strconv"

	"emma-client/internal/site"

	"github.com/gin-gonic/gin"
)

// GetSite handles GET /site
func GetSite(c *gin.Context) {
	c.JSON(http.StatusOK, site.Default)
}

// GetLogo handles GET /logo?size=24&theme=system&system_theme=dark
func GetLogo(c *gin.Context) {
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(site.DefaultLogoSize)))
	if err != nil || size < 1 || size > 1024 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "size must be between 1 and 1024"})
		return
	}
	appearance := site.Appearance{
		Theme:       site.ParseTheme(c.Query("theme")),
		SystemTheme: site.ParseTheme(c.Query("system_theme")),
	}

	html, err := site.Logo{Size: size}.HTML(appearance)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to render logo", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
