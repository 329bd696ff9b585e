package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// VersionInfo carries the ldflags-injected build identity.
type VersionInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

func VersionHandler(info VersionInfo) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{
			"version":   info.Version,
			"commit":    info.Commit,
			"buildDate": info.BuildDate,
		})
	}
}
