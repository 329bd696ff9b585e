package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noteshub/noteshub/internal/domain/note"
)

// RespondNoteWithETag serves a single note with a strong validator so
// clients can revalidate cheaply with If-None-Match.
func RespondNoteWithETag(ctx *gin.Context, n note.Note) {
	etag := noteETag(n)

	ctx.Header("ETag", etag)

	if ifNoneMatchMatches(ctx.GetHeader("If-None-Match"), etag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	ctx.JSON(http.StatusOK, n)
}

// noteETag derives the validator from the row identity and its last
// modification instant; every write refreshes updated_at, so the pair
// changes whenever the representation does. Legacy rows without a
// timestamp fall back to hashing the content fields.
func noteETag(n note.Note) string {
	var seed strings.Builder

	seed.WriteString(strconv.FormatInt(n.ID, 10))
	seed.WriteByte('/')

	if n.UpdatedAt != nil {
		seed.WriteString(n.UpdatedAt.UTC().Format(time.RFC3339Nano))
	} else {
		seed.WriteString(n.Title)
		seed.WriteByte('/')

		if n.Body != nil {
			seed.WriteString(*n.Body)
		}
	}

	sum := sha256.Sum256([]byte(seed.String()))

	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func ifNoneMatchMatches(headerValue, currentETag string) bool {
	if strings.TrimSpace(headerValue) == "" {
		return false
	}

	if strings.TrimSpace(headerValue) == "*" {
		return true
	}

	current := normalizeETag(currentETag)

	for _, part := range strings.Split(headerValue, ",") {
		if normalizeETag(part) == current {
			return true
		}
	}

	return false
}

// RFC 9110 allows weak validators like W/"abc".
func normalizeETag(raw string) string {
	v := strings.TrimSpace(raw)

	if strings.HasPrefix(v, "W/") {
		v = strings.TrimSpace(strings.TrimPrefix(v, "W/"))
	}

	return v
}
