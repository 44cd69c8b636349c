package server

import (
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/crmlite/internal/observability/logger"
	"go.uber.org/zap"
)

func (s *Server) DownloadGroupReport(c *gin.Context) {
	ctx := c.Request.Context()
	artifact, err := s.presaleSvc.Report(ctx, strings.TrimSpace(c.Param("id")), c.Query("format"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	logger.FromContext(ctx).Info("report downloaded",
		zap.String("group_id", c.Param("id")),
		zap.String("format", string(artifact.Format)),
		zap.Int("bytes", len(artifact.Bytes)),
	)

	c.Header("Content-Disposition", contentDisposition(artifact.Filename))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Bytes)
}

// contentDisposition carries an ASCII fallback name plus the full UTF-8 name.
func contentDisposition(filename string) string {
	ext := path.Ext(filename)
	base := strings.TrimSuffix(filename, ext)
	ascii := slug.Make(base)
	if ascii == "" {
		ascii = "report"
	}
	return fmt.Sprintf(`attachment; filename="%s%s"; filename*=UTF-8''%s`, ascii, ext, url.PathEscape(filename))
}
