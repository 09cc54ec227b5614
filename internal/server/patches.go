package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// defaultPatchID is used when the caller does not name a patch
const defaultPatchID = "510"

// Patches fetches and summarizes a set of patch notes. Registered only
// when a summarizer is configured.
func (s *Server) Patches(c *gin.Context) {
	patchID := c.DefaultQuery("patch", defaultPatchID)
	logrus.Infof("Getting patches for patch No.%s", patchID)

	summary, err := s.summarizer.Summarize(c.Request.Context(), patchID)
	if err != nil {
		logrus.Errorf("Patch summarization failed: %v", err)
		c.String(http.StatusInternalServerError, "Failed to fetch or parse HTML")
		return
	}

	c.String(http.StatusOK, summary)
}
