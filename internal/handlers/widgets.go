package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"gopkg.in/yaml.v3"

	"github.com/Saffen/thelionsroar/pkg/logging"
)

// DefaultWidgetsPath is where the site keeps its widget zone configuration.
const DefaultWidgetsPath = "data/widgets.yaml"

// WidgetsHandler serves the widget zone configuration to the site frontend.
// The file is re-read per request so edits show up without a restart.
type WidgetsHandler struct {
	path   string
	logger logging.Logger
}

func NewWidgetsHandler(path string, logger logging.Logger) *WidgetsHandler {
	if path == "" {
		path = DefaultWidgetsPath
	}
	return &WidgetsHandler{path: path, logger: logger}
}

// Handle returns the full YAML structure as JSON. A missing file is not an
// error: the frontend gets an empty zone map and renders nothing.
func (h *WidgetsHandler) Handle(c *gin.Context) {
	data, err := os.ReadFile(h.path)
	if err != nil {
		if !os.IsNotExist(err) {
			h.logger.WithError(err).WithField("path", h.path).Error("Failed to read widgets config")
		}
		c.JSON(http.StatusOK, gin.H{"zones": gin.H{}})
		return
	}

	var cfg map[string]interface{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		h.logger.WithError(err).WithField("path", h.path).Error("Failed to parse widgets config")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid widgets configuration"})
		return
	}
	if cfg == nil {
		cfg = map[string]interface{}{"zones": map[string]interface{}{}}
	}

	c.JSON(http.StatusOK, cfg)
}
