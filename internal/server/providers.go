package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rgonzalez/agentd/internal/provider"
)

type ProvidersHandler struct {
	Factory *provider.Factory
}

func (h *ProvidersHandler) Register(g *echo.Group) {
	g.GET("/status", h.status)
	g.GET("/default", h.defaultProvider)
}

func (h *ProvidersHandler) status(c echo.Context) error {
	status := map[string]interface{}{}

	if def, err := h.Factory.Default(); err == nil {
		status["defaultProvider"] = def.Name()
		status["defaultModel"] = def.DefaultModel()
	} else {
		status["defaultProvider"] = "NONE - " + err.Error()
	}

	all := h.Factory.All()
	providersInfo := make([]map[string]string, 0, len(all))
	for _, p := range all {
		providersInfo = append(providersInfo, map[string]string{
			"name":         p.Name(),
			"type":         string(p.Type()),
			"configured":   boolString(p.IsConfigured()),
			"defaultModel": p.DefaultModel(),
		})
	}

	status["availableProviders"] = providersInfo
	status["configuredProviders"] = len(h.Factory.Configured())
	status["diagnostics"] = h.Factory.Status()

	return c.JSON(http.StatusOK, status)
}

func (h *ProvidersHandler) defaultProvider(c echo.Context) error {
	p, err := h.Factory.Default()
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"name":         p.Name(),
		"type":         string(p.Type()),
		"defaultModel": p.DefaultModel(),
		"configured":   p.IsConfigured(),
	})
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
