package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"servo2go/internal/monitor"
)

func registerMonitorEndpoints(rest *echo.Echo, healthMonitor *monitor.Monitor) {
	group := rest.Group("/monitor")

	group.GET("/dashboard/", func(c echo.Context) error {
		return getDashboard(c, healthMonitor)
	})
	group.GET("/report/", func(c echo.Context) error {
		return getReport(c, healthMonitor)
	})
	group.GET("/trends/:"+urlParamId+"/:"+urlParamMetric+"/", func(c echo.Context) error {
		return getTrends(c, healthMonitor)
	})
	group.GET("/alerts/", func(c echo.Context) error {
		return getAlerts(c, healthMonitor)
	})
	group.DELETE("/alerts/", func(c echo.Context) error {
		return clearAlerts(c, healthMonitor)
	})
	group.GET("/statistics/", func(c echo.Context) error {
		return getStatistics(c, healthMonitor)
	})
	group.DELETE("/statistics/", func(c echo.Context) error {
		return resetStatistics(c, healthMonitor)
	})
}

func getDashboard(c echo.Context, healthMonitor *monitor.Monitor) error {
	return c.JSONPretty(http.StatusOK, healthMonitor.Dashboard(), indentationChar)
}

func getReport(c echo.Context, healthMonitor *monitor.Monitor) error {
	return c.JSONPretty(http.StatusOK, healthMonitor.GenerateReport(), indentationChar)
}

// getTrends serves the recorded samples of one metric of one servo.
// An optional "duration" query parameter (Go duration syntax) limits
// the window.
func getTrends(c echo.Context, healthMonitor *monitor.Monitor) error {
	id := c.Param(urlParamId)
	metric := c.Param(urlParamMetric)

	var window time.Duration
	if raw := c.QueryParam("duration"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return returnBadRequest(c, err)
		}
		window = parsed
	}

	samples, err := healthMonitor.Trends(id, metric, window)
	if err != nil {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, samples, indentationChar)
}

func getAlerts(c echo.Context, healthMonitor *monitor.Monitor) error {
	return c.JSONPretty(http.StatusOK, healthMonitor.Alerts(), indentationChar)
}

func clearAlerts(c echo.Context, healthMonitor *monitor.Monitor) error {
	healthMonitor.ClearAlerts()
	return c.NoContent(http.StatusOK)
}

func getStatistics(c echo.Context, healthMonitor *monitor.Monitor) error {
	return c.JSONPretty(http.StatusOK, healthMonitor.GetStatistics(), indentationChar)
}

func resetStatistics(c echo.Context, healthMonitor *monitor.Monitor) error {
	healthMonitor.ResetStatistics()
	return c.NoContent(http.StatusOK)
}
