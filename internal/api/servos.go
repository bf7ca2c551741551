package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/qdm12/reprint"

	"servo2go/internal/calibration"
	"servo2go/internal/curves"
	"servo2go/internal/health"
	"servo2go/internal/servos"
)

func registerServoEndpoints(rest *echo.Echo) {
	group := rest.Group("/servo")

	group.GET("/", getServos)
	group.GET("/:"+urlParamId+"/", getServo)
	group.POST("/:"+urlParamId+"/move/", moveServo)
	group.POST("/:"+urlParamId+"/stop/", stopServo)
	group.POST("/:"+urlParamId+"/telemetry/", updateServoTelemetry)
	group.GET("/:"+urlParamId+"/stats/", getServoStats)
	group.GET("/:"+urlParamId+"/export/", exportServo)
	group.POST("/:"+urlParamId+"/reset/", resetServoCounters)
	group.GET("/:"+urlParamId+"/calibration/", getServoCalibration)
	group.PUT("/:"+urlParamId+"/calibration/", setServoCalibration)
}

// moveRequest is the wire shape of a movement command. Duration is
// given in milliseconds, speed in degrees per second; at most one of
// the two may be set.
type moveRequest struct {
	TargetAngle float64  `json:"targetAngle"`
	DurationMs  *int64   `json:"durationMs,omitempty"`
	Speed       *float64 `json:"speed,omitempty"`
	Curve       string   `json:"curve,omitempty"`
	Blocking    bool     `json:"blocking"`
}

// returns the health status of all currently configured servos
func getServos(c echo.Context) error {
	data := map[string]servos.HealthStatus{}
	for id, servo := range servos.ServoMap.Items() {
		data[id] = servo.GetHealthStatus()
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getServo(c echo.Context) error {
	id := c.Param(urlParamId)
	servo, exists := servos.GetServo(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, servo.GetHealthStatus(), indentationChar)
}

func moveServo(c echo.Context) error {
	id := c.Param(urlParamId)
	servo, exists := servos.GetServo(id)
	if !exists {
		return returnNotFound(c, id)
	}

	var request moveRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, err)
	}

	command := servos.MoveCommand{
		TargetAngle: request.TargetAngle,
		Speed:       request.Speed,
		Curve:       curves.Curve(request.Curve),
		Blocking:    request.Blocking,
	}
	if request.DurationMs != nil {
		duration := time.Duration(*request.DurationMs) * time.Millisecond
		command.Duration = &duration
	}

	if err := servo.MoveTo(command); err != nil {
		return returnBadRequest(c, err)
	}
	return c.JSONPretty(http.StatusOK, servo.GetHealthStatus().Motion, indentationChar)
}

func stopServo(c echo.Context) error {
	id := c.Param(urlParamId)
	servo, exists := servos.GetServo(id)
	if !exists {
		return returnNotFound(c, id)
	}
	servo.StopMotion()
	return c.NoContent(http.StatusOK)
}

// updateServoTelemetry ingests a partial telemetry update. Fields left
// out of the request keep their previous value.
func updateServoTelemetry(c echo.Context) error {
	id := c.Param(urlParamId)
	servo, exists := servos.GetServo(id)
	if !exists {
		return returnNotFound(c, id)
	}

	var telemetry health.Telemetry
	if err := c.Bind(&telemetry); err != nil {
		return returnBadRequest(c, err)
	}
	servo.UpdateHealthMetrics(telemetry)
	return c.JSONPretty(http.StatusOK, servo.GetHealthStatus().Verdict, indentationChar)
}

func getServoStats(c echo.Context) error {
	id := c.Param(urlParamId)
	servo, exists := servos.GetServo(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, servo.GetMovementStats(), indentationChar)
}

func exportServo(c echo.Context) error {
	id := c.Param(urlParamId)
	servo, exists := servos.GetServo(id)
	if !exists {
		return returnNotFound(c, id)
	}
	data := reprint.This(servo.ExportData())
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func resetServoCounters(c echo.Context) error {
	id := c.Param(urlParamId)
	servo, exists := servos.GetServo(id)
	if !exists {
		return returnNotFound(c, id)
	}
	servo.ResetHealthCounters()
	return c.NoContent(http.StatusOK)
}

func getServoCalibration(c echo.Context) error {
	id := c.Param(urlParamId)
	servo, exists := servos.GetServo(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, servo.GetCalibration(), indentationChar)
}

func setServoCalibration(c echo.Context) error {
	id := c.Param(urlParamId)
	servo, exists := servos.GetServo(id)
	if !exists {
		return returnNotFound(c, id)
	}

	var cal calibration.Calibration
	if err := c.Bind(&cal); err != nil {
		return returnBadRequest(c, err)
	}
	if err := servo.SetCalibration(cal); err != nil {
		return returnBadRequest(c, err)
	}
	return c.JSONPretty(http.StatusOK, servo.GetCalibration(), indentationChar)
}
