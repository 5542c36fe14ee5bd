package routes

import "github.com/labstack/echo/v4"

// envelope is the uniform success shape; failures are apierror values, which
// marshal their own envelope.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Count   *int `json:"count,omitempty"`
}

func ok(c echo.Context, status int, data any) error {
	if data == nil {
		data = echo.Map{}
	}
	return c.JSON(status, &envelope{Success: true, Data: data})
}

func okCount(c echo.Context, status int, data any, count int) error {
	return c.JSON(status, &envelope{Success: true, Data: data, Count: &count})
}
