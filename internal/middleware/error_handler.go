package middleware

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/roel-sundiam/TennisClubRT2-December-sub001/internal/dto"
)

func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := err.Error()

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}

	if code >= http.StatusInternalServerError {
		log.Printf("[ErrorHandler] %s %s: %v", c.Request().Method, c.Request().RequestURI, err)
	}

	_ = c.JSON(code, dto.ErrorResponse{Message: msg})
}
