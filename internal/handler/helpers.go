package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/middleware"
	"go-sales-tracker/internal/model"
)

// currentActor reads the actor set by RequireAuth. Routes without it answer 401.
func currentActor(c *fiber.Ctx) (model.Actor, error) {
	actor, ok := middleware.Actor(c)
	if !ok {
		return model.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return actor, nil
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid "+param)
	}
	return uint(id), nil
}

// parseRange reads start_date / end_date (YYYY-MM-DD). The end date covers
// the whole day.
func parseRange(c *fiber.Ctx) (model.DateRange, error) {
	var r model.DateRange
	if s := c.Query("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return r, fiber.NewError(fiber.StatusBadRequest, "invalid start_date format, use YYYY-MM-DD")
		}
		r.Start = t
	}
	if s := c.Query("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return r, fiber.NewError(fiber.StatusBadRequest, "invalid end_date format, use YYYY-MM-DD")
		}
		r.End = t.Add(24*time.Hour - time.Nanosecond)
	}
	return r, nil
}

// respondError renders a core error with the status its sentinel maps to.
func respondError(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(apperror.New(fe.Message))
	}
	status := apperror.Status(err)
	if status >= 500 {
		log.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.Status(status).JSON(apperror.New("Internal Server Error"))
	}
	return c.Status(status).JSON(apperror.New(err.Error()))
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(400).JSON(apperror.New("Invalid JSON"))
}
