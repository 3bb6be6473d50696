package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-watchface/internal/display"
	"github.com/i474232898/weather-watchface/internal/weather"
)

var validate = validator.New()

// Watch is the set of stimuli the API can post to the watchface. Every call
// returns immediately; the watchface processes them in order.
type Watch interface {
	Deliver(tuples []weather.Tuple)
	Tap()
	SetBluetooth(connected bool)
	SetBattery(b display.Battery)
	RequestNow()
}

// ScreenSource returns the most recently rendered screen.
type ScreenSource interface {
	Latest() (display.Screen, bool)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, watch Watch, screens ScreenSource) {
	v1 := app.Group("/api/v1")

	v1.Post("/inbox", func(c *fiber.Ctx) error {
		var req inboxRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}

		watch.Deliver(req.toTuples())
		return accepted(c)
	})

	events := v1.Group("/events")

	events.Post("/tap", func(c *fiber.Ctx) error {
		watch.Tap()
		return accepted(c)
	})

	events.Post("/bluetooth", func(c *fiber.Ctx) error {
		var req bluetoothRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}

		watch.SetBluetooth(*req.Connected)
		return accepted(c)
	})

	events.Post("/battery", func(c *fiber.Ctx) error {
		var req batteryRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}

		watch.SetBattery(display.Battery{Percent: *req.Percent, Charging: req.Charging})
		return accepted(c)
	})

	v1.Post("/request", func(c *fiber.Ctx) error {
		watch.RequestNow()
		return accepted(c)
	})

	v1.Get("/display", func(c *fiber.Ctx) error {
		screen, ok := screens.Latest()
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "nothing rendered yet")
		}
		return c.JSON(screen)
	})
}

// tupleBody is one tagged value as sent by the companion.
type tupleBody struct {
	Key  *uint32 `json:"key" validate:"required"`
	Int  int32   `json:"int"`
	Text string  `json:"text" validate:"max=255"`
}

type inboxRequest struct {
	Tuples []tupleBody `json:"tuples" validate:"required,min=1,dive"`
}

func (r inboxRequest) toTuples() []weather.Tuple {
	out := make([]weather.Tuple, 0, len(r.Tuples))
	for _, t := range r.Tuples {
		out = append(out, weather.Tuple{Key: weather.Tag(*t.Key), Int: t.Int, Text: t.Text})
	}
	return out
}

type bluetoothRequest struct {
	Connected *bool `json:"connected" validate:"required"`
}

type batteryRequest struct {
	Percent  *int `json:"percent" validate:"required,min=0,max=100"`
	Charging bool `json:"charging"`
}

func bindJSON(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}

func accepted(c *fiber.Ctx) error {
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"accepted": true})
}
