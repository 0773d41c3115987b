package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/the-books-must-balance/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const ownerKey = "owner"

// requireOwner resolves the owner from the configured header. Requests
// without one never reach a handler. The header is copied because fiber's
// value aliases a pooled buffer and the owner outlives the request in the
// vendor-mapping cache.
func (s *Server) requireOwner(c *fiber.Ctx) error {
	owner := model.Owner(strings.TrimSpace(utils.CopyString(c.Get(s.config.OwnerHeader))))
	if err := owner.Validate(); err != nil {
		return err
	}
	c.Locals(ownerKey, owner)
	return c.Next()
}

func ownerOf(c *fiber.Ctx) model.Owner {
	owner, _ := c.Locals(ownerKey).(model.Owner)
	return owner
}

// periodOf reads the optional start and end query parameters.
func periodOf(c *fiber.Ctx) (model.Period, error) {
	var period model.Period
	for _, p := range []struct {
		key string
		dst *time.Time
	}{
		{"start", &period.Start},
		{"end", &period.End},
	} {
		raw := c.Query(p.key)
		if raw == "" {
			continue
		}
		d, err := time.Parse(model.DateLayout, raw)
		if err != nil {
			return model.Period{}, badRequest("%s must be YYYY-MM-DD", p.key)
		}
		*p.dst = d
	}
	return period, nil
}

func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return badRequest("malformed request body: %v", err)
	}
	return nil
}

func badRequest(format string, args ...any) error {
	return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf(format, args...))
}
