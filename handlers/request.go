package handlers

import (
	"strconv"

	"github.com/disserto/disserto-api/model"
	"github.com/disserto/disserto-api/services"
	"github.com/disserto/disserto-api/services/authz"
	"github.com/disserto/disserto-api/utils/apperrors"
	"github.com/disserto/disserto-api/utils/middleware"
	"github.com/gofiber/fiber/v2"
)

// CurrentUser returns the authenticated user loaded by the auth middleware.
func CurrentUser(c *fiber.Ctx) (*model.User, error) {
	user, ok := middleware.GetUser(c)
	if !ok {
		return nil, apperrors.Unauthorized("User not authenticated")
	}
	return user, nil
}

// ParamID parses a positive numeric path parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("Invalid "+name, map[string]string{name: "must be a positive integer"})
	}
	return uint(id), nil
}

// ParseBody decodes the JSON body into v.
func ParseBody(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return apperrors.Validation("Invalid request body", nil)
	}
	return nil
}

// ParseFields decodes the JSON body into v after checking that every key in
// it is a field user's role may set on kind.
func ParseFields(c *fiber.Ctx, user *model.User, kind string, v interface{}) error {
	if body := c.Body(); len(body) > 0 {
		var keys map[string]interface{}
		if err := c.App().Config().JSONDecoder(body, &keys); err != nil {
			return apperrors.Validation("Invalid request body", nil)
		}
		fields := make([]string, 0, len(keys))
		for k := range keys {
			fields = append(fields, k)
		}
		if denied := authz.DisallowedFields(user.Role, kind, fields); len(denied) > 0 {
			details := make(map[string]string, len(denied))
			for _, f := range denied {
				details[f] = "cannot be set by " + user.Role.String()
			}
			return apperrors.Validation("Request contains fields you may not change", details)
		}
	}
	return ParseBody(c, v)
}

// Pagination reads ?page and ?limit (defaults 1 and 20, limit capped at 100).
func Pagination(c *fiber.Ctx) (page, limit int, p services.Page) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", 20)
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit, services.Page{Limit: limit, Offset: (page - 1) * limit}
}
