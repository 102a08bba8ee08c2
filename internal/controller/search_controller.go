package controller

import (
	"ai-docsearch-be/internal/dto"
	"ai-docsearch-be/internal/pkg/serverutils"
	"ai-docsearch-be/internal/service"
	"ai-docsearch-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
}

type searchController struct {
	searchService service.ISearchService
}

func NewSearchController(searchService service.ISearchService) ISearchController {
	return &searchController{
		searchService: searchService,
	}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/search/v1")
	h.Use(serverutils.OptionalIdentity) // identity is optional; scoping happens downstream
	h.Post("/ask", c.Ask)
}

func (c *searchController) Ask(ctx *fiber.Ctx) error {
	// Identity comes from the session credential only, never the request body
	var ownerId *uuid.UUID
	if userIdStr, ok := ctx.Locals("user_id").(string); ok {
		if id, err := uuid.Parse(userIdStr); err == nil {
			ownerId = &id
		}
	}

	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, apperr.StageInput, "malformed request body", err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.searchService.Ask(ctx.Context(), ownerId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}
