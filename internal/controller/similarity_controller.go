package controller

import (
	"github.com/gofiber/fiber/v2"

	"semsim-be/internal/dto"
	"semsim-be/internal/pkg/serverutils"
	"semsim-be/internal/service"
	"semsim-be/pkg/store"
)

// SessionCookieName carries the session id between submission and polling.
const SessionCookieName = "session_id"

type ISimilarityController interface {
	RegisterRoutes(r fiber.Router)
	Submit(ctx *fiber.Ctx) error
	GetResults(ctx *fiber.Ctx) error
}

type similarityController struct {
	service service.ISimilarityService
}

func NewSimilarityController(service service.ISimilarityService) ISimilarityController {
	return &similarityController{service: service}
}

func (c *similarityController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/similarity/v1")
	h.Post("", c.Submit)
	h.Get("/results", c.GetResults)
}

// Submit accepts a raw XML body, kicks off asynchronous processing and
// returns 202 with the session id in both a cookie and the body.
func (c *similarityController) Submit(ctx *fiber.Ctx) error {
	req := dto.SubmitDocumentRequest{Elements: "p"}
	if err := ctx.QueryParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).
			JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Invalid query parameters: "+err.Error()))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	sessionID, err := c.service.Submit(ctx.Context(), string(ctx.Body()), req.Elements, req.Threshold)
	if err != nil {
		// All Submit failures are request problems: bad parameters, empty
		// body or malformed XML. Validation happens before any session is
		// created, so the client always gets a 400 here.
		return ctx.Status(fiber.StatusBadRequest).
			JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Error processing request: "+err.Error()))
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		HTTPOnly: true,
	})

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse(
		"Processing started. Results will be available for this session.",
		dto.SubmissionResponse{SessionId: sessionID},
	))
}

// GetResults reports the session's progress: 202 while processing, 200 with
// the groups when completed, and 400/404/500 for the failure outcomes.
func (c *similarityController) GetResults(ctx *fiber.Ctx) error {
	sessionID := ctx.Cookies(SessionCookieName)
	if sessionID == "" {
		return ctx.Status(fiber.StatusBadRequest).
			JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Session cookie missing or invalid"))
	}

	groups, status, found := c.service.GetResults(sessionID)
	if !found {
		return ctx.Status(fiber.StatusNotFound).
			JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "No results found for this session"))
	}

	switch status {
	case store.StatusError:
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, "An error occurred during processing"))

	case store.StatusNoFragmentsExtracted:
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(
			fiber.StatusBadRequest,
			"No text fragments were extracted. The default element is 'p'; if your XML uses "+
				"different elements, specify them with the 'elements' query parameter, "+
				"for example: /api/similarity/v1?elements=paragraph",
		))

	case store.StatusCompleted:
		if len(groups) == 0 {
			return ctx.JSON(serverutils.SuccessResponse(
				"Processing completed but no similarity groups were created for this session.",
				dto.SubmissionResponse{SessionId: sessionID},
			))
		}
		return ctx.JSON(groups)
	}

	// store.StatusProcessing, the only non-terminal status.
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse(
		"Processing in progress. Please try again later.",
		dto.SubmissionResponse{SessionId: sessionID},
	))
}
