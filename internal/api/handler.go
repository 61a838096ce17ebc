package api

import (
	"errors"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/assistant"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/middleware"
	"github.com/rs/zerolog"
)

const DefaultTitle = "Data Science Assistant API"

type Handler struct {
	service *assistant.Service
	title   string
	logger  *zerolog.Logger
}

func NewHandler(service *assistant.Service, title string, logger *zerolog.Logger) *Handler {
	if title == "" {
		title = DefaultTitle
	}

	return &Handler{
		service: service,
		title:   title,
		logger:  logger,
	}
}

// Ask handles POST /ask
func (h *Handler) Ask(req *restful.Request, resp *restful.Response) {
	var askRequest AskRequest
	if err := req.ReadEntity(&askRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	answer, err := h.service.Ask(req.Request.Context(), askRequest.Question)
	if err != nil {
		middleware.HandleError(resp, err, statusFor(err))
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, AskResponse{Answer: answer.Answer})
}

// Health handles GET /extension/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status: "ok",
		Model:  h.service.Model(),
		Ready:  true,
	})
}

// Test handles GET /test
func (h *Handler) Test(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, StatusResponse{
		Status: "active",
		Model:  h.service.Model(),
	})
}

// Root handles GET /
func (h *Handler) Root(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, RootResponse{
		Message: h.title,
		Status:  "running",
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, assistant.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, assistant.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
