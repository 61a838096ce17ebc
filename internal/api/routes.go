package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/middleware"
)

// RegisterRoutes mounts the routes at the root path, where the browser extension expects them.
func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.GET("/").
			To(handler.Root).
			Doc("Service banner").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(RootResponse{}).
			Returns(200, "OK", RootResponse{}))

	ws.
		Route(ws.GET("/extension/health").
			To(handler.Health).
			Doc("Health check for the browser extension").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.GET("/test").
			To(handler.Test).
			Doc("Connectivity test").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(StatusResponse{}).
			Returns(200, "OK", StatusResponse{}))

	ws.
		Route(ws.POST("/ask").
			To(handler.Ask).
			Doc("Generate a code snippet for a data-science question").
			Metadata(restfulspec.KeyOpenAPITags, []string{"assistant"}).
			Reads(AskRequest{}).
			Writes(AskResponse{}).
			Returns(200, "OK", AskResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(429, "Too Many Requests", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
