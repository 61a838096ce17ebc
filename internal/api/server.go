package api

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/povarna/generative-ai-agents/ds-assistant/internal/middleware"
	"github.com/rs/cors"
)

const OpenAPIPath = "/api/v1/openapi.json"

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       DefaultTitle,
			Description: "Turns data-science questions into runnable Python snippets",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "assistant", Description: "Code generation"}},
	}
}

// NewServer builds the restful container with filters, routes and the OpenAPI
// document, wrapped in CORS for the given origins.
func NewServer(handler *Handler, allowedOrigins []string) http.Handler {
	container := restful.NewContainer()

	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)

	RegisterRoutes(container, handler)

	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       OpenAPIPath,
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}

	container.Add(restfulspec.NewOpenAPIService(config))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	return corsHandler.Handler(container)
}
