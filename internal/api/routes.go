package api

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/anime-recommender/internal/recommend"
	"github.com/rs/cors"
)

const OpenAPIPath = "/apidocs.json"

// animeRecord documents the response shape; real rows carry every CSV column.
type animeRecord struct {
	MALID  int    `json:"MAL_ID"`
	Name   string `json:"Name"`
	Genres string `json:"Genres"`
}

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.GET("/health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/anime").
			To(handler.Recommend).
			AllowedMethodsWithoutContentType([]string{http.MethodPost}).
			Doc("Recommend anime by free-text query and genres").
			Metadata(restfulspec.KeyOpenAPITags, []string{"recommend"}).
			Reads(recommend.Request{}).
			Writes([]animeRecord{}).
			Returns(200, "OK", []animeRecord{}).
			Returns(422, "Unprocessable Entity", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/anime/{id}").
			To(handler.Anime).
			Doc("Look up one anime by MAL_ID").
			Metadata(restfulspec.KeyOpenAPITags, []string{"recommend"}).
			Param(ws.PathParameter("id", "MAL_ID of the anime").DataType("integer")).
			Writes(animeRecord{}).
			Returns(200, "OK", animeRecord{}).
			Returns(404, "Not Found", middleware.ErrorResponse{}).
			Returns(422, "Unprocessable Entity", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/genres").
			To(handler.Genres).
			Doc("Distinct genres present in the catalog").
			Metadata(restfulspec.KeyOpenAPITags, []string{"recommend"}).
			Writes([]string{}).
			Returns(200, "OK", []string{}))

	ws.
		Route(ws.POST("/admin/cache/clear").
			To(handler.ClearCache).
			AllowedMethodsWithoutContentType([]string{http.MethodPost}).
			Doc("Drop every cached embedding").
			Metadata(restfulspec.KeyOpenAPITags, []string{"admin"}).
			Writes(CacheClearResponse{}).
			Returns(200, "OK", CacheClearResponse{}).
			Returns(404, "Cache Disabled", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Anime Recommender API",
			Description: "Semantic anime recommendations over synopsis embeddings",
			Version:     Version,
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "recommend", Description: "Recommendation operations"}},
		{TagProps: spec.TagProps{Name: "admin", Description: "Maintenance operations"}},
	}
}

// NewContainer registers filters, routes and the OpenAPI document.
// Bodies sent without a Content-Type are decoded as JSON.
func NewContainer(handler *Handler) *restful.Container {
	restful.DefaultRequestContentType(restful.MIME_JSON)

	container := restful.NewContainer()
	container.ServiceErrorHandler(middleware.HandleServiceError)

	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)

	RegisterRoutes(container, handler)

	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       OpenAPIPath,
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}
	container.Add(restfulspec.NewOpenAPIService(config))

	return container
}

// WithCORS allows browser calls from allowedOrigins, credentials included.
func WithCORS(handler http.Handler, allowedOrigins []string) http.Handler {
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return corsHandler.Handler(handler)
}
