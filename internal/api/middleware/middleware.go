package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/emicklei/go-restful/v3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const RequestIDHeader = "X-Request-ID"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

func HandleError(resp *restful.Response, err error, status int) {
	if writeErr := resp.WriteHeaderAndEntity(status, ErrorResponse{Detail: err.Error()}); writeErr != nil {
		log.Error().Err(writeErr).Msg("Failed to write error response")
	}
}

// HandleServiceError writes routing failures (404, 405, 415, ...) in the same
// shape as handler errors.
func HandleServiceError(serviceErr restful.ServiceError, req *restful.Request, resp *restful.Response) {
	for name, values := range serviceErr.Header {
		for _, value := range values {
			resp.AddHeader(name, value)
		}
	}
	HandleError(resp, errors.New(serviceErr.Message), serviceErr.Code)
}

// Logger tags every request with an id and logs it once the chain returns.
func Logger(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	start := time.Now()

	requestID := req.HeaderParameter(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	req.SetAttribute("request_id", requestID)
	resp.AddHeader(RequestIDHeader, requestID)

	chain.ProcessFilter(req, resp)

	log.Info().
		Str("request_id", requestID).
		Str("method", req.Request.Method).
		Str("path", req.Request.URL.Path).
		Int("status", resp.StatusCode()).
		Dur("duration", time.Since(start)).
		Msg("Request handled")
}

func RecoverPanic(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Str("path", req.Request.URL.Path).
				Msg("Recovered from panic")
			HandleError(resp, fmt.Errorf("internal server error"), http.StatusInternalServerError)
		}
	}()

	chain.ProcessFilter(req, resp)
}
