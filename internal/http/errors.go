package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/varoOP/mangacat/internal/domain"
)

// ErrorResponse is the JSON body of every non plain text error
type ErrorResponse struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Status int    `json:"status"`
}

func RespondWithError(c *gin.Context, status int, message, code string) {
	c.JSON(status, ErrorResponse{
		Error:  message,
		Code:   code,
		Status: status,
	})
}

func RespondWithBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, message, "BAD_REQUEST")
}

func RespondWithInternalError(c *gin.Context, message string) {
	RespondWithError(c, http.StatusInternalServerError, message, "INTERNAL_ERROR")
}

// respondError maps a service error to its status code. Not found errors are
// written as plain text.
func respondError(log zerolog.Logger, c *gin.Context, err error) {
	var (
		notStaged *domain.SearchResultNotFoundError
		missing   *domain.MangaNotFoundError
		code      *domain.UnrecognizedCodeError
		provider  *domain.ProviderError
	)

	switch {
	case errors.As(err, &notStaged):
		c.String(http.StatusNotFound, "%s", notStaged.Error())

	case errors.As(err, &missing):
		c.String(http.StatusNotFound, "%s", missing.Error())

	case errors.As(err, &code):
		if code.Source == domain.SourceRequest {
			RespondWithBadRequest(c, code.Error())
			return
		}
		log.Error().Err(err).Msg("provider returned unrecognized data")
		RespondWithError(c, http.StatusBadGateway, err.Error(), "PROVIDER_DATA")

	case errors.As(err, &provider):
		log.Error().Err(err).Msg("provider request failed")
		RespondWithError(c, http.StatusBadGateway, err.Error(), "PROVIDER_ERROR")

	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		RespondWithInternalError(c, "internal server error")
	}
}
