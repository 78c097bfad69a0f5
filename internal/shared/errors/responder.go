package errors

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type of every storefront error body.
const ContentTypeProblemJSON = "application/problem+json"

// Mapper turns a service error into a problem document. It reports false for errors it does not own.
type Mapper func(err error) (ProblemDetail, bool)

// Responder writes storefront errors as problem documents. Mappers run in order; the first match wins.
type Responder struct {
	typeBase string
	mappers  []Mapper
}

// NewResponder builds a responder. A non-empty typeBase turns relative problem types into absolute URIs.
func NewResponder(typeBase string, mappers ...Mapper) *Responder {
	return &Responder{typeBase: typeBase, mappers: mappers}
}

var fallback = NewResponder("")

func (r *Responder) write(c *gin.Context, problem ProblemDetail) {
	if r.typeBase != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.typeBase + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError answers with the first mapped problem. A ProblemDetail error is written as is. Anything
// else is recorded on the gin context and answered with a bare 500 so driver messages never leak.
func (r *Responder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.write(c, problem)
			return
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.write(c, problem)
		return
	}
	_ = c.Error(err)
	r.write(c, ErrInternal.WithDetail("an unexpected error occurred"))
}

// NotFound answers a lookup by id that matched nothing, e.g. an unknown order.
func (r *Responder) NotFound(c *gin.Context, resourceType string, identifier any) {
	r.write(c, NewNotFoundProblem(resourceType, identifier))
}

// BadRequest answers a request that could not be bound.
func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.write(c, ErrBadRequest.WithDetail(detail))
}

// ValidationFailed answers with per-field messages, such as a rejected checkout form.
func (r *Responder) ValidationFailed(c *gin.Context, fieldErrors map[string]string) {
	r.write(c, NewValidationProblem(fieldErrors))
}

// RespondError uses a responder with no mappers.
func RespondError(c *gin.Context, err error) {
	fallback.RespondError(c, err)
}
