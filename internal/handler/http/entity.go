package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iklobato/LightAPI/internal/logger"
	"github.com/iklobato/LightAPI/internal/store"
	"github.com/iklobato/LightAPI/internal/utils"
	"github.com/iklobato/LightAPI/models"
)

// optionsMaxAge is the cache lifetime advertised by the OPTIONS capability
// descriptor, in seconds.
const optionsMaxAge = 3600

// optionsAllowedHeaders is the static header list advertised by OPTIONS.
var optionsAllowedHeaders = []string{"Content-Type", "Authorization"}

// operationResult is what one verb operation hands back to the dispatcher:
// the status to emit and the body to serialize. A nil body means an empty
// response.
type operationResult struct {
	status int
	body   any
}

// operationFunc is the shape of one verb's operation. It runs against the
// request's scoped Querier, never against the bare connection, and reports
// failures as errors instead of writing to the response itself.
type operationFunc func(r *http.Request, q store.Querier, entity models.Entity) (operationResult, error)

// dispatch wraps an operation into a servable handler. It drives the
// per-request pipeline: open a fresh persistence scope, run the operation,
// commit, serialize. The deferred Release guarantees the scope is closed
// on every exit path, and exactly one response write happens per request:
// either the serialized result or one translated error body.
func (h *Handler) dispatch(entity models.Entity, op operationFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromRequest(r)

		scope, err := h.db.NewScope(ctx)
		if err != nil {
			log.Err(err).Str("entity", entity.Name).Msg("error opening persistence scope")
			utils.WriteJSONError(w, messageFromError(err), statusFromError(err))
			return
		}
		defer scope.Release(ctx)

		result, err := op(r, scope.Querier(), entity)
		if err != nil {
			log.Err(err).Str("entity", entity.Name).Msg("operation ended with error")
			utils.WriteJSONError(w, messageFromError(err), statusFromError(err))
			return
		}

		if err = scope.Commit(); err != nil {
			log.Err(err).Str("entity", entity.Name).Msg("error committing persistence scope")
			utils.WriteJSONError(w, messageFromError(err), statusFromError(err))
			return
		}

		if result.body == nil {
			w.WriteHeader(result.status)
			return
		}

		utils.WriteJSON(w, result.body, result.status)
	}
}

func (h *Handler) createEntity(r *http.Request, q store.Querier, entity models.Entity) (operationResult, error) {
	payload, err := decodePayload(r)
	if err != nil {
		return operationResult{}, err
	}

	created, err := h.services.EntityService.Create(r.Context(), q, entity, payload)
	if err != nil {
		return operationResult{}, err
	}

	return operationResult{status: http.StatusCreated, body: created}, nil
}

// readEntity serves both GET routes of an endpoint: the collection read
// when the path carries no id, the single-item read otherwise.
func (h *Handler) readEntity(r *http.Request, q store.Querier, entity models.Entity) (operationResult, error) {
	if chi.URLParam(r, "id") == "" {
		records, err := h.services.EntityService.List(r.Context(), q, entity)
		if err != nil {
			return operationResult{}, err
		}
		return operationResult{status: http.StatusOK, body: records}, nil
	}

	id, err := entityID(r)
	if err != nil {
		return operationResult{}, err
	}

	record, err := h.services.EntityService.Get(r.Context(), q, entity, id)
	if err != nil {
		return operationResult{}, err
	}

	return operationResult{status: http.StatusOK, body: record}, nil
}

func (h *Handler) replaceEntity(r *http.Request, q store.Querier, entity models.Entity) (operationResult, error) {
	id, err := entityID(r)
	if err != nil {
		return operationResult{}, err
	}

	payload, err := decodePayload(r)
	if err != nil {
		return operationResult{}, err
	}

	updated, err := h.services.EntityService.Replace(r.Context(), q, entity, id, payload)
	if err != nil {
		return operationResult{}, err
	}

	return operationResult{status: http.StatusOK, body: updated}, nil
}

func (h *Handler) patchEntity(r *http.Request, q store.Querier, entity models.Entity) (operationResult, error) {
	id, err := entityID(r)
	if err != nil {
		return operationResult{}, err
	}

	payload, err := decodePayload(r)
	if err != nil {
		return operationResult{}, err
	}

	updated, err := h.services.EntityService.Patch(r.Context(), q, entity, id, payload)
	if err != nil {
		return operationResult{}, err
	}

	return operationResult{status: http.StatusOK, body: updated}, nil
}

func (h *Handler) deleteEntity(r *http.Request, q store.Querier, entity models.Entity) (operationResult, error) {
	id, err := entityID(r)
	if err != nil {
		return operationResult{}, err
	}

	if err = h.services.EntityService.Delete(r.Context(), q, entity, id); err != nil {
		return operationResult{}, err
	}

	return operationResult{status: http.StatusNoContent}, nil
}

// optionsEntity builds the capability descriptor operation for one
// endpoint. The verb list is captured at route compile time, so the
// response reflects the endpoint's effective verb set, not the full
// supported set.
func (h *Handler) optionsEntity(verbs []models.Verb) operationFunc {
	methods := make([]string, 0, len(verbs))
	for _, verb := range verbs {
		methods = append(methods, string(verb))
	}

	descriptor := models.OptionsResponse{
		AllowedMethods: methods,
		AllowedHeaders: optionsAllowedHeaders,
		MaxAge:         optionsMaxAge,
	}

	return func(r *http.Request, q store.Querier, entity models.Entity) (operationResult, error) {
		return operationResult{status: http.StatusOK, body: descriptor}, nil
	}
}

// headEntity is the collection existence probe: the route resolving at all
// is the answer, so the body stays empty.
func (h *Handler) headEntity(r *http.Request, q store.Querier, entity models.Entity) (operationResult, error) {
	return operationResult{status: http.StatusOK}, nil
}

func decodePayload(r *http.Request) (models.Record, error) {
	var payload models.Record
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSONBody, err)
	}
	return payload, nil
}

// entityID parses the {id} path parameter. A non-integer id cannot address
// any row, so it reports the same not-found condition as a missing row.
func entityID(r *http.Request) (int64, error) {
	idParam := chi.URLParam(r, "id")

	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: non-integer id %q", store.ErrItemNotFound, idParam)
	}

	return id, nil
}
