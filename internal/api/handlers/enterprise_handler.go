package handlers

import (
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	api "cifcheck/internal/api/application"
	enterpriseapp "cifcheck/internal/enterprise/application"
)

// EnterpriseHandler handles the enterprise registry
type EnterpriseHandler struct {
	service *enterpriseapp.Service
}

// NewEnterpriseHandler creates a new enterprise handler
func NewEnterpriseHandler(service *enterpriseapp.Service) *EnterpriseHandler {
	return &EnterpriseHandler{
		service: service,
	}
}

// Register handles POST /api/v1/enterprises
// @Summary      Register an enterprise
// @Description  Load an enterprise record document (cif, phone, enterprise_name) and store it
// @Tags         enterprises
// @Accept       json
// @Accept       application/yaml
// @Produce      json
// @Success      201  {object}  application.EnterpriseResponse
// @Failure      400  {object}  application.ErrorResponse
// @Failure      413  {object}  application.ErrorResponse
// @Failure      422  {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /enterprises [post]
func (h *EnterpriseHandler) Register(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	body, err := readBody(w, r)
	if err != nil {
		logger.Warn("Failed to read request body", "err", err)
		respondRequestError(w, err)
		return
	}

	stored, err := h.service.RegisterDocument(r.Context(), body, formatFor(r))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	annotate(r, slog.String("cif", stored.CIF.String()))
	respondJSON(w, http.StatusCreated, api.ToEnterpriseResponse(stored))
}

// ListEnterprises handles GET /api/v1/enterprises
// @Summary      List enterprises
// @Description  Get all registered enterprises ordered by CIF
// @Tags         enterprises
// @Produce      json
// @Success      200  {array}   application.EnterpriseResponse
// @Failure      500  {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /enterprises [get]
func (h *EnterpriseHandler) ListEnterprises(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	records, err := h.service.List(r.Context())
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Failed to list enterprises: "+err.Error())
		return
	}

	logger.Debug("Listed enterprises", "count", len(records))
	respondJSON(w, http.StatusOK, api.ToEnterpriseResponses(records))
}

// GetEnterprise handles GET /api/v1/enterprises/{cif}
// @Summary      Get enterprise by CIF
// @Tags         enterprises
// @Produce      json
// @Param        cif  path      string  true  "Enterprise CIF"
// @Success      200  {object}  application.EnterpriseResponse
// @Failure      404  {object}  application.ErrorResponse
// @Failure      422  {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /enterprises/{cif} [get]
func (h *EnterpriseHandler) GetEnterprise(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	cif := chi.URLParam(r, "cif")
	if cif == "" {
		logger.Warn("Missing CIF in request")
		respondJSONError(w, http.StatusBadRequest, "Missing CIF")
		return
	}

	stored, err := h.service.Get(r.Context(), cif)
	if err != nil {
		logger.Debug("Enterprise lookup failed", "cif", cif, "err", err)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, api.ToEnterpriseResponse(stored))
}

// formatFor picks the document format from the Content-Type header
func formatFor(r *http.Request) enterpriseapp.Format {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return enterpriseapp.FormatJSON
	}
	if strings.HasSuffix(mediaType, "yaml") {
		return enterpriseapp.FormatYAML
	}
	return enterpriseapp.FormatJSON
}
