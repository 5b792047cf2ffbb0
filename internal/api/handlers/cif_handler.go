package handlers

import (
	"log/slog"
	"net/http"

	api "cifcheck/internal/api/application"
	enterpriseapp "cifcheck/internal/enterprise/application"
	"cifcheck/internal/enterprise/domain"
)

// CIFHandler handles CIF checks
type CIFHandler struct {
	service *enterpriseapp.Service
}

// NewCIFHandler creates a new CIF handler
func NewCIFHandler(service *enterpriseapp.Service) *CIFHandler {
	return &CIFHandler{
		service: service,
	}
}

// Validate handles POST /api/v1/cif/validate
// @Summary      Validate a CIF
// @Description  Check format and control character of a Spanish CIF
// @Tags         cif
// @Accept       json
// @Produce      json
// @Param        request  body      application.ValidateCIFRequest  true  "CIF to check"
// @Success      200      {object}  application.ValidateCIFResponse
// @Failure      400      {object}  application.ErrorResponse
// @Failure      413      {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /cif/validate [post]
func (h *CIFHandler) Validate(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	var req api.ValidateCIFRequest
	if err := decodeRequest(w, r, &req); err != nil {
		logger.Warn("Invalid validate request", "err", err)
		respondRequestError(w, err)
		return
	}

	valid := h.service.Check(r.Context(), req.CIF)
	annotate(r, slog.Bool("cif_valid", valid))

	resp := api.ValidateCIFResponse{CIF: req.CIF, Valid: valid}
	if valid {
		cif := domain.MustCIF(req.CIF)
		resp.CIF = cif.String()
		resp.ControlKind = domain.ControlKindFor(cif.Letter()).String()
	}
	respondJSON(w, http.StatusOK, resp)
}

// Complete handles POST /api/v1/cif/complete
// @Summary      Complete a CIF
// @Description  Append the control character to a letter and 7 digit block
// @Tags         cif
// @Accept       json
// @Produce      json
// @Param        request  body      application.CompleteCIFRequest  true  "CIF prefix"
// @Success      200      {object}  application.CompleteCIFResponse
// @Failure      400      {object}  application.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /cif/complete [post]
func (h *CIFHandler) Complete(w http.ResponseWriter, r *http.Request) {
	logger := getLogger(r)

	var req api.CompleteCIFRequest
	if err := decodeRequest(w, r, &req); err != nil {
		logger.Warn("Invalid complete request", "err", err)
		respondRequestError(w, err)
		return
	}

	cif, err := h.service.Complete(r.Context(), req.Prefix)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	logger.Debug("Completed CIF", "prefix", req.Prefix, "cif", cif.String())
	respondJSON(w, http.StatusOK, api.CompleteCIFResponse{CIF: cif.String()})
}
