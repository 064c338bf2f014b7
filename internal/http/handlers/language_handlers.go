package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/invoice-pricelist/internal/obs"
)

// GetLanguagesHandler godoc
// @Summary List display languages
// @Tags languages
// @Produce json
// @Success 200 {array} models.Language
// @Failure 500 {object} ErrorResponse
// @Router /api/languages [get]
func GetLanguagesHandler(w http.ResponseWriter, r *http.Request) {
	languages, err := languageRepo.GetAll(r.Context())
	if err != nil {
		obs.Logger.Error("list languages failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch languages")
		return
	}
	writeJSON(w, http.StatusOK, languages)
}
