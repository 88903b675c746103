package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"capsuledb/pkg/auth"
	"capsuledb/pkg/capsule"
	"capsuledb/pkg/logger"
	"capsuledb/pkg/models"
	"capsuledb/pkg/utils"
)

// RegisterCapsules registers all capsule HTTP routes on the provided
// router.
func RegisterCapsules(r *mux.Router, svc *capsule.Service) {
	h := &capsuleHandlers{svc: svc}

	r.HandleFunc("/capsules", h.createCapsule).Methods(http.MethodPost)
	// Register literal paths before the {id} pattern.
	r.HandleFunc("/capsules/public", h.listPublicCapsules).Methods(http.MethodGet)
	r.HandleFunc("/capsules/nearby", h.listCapsulesByLocation).Methods(http.MethodGet)
	r.HandleFunc("/capsules/{id}", h.getCapsule).Methods(http.MethodGet)
}

type capsuleHandlers struct {
	svc *capsule.Service
}

// createCapsule handles POST /capsules. The body is a CreateCapsulePayload;
// the creator is the resolved caller identity and is required.
func (h *capsuleHandlers) createCapsule(w http.ResponseWriter, r *http.Request) {
	var payload models.CreateCapsulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	creator := auth.ResolveViewer(r)
	if creator == "" {
		utils.JSONError(w, http.StatusUnauthorized, "creator identity required")
		return
	}
	c, err := h.svc.Create(payload, creator)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, c)
}

// getCapsule handles GET /capsules/{id}. The sealed and access-denied
// failures are distinct 403 messages; both differ from a 404.
func (h *capsuleHandlers) getCapsule(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid capsule id")
		return
	}
	viewer := auth.ResolveViewer(r)
	c, err := h.svc.Get(id, viewer)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			utils.JSONError(w, http.StatusNotFound, models.ErrNotFound.Error())
		case errors.Is(err, models.ErrSealed):
			utils.JSONError(w, http.StatusForbidden, models.ErrSealed.Error())
		case errors.Is(err, models.ErrAccessDenied):
			utils.JSONError(w, http.StatusForbidden, models.ErrAccessDenied.Error())
		default:
			logger.Error("get_capsule_failed", "id", id, "error", err)
			utils.JSONError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, c)
}

// listPublicCapsules handles GET /capsules/public.
func (h *capsuleHandlers) listPublicCapsules(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.ListPublic()
	if err != nil {
		logger.Error("list_public_failed", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Capsules []models.TimeCapsule `json:"capsules"`
	}{Capsules: out})
}

// listCapsulesByLocation handles GET /capsules/nearby?lat=&lon=&radius_km=.
// All three query parameters are required numbers.
func (h *capsuleHandlers) listCapsulesByLocation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, err1 := strconv.ParseFloat(q.Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(q.Get("lon"), 64)
	radius, err3 := strconv.ParseFloat(q.Get("radius_km"), 64)
	if err1 != nil || err2 != nil || err3 != nil {
		utils.JSONError(w, http.StatusBadRequest, "lat, lon and radius_km query parameters are required")
		return
	}
	out, err := h.svc.ListByLocation(lat, lon, radius)
	if err != nil {
		logger.Error("list_nearby_failed", "error", err)
		utils.JSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Capsules []models.TimeCapsule `json:"capsules"`
	}{Capsules: out})
}
