package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog/log"
	"github.com/webharvest/loader-http-service/common/config"
	"github.com/webharvest/loader-http-service/common/constants"
	"github.com/webharvest/loader-http-service/common/db"
	"github.com/webharvest/loader-http-service/common/loader"
	"github.com/webharvest/loader-http-service/common/messaging"
	"github.com/webharvest/loader-http-service/common/models"
	"github.com/webharvest/loader-http-service/common/utils"
	"github.com/webharvest/loader-http-service/common/work"
	"github.com/webharvest/loader-http-service/repository"
)

type LoadHandler struct {
	db          *db.DB
	broker      *messaging.NatsBroker
	router      *chi.Mux
	cfg         config.Config
	loadManager *work.LoadManager
}

func NewLoadHandler(db *db.DB, broker *messaging.NatsBroker, cfg config.Config) *LoadHandler {
	router := chi.NewRouter()

	h := &LoadHandler{
		db:          db,
		broker:      broker,
		router:      router,
		cfg:         cfg,
		loadManager: work.NewLoadManager(db),
	}

	router.Post("/", h.handleCreateLoad)
	router.Get("/", h.handleListLoads)
	router.Get("/{jobID}", h.handleGetLoad)
	router.Get("/{jobID}/documents", h.handleListDocuments)
	router.Post("/{jobID}/cancel", h.handleCancelLoad)

	return h
}

func (h *LoadHandler) Router() *chi.Mux {
	return h.router
}

type LoadRunParams struct {
	Url    string         `json:"url" validate:"required,url"`
	Mode   string         `json:"mode" validate:"required"`
	Params map[string]any `json:"params"`
}

// handleCreateLoad godoc
// @Summary  Create a load job
// @Tags     loads
// @Accept   json
// @Produce  json
// @Param    request body LoadRunParams true "Load job request"
// @Success  200 {object} models.BaseResponse
// @Router   /loads [post]
func (h *LoadHandler) handleCreateLoad(w http.ResponseWriter, r *http.Request) {
	var p LoadRunParams

	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	mode, err := loader.ParseMode(p.Mode)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	params := json.RawMessage("{}")
	if p.Params != nil {
		params, err = json.Marshal(p.Params)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid load params")
			return
		}
	}

	job, err := h.db.Queries.CreateLoadJob(r.Context(), repository.CreateLoadJobParams{
		ID:     uuid.NewString(),
		Mode:   mode.String(),
		Url:    p.Url,
		Params: params,
		Status: work.StatusPending,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to create load job")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create load job")
		return
	}

	req := messaging.LoadRequest{
		JobID:  job.ID,
		Type:   constants.LoadRunAction,
		Mode:   job.Mode,
		URL:    job.Url,
		Params: p.Params,
	}

	msg, err := json.Marshal(req)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to marshal message")
		return
	}

	if err := h.broker.PublishSync(r.Context(), messaging.SubjectLoadRun, msg); err != nil {
		log.Error().Err(err).Msg("Failed to publish load request")
		utils.WriteError(w, http.StatusInternalServerError, "Failed to publish load request")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "success", "job_id": job.ID})
}

// handleListLoads godoc
// @Summary  List load jobs
// @Tags     loads
// @Produce  json
// @Param    page   query int    false "Page number"
// @Param    limit  query int    false "Items per page"
// @Param    status query string false "Filter by status"
// @Param    q      query string false "Search by URL"
// @Success  200 {object} models.BasePaginationResponse
// @Router   /loads [get]
func (h *LoadHandler) handleListLoads(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}

	offset := (page - 1) * limit

	status := r.URL.Query().Get("status")
	search := r.URL.Query().Get("q")

	listParams := repository.ListLoadJobsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	}
	if status != "" {
		listParams.Status = pgtype.Text{String: status, Valid: true}
	}
	if search != "" {
		listParams.Search = pgtype.Text{String: search, Valid: true}
	}

	jobs, err := h.db.Queries.ListLoadJobs(r.Context(), listParams)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to get load jobs")
		return
	}

	countParams := repository.CountLoadJobsParams{}
	if status != "" {
		countParams.Status = pgtype.Text{String: status, Valid: true}
	}
	if search != "" {
		countParams.Search = pgtype.Text{String: search, Valid: true}
	}

	total, err := h.db.Queries.CountLoadJobs(r.Context(), countParams)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to count load jobs")
		return
	}
	utils.WritePagination(w, http.StatusOK, jobs, page, limit, total)
}

// handleGetLoad godoc
// @Summary  Get a load job with its logs
// @Tags     loads
// @Produce  json
// @Param    jobID path string true "Job ID"
// @Success  200 {object} models.BaseResponse
// @Router   /loads/{jobID} [get]
func (h *LoadHandler) handleGetLoad(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := h.db.Queries.GetLoadJobByID(r.Context(), jobID)
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "Load job not found")
		return
	}

	logs, err := h.db.Queries.GetLoaderLogsByJobID(r.Context(), pgtype.Text{String: jobID, Valid: true})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to get job logs")
		return
	}

	responseLogs := make([]models.LoaderLogResponse, len(logs))
	for i, entry := range logs {
		var details interface{}
		if err := json.Unmarshal(entry.Details, &details); err != nil {
			details = string(entry.Details)
		}

		responseLogs[i] = models.LoaderLogResponse{
			ID:        entry.ID,
			JobID:     entry.JobID,
			EventType: entry.EventType,
			Message:   entry.Message,
			Details:   details,
			CreatedAt: entry.CreatedAt,
		}
	}

	detail := models.LoadJobDetailResponse{
		Job:  job,
		Logs: responseLogs,
	}

	utils.WriteJSON(w, http.StatusOK, detail)
}

// handleListDocuments godoc
// @Summary  List documents produced by a load job
// @Tags     loads
// @Produce  json
// @Param    jobID path  string true  "Job ID"
// @Param    page  query int    false "Page number"
// @Param    limit query int    false "Items per page"
// @Success  200 {object} models.BasePaginationResponse
// @Router   /loads/{jobID}/documents [get]
func (h *LoadHandler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	if _, err := h.db.Queries.GetLoadJobByID(r.Context(), jobID); err != nil {
		utils.WriteError(w, http.StatusNotFound, "Load job not found")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}

	offset := (page - 1) * limit

	docs, err := h.db.Queries.ListDocumentsByJobID(r.Context(), repository.ListDocumentsByJobIDParams{
		JobID:  jobID,
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to get documents")
		return
	}

	total, err := h.db.Queries.CountDocumentsByJobID(r.Context(), jobID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Failed to count documents")
		return
	}

	utils.WritePagination(w, http.StatusOK, docs, page, limit, total)
}

// handleCancelLoad godoc
// @Summary  Cancel a running load job
// @Tags     loads
// @Produce  json
// @Param    jobID path string true "Job ID"
// @Success  200 {object} models.BaseResponse
// @Router   /loads/{jobID}/cancel [post]
func (h *LoadHandler) handleCancelLoad(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	err := h.loadManager.Cancel(r.Context(), jobID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "success"})
}
