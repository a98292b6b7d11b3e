package handler

import (
	"embed"
	"errors"
	"net/http"

	"github.com/DeadlyParkour777/problemset/pkg/logger"
	"github.com/DeadlyParkour777/problemset/pkg/problemform"
	"github.com/DeadlyParkour777/problemset/pkg/utils"
	"github.com/DeadlyParkour777/problemset/problem_service/internal/service"
	"github.com/DeadlyParkour777/problemset/problem_service/internal/store"
	"github.com/DeadlyParkour777/problemset/problem_service/internal/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.yaml
var openApiSpec embed.FS

type Handler struct {
	service        service.Service
	validator      *validator.Validate
	jwtSecret      []byte
	allowedOrigins []string
	log            *logger.Logger
}

func NewHandler(service service.Service, jwtSecret string, allowedOrigins []string, log *logger.Logger) *Handler {
	return &Handler{
		service:        service,
		validator:      validator.New(),
		jwtSecret:      []byte(jwtSecret),
		allowedOrigins: allowedOrigins,
		log:            log,
	}
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	// Bearer auth only, no cookies.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		data, err := openApiSpec.ReadFile("openapi.yaml")
		if err != nil {
			http.Error(w, "Spec not found", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/x-yaml")
		w.Write(data)
	})

	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/openapi.yaml"),
	))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, "Problem service is running")
	})

	r.Route("/problems", func(r chi.Router) {
		r.Get("/", h.handleListProblems)
		r.Post("/validate", h.handleValidateProblem)
		r.Get("/{problemID}", h.handleGetProblem)
		r.Get("/{problemID}/testcases", h.handleGetTestCases)

		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Use(h.AdminOnlyMiddleware)
			r.Post("/", h.handleCreateProblem)
			r.Post("/{problemID}/testcases", h.handleCreateTestCase)
		})
	})

	return r
}

// handleValidateProblem reports field errors for a draft without storing it.
// A valid draft yields an empty object.
func (h *Handler) handleValidateProblem(w http.ResponseWriter, r *http.Request) {
	var sub problemform.Submission
	if err := utils.ParseJSON(r, &sub); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, problemform.Validate(sub))
}

func (h *Handler) handleCreateProblem(w http.ResponseWriter, r *http.Request) {
	var sub problemform.Submission
	if err := utils.ParseJSON(r, &sub); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	problem, err := h.service.CreateProblem(r.Context(), sub)
	if err != nil {
		var verr *problemform.ValidationError
		if errors.As(err, &verr) {
			utils.WriteFieldErrors(w, http.StatusUnprocessableEntity, "Problem submission is invalid", verr.Result)
			return
		}
		h.log.Error("failed to create problem", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to create problem")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, problem)
}

func (h *Handler) handleListProblems(w http.ResponseWriter, r *http.Request) {
	problems, err := h.service.ListProblems(r.Context())
	if err != nil {
		h.log.Error("failed to list problems", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to list problems")
		return
	}
	if problems == nil {
		problems = []*types.Problem{}
	}

	utils.WriteJSON(w, http.StatusOK, problems)
}

func (h *Handler) handleGetProblem(w http.ResponseWriter, r *http.Request) {
	problemID := chi.URLParam(r, "problemID")
	if problemID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Problem ID is required")
		return
	}

	problem, err := h.service.GetProblem(r.Context(), problemID)
	if err != nil {
		h.writeLookupError(w, err, "failed to get problem")
		return
	}

	utils.WriteJSON(w, http.StatusOK, problem)
}

func (h *Handler) handleGetTestCases(w http.ResponseWriter, r *http.Request) {
	problemID := chi.URLParam(r, "problemID")
	if problemID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Problem ID is required")
		return
	}

	testCases, err := h.service.GetTestCases(r.Context(), problemID)
	if err != nil {
		h.writeLookupError(w, err, "failed to get test cases")
		return
	}
	if testCases == nil {
		testCases = []*types.TestCase{}
	}

	utils.WriteJSON(w, http.StatusOK, testCases)
}

func (h *Handler) handleCreateTestCase(w http.ResponseWriter, r *http.Request) {
	problemID := chi.URLParam(r, "problemID")
	if problemID == "" {
		utils.WriteError(w, http.StatusBadRequest, "Problem ID is required in URL")
		return
	}

	var req types.CreateTestCaseRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	testCase, err := h.service.CreateTestCase(r.Context(), problemID, req.TestInput, req.TestOutput)
	if err != nil {
		h.writeLookupError(w, err, "failed to create test case")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, testCase)
}

func (h *Handler) writeLookupError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, store.ErrProblemNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Problem not found")
		return
	}
	h.log.Error(msg, "error", err)
	utils.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
