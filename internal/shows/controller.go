package shows

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cinebook/internal/movies"
	"cinebook/internal/shared/utils/response"
)

type Controller interface {
	AddShows(c *gin.Context)
	GetAllMovies(c *gin.Context)
	GetMovie(c *gin.Context)
	GetMovieShows(c *gin.Context)
	GetShow(c *gin.Context)
	GetSeatLayout(c *gin.Context)
	GetUpcomingShows(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) AddShows(c *gin.Context) {
	var req AddShowRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	created, err := ctrl.service.AddShows(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrShowInPast) {
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to add shows", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Shows added successfully", created, nil)
}

func (ctrl *controller) GetAllMovies(c *gin.Context) {
	result, err := ctrl.service.GetAllMovies(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch movies", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Movies retrieved successfully", result, nil)
}

func (ctrl *controller) GetMovie(c *gin.Context) {
	movieID := c.Param("id")
	if movieID == "" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Movie ID is required", nil, nil)
		return
	}

	movie, err := ctrl.service.GetMovie(c.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Movie not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch movie", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Movie retrieved successfully", movie, nil)
}

func (ctrl *controller) GetMovieShows(c *gin.Context) {
	movieID := c.Param("id")
	if movieID == "" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Movie ID is required", nil, nil)
		return
	}

	result, err := ctrl.service.GetShowsByMovie(c.Request.Context(), movieID)
	if err != nil {
		if errors.Is(err, movies.ErrMovieNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Movie not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch movie shows", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Movie shows retrieved successfully", result, nil)
}

func (ctrl *controller) GetShow(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid show ID format", nil, nil)
		return
	}

	result, err := ctrl.service.GetShow(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrShowNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Show not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch show", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Show retrieved successfully", result, nil)
}

func (ctrl *controller) GetSeatLayout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid show ID format", nil, nil)
		return
	}

	result, err := ctrl.service.GetSeatLayout(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrShowNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Show not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch seat layout", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat layout retrieved successfully", result, nil)
}

func (ctrl *controller) GetUpcomingShows(c *gin.Context) {
	result, err := ctrl.service.GetUpcoming(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch upcoming shows", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Upcoming shows retrieved successfully", result, nil)
}
