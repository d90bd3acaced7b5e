package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fastpace/flightapi/internal/middleware"
	"github.com/fastpace/flightapi/internal/service/users"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service users.UserUseCase
}

func NewUserHandler(service users.UserUseCase) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.PUT("/upload", h.uploadPhoto)
	router.DELETE("/delete-photo", h.deletePhoto)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
}

type userUpdateRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func (h *UserHandler) list(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication credentials were not provided"})
		return
	}
	all, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		respondErr(c, err)
		return
	}
	out := make([]userResponse, 0, len(all))
	for i := range all {
		out = append(out, toUserResponse(&all[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *UserHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	user, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication credentials were not provided"})
		return
	}

	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	var req userUpdateRequest
	if err := decoder.Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Some of the fields provided are not allowed for this action"})
		return
	}

	user, err := h.service.Update(c.Request.Context(), id, actor, users.Patch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) uploadPhoto(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication credentials were not provided"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file attached"})
		return
	}
	defer file.Close()

	user, err := h.service.UploadPhoto(c.Request.Context(), actor, header.Filename,
		header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) deletePhoto(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication credentials were not provided"})
		return
	}
	if err := h.service.DeletePhoto(c.Request.Context(), actor); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
