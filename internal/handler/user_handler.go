package handler

import (
	"encoding/json"
	"net/http"

	requestresponse "file-sharing-server/internal/model/requestresponse"
	"file-sharing-server/internal/ports"
	"file-sharing-server/internal/util"
)

type UserHandler struct {
	ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService}
}

// Register godoc
// @Summary Регистрация пользователя
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} requestresponse.AuthResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Router /api/auth/signup [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	token, user, err := h.UserService.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, requestresponse.AuthResponse{
		Token: token,
		User:  requestresponse.UserInfo{UUID: user.UUID, Email: user.Email, Name: user.Name},
	})
}

// Login godoc
// @Summary Вход пользователя
// @Tags Users
// @Accept json
// @Produce json
// @Success 200 {object} requestresponse.AuthResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Router /api/auth/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	token, user, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, requestresponse.AuthResponse{
		Token: token,
		User:  requestresponse.UserInfo{UUID: user.UUID, Email: user.Email, Name: user.Name},
	})
}

// FindByEmail : поиск пользователя для шаринга
func (h *UserHandler) FindByEmail(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.FindByEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.FindByEmail(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, requestresponse.UserInfo{UUID: user.UUID, Email: user.Email, Name: user.Name})
}
