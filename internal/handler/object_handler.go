package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"file-sharing-server/config"
	"file-sharing-server/internal/model"
	requestresponse "file-sharing-server/internal/model/requestresponse"
	"file-sharing-server/internal/ports"
	"file-sharing-server/internal/security"
	"file-sharing-server/internal/util"

	"github.com/go-chi/chi/v5"
)

type ObjectHandler struct {
	ports.AccessService
	upload *config.UploadConfig
}

func NewObjectHandler(accessService ports.AccessService, upload *config.UploadConfig) *ObjectHandler {
	return &ObjectHandler{accessService, upload}
}

// writeServiceError : сопоставляет вид ошибки сервиса с HTTP-кодом.
// Forbidden никогда не подменяется на NotFound и наоборот — сервис уже
// решил детерминированно, какой из них применим.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		util.HandleError(w, "не найдено", http.StatusNotFound)
	case errors.Is(err, model.ErrForbidden):
		util.HandleError(w, "доступ запрещён", http.StatusForbidden)
	case errors.Is(err, model.ErrInvalidInput):
		util.HandleError(w, "некорректный запрос", http.StatusBadRequest)
	default:
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// Upload godoc
// @Summary Загрузка файлов
// @Description Загружает один или несколько файлов, multipart/form-data, поле files
// @Tags Objects
// @Accept multipart/form-data
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.UploadResponse
// @Failure 400 {object} requestresponse.ErrorResponse
// @Router /api/files/upload [post]
func (h *ObjectHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	maxBytes := h.upload.MaxSizeMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		util.HandleError(w, "файлы не найдены в запросе", http.StatusBadRequest)
		return
	}

	saved := []model.Object{}
	for _, header := range fileHeaders {
		file, err := header.Open()
		if err != nil {
			util.HandleError(w, "ошибка чтения файла", http.StatusBadRequest)
			return
		}

		object, err := h.AccessService.Upload(
			r.Context(),
			claims.UserUUID,
			header.Filename,
			header.Header.Get("Content-Type"),
			file,
			header.Size,
		)
		file.Close()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		saved = append(saved, *object)
	}

	writeJSON(w, requestresponse.UploadResponse{Files: saved})
}

// List godoc
// @Summary Список доступных объектов
// @Description Свои объекты и объекты, выданные по grant
// @Tags Objects
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} model.AccessibleObjects
// @Router /api/files/list [get]
func (h *ObjectHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	accessible, err := h.ListAccessible(r.Context(), claims.UserUUID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, accessible)
}

// Shares : активные grant и share-ссылки объекта (только владелец)
func (h *ObjectHandler) Shares(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	shares, err := h.ListShares(r.Context(), claims.UserUUID, chi.URLParam(r, "object_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, shares)
}

// Download godoc
// @Summary Скачивание объекта
// @Tags Objects
// @Produce octet-stream
// @Param object_id path string true "UUID объекта"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {file} binary
// @Failure 403 {object} requestresponse.ErrorResponse
// @Failure 404 {object} requestresponse.ErrorResponse
// @Router /api/files/download/{object_id} [get]
func (h *ObjectHandler) Download(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	result, err := h.AccessService.Download(r.Context(), claims.UserUUID, chi.URLParam(r, "object_id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer result.Body.Close()

	streamObject(w, result)
}

// CreateShareLink : выдать токенизированную ссылку на объект
func (h *ObjectHandler) CreateShareLink(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var req requestresponse.CreateLinkRequest
	if r.Body != nil {
		// тело опционально: без него ссылка бессрочная
		json.NewDecoder(r.Body).Decode(&req)
	}

	link, err := h.AccessService.CreateShareLink(r.Context(), claims.UserUUID, chi.URLParam(r, "object_id"), req.ExpiresInSeconds)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, requestresponse.CreateLinkResponse{
		Link:      fmt.Sprintf("/api/files/access-link/%s", link.Token),
		Token:     link.Token,
		ExpiresAt: link.ExpiresAt,
	})
}

// AccessLink : скачивание по share-ссылке. Требует входа: токен даёт право
// чтения, но не заменяет аутентификацию.
func (h *ObjectHandler) AccessLink(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	result, err := h.AccessViaLink(r.Context(), claims.UserUUID, chi.URLParam(r, "token"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	defer result.Body.Close()

	streamObject(w, result)
}

// AccessInfo : сведения о share-ссылке без скачивания
func (h *ObjectHandler) AccessInfo(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	info, err := h.LinkInfo(r.Context(), claims.UserUUID, chi.URLParam(r, "token"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := requestresponse.LinkInfoResponse{
		Name:          info.Object.Name,
		SizeBytes:     info.Object.SizeBytes,
		ContentType:   info.Object.ContentType,
		CreatedAt:     info.Link.CreatedAt,
		ExpiresAt:     info.Link.ExpiresAt,
		DownloadCount: info.Link.AccessCount,
		Valid:         true,
	}
	if info.Owner != nil {
		resp.Owner = requestresponse.OwnerInfo{
			UUID:  info.Owner.UUID,
			Name:  info.Owner.Name,
			Email: info.Owner.Email,
		}
	}

	writeJSON(w, resp)
}

// ShareWithUsers : выдать grant списку пользователей
func (h *ObjectHandler) ShareWithUsers(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var req requestresponse.ShareUsersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	created, err := h.GrantToUsers(r.Context(), claims.UserUUID, chi.URLParam(r, "object_id"), req.UserUUIDs, req.ExpiresInSeconds)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, requestresponse.ShareUsersResponse{Created: created})
}

// RevokeUser : отозвать grant пользователя
func (h *ObjectHandler) RevokeUser(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	var req requestresponse.RevokeUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.RevokeUserAccess(r.Context(), claims.UserUUID, chi.URLParam(r, "object_id"), req.UserUUID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, requestresponse.OkResponse{Ok: true})
}

// RevokeShareLink : отозвать share-ссылку
func (h *ObjectHandler) RevokeShareLink(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.RevokeLink(r.Context(), claims.UserUUID, chi.URLParam(r, "token")); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, requestresponse.OkResponse{Ok: true})
}

// Delete godoc
// @Summary Удаление объекта
// @Description Каскадно удаляет объект: блоб, grant, ссылки, метаданные
// @Tags Objects
// @Produce json
// @Param object_id path string true "UUID объекта"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.OkResponse
// @Router /api/files/{object_id} [delete]
func (h *ObjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, err := security.GetClaimsFromContext(r.Context())
	if err != nil {
		util.HandleError(w, "пользователь не авторизован", http.StatusUnauthorized)
		return
	}

	if err := h.DeleteObject(r.Context(), claims.UserUUID, chi.URLParam(r, "object_id")); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, requestresponse.OkResponse{Ok: true})
}

func streamObject(w http.ResponseWriter, result *ports.DownloadResult) {
	contentType := result.Object.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Object.Name))
	w.Header().Set("Content-Type", contentType)

	if _, err := io.Copy(w, result.Body); err != nil {
		// поток уже начат, статус не поменять — только лог
		util.LogError("[ObjectHandler] ошибка отдачи содержимого", err)
	}
}
