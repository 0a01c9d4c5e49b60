package requestresponse

import (
	"time"

	"file-sharing-server/internal/model"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type UploadResponse struct {
	Files []model.Object `json:"files"`
}

type ShareUsersRequest struct {
	UserUUIDs        []string `json:"userIds"`
	ExpiresInSeconds int64    `json:"expiresInSeconds,omitempty"`
}

type ShareUsersResponse struct {
	Created []model.Grant `json:"created"`
}

type CreateLinkRequest struct {
	ExpiresInSeconds int64 `json:"expiresInSeconds,omitempty"`
}

type CreateLinkResponse struct {
	Link      string     `json:"link"`
	Token     string     `json:"token"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type RevokeUserRequest struct {
	UserUUID string `json:"userId"`
}

type LinkInfoResponse struct {
	Name          string     `json:"filename"`
	SizeBytes     int64      `json:"size"`
	ContentType   string     `json:"contentType"`
	Owner         OwnerInfo  `json:"owner"`
	CreatedAt     time.Time  `json:"createdAt"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	DownloadCount int64      `json:"downloadCount"`
	Valid         bool       `json:"valid"`
}

type OwnerInfo struct {
	UUID  string `json:"uuid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OkResponse struct {
	Ok bool `json:"ok"`
}
