package model

import "time"

// Object : метаданные загруженного файла. Содержимое лежит в блоб-хранилище
// под BlobID. Владелец назначается при загрузке и никогда не меняется,
// BlobID после создания неизменяем (замена содержимого = новый Object).
type Object struct {
	UUID        string    `db:"uuid" json:"uuid"`
	OwnerUUID   string    `db:"owner_uuid" json:"owner_uuid"`
	Name        string    `db:"name" json:"name"`
	ContentType string    `db:"content_type" json:"content_type"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
	BlobID      string    `db:"blob_id" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Grant : право доступа пользователя к чужому объекту.
// На пару (объект, получатель) существует не больше одной активной записи.
// Grant с истёкшим ExpiresAt считается отсутствующим независимо от того,
// удалена ли строка физически.
type Grant struct {
	ObjectUUID  string     `db:"object_uuid" json:"object_uuid"`
	GranteeUUID string     `db:"grantee_uuid" json:"grantee_uuid"`
	OwnerUUID   string     `db:"owner_uuid" json:"owner_uuid"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	ExpiresAt   *time.Time `db:"expires_at" json:"expires_at,omitempty"`
}

// ShareLink : токенизированная ссылка на объект. Токеном может
// воспользоваться любой аутентифицированный пользователь.
// AccessCount — best-effort счётчик скачиваний.
type ShareLink struct {
	Token       string     `db:"token" json:"token"`
	ObjectUUID  string     `db:"object_uuid" json:"object_uuid"`
	OwnerUUID   string     `db:"owner_uuid" json:"owner_uuid"`
	AccessCount int64      `db:"access_count" json:"access_count"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	ExpiresAt   *time.Time `db:"expires_at" json:"expires_at,omitempty"`
}

// AccessibleObjects : результат листинга — свои объекты и выданные по grant
type AccessibleObjects struct {
	Owned  []Object `json:"own"`
	Shared []Object `json:"shared"`
}

// ObjectShares : кому и как расшарен объект
type ObjectShares struct {
	Users []Grant     `json:"users"`
	Links []ShareLink `json:"links"`
}
