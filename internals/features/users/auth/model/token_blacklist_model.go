package model

import "time"

// TokenBlacklist holds revoked tokens (HMAC of the raw JWT) until they would have expired anyway.
type TokenBlacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TokenHash string    `gorm:"column:token_hash;size:64;not null;uniqueIndex" json:"-"`
	ExpiredAt time.Time `gorm:"column:expired_at;not null;index" json:"expiredAt"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (TokenBlacklist) TableName() string { return "token_blacklist" }
