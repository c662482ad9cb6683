package model

import "github.com/golang-jwt/jwt/v5"

type AccessClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type RefreshClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}
