// Package sharelink mints and verifies the signed tokens embedded in share
// links. A token names the zone being shared and survives on its own, so a
// link can be resolved without a database lookup.
package sharelink

import (
	"time"

	"github.com/akarpov88/petkeeper/internal/common"
	"github.com/akarpov88/petkeeper/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the share grant inside the signed token.
type Claims struct {
	jwt.RegisteredClaims
	Zone            string `json:"zone"`
	Owner           string `json:"owner"`
	ShareRecordName string `json:"share_record_name"`
	Title           string `json:"title"`
}

// Mint signs a share token for the given zone. Each token carries a random
// id so individual links stay distinguishable.
func Mint(zone, owner, shareRecordName, title string, secretKey []byte, validity time.Duration) (string, error) {
	id, err := shared.MakeRandHexString(8)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
			ID:        id,
		},
		Zone:            zone,
		Owner:           owner,
		ShareRecordName: shareRecordName,
		Title:           title,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify parses a share token and returns its claims.
func Verify(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, common.ErrInvalidShare
	}

	if !token.Valid {
		return nil, common.ErrInvalidShare
	}

	return claims, nil
}
