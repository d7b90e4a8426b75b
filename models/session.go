package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims, session token'ın JWT claim'leri.
//
// Token stateless'tır: server tarafında session kaydı tutulmaz, geçerlilik
// tamamen imza + exp kontrolüdür. Bu sayede yatay ölçeklenebilir ama
// revocation yoktur — sızan token doğal süresi (7 gün) dolana kadar geçerli
// kalır. Revocation istenirse token id'li bir denylist eklenmesi gerekir;
// bu core'da bilinçli olarak yoktur.
type SessionClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}
