package http

import (
	"strings"

	"github.com/Victor-cmda/serveon-sub001/internal/core/domain"
	"github.com/Victor-cmda/serveon-sub001/internal/core/port"
	"github.com/gin-gonic/gin"
)

const authHeaderKey = "Authorization"
const authType = "Bearer"
const actorPayloadKey = "actor_payload"

// actorContext extracts the acting employee from an optional bearer
// token. Requests without a token pass through; a malformed or invalid
// token is rejected.
func actorContext(tokenService port.TokenService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.Request.Header.Get(authHeaderKey)
		if len(header) == 0 {
			ctx.Next()
			return
		}

		words := strings.Split(header, " ")
		if len(words) != 2 {
			handleAbort(ctx, domain.ErrInvalidAuthorizationHeader)
			return
		}
		if words[0] != authType {
			handleAbort(ctx, domain.ErrInvalidAuthorizationType)
			return
		}
		token := words[1]
		payload, err := tokenService.VerifyToken(token)
		if err != nil {
			handleAbort(ctx, domain.ErrInvalidToken)
			return
		}

		ctx.Set(actorPayloadKey, payload)

		ctx.Next()
	}
}

// getActorPayload returns the token payload set by actorContext, or nil
// when the request carried no token.
func getActorPayload(ctx *gin.Context) *port.TokenPayload {
	value, ok := ctx.Get(actorPayloadKey)
	if !ok {
		return nil
	}
	return value.(*port.TokenPayload)
}
