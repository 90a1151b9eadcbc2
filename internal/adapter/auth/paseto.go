package auth

import (
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/Victor-cmda/serveon-sub001/internal/core/domain"
	"github.com/Victor-cmda/serveon-sub001/internal/core/port"
)

// PasetoToken issues and verifies actor tokens: short-lived local tokens
// carrying the acting employee id, so order mutations know who is acting
// without a full identity system.
type PasetoToken struct {
	parser *paseto.Parser
	key    *paseto.V4SymmetricKey
	token  *paseto.Token
}

func New() (port.TokenService, error) {
	parser := paseto.NewParser()
	key := paseto.NewV4SymmetricKey()
	token := paseto.NewToken()

	s := PasetoToken{
		parser: &parser,
		key:    &key,
		token:  &token,
	}

	return &s, nil
}

func (p *PasetoToken) CreateToken(employee *domain.Employee) (string, error) {
	p.token.SetExpiration(time.Now().Add(12 * time.Hour))

	payload := port.TokenPayload{EmployeeID: employee.ID}
	err := p.token.Set("payload", payload)
	if err != nil {
		return "", domain.ErrTokenCreation
	}

	return p.token.V4Encrypt(*p.key, nil), nil
}

func (p *PasetoToken) VerifyToken(token string) (*port.TokenPayload, error) {
	parsedToken, err := p.parser.ParseV4Local(*p.key, token, nil)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	payload := port.TokenPayload{}
	err = parsedToken.Get("payload", &payload)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return &payload, nil
}
