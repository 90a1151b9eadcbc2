package port

import "github.com/Victor-cmda/serveon-sub001/internal/core/domain"

type TokenPayload struct {
	EmployeeID uint64
}

//go:generate mockgen -source=auth.go -destination=mock/auth.go -package=mock
type TokenService interface {
	CreateToken(employee *domain.Employee) (string, error)
	VerifyToken(token string) (*TokenPayload, error)
}
