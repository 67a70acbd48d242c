package pubplusclient

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/internal/config"
)

// ErrTokenExpired indica que a API rejeitou o token. O token do PubPlus
// é emitido manualmente pela console web; o serviço só consegue avisar,
// não renovar.
var ErrTokenExpired = errors.New("token do PubPlus expirado ou rejeitado pela API")

// TokenManager inspeciona o token bearer configurado. O token é um JWT:
// a claim exp é lida sem validar a assinatura (não temos o segredo do
// fornecedor) apenas para antecipar a expiração antes do primeiro 401.
type TokenManager struct {
	cfg *config.Config

	mu        sync.Mutex
	expiresAt time.Time
	parsed    bool
}

// NewTokenManager cria o gerenciador e tenta extrair a expiração do token
func NewTokenManager(cfg *config.Config) *TokenManager {
	tm := &TokenManager{cfg: cfg}

	if expiresAt, err := parseExpiration(cfg.PubPlus.AuthToken); err != nil {
		logrus.WithError(err).Warn("Não foi possível extrair a expiração do token do PubPlus")
	} else {
		tm.expiresAt = expiresAt
		tm.parsed = true
		logrus.WithField("expires_at", expiresAt.Format(time.RFC3339)).
			Info("Expiração do token do PubPlus identificada")
	}

	return tm
}

// parseExpiration decodifica a claim exp de um JWT sem verificar a assinatura
func parseExpiration(token string) (time.Time, error) {
	if token == "" {
		return time.Time{}, errors.New("token não configurado")
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("erro ao decodificar JWT: %w", err)
	}

	expiration, err := claims.GetExpirationTime()
	if err != nil || expiration == nil {
		return time.Time{}, errors.New("JWT sem claim exp")
	}

	return expiration.Time, nil
}

// ExpiresAt retorna a expiração conhecida do token, ou zero se o token
// não pôde ser decodificado
func (tm *TokenManager) ExpiresAt() time.Time {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.expiresAt
}

// Expired informa se o token já expirou segundo a claim exp
func (tm *TokenManager) Expired() bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.parsed && time.Now().After(tm.expiresAt)
}

// ExpiringWithin informa se o token expira dentro da duração dada
func (tm *TokenManager) ExpiringWithin(d time.Duration) bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.parsed && time.Now().Add(d).After(tm.expiresAt)
}

// HandleResponse lê o corpo da resposta e mapeia os status de
// autenticação para ErrTokenExpired
func (tm *TokenManager) HandleResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler corpo da resposta: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		logrus.WithFields(logrus.Fields{
			"status": resp.StatusCode,
		}).Error("API do PubPlus rejeitou o token de autenticação")
		return nil, ErrTokenExpired
	default:
		return nil, fmt.Errorf("requisição ao PubPlus falhou com status %d: %s", resp.StatusCode, string(body))
	}
}
