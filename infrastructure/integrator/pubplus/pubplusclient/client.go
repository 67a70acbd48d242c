package pubplusclient

import (
	"net/http"
	"time"

	"github.com/vfg2006/pubplus-report-sync/internal/config"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

type Client interface {
	GetCampaignsReport(start, end time.Time) (*domain.RawReport, error)
	TokenExpiresAt() time.Time
	TokenExpired() bool
	TokenExpiringWithin(d time.Duration) bool
	HandleResponse(resp *http.Response) ([]byte, error)
}

type PubPlusClient struct {
	Cfg          *config.Config
	TokenManager *TokenManager
	httpClient   *http.Client
}

func NewClient(cfg *config.Config, tokenManager *TokenManager) Client {
	return &PubPlusClient{
		Cfg:          cfg,
		TokenManager: tokenManager,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

// TokenExpiresAt informa quando o token configurado expira
func (c *PubPlusClient) TokenExpiresAt() time.Time {
	return c.TokenManager.ExpiresAt()
}

// TokenExpired informa se o token configurado já expirou
func (c *PubPlusClient) TokenExpired() bool {
	return c.TokenManager.Expired()
}

// TokenExpiringWithin informa se o token expira dentro da duração dada
func (c *PubPlusClient) TokenExpiringWithin(d time.Duration) bool {
	return c.TokenManager.ExpiringWithin(d)
}

// HandleResponse manipula a resposta HTTP e mapeia 401 para a condição
// de token expirado
func (c *PubPlusClient) HandleResponse(resp *http.Response) ([]byte, error) {
	return c.TokenManager.HandleResponse(resp)
}
