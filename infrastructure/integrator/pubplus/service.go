package pubplus

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/infrastructure/integrator/pubplus/pubplusclient"
	"github.com/vfg2006/pubplus-report-sync/internal/config"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

// PubPlusIntegrator expõe o relatório de campanhas do PubPlus para o
// pipeline. Implementa reporting.ReportFetcher.
type PubPlusIntegrator struct {
	cfg    *config.Config
	Client pubplusclient.Client
}

func New(cfg *config.Config, client pubplusclient.Client) *PubPlusIntegrator {
	return &PubPlusIntegrator{
		cfg:    cfg,
		Client: client,
	}
}

// FetchCampaignReport busca o relatório de um intervalo de datas
func (s *PubPlusIntegrator) FetchCampaignReport(start, end time.Time) (*domain.RawReport, error) {
	report, err := s.Client.GetCampaignsReport(start, end)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"start": start.Format(time.DateTime),
			"end":   end.Format(time.DateTime),
			"error": err.Error(),
		}).Error("report: falha ao buscar relatório de campanhas na API")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"start":     start.Format(time.DateTime),
		"end":       end.Format(time.DateTime),
		"campaigns": len(report.Report),
	}).Debug("report: relatório de campanhas obtido com sucesso")

	return report, nil
}

// TokenExpired informa se o token configurado já expirou
func (s *PubPlusIntegrator) TokenExpired() bool {
	return s.Client.TokenExpired()
}

// TokenExpiringWithin informa se o token expira dentro da duração dada
func (s *PubPlusIntegrator) TokenExpiringWithin(d time.Duration) bool {
	return s.Client.TokenExpiringWithin(d)
}

// TokenExpiresAt informa quando o token configurado expira
func (s *PubPlusIntegrator) TokenExpiresAt() time.Time {
	return s.Client.TokenExpiresAt()
}
