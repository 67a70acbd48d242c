package pubplusclient

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GetCampaignsReport busca o relatório de campanhas para um intervalo de
// datas. A API espera timestamps locais no formato "2006-01-02 15:04:05".
func (c *PubPlusClient) GetCampaignsReport(start, end time.Time) (*domain.RawReport, error) {
	baseURL := fmt.Sprintf("%s/api/campaigns_report", c.Cfg.PubPlus.URL)

	params := url.Values{}
	params.Add("from_datetime", start.Format(time.DateTime))
	params.Add("to_datetime", end.Format(time.DateTime))
	params.Add("network_code", c.Cfg.PubPlus.NetworkCode)

	req, err := http.NewRequest(http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar a requisição")
		return nil, err
	}

	// A API recusa requisições sem o perfil completo de headers do
	// painel web, por isso todos são configuráveis
	req.Header.Set("accept", c.Cfg.PubPlus.Accept)
	req.Header.Set("accept-language", "en")
	req.Header.Set("authorization", "Bearer "+c.Cfg.PubPlus.AuthToken)
	req.Header.Set("origin", c.Cfg.PubPlus.Origin)
	req.Header.Set("referer", c.Cfg.PubPlus.Referer)
	req.Header.Set("user-agent", c.Cfg.PubPlus.UserAgent)
	req.Header.Set("x-pp-client-id", c.Cfg.PubPlus.ClientID)
	req.Header.Set("x-pp-git-version", c.Cfg.PubPlus.GitVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithError(err).Error("Erro ao fazer a requisição")
		return nil, err
	}
	defer resp.Body.Close()

	body, err := c.HandleResponse(resp)
	if err != nil {
		return nil, err
	}

	var report domain.RawReport
	if err := json.Unmarshal(body, &report); err != nil {
		logrus.WithError(err).Error("Erro ao decodificar JSON do relatório")
		return nil, err
	}

	return &report, nil
}
