package driveclient

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const sheetsBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"

// Tentativas e intervalo para a condição SERVICE_DISABLED: a API de
// Sheets recém-habilitada demora alguns minutos para propagar
const (
	serviceReadyMaxRetries = 3
	serviceReadyRetryDelay = 20 * time.Second
)

type valueRange struct {
	Values [][]string `json:"values"`
}

// EnsureSheetsReady verifica se a API de Sheets responde, com retry
// limitado apenas para SERVICE_DISABLED. Qualquer outra falha é
// retornada imediatamente; um 404 significa que a API funciona.
func (c *Client) EnsureSheetsReady(spreadsheetID string) error {
	var lastErr error

	for attempt := 1; attempt <= serviceReadyMaxRetries; attempt++ {
		body, status, err := c.Get(fmt.Sprintf("%s/%s?fields=spreadsheetId", sheetsBaseURL, spreadsheetID))
		if err != nil {
			return err
		}

		switch {
		case status == http.StatusOK, status == http.StatusNotFound:
			return nil
		case strings.Contains(string(body), "SERVICE_DISABLED"):
			lastErr = fmt.Errorf("API de Sheets ainda não habilitada (tentativa %d/%d)", attempt, serviceReadyMaxRetries)
			logrus.WithField("attempt", attempt).Warn("API de Sheets não está pronta, aguardando para tentar de novo")
			if attempt < serviceReadyMaxRetries {
				time.Sleep(serviceReadyRetryDelay)
			}
		default:
			return fmt.Errorf("verificação da API de Sheets falhou com status %d: %s", status, string(body))
		}
	}

	return lastErr
}

// FirstSheetTitle retorna o título da primeira aba da planilha
func (c *Client) FirstSheetTitle(spreadsheetID string) (string, error) {
	body, status, err := c.Get(fmt.Sprintf("%s/%s?fields=sheets.properties.title", sheetsBaseURL, spreadsheetID))
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("leitura de metadados da planilha falhou com status %d: %s", status, string(body))
	}

	var meta struct {
		Sheets []struct {
			Properties struct {
				Title string `json:"title"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	if err := json.Unmarshal(body, &meta); err != nil {
		return "", errors.Wrap(err, "erro ao decodificar metadados da planilha")
	}
	if len(meta.Sheets) == 0 {
		return "", errors.New("planilha sem abas")
	}

	return meta.Sheets[0].Properties.Title, nil
}

// GetValues lê todas as células de um range
func (c *Client) GetValues(spreadsheetID, readRange string) ([][]string, error) {
	body, status, err := c.Get(fmt.Sprintf("%s/%s/values/%s", sheetsBaseURL, spreadsheetID, url.PathEscape(readRange)))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("leitura de valores falhou com status %d: %s", status, string(body))
	}

	var values valueRange
	if err := json.Unmarshal(body, &values); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar valores da planilha")
	}

	return values.Values, nil
}

// ClearValues limpa todas as células de um range
func (c *Client) ClearValues(spreadsheetID, clearRange string) error {
	body, status, err := c.PostJSON(
		fmt.Sprintf("%s/%s/values/%s:clear", sheetsBaseURL, spreadsheetID, url.PathEscape(clearRange)),
		map[string]any{},
	)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("limpeza da planilha falhou com status %d: %s", status, string(body))
	}

	return nil
}

// UpdateValues escreve um bloco de células a partir de startCell
func (c *Client) UpdateValues(spreadsheetID, sheetTitle, startCell string, values [][]string) error {
	writeRange := fmt.Sprintf("%s!%s", sheetTitle, startCell)

	body, status, err := c.PutJSON(
		fmt.Sprintf("%s/%s/values/%s?valueInputOption=RAW", sheetsBaseURL, spreadsheetID, url.PathEscape(writeRange)),
		valueRange{Values: values},
	)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("escrita na planilha falhou com status %d: %s", status, string(body))
	}

	return nil
}
