package twilioclient

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/pubplus-report-sync/internal/config"
)

const twilioAPIBaseURL = "https://api.twilio.com/2010-04-01"

// Client é o cliente REST mínimo da API de mensagens da Twilio
type Client struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// CheckCredentials valida as credenciais consultando os dados da conta.
// Usado antes de tentar enviar para distinguir credencial inválida de
// falha de envio.
func (c *Client) CheckCredentials() error {
	accountURL := fmt.Sprintf("%s/Accounts/%s.json", twilioAPIBaseURL, c.cfg.Twilio.AccountSID)

	req, err := http.NewRequest(http.MethodGet, accountURL, nil)
	if err != nil {
		return errors.Wrap(err, "erro ao criar requisição de validação")
	}
	req.SetBasicAuth(c.cfg.Twilio.AccountSID, c.cfg.Twilio.AuthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "erro ao validar credenciais da Twilio")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("credenciais da Twilio rejeitadas com status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

// SendSMS envia uma mensagem do número configurado para o destino
func (c *Client) SendSMS(message string) error {
	messagesURL := fmt.Sprintf("%s/Accounts/%s/Messages.json", twilioAPIBaseURL, c.cfg.Twilio.AccountSID)

	form := url.Values{}
	form.Add("From", c.cfg.Twilio.FromNumber)
	form.Add("To", c.cfg.Twilio.ToNumber)
	form.Add("Body", message)

	req, err := http.NewRequest(http.MethodPost, messagesURL, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "erro ao criar requisição de envio")
	}
	req.SetBasicAuth(c.cfg.Twilio.AccountSID, c.cfg.Twilio.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "erro ao enviar mensagem pela Twilio")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("envio pela Twilio falhou com status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
