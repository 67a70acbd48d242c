package twilio

import (
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/internal/config"
)

// SMSSender abstrai o cliente da Twilio para permitir testes
type SMSSender interface {
	CheckCredentials() error
	SendSMS(message string) error
}

// TwilioNotifier envia alertas operacionais por SMS. Implementa
// reporting.Notifier. Toda mensagem é sempre registrada no log,
// independentemente do envio ter funcionado — o log é o fallback
// quando as credenciais estão ausentes ou inválidas.
type TwilioNotifier struct {
	cfg    *config.Config
	client SMSSender
}

func New(cfg *config.Config, client SMSSender) *TwilioNotifier {
	return &TwilioNotifier{
		cfg:    cfg,
		client: client,
	}
}

// configured informa se há credenciais suficientes para tentar o envio
func (n *TwilioNotifier) configured() bool {
	return n.cfg.Twilio.AccountSID != "" &&
		n.cfg.Twilio.AuthToken != "" &&
		n.cfg.Twilio.FromNumber != "" &&
		n.cfg.Twilio.ToNumber != ""
}

// Notify entrega a mensagem por SMS quando possível. Retorna true se o
// SMS foi enviado; false indica que apenas o log recebeu a mensagem.
func (n *TwilioNotifier) Notify(message string) bool {
	logrus.WithField("message", message).Warn("Notificação operacional")

	if !n.configured() {
		logrus.Debug("Twilio sem credenciais, notificação ficou apenas no log")
		return false
	}

	if err := n.client.CheckCredentials(); err != nil {
		logrus.WithError(err).Error("Credenciais da Twilio inválidas, notificação ficou apenas no log")
		return false
	}

	if err := n.client.SendSMS(message); err != nil {
		logrus.WithError(err).Error("Falha ao enviar SMS, notificação ficou apenas no log")
		return false
	}

	logrus.WithField("to", n.cfg.Twilio.ToNumber).Info("Notificação enviada por SMS")
	return true
}
