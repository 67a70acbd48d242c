package twilio

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/pubplus-report-sync/internal/config"
)

type fakeSMSSender struct {
	checkErr error
	sendErr  error
	sent     []string
}

func (f *fakeSMSSender) CheckCredentials() error {
	return f.checkErr
}

func (f *fakeSMSSender) SendSMS(message string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, message)
	return nil
}

func configuredTwilio() *config.Config {
	cfg := &config.Config{}
	cfg.Twilio.AccountSID = "AC123"
	cfg.Twilio.AuthToken = "token"
	cfg.Twilio.FromNumber = "+15550001111"
	cfg.Twilio.ToNumber = "+15550002222"
	return cfg
}

func TestTwilioNotifier_Notify_Enviado(t *testing.T) {
	sender := &fakeSMSSender{}
	notifier := New(configuredTwilio(), sender)

	delivered := notifier.Notify("relatório concluído")

	assert.True(t, delivered)
	assert.Equal(t, []string{"relatório concluído"}, sender.sent)
}

func TestTwilioNotifier_Notify_SemCredenciais(t *testing.T) {
	sender := &fakeSMSSender{}
	notifier := New(&config.Config{}, sender)

	delivered := notifier.Notify("sem credenciais")

	assert.False(t, delivered)
	assert.Empty(t, sender.sent)
}

func TestTwilioNotifier_Notify_CredenciaisInvalidas(t *testing.T) {
	sender := &fakeSMSSender{checkErr: errors.New("401 unauthorized")}
	notifier := New(configuredTwilio(), sender)

	delivered := notifier.Notify("credenciais ruins")

	assert.False(t, delivered)
	assert.Empty(t, sender.sent)
}

func TestTwilioNotifier_Notify_FalhaNoEnvio(t *testing.T) {
	sender := &fakeSMSSender{sendErr: errors.New("500 internal")}
	notifier := New(configuredTwilio(), sender)

	delivered := notifier.Notify("falha de envio")

	assert.False(t, delivered)
}
