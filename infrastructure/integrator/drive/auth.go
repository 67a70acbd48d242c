package drive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/infrastructure/integrator/drive/driveclient"
	"github.com/vfg2006/pubplus-report-sync/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	oauthAuthURL  = "https://accounts.google.com/o/oauth2/v2/auth"
	oauthTokenURL = "https://oauth2.googleapis.com/token"
	oauthScope    = "https://www.googleapis.com/auth/drive https://www.googleapis.com/auth/spreadsheets"

	// Tempo máximo aguardando o operador concluir o consentimento no
	// navegador antes do helper se desligar sozinho
	authFlowTimeout = 3 * time.Minute
)

// AuthHelper conduz o fluxo OAuth interativo de primeira execução: sobe
// um servidor local para capturar o código de autorização e o troca por
// tokens. O pipeline nunca bloqueia nele — o helper se desliga sozinho
// depois do timeout.
type AuthHelper struct {
	cfg    *config.Config
	client *driveclient.Client
}

func NewAuthHelper(cfg *config.Config, client *driveclient.Client) *AuthHelper {
	return &AuthHelper{
		cfg:    cfg,
		client: client,
	}
}

// NeedsInteractiveAuth informa se não há nenhuma credencial do Drive
// configurada que permita operar sem intervenção
func (h *AuthHelper) NeedsInteractiveAuth() bool {
	return h.cfg.Drive.AccessToken == "" && h.cfg.Drive.RefreshToken == ""
}

// Start inicia o fluxo em background e loga a URL de consentimento. O
// retorno é imediato; quando o operador concluir o fluxo, o access token
// é instalado no client do Drive.
func (h *AuthHelper) Start() {
	redirectURI := fmt.Sprintf("http://localhost:%s", h.cfg.Drive.RedirectPort)

	params := url.Values{}
	params.Add("client_id", h.cfg.Drive.ClientID)
	params.Add("redirect_uri", redirectURI)
	params.Add("response_type", "code")
	params.Add("scope", oauthScope)
	params.Add("access_type", "offline")
	params.Add("prompt", "consent")

	logrus.WithField("url", oauthAuthURL+"?"+params.Encode()).
		Warn("Drive sem credenciais: abra a URL no navegador para autorizar o acesso")

	go h.run(redirectURI)
}

func (h *AuthHelper) run(redirectURI string) {
	codeCh := make(chan string, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "código de autorização ausente", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, "Autorização concluída, pode fechar esta janela.")
		select {
		case codeCh <- code:
		default:
		}
	})

	server := &http.Server{
		Addr:    ":" + h.cfg.Drive.RedirectPort,
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Servidor local de autorização falhou")
		}
	}()

	// Desliga o helper sozinho se ninguém concluir o fluxo a tempo
	timer := time.NewTimer(authFlowTimeout)
	defer timer.Stop()

	select {
	case code := <-codeCh:
		if err := h.exchangeCode(code, redirectURI); err != nil {
			logrus.WithError(err).Error("Troca do código de autorização falhou")
		}
	case <-timer.C:
		logrus.Warn("Fluxo de autorização do Drive expirou sem resposta")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
}

// exchangeCode troca o código de autorização por access e refresh tokens
func (h *AuthHelper) exchangeCode(code, redirectURI string) error {
	form := url.Values{}
	form.Add("client_id", h.cfg.Drive.ClientID)
	form.Add("client_secret", h.cfg.Drive.ClientSecret)
	form.Add("code", code)
	form.Add("grant_type", "authorization_code")
	form.Add("redirect_uri", redirectURI)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	resp, err := httpClient.PostForm(oauthTokenURL, form)
	if err != nil {
		return errors.Wrap(err, "erro ao trocar código por token")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "erro ao ler resposta do token")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("troca de código falhou com status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return errors.Wrap(err, "erro ao decodificar resposta do token")
	}

	h.client.SetAccessToken(tokenResp.AccessToken)
	h.cfg.Drive.AccessToken = tokenResp.AccessToken
	if tokenResp.RefreshToken != "" {
		h.cfg.Drive.RefreshToken = tokenResp.RefreshToken
	}

	logrus.Info("Autorização do Drive concluída, tokens instalados")
	return nil
}
