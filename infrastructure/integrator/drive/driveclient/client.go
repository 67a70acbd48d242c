package driveclient

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	driveFilesURL = "https://www.googleapis.com/drive/v3/files"
	oauthTokenURL = "https://oauth2.googleapis.com/token"

	folderMimeType      = "application/vnd.google-apps.folder"
	spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"
)

type Client struct {
	cfg        *config.Config
	httpClient *http.Client
	tokenURL   string

	mu          sync.Mutex
	accessToken string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		tokenURL:    oauthTokenURL,
		accessToken: cfg.Drive.AccessToken,
	}
}

// DriveFile é a representação mínima de um arquivo no Drive
type DriveFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type fileListResponse struct {
	Files []DriveFile `json:"files"`
}

// SetAccessToken instala um token obtido pelo fluxo interativo
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

// do executa uma requisição autenticada. Em 401 tenta renovar o access
// token com o refresh token uma única vez e repete a requisição. O corpo
// chega como []byte para que cada tentativa monte um reader novo.
func (c *Client) do(method, rawURL string, body []byte, contentType string, retried bool) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, rawURL, reader)
	if err != nil {
		return nil, 0, errors.Wrap(err, "erro ao criar requisição")
	}
	req.Header.Set("Authorization", "Bearer "+c.token())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "erro ao executar requisição")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, errors.Wrap(err, "erro ao ler resposta")
	}

	if resp.StatusCode == http.StatusUnauthorized && !retried && c.cfg.Drive.RefreshToken != "" {
		logrus.Info("Access token do Drive expirado, tentando renovar")
		if err := c.refreshAccessToken(); err != nil {
			return respBody, resp.StatusCode, err
		}
		return c.do(method, rawURL, body, contentType, true)
	}

	return respBody, resp.StatusCode, nil
}

// Get executa um GET autenticado
func (c *Client) Get(rawURL string) ([]byte, int, error) {
	return c.do(http.MethodGet, rawURL, nil, "", false)
}

// PostJSON executa um POST autenticado com corpo JSON
func (c *Client) PostJSON(rawURL string, payload any) ([]byte, int, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, errors.Wrap(err, "erro ao serializar corpo")
	}
	return c.do(http.MethodPost, rawURL, encoded, "application/json", false)
}

// PutJSON executa um PUT autenticado com corpo JSON
func (c *Client) PutJSON(rawURL string, payload any) ([]byte, int, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, errors.Wrap(err, "erro ao serializar corpo")
	}
	return c.do(http.MethodPut, rawURL, encoded, "application/json", false)
}

// refreshAccessToken troca o refresh token por um novo access token
func (c *Client) refreshAccessToken() error {
	form := url.Values{}
	form.Add("client_id", c.cfg.Drive.ClientID)
	form.Add("client_secret", c.cfg.Drive.ClientSecret)
	form.Add("refresh_token", c.cfg.Drive.RefreshToken)
	form.Add("grant_type", "refresh_token")

	resp, err := c.httpClient.PostForm(c.tokenURL, form)
	if err != nil {
		return errors.Wrap(err, "erro ao renovar access token")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "erro ao ler resposta do refresh")
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh do token falhou com status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return errors.Wrap(err, "erro ao decodificar resposta do refresh")
	}

	c.SetAccessToken(tokenResp.AccessToken)
	logrus.Info("Access token do Drive renovado com sucesso")
	return nil
}

// listFiles executa uma busca no Drive e retorna os arquivos encontrados
func (c *Client) listFiles(query string) ([]DriveFile, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("spaces", "drive")
	params.Add("fields", "files(id, name)")
	params.Add("orderBy", "modifiedTime desc")

	body, status, err := c.Get(driveFilesURL + "?" + params.Encode())
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("busca no Drive falhou com status %d: %s", status, string(body))
	}

	var listResp fileListResponse
	if err := json.Unmarshal(body, &listResp); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar lista de arquivos")
	}

	return listResp.Files, nil
}

// EnsureFolder localiza a pasta pelo nome, criando-a se não existir
func (c *Client) EnsureFolder(name string) (string, error) {
	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", name, folderMimeType)

	files, err := c.listFiles(query)
	if err != nil {
		return "", err
	}
	if len(files) > 0 {
		logrus.WithFields(logrus.Fields{
			"folder": files[0].Name,
			"id":     files[0].ID,
		}).Info("Pasta existente encontrada no Drive")
		return files[0].ID, nil
	}

	payload := map[string]any{
		"name":     name,
		"mimeType": folderMimeType,
	}
	body, status, err := c.PostJSON(driveFilesURL+"?fields=id,name", payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", fmt.Errorf("criação de pasta falhou com status %d: %s", status, string(body))
	}

	var folder DriveFile
	if err := json.Unmarshal(body, &folder); err != nil {
		return "", errors.Wrap(err, "erro ao decodificar pasta criada")
	}

	logrus.WithFields(logrus.Fields{
		"folder": folder.Name,
		"id":     folder.ID,
	}).Info("Nova pasta criada no Drive")

	return folder.ID, nil
}

// FindSpreadsheet procura uma planilha pelo nome dentro de uma pasta.
// Tenta correspondência exata, depois insensível a maiúsculas, depois
// similaridade parcial — o nome na planilha nem sempre bate com o nome
// do arquivo local.
func (c *Client) FindSpreadsheet(name, folderID string) (*DriveFile, error) {
	name = strings.TrimSpace(strings.TrimSuffix(name, ".csv"))

	exactQuery := fmt.Sprintf("name='%s' and '%s' in parents and mimeType='%s' and trashed=false",
		name, folderID, spreadsheetMimeType)
	files, err := c.listFiles(exactQuery)
	if err != nil {
		return nil, err
	}
	if len(files) > 0 {
		return &files[0], nil
	}

	allQuery := fmt.Sprintf("'%s' in parents and mimeType='%s' and trashed=false", folderID, spreadsheetMimeType)
	files, err = c.listFiles(allQuery)
	if err != nil {
		return nil, err
	}

	lower := strings.ToLower(name)
	for _, file := range files {
		if strings.ToLower(file.Name) == lower {
			return &file, nil
		}
	}
	for _, file := range files {
		fileLower := strings.ToLower(file.Name)
		if strings.Contains(fileLower, lower) || strings.Contains(lower, fileLower) {
			logrus.WithFields(logrus.Fields{
				"wanted": name,
				"found":  file.Name,
			}).Info("Planilha encontrada por similaridade de nome")
			return &file, nil
		}
	}

	return nil, nil
}

// CreateSpreadsheet cria uma planilha vazia dentro de uma pasta
func (c *Client) CreateSpreadsheet(name, folderID string) (*DriveFile, error) {
	payload := map[string]any{
		"name":     strings.TrimSuffix(name, ".csv"),
		"parents":  []string{folderID},
		"mimeType": spreadsheetMimeType,
	}

	body, status, err := c.PostJSON(driveFilesURL+"?fields=id,name&supportsAllDrives=true", payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("criação de planilha falhou com status %d: %s", status, string(body))
	}

	var file DriveFile
	if err := json.Unmarshal(body, &file); err != nil {
		return nil, errors.Wrap(err, "erro ao decodificar planilha criada")
	}

	logrus.WithFields(logrus.Fields{
		"name": file.Name,
		"id":   file.ID,
	}).Info("Nova planilha criada no Drive")

	return &file, nil
}
