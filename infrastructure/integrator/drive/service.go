package drive

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/infrastructure/integrator/drive/driveclient"
	"github.com/vfg2006/pubplus-report-sync/internal/config"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

// Mirror é o espelho da tabela em uma planilha do Google Sheets.
// Implementa reporting.SheetMirror: Read, Clear e Write sobre a
// primeira aba da planilha configurada.
type Mirror struct {
	cfg    *config.Config
	client *driveclient.Client

	mu            sync.Mutex
	spreadsheetID string
	sheetTitle    string
}

func NewMirror(cfg *config.Config, client *driveclient.Client) *Mirror {
	return &Mirror{
		cfg:    cfg,
		client: client,
	}
}

// resolve localiza (ou cria) a planilha configurada e memoriza o ID e o
// título da primeira aba para as próximas chamadas
func (m *Mirror) resolve() (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.spreadsheetID != "" {
		return m.spreadsheetID, m.sheetTitle, nil
	}

	folderID, err := m.client.EnsureFolder(m.cfg.Drive.FolderName)
	if err != nil {
		return "", "", fmt.Errorf("erro ao localizar pasta no Drive: %w", err)
	}

	file, err := m.client.FindSpreadsheet(m.cfg.Drive.SpreadsheetName, folderID)
	if err != nil {
		return "", "", fmt.Errorf("erro ao procurar planilha: %w", err)
	}
	if file == nil {
		file, err = m.client.CreateSpreadsheet(m.cfg.Drive.SpreadsheetName, folderID)
		if err != nil {
			return "", "", fmt.Errorf("erro ao criar planilha: %w", err)
		}
	}

	if err := m.client.EnsureSheetsReady(file.ID); err != nil {
		return "", "", fmt.Errorf("API de Sheets indisponível: %w", err)
	}

	title, err := m.client.FirstSheetTitle(file.ID)
	if err != nil {
		return "", "", fmt.Errorf("erro ao obter aba da planilha: %w", err)
	}

	m.spreadsheetID = file.ID
	m.sheetTitle = title

	logrus.WithFields(logrus.Fields{
		"spreadsheet_id": file.ID,
		"sheet_title":    title,
	}).Info("Planilha remota resolvida")

	return m.spreadsheetID, m.sheetTitle, nil
}

// Read retorna o conteúdo atual da planilha como tabela. Linhas mais
// curtas que o header remoto são completadas com o marcador vazio — a
// API de Sheets omite células vazias no fim da linha.
func (m *Mirror) Read() (*domain.Table, error) {
	spreadsheetID, sheetTitle, err := m.resolve()
	if err != nil {
		return nil, err
	}

	values, err := m.client.GetValues(spreadsheetID, sheetTitle)
	if err != nil {
		return nil, err
	}

	if len(values) == 0 {
		return domain.NewTable(nil), nil
	}

	table := domain.NewTable(values[0])
	for _, raw := range values[1:] {
		row := make(domain.Row, len(table.Header))
		for i := range row {
			if i < len(raw) {
				row[i] = raw[i]
			} else {
				row[i] = domain.EmptyValue
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

// Clear remove todo o conteúdo da primeira aba
func (m *Mirror) Clear() error {
	spreadsheetID, sheetTitle, err := m.resolve()
	if err != nil {
		return err
	}

	return m.client.ClearValues(spreadsheetID, sheetTitle)
}

// Write escreve um bloco de linhas a partir da célula inicial
func (m *Mirror) Write(rows []domain.Row, startCell string) error {
	spreadsheetID, sheetTitle, err := m.resolve()
	if err != nil {
		return err
	}

	values := make([][]string, len(rows))
	for i, row := range rows {
		values[i] = row
	}

	return m.client.UpdateValues(spreadsheetID, sheetTitle, startCell, values)
}
