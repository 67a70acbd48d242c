package csvstore

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/pubplus-report-sync/internal/domain"
)

// Store persiste a tabela de campanhas em um arquivo CSV local com o
// header versionado. A escrita substitui o arquivo por inteiro via
// rename atômico, então um leitor nunca observa um estado parcial.
type Store struct {
	path string
}

// NewStore cria um store apontando para o caminho do arquivo CSV
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load carrega a tabela persistida. Arquivo ausente não é erro: retorna
// uma tabela vazia com o header base, exatamente como o primeiro ciclo
// de merge espera.
func (s *Store) Load() (*domain.Table, error) {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.WithField("path", s.path).Info("Arquivo CSV inexistente, iniciando com tabela vazia")
			return domain.NewTable(domain.BaseHeader), nil
		}
		return nil, errors.Wrap(err, "erro ao abrir arquivo CSV")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Tolerar drift de largura entre linhas; a correção com contagem é
	// papel do pipeline, não do leitor
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao ler arquivo CSV")
	}

	if len(records) == 0 {
		return domain.NewTable(domain.BaseHeader), nil
	}

	table := domain.NewTable(records[0])
	for _, record := range records[1:] {
		table.Rows = append(table.Rows, domain.Row(record))
	}

	return table, nil
}

// Save substitui o conteúdo do arquivo pela tabela informada
func (s *Store) Save(table *domain.Table) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, "erro ao criar diretório do CSV")
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".campaigns-*.csv")
	if err != nil {
		return errors.Wrap(err, "erro ao criar arquivo temporário")
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(table.Header); err != nil {
		tmp.Close()
		return errors.Wrap(err, "erro ao escrever header do CSV")
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return errors.Wrap(err, "erro ao escrever linha do CSV")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "erro ao finalizar escrita do CSV")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "erro ao fechar arquivo temporário")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return errors.Wrap(err, "erro ao substituir arquivo CSV")
	}

	logrus.WithFields(logrus.Fields{
		"path": s.path,
		"rows": len(table.Rows),
	}).Info("Tabela persistida no CSV local")

	return nil
}
