package domain

// RawReport é o payload bruto retornado pela API de relatórios do
// PubPlus: uma coleção de registros de campanha indexada pelo ID da
// campanha. Os registros são mapas dinâmicos porque o formato evolui do
// lado do fornecedor sem aviso.
type RawReport struct {
	Report map[string]map[string]any `json:"report"`
}

// HasReport informa se o payload contém a coleção esperada
func (r *RawReport) HasReport() bool {
	return r != nil && r.Report != nil
}

// FlatRow é uma linha achatada de um registro de campanha, ainda sem
// alinhamento posicional com um header
type FlatRow map[string]string
