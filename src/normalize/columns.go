package normalize

import (
	"sort"

	"github.com/username/conciliador/backend/src/models"
)

// ColumnMap maps a canonical field key to the ordered list of header
// spellings under which that field is known to appear. Matching is exact:
// casing and punctuation variants must be enumerated explicitly, and the
// first alias present in a row wins.
type ColumnMap map[string][]string

// IfoodColumns is the alias table for iFood financial exports. The spellings
// cover the portal download, the API export and hand-edited variants seen in
// client spreadsheets.
var IfoodColumns = ColumnMap{
	"orderDate": {
		"DATA_DO_PEDIDO_OCORRENCIA",
		"DATA DO PEDIDO OCORRENCIA",
		"Data do pedido/ocorrência",
		"Data do pedido/ocorrencia",
		"DATA_PEDIDO",
		"data_do_pedido_ocorrencia",
	},
	"paymentDate": {
		"DATA_DE_REPASSE",
		"DATA DE REPASSE",
		"Data de repasse",
		"DATA_REPASSE",
		"data_de_repasse",
	},
	"billingType": {
		"TIPO_DE_FATURAMENTO",
		"TIPO DE FATURAMENTO",
		"Tipo de faturamento",
		"TIPO_FATURAMENTO",
		"tipo_de_faturamento",
	},
	"orderNumber": {
		"N°_PEDIDO",
		"N° PEDIDO",
		"Nº PEDIDO",
		"NUMERO_PEDIDO",
		"Número do pedido",
		"N_PEDIDO",
		"NUM_PEDIDO",
	},
	"itemsValue": {
		"VALOR_DOS_ITENS",
		"VALOR DOS ITENS",
		"Valor dos itens",
		"VALOR_ITENS",
		"valor_dos_itens",
	},
	"deliveryFee": {
		"TAXA_DE_ENTREGA",
		"TAXA DE ENTREGA",
		"Taxa de entrega",
		"TAXA_ENTREGA",
		"taxa_de_entrega",
	},
	"serviceFee": {
		"TAXA_DE_SERVICO",
		"TAXA DE SERVICO",
		"TAXA_DE_SERVIÇO",
		"Taxa de serviço",
		"TAXA_SERVICO",
		"taxa_de_servico",
	},
	"ifoodCommission": {
		"VALOR_COMISSAO_IFOOD",
		"COMISSAO_IFOOD_R$",
		"COMISSAO IFOOD R$",
		"Comissão iFood R$",
		"COMISSÃO_IFOOD_VALOR",
		"valor_comissao_ifood",
	},
	"transactionCommission": {
		"COMISSAO_PELA_TRANSACAO_DO_PAGAMENTO",
		"COMISSAO_TRANSACAO_PAGAMENTO",
		"Comissão pela transação do pagamento",
		"COMISSAO_TRANSACAO",
		"comissao_pela_transacao_do_pagamento",
	},
	"weeklyPlanFee": {
		"TAXA_PLANO_REPASSE_EM_1_SEMANA",
		"TAXA_PLANO_REPASSE",
		"Taxa do plano de repasse em 1 semana",
		"VALOR_TAXA_PLANO_DE_REPASSE_EM_1_SEMANA",
		"taxa_plano_repasse_em_1_semana",
	},
	"netValue": {
		"VALOR_LIQUIDO",
		"VALOR LIQUIDO",
		"Valor líquido",
		"VALOR_LÍQUIDO",
		"valor_liquido",
	},
	"ifoodPromotions": {
		"PROMOCAO_CUSTEADA_PELO_IFOOD",
		"PROMOCAO CUSTEADA PELO IFOOD",
		"Promoção custeada pelo iFood",
		"PROMOCAO_IFOOD",
		"promocao_custeada_pelo_ifood",
	},
	"storePromotions": {
		"PROMOCAO_CUSTEADA_PELA_LOJA",
		"PROMOCAO CUSTEADA PELA LOJA",
		"Promoção custeada pela loja",
		"PROMOCAO_LOJA",
		"promocao_custeada_pela_loja",
	},
	"paymentOrigin": {
		"ORIGEM_DE_FORMA_DE_PAGAMENTO",
		"ORIGEM DE FORMA DE PAGAMENTO",
		"Origem de forma de pagamento",
		"FORMA_PAGAMENTO",
		"origem_de_forma_de_pagamento",
	},
	"storeId": {
		"ID_LOJA",
		"ID LOJA",
		"ID da loja",
		"STORE_ID",
		"id_loja",
	},
	"storeName": {
		"NOME_LOJA",
		"NOME LOJA",
		"Nome da loja",
		"STORE_NAME",
		"nome_loja",
	},
	"salesChannel": {
		"CANAL_VENDAS",
		"CANAL VENDAS",
		"Canal de vendas",
		"SALES_CHANNEL",
		"canal_vendas",
	},
	"completionDate": {
		"DATA_CONCLUSAO",
		"DATA CONCLUSAO",
		"Data de conclusão",
		"DATA_CONCLUSÃO",
		"data_conclusao",
	},
	"paymentDetails": {
		"DETALHES_PAGAMENTO",
		"DETALHES PAGAMENTO",
		"Detalhes do pagamento",
		"PAYMENT_DETAILS",
		"detalhes_pagamento",
	},
	"grossValue": {
		"VALOR_BRUTO",
		"VALOR BRUTO",
		"Valor bruto",
		"GROSS_VALUE",
		"valor_bruto",
	},
}

// MappingReport lists which canonical keys resolved against a header set and
// which did not. It is diagnostic only; a missing column never blocks
// processing.
type MappingReport struct {
	FoundColumns   map[string]string `json:"foundColumns"`
	MissingColumns []string          `json:"missingColumns"`
}

// FindValue returns the value of the first alias of key that is present in
// the row with a defined, non-nil, non-empty-string value, or nil when no
// alias matches.
func (m ColumnMap) FindValue(row models.RawRow, key string) any {
	for _, name := range m[key] {
		v, ok := row[name]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		return v
	}
	return nil
}

// FindString resolves key through FindValue and coerces the result to its
// string form; absent values come back as "".
func (m ColumnMap) FindString(row models.RawRow, key string) string {
	return AsString(m.FindValue(row, key))
}

// ValidateMapping reports, for a batch's header set, which canonical keys
// resolved (and to which alias) and which are missing. MissingColumns is
// sorted so the report is stable across runs.
func (m ColumnMap) ValidateMapping(headers []string) MappingReport {
	headerSet := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		headerSet[h] = struct{}{}
	}

	report := MappingReport{FoundColumns: make(map[string]string)}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		found := ""
		for _, name := range m[key] {
			if _, ok := headerSet[name]; ok {
				found = name
				break
			}
		}
		if found != "" {
			report.FoundColumns[key] = found
		} else {
			report.MissingColumns = append(report.MissingColumns, key)
		}
	}
	return report
}
