package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/devburger/ordering-agent/pkg/logger"
	"github.com/devburger/ordering-agent/pkg/metrics"
)

var listMenuSchema = json.RawMessage(`{
	"type": "object",
	"properties": {},
	"required": []
}`)

func listMenuDefinition(catalog Catalog) Definition {
	return Definition{
		Name:        "listMenu",
		Description: "Lista todos os itens do cardápio com seus preços.",
		Parameters:  listMenuSchema,
		run: func(ctx context.Context, _ json.RawMessage) string {
			items, err := catalog.GetAll(ctx)
			if err != nil {
				logger.Global().Error("menu lookup failed", zap.Error(err))
				metrics.RecordToolExecution("listMenu", "error")
				return "Erro ao consultar o cardápio."
			}
			metrics.RecordToolExecution("listMenu", "ok")
			if len(items) == 0 {
				return "O cardápio está vazio."
			}

			var b strings.Builder
			b.WriteString("🍔 CARDÁPIO 🍔\n")
			for _, item := range items {
				fmt.Fprintf(&b, "- %s: R$ %.2f\n", item.Name, item.Price)
			}
			return strings.TrimRight(b.String(), "\n")
		},
	}
}
