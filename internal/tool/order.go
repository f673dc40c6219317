package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/devburger/ordering-agent/internal/model"
	"github.com/devburger/ordering-agent/internal/store"
	"github.com/devburger/ordering-agent/pkg/logger"
	"github.com/devburger/ordering-agent/pkg/metrics"
)

var finalizeOrderSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"nameCliente": {
			"type": "string",
			"description": "Nome completo do cliente"
		},
		"phone": {
			"type": "string",
			"description": "Telefone do cliente com DDD"
		},
		"address": {
			"type": "string",
			"description": "Endereço completo de entrega"
		},
		"items": {
			"type": "array",
			"description": "Itens do pedido",
			"items": {
				"type": "object",
				"properties": {
					"product": {
						"type": "string",
						"description": "Nome exato do produto no cardápio"
					},
					"quantity": {
						"type": "integer",
						"description": "Quantidade do produto, mínimo 1"
					},
					"note": {
						"type": "string",
						"description": "Observação do item, opcional"
					}
				},
				"required": ["product", "quantity"]
			}
		}
	},
	"required": ["nameCliente", "phone", "address", "items"]
}`)

type finalizeOrderArgs struct {
	CustomerName string `json:"nameCliente"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Items        []struct {
		Product  string `json:"product"`
		Quantity int    `json:"quantity"`
		Note     string `json:"note"`
	} `json:"items"`
}

func finalizeOrderDefinition(catalog Catalog, ledger Ledger, observer OrderObserver) Definition {
	return Definition{
		Name:        "finalizeOrder",
		Description: "Finaliza o pedido do cliente, registrando nome, telefone, endereço e itens. Só chame depois de confirmar todos os dados com o cliente.",
		Parameters:  finalizeOrderSchema,
		run: func(ctx context.Context, rawArgs json.RawMessage) string {
			return finalizeOrder(ctx, catalog, ledger, observer, rawArgs)
		},
	}
}

func finalizeOrder(ctx context.Context, catalog Catalog, ledger Ledger, observer OrderObserver, rawArgs json.RawMessage) string {
	log := logger.Global()

	var args finalizeOrderArgs
	if err := json.Unmarshal(rawArgs, &args); err != nil {
		log.Warn("finalizeOrder payload malformed", zap.Error(err))
		metrics.RecordToolExecution("finalizeOrder", "invalid")
		return "Erro: dados do pedido em formato inválido."
	}

	if msg := validateArgs(args); msg != "" {
		metrics.RecordToolExecution("finalizeOrder", "invalid")
		return msg
	}

	// Resolve every product before touching the ledger so a typo from the
	// model aborts the whole order instead of committing a partial one.
	for _, item := range args.Items {
		if _, err := catalog.FindByName(ctx, item.Product); err != nil {
			if errors.Is(err, store.ErrProductNotFound) {
				metrics.RecordToolExecution("finalizeOrder", "invalid")
				return fmt.Sprintf("Erro: Produto '%s' não encontrado.", item.Product)
			}
			log.Error("product lookup failed", zap.String("product", item.Product), zap.Error(err))
			metrics.RecordToolExecution("finalizeOrder", "error")
			return "Erro ao registrar o pedido. Tente novamente."
		}
	}

	req := model.OrderRequest{
		CustomerName: strings.TrimSpace(args.CustomerName),
		Phone:        strings.TrimSpace(args.Phone),
		Address:      strings.TrimSpace(args.Address),
	}
	for _, item := range args.Items {
		req.Items = append(req.Items, model.LineItemRequest{
			Product:  item.Product,
			Quantity: item.Quantity,
			Note:     item.Note,
		})
	}

	order, err := ledger.CreateOrder(ctx, req)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			metrics.RecordToolExecution("finalizeOrder", "invalid")
			return "Erro: um dos produtos não está mais disponível."
		}
		log.Error("order creation failed", zap.Error(err))
		metrics.RecordToolExecution("finalizeOrder", "error")
		return "Erro ao registrar o pedido. Tente novamente."
	}

	metrics.RecordToolExecution("finalizeOrder", "ok")
	metrics.RecordOrder(order.Total)
	if observer != nil {
		observer.OrderCreated(ctx, order)
	}

	return confirmation(order)
}

func validateArgs(args finalizeOrderArgs) string {
	if strings.TrimSpace(args.CustomerName) == "" {
		return "Erro: o nome do cliente é obrigatório."
	}
	if strings.TrimSpace(args.Phone) == "" {
		return "Erro: o telefone do cliente é obrigatório."
	}
	if strings.TrimSpace(args.Address) == "" {
		return "Erro: o endereço de entrega é obrigatório."
	}
	if len(args.Items) == 0 {
		return "Erro: o pedido precisa de pelo menos um item."
	}
	for _, item := range args.Items {
		if strings.TrimSpace(item.Product) == "" {
			return "Erro: todo item precisa do nome do produto."
		}
		if item.Quantity < 1 {
			return fmt.Sprintf("Erro: quantidade inválida para '%s'.", item.Product)
		}
	}
	return ""
}

func confirmation(order *model.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Pedido #%d confirmado!\n", order.ID)
	fmt.Fprintf(&b, "🏠 Entrega em: %s\n", order.Address)
	b.WriteString("🍔 Itens: ")
	parts := make([]string, 0, len(order.Items))
	for _, line := range order.Items {
		part := fmt.Sprintf("%dx %s", line.Quantity, line.ProductName)
		if line.Note != "" {
			part += fmt.Sprintf(" (%s)", line.Note)
		}
		parts = append(parts, part)
	}
	b.WriteString(strings.Join(parts, ", "))
	fmt.Fprintf(&b, "\n💰 Total: R$ %.2f", order.Total)
	return b.String()
}
