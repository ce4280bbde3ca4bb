// Package mailer implements the domain.ApprovalNotifier port with two
// interchangeable delivery strategies: a direct SMTP relay and the Resend
// transactional e-mail API. The deployment configuration selects one at
// startup; the webhook handler never chooses at runtime.
package mailer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lojapix/lojapix-payments/internal/domain"
)

// Recipient is the fixed store-owner address every approval notice goes to.
const Recipient = "pedidos@lojapix.com.br"

// formatAmount renders the amount the way the gateway reports it, without
// padding decimals: 49.9 stays "49.9".
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// Subject builds the approval e-mail subject line.
func Subject(notice domain.ApprovalNotice) string {
	return fmt.Sprintf("✅ Pedido Pago: %s (R$ %s)", notice.Description, formatAmount(notice.Amount))
}

// Body builds the plain-text approval e-mail. The buyer and address blocks
// are included only when customer data was collected with the payment.
func Body(notice domain.ApprovalNotice) string {
	var b strings.Builder

	b.WriteString("✅ OBA! UMA NOVA VENDA FOI APROVADA!\n\n")
	b.WriteString("📦 DETALHES DO PEDIDO\n")
	b.WriteString("-----------------------------------\n")
	fmt.Fprintf(&b, "Produto: %s\n", notice.Description)
	fmt.Fprintf(&b, "Valor: R$ %s\n", formatAmount(notice.Amount))
	if notice.ShippingMethod != "" {
		fmt.Fprintf(&b, "Forma de Envio: %s\n", notice.ShippingMethod)
	}

	if cust := notice.Customer; cust != nil {
		b.WriteString("\n👤 DADOS DO COMPRADOR\n")
		b.WriteString("-----------------------------------\n")
		fmt.Fprintf(&b, "Nome: %s\n", cust.Name)
		fmt.Fprintf(&b, "WhatsApp/Celular: %s\n", cust.Phone)

		b.WriteString("\n🚚 ENDEREÇO DE ENTREGA\n")
		b.WriteString("-----------------------------------\n")
		fmt.Fprintf(&b, "Rua: %s, Nº %s\n", cust.Street, cust.Number)
		fmt.Fprintf(&b, "Complemento: %s\n", cust.Complement)
		fmt.Fprintf(&b, "Bairro: %s\n", cust.Neighborhood)
		fmt.Fprintf(&b, "Cidade/UF: %s - %s\n", cust.City, cust.State)
		fmt.Fprintf(&b, "CEP: %s\n", cust.PostalCode)
	}

	b.WriteString("\n-----------------------------------\n")
	b.WriteString("Acesse o seu painel para preparar o envio!\n")

	return b.String()
}
