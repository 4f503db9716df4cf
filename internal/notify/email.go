package notify

import (
	"fmt"
	"html/template"
	"strings"
)

// Alert emails are sent in Portuguese, the language of the SAME app.

const appURL = "https://same-app.com"

var alertTemplate = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html>
  <head>
    <meta charset="UTF-8">
    <style>
      body { font-family: Arial, sans-serif; color: #333; background-color: #f5f5f5; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; background-color: white; border-radius: 8px; }
      .header { background-color: #ef4444; color: white; padding: 20px; border-radius: 8px; text-align: center; }
      .content { padding: 20px 0; }
      .info-box { background-color: white; padding: 15px; margin: 10px 0; border-left: 4px solid #ef4444; }
      .footer { text-align: center; padding-top: 20px; color: #666; font-size: 12px; border-top: 1px solid #eee; }
      .button { display: inline-block; background-color: #0ea5e9; color: white; padding: 12px 24px; border-radius: 4px; text-decoration: none; font-weight: bold; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <h1>&#9888;&#65039; Alerta de Estoque Cr&iacute;tico</h1>
      </div>
      <div class="content">
        <p>Ol&aacute; <strong>{{.SupplierName}}</strong>,</p>
        <p>Um ou mais produtos que voc&ecirc; monitora atingiram o n&iacute;vel de estoque cr&iacute;tico! Por favor, entre em contato conosco o quanto antes para repor o estoque.</p>
        {{range .Products}}
        <div class="info-box">
          <p style="margin: 0 0 10px 0;"><strong>{{.Name}}</strong></p>
          <p style="margin: 0; color: #666; font-size: 12px;">SKU: {{.SKU}}</p>
          <p style="margin: 5px 0 0 0; color: #ef4444; font-weight: bold;">Quantidade: {{.Quantity}} unidade(s)</p>
        </div>
        {{end}}
        <p style="text-align: center; margin-top: 30px;">
          <a href="{{.AppURL}}" class="button">Abrir SAME</a>
        </p>
      </div>
      <div class="footer">
        <p>&copy; 2025 SAME - Sistema de An&aacute;lise e Monitoramento Empresarial</p>
        <p>Este &eacute; um alerta autom&aacute;tico enviado pela plataforma SAME.</p>
      </div>
    </div>
  </body>
</html>`))

type alertData struct {
	SupplierName string
	Products     []ProductInfo
	AppURL       string
}

// Subject identifies single vs. multiple critical products.
func Subject(products []ProductInfo) string {
	if len(products) == 1 {
		return fmt.Sprintf("⚠️ ALERTA: Estoque Crítico - %s", products[0].Name)
	}
	return fmt.Sprintf("⚠️ ALERTA: %d Produto(s) em Estoque Crítico", len(products))
}

func renderHTML(supplierName string, products []ProductInfo) (string, error) {
	var sb strings.Builder
	err := alertTemplate.Execute(&sb, alertData{
		SupplierName: supplierName,
		Products:     withSKUFallback(products),
		AppURL:       appURL,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

func renderText(supplierName string, products []ProductInfo) string {
	var sb strings.Builder
	sb.WriteString("Alerta de Estoque Crítico\n\n")
	fmt.Fprintf(&sb, "Olá %s,\n\n", supplierName)
	sb.WriteString("Um ou mais produtos que você monitora atingiram o nível de estoque crítico!\n\n")
	for _, p := range withSKUFallback(products) {
		fmt.Fprintf(&sb, "Produto: %s\nSKU: %s\nQuantidade Atual: %d unidade(s)\n\n", p.Name, p.SKU, p.Quantity)
	}
	sb.WriteString("Por favor, entre em contato conosco o quanto antes para repor o estoque.\n\n---\nEste é um alerta automático enviado pela plataforma SAME.\n")
	return sb.String()
}

func withSKUFallback(products []ProductInfo) []ProductInfo {
	out := make([]ProductInfo, len(products))
	for i, p := range products {
		if p.SKU == "" {
			p.SKU = "N/A"
		}
		out[i] = p
	}
	return out
}
