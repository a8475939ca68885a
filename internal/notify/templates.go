package notify

import (
	"fmt"
	"html"
	"strings"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
)

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

func itemsHTML(o model.Order) string {
	var b strings.Builder
	for _, it := range o.Items {
		variant := strings.TrimSpace(strings.Join([]string{it.Taille, it.Couleur}, " "))
		fmt.Fprintf(&b, `
			<tr>
				<td style="padding: 8px; border: 1px solid #ddd;">%s %s</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%d</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%s DH</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%s DH</td>
			</tr>`,
			html.EscapeString(it.Nom), html.EscapeString(variant), it.Quantite,
			it.Prix.StringFixed(2), it.Subtotal().StringFixed(2))
	}
	return b.String()
}

func itemsText(o model.Order) string {
	var b strings.Builder
	for _, it := range o.Items {
		fmt.Fprintf(&b, "- %s x%d : %s DH\n", it.Nom, it.Quantite, it.Subtotal().StringFixed(2))
	}
	return b.String()
}

func wrapHTML(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>%s</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
%s
	</div>
</body>
</html>`, html.EscapeString(title), body)
}

// 店舗宛：新規注文
func newOrderMessage(to string, o model.Order) Message {
	subject := fmt.Sprintf("Nouvelle commande #%s - %s DH", shortID(o.ID), o.Total.StringFixed(2))
	body := fmt.Sprintf(`
		<h2>Nouvelle commande</h2>
		<p><strong>Client :</strong> %s<br><strong>Téléphone :</strong> %s<br><strong>Adresse :</strong> %s, %s</p>
		<table style="width: 100%%; border-collapse: collapse;">%s</table>
		<p><strong>Total :</strong> %s DH</p>`,
		html.EscapeString(o.NomClient), html.EscapeString(o.Telephone),
		html.EscapeString(o.Adresse), html.EscapeString(o.Ville),
		itemsHTML(o), o.Total.StringFixed(2))

	text := fmt.Sprintf("Nouvelle commande %s\nClient : %s (%s)\nAdresse : %s, %s\n\n%s\nTotal : %s DH\n",
		o.ID, o.NomClient, o.Telephone, o.Adresse, o.Ville, itemsText(o), o.Total.StringFixed(2))

	return Message{To: []string{to}, Subject: subject, HTML: wrapHTML(subject, body), Text: text}
}

// 顧客宛：注文確認
func confirmationMessage(o model.Order) Message {
	subject := fmt.Sprintf("Maison Slimani - Confirmation de votre commande #%s", shortID(o.ID))
	body := fmt.Sprintf(`
		<h2>Merci pour votre commande</h2>
		<p>Bonjour %s,</p>
		<p>Nous avons bien reçu votre commande. Elle sera expédiée à l'adresse suivante : %s, %s.</p>
		<table style="width: 100%%; border-collapse: collapse;">%s</table>
		<p><strong>Total :</strong> %s DH (paiement à la livraison)</p>`,
		html.EscapeString(o.NomClient), html.EscapeString(o.Adresse), html.EscapeString(o.Ville),
		itemsHTML(o), o.Total.StringFixed(2))

	text := fmt.Sprintf("Bonjour %s,\n\nNous avons bien reçu votre commande.\n\n%s\nTotal : %s DH\n",
		o.NomClient, itemsText(o), o.Total.StringFixed(2))

	return Message{To: []string{o.Email}, Subject: subject, HTML: wrapHTML(subject, body), Text: text}
}

var statusLines = map[model.OrderStatus]string{
	model.OrderStatusPending:   "Votre commande est en attente de traitement.",
	model.OrderStatusShipped:   "Votre commande a été expédiée.",
	model.OrderStatusDelivered: "Votre commande a été livrée. Merci de votre confiance !",
	model.OrderStatusCanceled:  "Votre commande a été annulée.",
}

// 顧客宛：ステータス変更
func statusMessage(o model.Order) Message {
	subject := fmt.Sprintf("Maison Slimani - Commande #%s : %s", shortID(o.ID), o.Statut)
	line := statusLines[o.Statut]
	body := fmt.Sprintf(`
		<h2>Mise à jour de votre commande</h2>
		<p>Bonjour %s,</p>
		<p>%s</p>`, html.EscapeString(o.NomClient), html.EscapeString(line))
	text := fmt.Sprintf("Bonjour %s,\n\n%s\n", o.NomClient, line)

	return Message{To: []string{o.Email}, Subject: subject, HTML: wrapHTML(subject, body), Text: text}
}

func newOrderPayload(o model.Order) Payload {
	return Payload{
		Title: "Nouvelle commande",
		Body:  fmt.Sprintf("%s - %s DH (%s)", o.NomClient, o.Total.StringFixed(2), o.Ville),
		URL:   "/admin/commandes/" + o.ID,
		Tag:   "order-" + o.ID,
		Data:  map[string]any{"order_id": o.ID},
	}
}
