// Package order renders checkout emails and hands submitted orders to the
// downstream order service.
package order

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

const (
	MainCatalogLabel = "Main Catalog"
	QuoteRequired    = "Quote Required"

	customerNote = "Thank you for your order. This is a copy for your records; " +
		"items marked Quote Required will be priced by our team before the order is confirmed."
)

type lineView struct {
	Title     string
	SKU       string
	UOM       string
	UnitPrice string
	Quantity  int
	Subtotal  string
}

type groupView struct {
	Label string
	Lines []lineView
	Total string
}

type orderView struct {
	Note          string
	Reference     string
	Customer      string
	PurchaseOrder string
	Venue         string
	Comment       string
	Groups        []groupView
	Total         string
}

var bodyTmpl = template.Must(template.New("order").Parse(`{{with .Note}}{{.}}

{{end}}Order {{.Reference}}
Customer: {{.Customer}}
Purchase Order: {{.PurchaseOrder}}
Venue: {{.Venue}}
Comment: {{.Comment}}
{{range .Groups}}
== {{.Label}} ==
{{range .Lines}}- {{.Title}} (SKU: {{.SKU}})
  UOM: {{.UOM}} | Unit Price: {{.UnitPrice}} | Qty: {{.Quantity}} | Subtotal: {{.Subtotal}}
{{end}}Venue Total: {{.Total}}
{{end}}
Order Total: {{.Total}}
`))

// Compose renders the seller and customer copies of an order. Lines are
// grouped by venue in order of first appearance. A venue total, and the order
// total, is shown only when every line it covers is priced.
func Compose(d Details) (seller, customer Email, err error) {
	view := buildView(d)

	var buf bytes.Buffer
	if err := bodyTmpl.Execute(&buf, view); err != nil {
		return Email{}, Email{}, errors.Wrap(err, "render seller email")
	}
	seller = Email{Subject: sellerSubject(d), Body: buf.String()}

	buf.Reset()
	view.Note = customerNote
	if err := bodyTmpl.Execute(&buf, view); err != nil {
		return Email{}, Email{}, errors.Wrap(err, "render customer email")
	}
	customer = Email{Subject: "Your order " + d.Reference + " has been received", Body: buf.String()}
	return seller, customer, nil
}

func buildView(d Details) orderView {
	v := orderView{
		Reference:     d.Reference,
		Customer:      customerLabel(d),
		PurchaseOrder: orNA(d.PurchaseOrder),
		Venue:         orNA(d.Venue),
		Comment:       orNA(d.Comment),
	}

	type key struct{ id, name string }
	index := map[key]int{}
	totals := []*decimal.Decimal{}
	orderTotal := decimal.Zero
	orderPriced := true

	for _, l := range d.Lines {
		k := key{l.VenueID, strings.TrimSpace(l.VenueName)}
		i, ok := index[k]
		if !ok {
			label := k.name
			if label == "" {
				label = MainCatalogLabel
			}
			i = len(v.Groups)
			index[k] = i
			zero := decimal.Zero
			v.Groups = append(v.Groups, groupView{Label: label})
			totals = append(totals, &zero)
		}

		sub := l.Subtotal()
		v.Groups[i].Lines = append(v.Groups[i].Lines, lineView{
			Title:     l.Title,
			SKU:       l.SKU,
			UOM:       orNA(l.UnitOfMeasure),
			UnitPrice: money(l.Price),
			Quantity:  l.Quantity,
			Subtotal:  money(sub),
		})

		if sub == nil {
			totals[i] = nil
			orderPriced = false
			continue
		}
		if totals[i] != nil {
			t := totals[i].Add(*sub)
			totals[i] = &t
		}
		orderTotal = orderTotal.Add(*sub)
	}

	for i := range v.Groups {
		v.Groups[i].Total = money(totals[i])
	}
	if orderPriced {
		v.Total = money(&orderTotal)
	} else {
		v.Total = QuoteRequired
	}
	return v
}

// ── helpers ──────────────────────────────────────────────────────────────────

func money(d *decimal.Decimal) string {
	if d == nil {
		return QuoteRequired
	}
	return "$" + d.StringFixed(2)
}

func orNA(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "N/A"
	}
	return s
}

func customerLabel(d Details) string {
	parts := []string{}
	if name := strings.TrimSpace(d.CustomerName); name != "" {
		parts = append(parts, name)
	}
	if d.CustomerEmail != "" {
		parts = append(parts, "<"+d.CustomerEmail+">")
	}
	parts = append(parts, "#"+strconv.FormatInt(d.CustomerID, 10))
	return strings.Join(parts, " ")
}

func sellerSubject(d Details) string {
	s := "New order " + d.Reference
	if po := strings.TrimSpace(d.PurchaseOrder); po != "" {
		s += " (PO " + po + ")"
	}
	if d.CustomerEmail != "" {
		s += " from " + d.CustomerEmail
	}
	return s
}
