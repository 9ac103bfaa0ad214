package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	confirmationTmpl = template.Must(template.ParseFS(templateFS, "templates/confirmation.html", "templates/summary.html"))
	cancellationTmpl = template.Must(template.ParseFS(templateFS, "templates/cancellation.html", "templates/summary.html"))
)

type view struct {
	OrderID            int64
	OrderName          string
	OrderDescription   string
	OrderDate          string
	CancellationDate   string
	Quantity           int
	PaymentMethod      string
	DeliveryAddress    string
	CustomerName       string
	CustomerEmail      string
	CustomerAddress    string
	ProductName        string
	ProductDescription string
	ProductPrice       string
	TotalPrice         string
}

func newView(d Details) view {
	return view{
		OrderID:            d.OrderID,
		OrderName:          d.OrderName,
		OrderDescription:   d.OrderDescription,
		OrderDate:          formatDate(d.OrderDate),
		Quantity:           d.Quantity,
		PaymentMethod:      d.PaymentMethod.Label(),
		DeliveryAddress:    d.DeliveryAddress,
		CustomerName:       d.CustomerName + " " + d.CustomerLast,
		CustomerEmail:      d.CustomerEmail,
		CustomerAddress:    d.CustomerAddress,
		ProductName:        d.ProductName,
		ProductDescription: d.ProductDescription,
		ProductPrice:       d.ProductPrice.StringFixed(2),
		TotalPrice:         d.Total().StringFixed(2),
	}
}

func renderConfirmation(d Details) (string, error) {
	return execute(confirmationTmpl, newView(d))
}

func renderCancellation(d Details, cancelledAt time.Time) (string, error) {
	v := newView(d)
	v.CancellationDate = formatDate(cancelledAt)
	return execute(cancellationTmpl, v)
}

func execute(t *template.Template, v view) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
