package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"

	config "github.com/maheshrc27/reelpay/configs"
	"github.com/maheshrc27/reelpay/internal/models"
	"github.com/maheshrc27/reelpay/internal/transfer"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/shopspring/decimal"
)

const invoiceAlphabet = "0123456789ABCDEFGHJKLMNPQRSTUVWXYZ"

var hundred = decimal.NewFromInt(100)

var invoiceTemplate = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif;">
<h2>Invoice {{.Number}}</h2>
<p>Hi {{.UserName}}, your campaign <strong>{{.CampaignName}}</strong> has been settled.</p>
<table cellpadding="6">
<tr><td>Views</td><td align="right">{{.Views}}</td></tr>
<tr><td>Pay rate per 1,000,000 views</td><td align="right">{{money .PayRate}} {{.Currency}}</td></tr>
<tr><td><strong>Gross earnings</strong></td><td align="right"><strong>{{money .Gross}} {{.Currency}}</strong></td></tr>
{{range .Deductions}}<tr><td>{{.Label}}</td><td align="right">-{{money .Amount}} {{$.Currency}}</td></tr>
{{end}}<tr><td><strong>Net payable</strong></td><td align="right"><strong>{{money .Net}} {{.Currency}}</strong></td></tr>
</table>
</body>
</html>
`))

type InvoiceService interface {
	Build(user *models.User, campaign *models.Campaign, views int64, gross decimal.Decimal) (*transfer.Invoice, error)
	Deliver(ctx context.Context, to string, inv *transfer.Invoice) error
}

type invoiceService struct {
	email       EmailService
	archive     InvoiceArchive
	currency    string
	platformFee decimal.Decimal
	withholding decimal.Decimal
}

// NewInvoiceService renders and emails settlement invoices. archive may be nil.
func NewInvoiceService(cfg *config.Config, email EmailService, archive InvoiceArchive) InvoiceService {
	return &invoiceService{
		email:       email,
		archive:     archive,
		currency:    cfg.InvoiceCurrency,
		platformFee: parsePercent("PLATFORM_FEE_PERCENT", cfg.PlatformFeePercent),
		withholding: parsePercent("WITHHOLDING_PERCENT", cfg.WithholdingPercent),
	}
}

func parsePercent(name, value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil || d.IsNegative() {
		slog.Info("invalid percentage, using 0", "name", name, "value", value)
		return decimal.Zero
	}
	return d
}

func (s *invoiceService) Build(user *models.User, campaign *models.Campaign, views int64, gross decimal.Decimal) (*transfer.Invoice, error) {
	code, err := gonanoid.Generate(invoiceAlphabet, 10)
	if err != nil {
		return nil, err
	}

	inv := &transfer.Invoice{
		Number:       fmt.Sprintf("INV-%d-%s", campaign.ID, code),
		UserName:     user.Name,
		CampaignName: campaign.Name,
		Views:        views,
		PayRate:      campaign.PayRate,
		Gross:        gross,
		Currency:     s.currency,
	}

	total := decimal.Zero
	for _, d := range []struct {
		label string
		rate  decimal.Decimal
	}{
		{"Platform fee", s.platformFee},
		{"Tax withholding", s.withholding},
	} {
		if d.rate.IsZero() {
			continue
		}
		amount := gross.Mul(d.rate).Div(hundred).Round(2)
		inv.Deductions = append(inv.Deductions, transfer.InvoiceLine{
			Label:  fmt.Sprintf("%s (%s%%)", d.label, d.rate.String()),
			Amount: amount,
		})
		total = total.Add(amount)
	}
	inv.Net = gross.Sub(total)

	return inv, nil
}

func (s *invoiceService) Deliver(ctx context.Context, to string, inv *transfer.Invoice) error {
	var buf bytes.Buffer
	if err := invoiceTemplate.Execute(&buf, inv); err != nil {
		return fmt.Errorf("failed to render invoice: %w", err)
	}

	subject := fmt.Sprintf("Invoice %s: %s", inv.Number, inv.CampaignName)
	if err := s.email.Send(ctx, to, subject, buf.String()); err != nil {
		return fmt.Errorf("failed to send invoice: %w", err)
	}

	if s.archive != nil {
		if err := s.archive.Archive(ctx, inv, buf.Bytes()); err != nil {
			slog.Info("failed to archive invoice", "invoice", inv.Number, "error", err.Error())
		}
	}

	return nil
}
