package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/declaramei/express-api/internal/domain/entity"
	"github.com/declaramei/express-api/internal/domain/repository"
	"github.com/declaramei/express-api/pkg/apperror"
	"github.com/declaramei/express-api/pkg/printer"
	"github.com/declaramei/express-api/pkg/utils"
)

const receiptTimeLayout = "02/01/2006 15:04"

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer        printer.Printer
	saleRepo       repository.SaleRepository
	receivableRepo repository.ReceivableRepository
	sessionRepo    repository.CashSessionRepository
	printerType    string
	width          int
	header         entity.ReceiptHeader
}

// PrinterOptions describes the attached printer and the business header.
type PrinterOptions struct {
	Type   string
	Width  int
	Header entity.ReceiptHeader
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	saleRepo repository.SaleRepository,
	receivableRepo repository.ReceivableRepository,
	sessionRepo repository.CashSessionRepository,
	opts PrinterOptions,
) *PrinterService {
	if opts.Width <= 0 {
		opts.Width = 48
	}
	return &PrinterService{
		printer:        p,
		saleRepo:       saleRepo,
		receivableRepo: receivableRepo,
		sessionRepo:    sessionRepo,
		printerType:    opts.Type,
		width:          opts.Width,
		header:         opts.Header,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Width      int    `json:"width"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  s.printer.IsConnected(ctx),
		Type:       s.printerType,
		Width:      s.width,
	}
}

// BuildSaleReceipt composes the receipt of a finalized sale.
func (s *PrinterService) BuildSaleReceipt(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	receipt := &entity.Receipt{
		Header:    s.header,
		Number:    sale.Number,
		Date:      sale.Date.Format(receiptTimeLayout),
		Operator:  sale.OperatorName,
		Subtotal:  sale.Subtotal,
		Discount:  sale.Discount,
		Total:     sale.Total,
		Tendered:  sale.Tendered,
		ChangeDue: sale.ChangeDue,
	}
	if sale.Customer != nil {
		receipt.Customer = sale.Customer.Name
	}

	for _, line := range sale.Lines {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Total:     line.LineTotal,
		})
	}
	for _, p := range sale.Payments {
		receipt.Payments = append(receipt.Payments, entity.ReceiptPayment{
			Label:  p.Method.Label(),
			Amount: p.Amount,
		})
	}

	receivable, err := s.receivableRepo.GetBySaleID(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	if receivable != nil {
		receipt.DueDate = receivable.DueDate.Format("02/01/2006")
	}
	return receipt, nil
}

// PrintSaleReceipt prints a sale's receipt. When printing fails the
// composed receipt is still returned alongside the error.
func (s *PrinterService) PrintSaleReceipt(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.BuildSaleReceipt(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		slog.ErrorContext(ctx, "printer error", "sale_id", saleID, "error", err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// BuildCashReport composes the summary of a cash session.
func (s *PrinterService) BuildCashReport(ctx context.Context, sessionID uuid.UUID) (*entity.CashReport, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Cash session")
	}

	report := &entity.CashReport{
		Header:         s.header,
		SessionID:      utils.ShortID(session.ID),
		Operator:       session.OperatorName,
		OpenedAt:       session.OpenedAt.Format(receiptTimeLayout),
		Totals:         session.Totals(),
		ClosingBalance: session.ClosingBalance,
		Difference:     session.Difference,
		Movements:      len(session.Transactions),
	}
	if session.ClosedAt != nil {
		report.ClosedAt = session.ClosedAt.Format(receiptTimeLayout)
	}
	return report, nil
}

// PrintCashReport prints a cash session summary, open or closed.
func (s *PrinterService) PrintCashReport(ctx context.Context, sessionID uuid.UUID) (*entity.CashReport, error) {
	report, err := s.BuildCashReport(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatCashReport(report, s.width)); err != nil {
		slog.ErrorContext(ctx, "printer error", "cash_session_id", sessionID, "error", err)
		return report, fmt.Errorf("failed to print cash report: %w", err)
	}
	return report, nil
}

func writeHeader(doc *printer.Document, h entity.ReceiptHeader) {
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(h.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if h.Address != "" {
		doc.Text(h.Address)
	}
	if h.Phone != "" {
		doc.Text(h.Phone)
	}
	if h.CNPJ != "" {
		doc.TextF("CNPJ: %s", h.CNPJ)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)
	writeHeader(doc, r.Header)

	doc.SetAlign(printer.AlignCenter).
		Text("CUPOM NAO FISCAL").
		SetAlign(printer.AlignLeft).
		KeyValue("Venda:", r.Number).
		KeyValue("Data:", r.Date)

	if r.Operator != "" {
		doc.KeyValue("Operador:", r.Operator)
	}
	if r.Customer != "" {
		doc.KeyValue("Cliente:", r.Customer)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, printer.BRL(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s cada", printer.BRL(item.UnitPrice))
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", printer.BRL(r.Subtotal))
	if r.Discount.IsPositive() {
		doc.KeyValue("Desconto:", printer.BRL(r.Discount))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", printer.BRL(r.Total)).
		SetBold(false)

	for _, p := range r.Payments {
		doc.KeyValue(p.Label+":", printer.BRL(p.Amount))
	}
	if r.ChangeDue.IsPositive() {
		doc.KeyValue("Recebido:", printer.BRL(r.Tendered)).
			KeyValue("Troco:", printer.BRL(r.ChangeDue))
	}
	if r.DueDate != "" {
		doc.KeyValue("Vencimento:", r.DueDate)
	}

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Obrigado pela preferencia!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

// FormatCashReport converts a CashReport into ESC/POS bytes.
func FormatCashReport(r *entity.CashReport, width int) []byte {
	doc := printer.NewDocument(width)
	writeHeader(doc, r.Header)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		Text("RELATORIO DE CAIXA").
		SetBold(false).
		SetAlign(printer.AlignLeft).
		KeyValue("Caixa:", r.SessionID).
		KeyValue("Operador:", r.Operator).
		KeyValue("Abertura:", r.OpenedAt)

	if r.ClosedAt != "" {
		doc.KeyValue("Fechamento:", r.ClosedAt)
	}

	doc.Separator('-').
		KeyValue("Saldo inicial:", printer.BRL(r.Totals.OpeningBalance)).
		KeyValue("Vendas em dinheiro:", printer.BRL(r.Totals.Sales)).
		KeyValue("Suprimentos:", printer.BRL(r.Totals.Supplies)).
		KeyValue("Sangrias:", printer.BRL(r.Totals.Withdrawals)).
		SetBold(true).
		KeyValue("Esperado:", printer.BRL(r.Totals.Expected)).
		SetBold(false)

	if r.ClosingBalance != nil {
		doc.KeyValue("Contado:", printer.BRL(*r.ClosingBalance))
	}
	if r.Difference != nil {
		doc.KeyValue("Diferenca:", printer.BRL(*r.Difference))
	}

	doc.Separator('-').
		KeyValue("Movimentos:", fmt.Sprintf("%d", r.Movements)).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
