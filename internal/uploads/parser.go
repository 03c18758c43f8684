package uploads

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"tripsplit/pkg/ai"
	"tripsplit/pkg/domain"
	"tripsplit/pkg/storage"
	"tripsplit/pkg/store"
)

const receiptSystemPrompt = `You are a parser that reads receipts and expense documents and returns JSON for creating expense records.
Respond ONLY with valid JSON. Schema:
{
  "amount": number,
  "currency": string,
  "date": string,
  "name": string,
  "description": string | null,
  "category": string | null,
  "note": string | null,
  "lineItems": [
    {
      "description": string | null,
      "category": string | null,
      "quantity": number | null,
      "unitAmount": number | null,
      "totalAmount": number | null
    }
  ]
}
If data is missing, use null. Prefer exact totals from the document.
Include taxes, shipping, fees, and discounts as separate line items; use negative totals for discounts and the category "Adjustments" unless the document shows a clearer one.
Do not include subtotal rows as line items.
"name" is a short human-friendly title; "description" is a concise summary with useful context.`

// Parser turns an uploaded receipt into structured expense data. PDFs go
// through local text extraction and the text model; images go to the vision
// model as a data URL.
type Parser struct {
	store   store.Store
	objects storage.ObjectStore
	text    ai.TextGenerator
	vision  ai.VisionGenerator
	logger  *slog.Logger
}

func NewParser(st store.Store, objects storage.ObjectStore, text ai.TextGenerator, vision ai.VisionGenerator, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{store: st, objects: objects, text: text, vision: vision, logger: logger}
}

// Parse runs one upload through the pipeline: RUNNING, download, LLM parse,
// apply to the expense, COMPLETED. Any failure marks the row FAILED with the
// error message; the queue decides whether to retry.
func (p *Parser) Parse(ctx context.Context, uploadID string) error {
	upload, found, err := p.store.GetUploadedExpense(uploadID)
	if err != nil {
		return fmt.Errorf("load upload: %w", err)
	}
	if !found {
		p.logger.Warn("parse job for missing upload", slog.String("upload_id", uploadID))
		return nil
	}
	if err := p.store.SetUploadStatus(uploadID, domain.UploadRunning, ""); err != nil {
		return fmt.Errorf("mark upload running: %w", err)
	}

	raw, receipt, err := p.parseReceipt(ctx, upload)
	if err != nil {
		if statusErr := p.store.SetUploadStatus(uploadID, domain.UploadFailed, err.Error()); statusErr != nil {
			p.logger.Error("mark upload failed", slog.String("upload_id", uploadID), slog.Any("error", statusErr))
		}
		return fmt.Errorf("parse receipt %s: %w", uploadID, err)
	}

	if err := p.applyToExpense(upload.ExpenseID, receipt); err != nil {
		if statusErr := p.store.SetUploadStatus(uploadID, domain.UploadFailed, err.Error()); statusErr != nil {
			p.logger.Error("mark upload failed", slog.String("upload_id", uploadID), slog.Any("error", statusErr))
		}
		return err
	}

	upload.ProcessingStatus = domain.UploadCompleted
	upload.RawText = raw
	upload.ParsedJSON, _ = json.Marshal(receipt)
	upload.LastError = ""
	upload.UpdatedAt = time.Now().UTC()
	if err := p.store.SaveUploadedExpense(upload); err != nil {
		return fmt.Errorf("save parsed upload: %w", err)
	}
	p.logger.Info("receipt parsed",
		slog.String("upload_id", uploadID), slog.String("expense_id", upload.ExpenseID))
	return nil
}

func (p *Parser) parseReceipt(ctx context.Context, upload domain.UploadedExpense) (string, receipt, error) {
	obj, err := p.objects.Get(ctx, upload.StorageKey)
	if err != nil {
		return "", receipt{}, fmt.Errorf("download receipt: %w", err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return "", receipt{}, fmt.Errorf("read receipt: %w", err)
	}

	var reply string
	switch {
	case upload.FileType == "application/pdf":
		text, err := extractPDFText(data)
		if err != nil {
			return "", receipt{}, err
		}
		prompt := fmt.Sprintf("Parse this receipt (file name: %s). Document text:\n\n%s", upload.OriginalFileName, text)
		reply, err = p.text.GenerateChat(ctx, receiptSystemPrompt, []ai.Message{{Role: "user", Content: prompt}})
		if err != nil {
			return "", receipt{}, fmt.Errorf("llm receipt parse: %w", err)
		}
	case strings.HasPrefix(upload.FileType, "image/"):
		if p.vision == nil {
			return "", receipt{}, fmt.Errorf("no vision model configured for image receipts")
		}
		dataURL := fmt.Sprintf("data:%s;base64,%s", upload.FileType, base64.StdEncoding.EncodeToString(data))
		prompt := fmt.Sprintf("Parse this receipt (file name: %s).", upload.OriginalFileName)
		reply, err = p.vision.DescribeImage(ctx, receiptSystemPrompt, prompt, dataURL)
		if err != nil {
			return "", receipt{}, fmt.Errorf("llm receipt parse: %w", err)
		}
	default:
		return "", receipt{}, fmt.Errorf("file type %s cannot be parsed", upload.FileType)
	}

	parsed, err := decodeReceipt(reply)
	if err != nil {
		return reply, receipt{}, err
	}
	return reply, parsed, nil
}

type receiptLine struct {
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Quantity    *float64 `json:"quantity"`
	UnitAmount  *float64 `json:"unitAmount"`
	TotalAmount *float64 `json:"totalAmount"`
}

type receipt struct {
	Amount      *float64      `json:"amount"`
	Currency    *string       `json:"currency"`
	Date        *string       `json:"date"`
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Category    *string       `json:"category"`
	Note        *string       `json:"note"`
	LineItems   []receiptLine `json:"lineItems"`
}

// decodeReceipt parses the model reply, tolerating a markdown code fence
// around the JSON.
func decodeReceipt(reply string) (receipt, error) {
	text := strings.TrimSpace(reply)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
		text = strings.TrimSpace(text)
	}
	var r receipt
	if err := json.Unmarshal([]byte(text), &r); err != nil {
		return receipt{}, fmt.Errorf("model returned invalid receipt JSON: %w", err)
	}
	return r, nil
}

// applyToExpense copies the parsed fields onto the draft expense. Absent
// fields leave the existing values alone; line items replace wholesale.
func (p *Parser) applyToExpense(expenseID string, r receipt) error {
	exp, found, err := p.store.GetExpense(expenseID)
	if err != nil {
		return fmt.Errorf("load expense: %w", err)
	}
	if !found {
		return fmt.Errorf("expense %s not found for parsed upload", expenseID)
	}

	if r.Amount != nil {
		exp.Amount = formatAmount(*r.Amount)
	}
	if r.Currency != nil && *r.Currency != "" {
		exp.Currency = *r.Currency
	}
	if r.Date != nil {
		if t, ok := parseReceiptDate(*r.Date); ok {
			exp.Date = t
		}
	}
	switch {
	case r.Name != nil && *r.Name != "":
		exp.Name = *r.Name
	case r.Category != nil && *r.Category != "":
		exp.Name = *r.Category
	default:
		exp.Name = "Expense"
	}
	if r.Category != nil {
		exp.Category = *r.Category
	}
	switch {
	case r.Note != nil && *r.Note != "":
		exp.Description = *r.Note
	case r.Description != nil && *r.Description != "":
		exp.Description = *r.Description
	}
	if len(r.LineItems) > 0 {
		items := make([]domain.ExpenseLineItem, 0, len(r.LineItems))
		for _, line := range r.LineItems {
			item := domain.ExpenseLineItem{
				ID:          uuid.NewString(),
				Quantity:    "1",
				UnitAmount:  "0.00",
				TotalAmount: "0.00",
			}
			if line.Description != nil {
				item.Description = *line.Description
			}
			if line.Category != nil {
				item.Category = *line.Category
			}
			if line.Quantity != nil {
				item.Quantity = strconv.FormatFloat(*line.Quantity, 'f', -1, 64)
			}
			if line.UnitAmount != nil {
				item.UnitAmount = formatAmount(*line.UnitAmount)
			}
			if line.TotalAmount != nil {
				item.TotalAmount = formatAmount(*line.TotalAmount)
			}
			items = append(items, item)
		}
		exp.LineItems = items
	}
	exp.UpdatedAt = time.Now().UTC()
	if err := p.store.SaveExpense(exp); err != nil {
		return fmt.Errorf("save parsed expense: %w", err)
	}
	return nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func parseReceiptDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	textReader, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	text, err := io.ReadAll(textReader)
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	if len(strings.TrimSpace(string(text))) == 0 {
		return "", fmt.Errorf("pdf contains no extractable text")
	}
	return string(text), nil
}
