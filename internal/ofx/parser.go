// Package ofx converts OFX/QFX bank statements into ledger entries.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/akfinance/ledger/internal/model"
)

// Entry is one statement line ready to be recorded as a transaction. The
// owning user and the stored id are assigned at import time, not here.
type Entry struct {
	OccurredAt time.Time
	Type       model.TransactionType
	Currency   string
	Note       string
	Amount     decimal.Decimal
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocess fixes common formatting issues in OFX files: leading blank
// lines, mixed-case SEVERITY values, and SGML-style tags missing their
// closing bracket.
func (p *Parser) preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	content = tagFixRegex.ReplaceAllString(content, "$1>")
	return content
}

// ParseFile parses an OFX/QFX file and returns statement entries. Debits
// become expenses and credits become income; amounts are always positive.
func (p *Parser) ParseFile(_ context.Context, reader io.Reader) ([]Entry, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var entries []Entry
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			currency := stmt.CurDef.String()
			for _, ofxTx := range stmt.BankTranList.Transactions {
				entries = append(entries, p.convert(ofxTx, currency))
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			currency := stmt.CurDef.String()
			for _, ofxTx := range stmt.BankTranList.Transactions {
				entries = append(entries, p.convert(ofxTx, currency))
			}
		}
	}

	slog.Info("Parsed OFX file",
		"entries", len(entries),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return entries, nil
}

// convert maps one OFX transaction to a ledger entry. OFX uses negative
// amounts for debits, which become EXPENSE entries here.
func (p *Parser) convert(ofxTx ofxgo.Transaction, currency string) Entry {
	amount := decimal.NewFromBigRat(&ofxTx.TrnAmt.Rat, 2)

	txType := model.TransactionTypeIncome
	if amount.Sign() < 0 {
		txType = model.TransactionTypeExpense
		amount = amount.Neg()
	}

	return Entry{
		OccurredAt: ofxTx.DtPosted.Time.UTC(),
		Type:       txType,
		Amount:     amount,
		Currency:   normalizeCurrency(currency),
		Note:       describe(ofxTx),
	}
}

// describe builds the transaction note from the statement's payee, name,
// and memo fields.
func describe(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	memo := strings.TrimSpace(string(tx.Memo))
	switch {
	case name != "" && memo != "" && !strings.EqualFold(name, memo):
		return name + " " + memo
	case name != "":
		return name
	default:
		return memo
	}
}

// normalizeCurrency uppercases a statement currency and falls back to the
// system default when the statement does not declare one.
func normalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return model.DefaultCurrency
	}
	return currency
}
