package bankparser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"amunoz/movimientos/internal/logging"
	"amunoz/movimientos/internal/models"

	"gopkg.in/xmlpath.v2"
)

// BBVAParser decodes the camt.053 statement export of BBVA. Only the fields
// the canonical record needs are read: booking date, signed amount, the
// remittance text and the statement account IBAN.
type BBVAParser struct {
	logger logging.Logger
}

func NewBBVA(logger logging.Logger) *BBVAParser {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &BBVAParser{logger: logger}
}

func (p *BBVAParser) Bank() string { return models.BankBBVA }

var (
	stmtPath      = xmlpath.MustCompile("//BkToCstmrStmt/Stmt")
	stmtIBANPath  = xmlpath.MustCompile("Acct/Id/IBAN")
	entryPath     = xmlpath.MustCompile("Ntry")
	entryAmtPath  = xmlpath.MustCompile("Amt")
	entryCdtPath  = xmlpath.MustCompile("CdtDbtInd")
	entryDatePath = xmlpath.MustCompile("BookgDt/Dt")
	entryRmtPath  = xmlpath.MustCompile("NtryDtls/TxDtls/RmtInf/Ustrd")
	entryInfPath  = xmlpath.MustCompile("AddtlNtryInf")
)

func (p *BBVAParser) ValidateFormat(r io.Reader) (bool, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return false, nil
	}
	iter := stmtPath.Iter(root)
	return iter.Next(), nil
}

func (p *BBVAParser) Parse(r io.Reader, sourceFile string) ([]models.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", sourceFile, err)
	}
	root, err := xmlpath.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", sourceFile, err)
	}

	var records []models.Transaction
	stmts := stmtPath.Iter(root)
	for stmts.Next() {
		stmt := stmts.Node()

		account, ok := stmtIBANPath.String(stmt)
		if !ok || account == "" {
			return nil, fmt.Errorf("%s: statement without account IBAN", sourceFile)
		}

		entries := entryPath.Iter(stmt)
		for entries.Next() {
			entry := entries.Node()

			dateStr, ok := entryDatePath.String(entry)
			if !ok {
				return nil, fmt.Errorf("%s: entry without booking date", sourceFile)
			}
			date, err := parseDate(dateStr, "2006-01-02")
			if err != nil {
				return nil, fmt.Errorf("%s: %w", sourceFile, err)
			}
			amtStr, ok := entryAmtPath.String(entry)
			if !ok {
				return nil, fmt.Errorf("%s: entry without amount", sourceFile)
			}
			amount, err := parseAmount(amtStr)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", sourceFile, err)
			}
			// camt.053 amounts are unsigned; DBIT entries are outflows.
			if ind, ok := entryCdtPath.String(entry); ok && ind == "DBIT" {
				amount = amount.Neg()
			}

			description := ""
			if rmt, ok := entryRmtPath.String(entry); ok {
				description = strings.TrimSpace(rmt)
			}
			if description == "" {
				if inf, ok := entryInfPath.String(entry); ok {
					description = strings.TrimSpace(inf)
				}
			}

			records = append(records, models.Transaction{
				Date:        date,
				Amount:      amount,
				Description: description,
				Bank:        models.BankBBVA,
				Account:     account,
				SourceFile:  sourceFile,
				LineNum:     len(records) + 1,
			})
		}
	}

	p.logger.WithFields(
		logging.Field{Key: "file", Value: sourceFile},
		logging.Field{Key: "count", Value: len(records)},
	).Info("Parsed BBVA statement")
	return records, nil
}
