package receipt

import (
	"regexp"
	"time"
)

var (
	// amountRe finds BRL-style amounts: "R$ 1.234,56", "1 234.56", "-12,00", "1234,56".
	amountRe = regexp.MustCompile(`(?:R\$\s*)?([+-]?\d{1,3}(?:[.\s]\d{3})*(?:[,.]\d{2})|[+-]?\d+[,.]\d{2})`)

	// numericDateRe finds DD/MM/YYYY, DD-MM-YY and friends.
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})\b`)

	// isoDateRe finds YYYY-MM-DD.
	isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)

	// dottedDateRe finds DD.MM.YYYY (a four digit year keeps it apart from amounts).
	dottedDateRe = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})\.(\d{4})\b`)

	// namedDateRe finds "15 de março de 2025", "15 MAR 25", "15/mar/2025".
	namedDateRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:\s+de\s+|\s*[/\-. ]\s*)([a-zç]{3,9})\.?(?:\s+de\s+|\s*[/\-. ]\s*)(\d{2,4})\b`)
)

// totalKeywords mark the line holding the amount due.
var totalKeywords = []string{
	"total",
	"valor a pagar",
	"valor a pagar:",
	"valor",
	"a pagar",
	"total a pagar",
	"total:",
}

// strongKeywords are terms that appear on payment receipts and bank slips.
var strongKeywords = []string{
	"comprovante",
	"recibo",
	"transfer",
	"transferência",
	"transferencia",
	"pagamento",
	"boleto",
	"saldo",
	"agência",
	"agencia",
	"conta",
	"operação",
	"operacao",
	"autoriz",
	"favorecido",
	"cpf",
	"cnpj",
	"código barra",
	"linha digitável",
}

// valueKeywords are terms that introduce the paid amount.
var valueKeywords = []string{
	"total",
	"valor a pagar",
	"valor",
	"total a pagar",
	"valor pago",
	"liquida",
}

var monthNames = map[string]time.Month{
	"janeiro":   time.January,
	"fevereiro": time.February,
	"março":     time.March,
	"marco":     time.March,
	"abril":     time.April,
	"maio":      time.May,
	"junho":     time.June,
	"julho":     time.July,
	"agosto":    time.August,
	"setembro":  time.September,
	"outubro":   time.October,
	"novembro":  time.November,
	"dezembro":  time.December,
	"jan":       time.January,
	"fev":       time.February,
	"feb":       time.February,
	"mar":       time.March,
	"abr":       time.April,
	"apr":       time.April,
	"mai":       time.May,
	"may":       time.May,
	"jun":       time.June,
	"jul":       time.July,
	"ago":       time.August,
	"aug":       time.August,
	"set":       time.September,
	"sep":       time.September,
	"sept":      time.September,
	"out":       time.October,
	"oct":       time.October,
	"nov":       time.November,
	"dez":       time.December,
	"dec":       time.December,
	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,
}
