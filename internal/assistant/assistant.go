package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caixa-dev/caixa/internal/dates"
	"github.com/caixa-dev/caixa/internal/model"
	"github.com/caixa-dev/caixa/internal/receipt"
	"github.com/caixa-dev/caixa/internal/report"
	"github.com/caixa-dev/caixa/internal/session"
	"github.com/caixa-dev/caixa/internal/store"
	"github.com/caixa-dev/caixa/internal/txparse"
)

// Quick-reply options offered with a pending receipt.
const (
	OptionConfirm = "confirmar"
	OptionCancel  = "cancelar"
)

// Ledger is the persistence the assistant needs.
type Ledger interface {
	AddTransaction(ctx context.Context, userID int64, txn model.Transaction) (int64, error)
	UserTransactions(ctx context.Context, userID int64, r store.Range) ([]model.StoredTransaction, error)
	LogInteraction(ctx context.Context, in model.Interaction) error
}

// Config wires an Assistant. Ledger is required; the rest have defaults.
type Config struct {
	Ledger     Ledger
	OCR        receipt.TextSource // nil disables receipt images
	Sessions   session.Store
	Clock      dates.Clock
	Classifier *receipt.Classifier
	MaxLines   int
	Logger     *slog.Logger
}

// Assistant handles chat messages for any number of users.
type Assistant struct {
	ledger     Ledger
	ocr        receipt.TextSource
	sessions   session.Store
	clock      dates.Clock
	classifier *receipt.Classifier
	maxLines   int
	logger     *slog.Logger
}

// New creates an Assistant from cfg.
func New(cfg Config) *Assistant {
	a := &Assistant{
		ledger:     cfg.Ledger,
		ocr:        cfg.OCR,
		sessions:   cfg.Sessions,
		clock:      cfg.Clock,
		classifier: cfg.Classifier,
		maxLines:   cfg.MaxLines,
		logger:     cfg.Logger,
	}
	if a.sessions == nil {
		a.sessions = session.NewMemory(session.DefaultTTL)
	}
	if a.clock == nil {
		a.clock = dates.SystemClock{}
	}
	if a.classifier == nil {
		a.classifier = receipt.NewClassifier(receipt.DefaultScoring())
	}
	if a.maxLines <= 0 {
		a.maxLines = txparse.DefaultMaxLines
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// outcome is a reply plus what gets logged about it.
type outcome struct {
	reply Reply
	meta  map[string]any
	err   error
}

func answer(text, result string) outcome {
	return outcome{reply: Reply{Text: text}, meta: map[string]any{"outcome": result}}
}

func failure(err error, result string) outcome {
	o := answer(msgInternalError, result)
	o.err = err
	return o
}

// Handle answers msg and logs the exchange. A non-nil error means something
// failed on our side; the reply then already tells the user so.
func (a *Assistant) Handle(ctx context.Context, msg Message) (Reply, error) {
	var out outcome
	switch msg.Content.Kind {
	case KindText:
		out = a.handleText(ctx, msg)
	case KindImage:
		out = a.handleImage(ctx, msg)
	default:
		out = answer(msgUnsupported, "unsupported")
	}

	if out.meta == nil {
		out.meta = map[string]any{}
	}
	out.meta["kind"] = msg.Content.Kind.String()
	if out.err != nil {
		out.meta["error"] = out.err.Error()
		a.logger.Error("handling message", "user_id", msg.UserID, "kind", msg.Content.Kind.String(), "error", out.err)
	}

	a.record(ctx, msg, out)
	return out.reply, out.err
}

func (a *Assistant) record(ctx context.Context, msg Message, out outcome) {
	text := msg.Content.Text
	switch msg.Content.Kind {
	case KindImage:
		text = "[imagem] " + msg.Content.ImagePath
	case KindUnsupported:
		text = "[" + msg.Content.Label + "]"
	}

	err := a.ledger.LogInteraction(ctx, model.Interaction{
		UserID:   msg.UserID,
		Username: msg.Username,
		Message:  text,
		Response: out.reply.Text,
		Metadata: out.meta,
	})
	if err != nil {
		a.logger.Warn("logging interaction", "user_id", msg.UserID, "error", err)
	}
}

func (a *Assistant) handleText(ctx context.Context, msg Message) outcome {
	text := strings.TrimSpace(msg.Content.Text)
	if text == "" {
		return answer(msgHelp, "empty")
	}

	fields := strings.Fields(text)
	cmd := strings.ToLower(fields[0])
	if i := strings.IndexByte(cmd, '@'); i > 0 {
		cmd = cmd[:i]
	}

	switch cmd {
	case "/start", "/ajuda", "/help":
		return answer(msgHelp, "help")
	case "/resumo":
		return a.summary(ctx, msg.UserID)
	case "/extrato":
		return a.statement(ctx, msg.UserID, fields[1:])
	}

	if len(fields) == 1 {
		switch cmd {
		case "/confirmar", OptionConfirm, "sim":
			return a.confirm(ctx, msg.UserID)
		case "/cancelar", OptionCancel, "nao", "não":
			return a.cancel(msg.UserID)
		}
	}

	if strings.HasPrefix(cmd, "/") {
		return answer(msgUnknownCommand, "unknown_command")
	}
	return a.batch(ctx, msg.UserID, text)
}

func (a *Assistant) summary(ctx context.Context, userID int64) outcome {
	from, to := dates.MonthRange(a.clock.Today())
	txns, err := a.ledger.UserTransactions(ctx, userID, store.Range{From: from, To: to})
	if err != nil {
		return failure(fmt.Errorf("loading month transactions: %w", err), "summary_failed")
	}
	return answer(report.FormatSummary("Resumo do mês:", report.Summarize(txns)), "summary")
}

func (a *Assistant) statement(ctx context.Context, userID int64, args []string) outcome {
	today := a.clock.Today()
	from, to := dates.MonthRange(today)

	if len(args) > 2 {
		return answer(msgStatementUsage, "bad_range")
	}
	if len(args) >= 1 {
		d, err := dates.ParseDMY(args[0])
		if err != nil {
			return answer(msgStatementUsage, "bad_range")
		}
		from, to = d, today
	}
	if len(args) == 2 {
		d, err := dates.ParseDMY(args[1])
		if err != nil {
			return answer(msgStatementUsage, "bad_range")
		}
		to = d
	}
	if to.Before(from) {
		return answer(msgStatementUsage, "bad_range")
	}

	txns, err := a.ledger.UserTransactions(ctx, userID, store.Range{From: from, To: to})
	if err != nil {
		return failure(fmt.Errorf("loading statement: %w", err), "statement_failed")
	}
	title := fmt.Sprintf("Extrato de %s a %s", dates.FormatDMY(from), dates.FormatDMY(to))
	out := answer(report.Statement(title, txns), "statement")
	out.meta["count"] = len(txns)
	return out
}

func (a *Assistant) batch(ctx context.Context, userID int64, text string) outcome {
	b, err := txparse.ParseBatch(text, a.clock.Today(), a.maxLines)
	var tooLarge *txparse.BatchTooLargeError
	if errors.As(err, &tooLarge) {
		out := answer(fmt.Sprintf(msgBatchTooLarge, tooLarge.Lines, tooLarge.Max), "batch_too_large")
		out.meta["lines"] = tooLarge.Lines
		return out
	}
	if err != nil {
		return failure(fmt.Errorf("parsing batch: %w", err), "batch_failed")
	}

	var saved []model.Transaction
	var failed []model.LineOutcome
	var storeErrs []error
	for _, o := range b.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
			continue
		}
		if _, err := a.ledger.AddTransaction(ctx, userID, o.Transaction); err != nil {
			o.Err = fmt.Errorf("saving %q: %w", o.Line, err)
			storeErrs = append(storeErrs, o.Err)
			failed = append(failed, o)
			continue
		}
		saved = append(saved, o.Transaction)
	}

	result := "batch"
	switch {
	case len(saved) == 0:
		result = "batch_rejected"
	case len(failed) > 0:
		result = "batch_partial"
	}
	out := answer(batchReport(saved, failed), result)
	out.meta["saved"] = len(saved)
	out.meta["failed"] = len(failed)
	out.err = errors.Join(storeErrs...)
	return out
}

func (a *Assistant) handleImage(ctx context.Context, msg Message) outcome {
	if a.ocr == nil {
		return answer(msgNoOCR, "ocr_disabled")
	}

	parsed, err := receipt.ParseImage(ctx, a.ocr, msg.Content.ImagePath)
	if err != nil {
		a.logger.Warn("reading receipt", "user_id", msg.UserID, "image", msg.Content.ImagePath, "error", err)
		return answer(msgUnreadable, "ocr_failed")
	}

	verdict := a.classifier.Classify(parsed)
	disposition := verdict.Disposition()
	a.logger.Debug("receipt classified",
		"user_id", msg.UserID, "score", verdict.Score, "disposition", disposition, "reasons", verdict.Reasons)

	if disposition == model.DispositionReject {
		out := answer(msgNotAReceipt, "receipt_rejected")
		out.meta["score"] = verdict.Score
		return out
	}
	txn, ok := receipt.Expense(parsed, a.clock.Today())
	if !ok {
		out := answer(msgNoTotal, "receipt_no_total")
		out.meta["score"] = verdict.Score
		return out
	}

	var out outcome
	if disposition == model.DispositionAutoFile {
		if _, err := a.ledger.AddTransaction(ctx, msg.UserID, txn); err != nil {
			return failure(fmt.Errorf("saving receipt: %w", err), "receipt_failed")
		}
		out = answer("🧾 Comprovante registrado: "+describeTransaction(txn), "receipt_saved")
	} else {
		a.sessions.Put(msg.UserID, session.State{Receipt: parsed, Transaction: txn})
		out = answer(fmt.Sprintf(msgConfirmReceipt, describeTransaction(txn)), "receipt_pending")
		out.reply.Options = []string{OptionConfirm, OptionCancel}
	}
	out.meta["score"] = verdict.Score
	out.meta["reasons"] = verdict.Reasons
	out.meta["total"] = parsed.Total.Decimal.StringFixed(2)
	return out
}

func (a *Assistant) confirm(ctx context.Context, userID int64) outcome {
	st, ok := a.sessions.Get(userID)
	if !ok {
		return answer(msgNothingPending, "nothing_pending")
	}
	if _, err := a.ledger.AddTransaction(ctx, userID, st.Transaction); err != nil {
		return failure(fmt.Errorf("saving confirmed receipt: %w", err), "confirm_failed")
	}
	a.sessions.Clear(userID)
	out := answer("✅ Comprovante registrado: "+describeTransaction(st.Transaction), "receipt_confirmed")
	out.meta["code"] = st.Code
	return out
}

func (a *Assistant) cancel(userID int64) outcome {
	st, ok := a.sessions.Get(userID)
	if !ok {
		return answer(msgNothingPending, "nothing_pending")
	}
	a.sessions.Clear(userID)
	out := answer(msgDiscarded, "receipt_cancelled")
	out.meta["code"] = st.Code
	return out
}
