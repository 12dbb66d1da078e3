package assistant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caixa-dev/caixa/internal/dates"
	"github.com/caixa-dev/caixa/internal/model"
	"github.com/caixa-dev/caixa/internal/report"
	"github.com/caixa-dev/caixa/internal/txparse"
)

const (
	msgHelp = "👋 Olá! Eu sou seu assistente de orçamento pessoal.\n\n" +
		"📌 Envie lançamentos no formato valor;data;descrição, um por linha:\n" +
		"   -45,90;ontem;mercado\n" +
		"   1200;05/06;salário\n" +
		"Valores positivos são ganhos, negativos são gastos. A data aceita hoje, ontem, amanhã, DD/MM ou DD/MM/AAAA.\n\n" +
		"🧾 Envie a foto de um comprovante para registrar o gasto.\n" +
		"📊 /resumo mostra o saldo do mês.\n" +
		"🗓️ /extrato [DD/MM/AAAA [DD/MM/AAAA]] lista os lançamentos do período."
	msgFormatHint     = "Use o formato valor;data;descrição, ex: -45,90;ontem;mercado"
	msgUnknownCommand = "⚠️ Comando desconhecido. Envie /ajuda para ver o que eu sei fazer."
	msgStatementUsage = "⚠️ Uso: /extrato [DD/MM/AAAA [DD/MM/AAAA]]"
	msgBatchTooLarge  = "⚠️ Sua mensagem tem %d linhas; envie no máximo %d lançamentos por vez."
	msgUnsupported    = "⚠️ Ainda não sei lidar com esse tipo de mensagem. Envie texto ou a foto de um comprovante."
	msgNoOCR          = "⚠️ A leitura de comprovantes não está disponível no momento."
	msgUnreadable     = "⚠️ Não consegui ler a imagem. Tente uma foto mais nítida."
	msgNotAReceipt    = "🤔 Isso não parece um comprovante de pagamento. Nada foi registrado."
	msgNoTotal        = "🤔 Não encontrei o valor total nesse comprovante. Registre manualmente: valor;data;descrição"
	msgConfirmReceipt = "🧾 Encontrei um comprovante: %s\nRegistrar esse gasto? Responda confirmar ou cancelar."
	msgNothingPending = "Nenhum comprovante aguardando confirmação."
	msgDiscarded      = "🗑️ Comprovante descartado."
	msgInternalError  = "⚠️ Algo deu errado do nosso lado. Tente novamente em instantes."
)

func describeTransaction(t model.Transaction) string {
	s := dates.FormatDMY(t.Date) + " " + report.FormatBRL(t.Amount)
	if t.Description != "" {
		s += " · " + t.Description
	}
	return s
}

// failureReason explains in one word or two why a line was not saved.
func failureReason(err error) string {
	switch {
	case errors.Is(err, dates.ErrDateResolution):
		return "data inválida"
	case errors.Is(err, txparse.ErrGrammarMismatch):
		return "formato inválido"
	default:
		return "erro ao salvar"
	}
}

func batchReport(saved []model.Transaction, failed []model.LineOutcome) string {
	var b strings.Builder
	if len(saved) > 0 {
		fmt.Fprintf(&b, "✅ %d lançamento(s) registrado(s):\n", len(saved))
		for _, t := range saved {
			mark := "➕"
			if t.IsExpense() {
				mark = "➖"
			}
			fmt.Fprintf(&b, "%s %s\n", mark, describeTransaction(t))
		}
	}
	if len(failed) > 0 {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "⚠️ %d linha(s) não registrada(s):\n", len(failed))
		for _, o := range failed {
			fmt.Fprintf(&b, "• %s (%s)\n", o.Line, failureReason(o.Err))
		}
		b.WriteString(msgFormatHint)
	}
	return strings.TrimRight(b.String(), "\n")
}
