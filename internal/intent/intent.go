// Package intent classifies free-form user text into one label of a small
// closed category set using a single-turn model query. Classification is
// best effort: any provider failure or unrecognized reply falls back to the
// set's default category.
package intent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/walletwise/walletwise/internal/llm"
)

// Category is one label of a closed classification set. The values are the
// Spanish labels the model is instructed to answer with.
type Category string

// Categories used across the classification sets.
const (
	CategoryPortfolio           Category = "PORTAFOLIO"
	CategoryTransactions        Category = "TRANSACCIONES"
	CategoryMarket              Category = "MERCADO"
	CategoryTransfer            Category = "TRANSFERENCIA"
	CategoryContactRegistration Category = "REGISTRO_CONTACTO"
	CategoryServicePayment      Category = "PAGO_SERVICIO"
	CategoryInquiry             Category = "CONSULTA"
	CategoryInvestments         Category = "INVERSIONES"
	CategoryEducation           Category = "EDUCACION"
	CategoryPersonalAnalysis    Category = "ANALISIS_PERSONAL"
	CategoryGoal                Category = "META"
	CategoryTransaction         Category = "TRANSACCION"
)

// Option pairs a category with the token used to recognize it in the model
// reply. Matching is containment on the uppercased reply, so the model may
// prepend punctuation or embed the label in a sentence.
type Option struct {
	Category Category
	Match    string
}

// Set is a closed category set: the classifier instruction enumerating the
// labels, the recognition options in priority order, and the default
// returned on provider failure or no match.
type Set struct {
	Name        string
	Instruction string
	Options     []Option
	Default     Category
}

// AdvisorSet classifies general finance queries for the advisor pipeline.
var AdvisorSet = Set{
	Name: "advisor",
	Instruction: "Eres un sistema de clasificación de intenciones. Recibirás una consulta de un usuario sobre finanzas e inversiones. " +
		"Debes clasificar la consulta en UNA de las siguientes categorías:\n" +
		"A. PORTAFOLIO → si la consulta trata sobre la distribución, rentabilidad o estado actual de sus inversiones.\n" +
		"B. TRANSACCIONES → si está buscando consejos, quiere saber qué hacer, desea una sugerencia o análisis basado en su comportamiento pasado o futuro (compras/ventas).\n" +
		"C. MERCADO → si está preguntando por el estado actual de criptomonedas como Bitcoin, Ethereum u otras, precios o eventos del mercado.\n\n" +
		"Responde **SOLO** con UNA PALABRA en mayúsculas: PORTAFOLIO, TRANSACCIONES o MERCADO.",
	Options: []Option{
		{Category: CategoryPortfolio, Match: "PORTAFOLIO"},
		{Category: CategoryTransactions, Match: "TRANSACCIONES"},
		{Category: CategoryMarket, Match: "MERCADO"},
	},
	Default: CategoryTransactions,
}

// TransactionSet classifies crypto-transaction requests for the transaction
// pipeline.
var TransactionSet = Set{
	Name: "transactions",
	Instruction: "Eres un sistema de clasificación de intenciones para un asistente de transacciones de criptomonedas.\n" +
		"Clasifica la consulta en UNA de estas categorías:\n" +
		"A. TRANSFERENCIA → si quiere enviar dinero/criptos a alguien\n" +
		"B. REGISTRO_CONTACTO → si quiere guardar un contacto nuevo con su número de teléfono solamente\n" +
		"C. PAGO_SERVICIO → si quiere pagar un servicio (luz, agua, internet, etc)\n" +
		"D. MERCADO → si pregunta por precios actuales, conversiones de moneda o valores de mercado\n" +
		"E. CONSULTA → para cualquier otra pregunta o solicitud de información\n\n" +
		"Responde SOLO con UNA PALABRA en mayúsculas: TRANSFERENCIA, REGISTRO_CONTACTO, PAGO_SERVICIO, MERCADO o CONSULTA.",
	Options: []Option{
		{Category: CategoryTransfer, Match: "TRANSFERENCIA"},
		{Category: CategoryContactRegistration, Match: "REGISTRO"},
		{Category: CategoryServicePayment, Match: "PAGO"},
		{Category: CategoryMarket, Match: "MERCADO"},
	},
	Default: CategoryInquiry,
}

// EducationSet classifies finance-literacy questions for the education
// pipeline.
var EducationSet = Set{
	Name: "education",
	Instruction: "Clasifica la consulta en UNA categoría:\n" +
		"A. EDUCACION → conceptos, definiciones, aprender\n" +
		"B. ANALISIS → análisis de gastos/finanzas personales\n" +
		"C. META → objetivos de ahorro\n" +
		"D. MERCADO → precios de criptos\n" +
		"E. TRANSACCION → compra/venta/transferencia\n\n" +
		"Responde SOLO con UNA PALABRA: EDUCACION, ANALISIS, META, MERCADO o TRANSACCION.",
	Options: []Option{
		{Category: CategoryEducation, Match: "EDUCACION"},
		{Category: CategoryPersonalAnalysis, Match: "ANALISIS"},
		{Category: CategoryGoal, Match: "META"},
		{Category: CategoryMarket, Match: "MERCADO"},
		{Category: CategoryTransaction, Match: "TRANSACCION"},
	},
	Default: CategoryEducation,
}

// HomeSet routes a query to one of the three assistants. The INVERSION and
// TRANSACCION tokens also match the plural labels the model may answer with.
var HomeSet = Set{
	Name: "home",
	Instruction: "Clasifica la consulta del usuario en UNA de estas categorías:\n\n" +
		"A. INVERSIONES → análisis de portafolio, preguntas sobre inversiones, rendimiento, recomendaciones de activos\n" +
		"B. TRANSACCIONES → transferencias, pagos, consultas de saldo, historial de movimientos\n" +
		"C. EDUCACION → conceptos financieros, aprender sobre criptomonedas, preguntas teóricas, consejos generales\n\n" +
		"Responde SOLO con UNA PALABRA: INVERSIONES, TRANSACCIONES o EDUCACION.",
	Options: []Option{
		{Category: CategoryInvestments, Match: "INVERSION"},
		{Category: CategoryTransactions, Match: "TRANSACCION"},
		{Category: CategoryEducation, Match: "EDUCACION"},
	},
	Default: CategoryEducation,
}

// Classifier runs single-turn classification queries against a completion
// provider.
type Classifier struct {
	completer llm.Completer
	log       *slog.Logger
}

// NewClassifier creates a Classifier backed by the given completer.
func NewClassifier(completer llm.Completer, log *slog.Logger) *Classifier {
	return &Classifier{
		completer: completer,
		log:       log.With("component", "intent_classifier"),
	}
}

// Classify maps userText to one category of the given set. The reply is
// uppercased and trimmed, then matched against each option in priority
// order; the first containment wins. On provider failure or no match the
// set's default is returned, never an error.
func (c *Classifier) Classify(ctx context.Context, userText string, set Set) Category {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: set.Instruction},
		{Role: llm.RoleUser, Content: userText},
	}

	reply, err := c.completer.Complete(ctx, messages)
	if err != nil {
		c.log.WarnContext(ctx, "Intent classification failed, using default",
			"set", set.Name, "default", string(set.Default), "error", err)
		return set.Default
	}

	normalized := strings.ToUpper(strings.TrimSpace(reply))
	for _, opt := range set.Options {
		if strings.Contains(normalized, opt.Match) {
			c.log.DebugContext(ctx, "Intent classified", "set", set.Name, "category", string(opt.Category))
			return opt.Category
		}
	}

	c.log.DebugContext(ctx, "No category matched, using default",
		"set", set.Name, "reply", normalized, "default", string(set.Default))
	return set.Default
}
