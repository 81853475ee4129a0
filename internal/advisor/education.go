package advisor

import (
	"context"
	"encoding/json"

	"github.com/walletwise/walletwise/internal/intent"
)

// knowledgeBase is the embedded reference material the education assistant
// answers from. It is rendered into the system prompt as indented JSON.
var knowledgeBase = map[string]any{
	"conceptos_basicos": map[string]string{
		"presupuesto": "Un presupuesto es un plan que te ayuda a administrar tu dinero. Te muestra cuánto ganas y cuánto gastas.",
		"ahorro":      "Ahorrar es guardar una parte de tu dinero para el futuro. Te ayuda a prepararte para emergencias y alcanzar tus metas.",
		"inversion":   "Invertir es poner tu dinero a trabajar para generar más dinero en el futuro.",
		"deuda":       "Una deuda es dinero que debes a alguien. Es importante pagarla a tiempo para evitar intereses altos.",
	},
	"criptomonedas": map[string]string{
		"ethereum": "Ethereum (ETH) es una plataforma blockchain que permite crear contratos inteligentes y aplicaciones descentralizadas.",
		"bitcoin":  "Bitcoin (BTC) es la primera criptomoneda. Se usa principalmente como reserva de valor.",
		"wallet":   "Una wallet o billetera digital es donde guardas tus criptomonedas de forma segura.",
		"gas":      "El gas es la tarifa que pagas por realizar transacciones en la red Ethereum.",
	},
	"consejos": []string{
		"Ahorra al menos el 10% de tus ingresos cada mes",
		"Evita deudas con intereses altos",
		"Diversifica tus inversiones",
		"Mantén un fondo de emergencia",
		"Revisa tus gastos regularmente",
	},
}

func educationPrompt() string {
	kb, _ := json.MarshalIndent(knowledgeBase, "", "  ")

	return `Eres Bloky Health, un asesor financiero amigable, empático y educativo. Tu especialidad son las finanzas personales y la gestión de activos digitales como Ethereum (ETH).

BASE DE CONOCIMIENTO:
` + string(kb) + `

REGLAS:
1. Usa la base de conocimiento para responder preguntas sobre conceptos financieros y criptomonedas
2. Sé amigable, claro y educativo
3. Simplifica conceptos complejos
4. Celebra los logros del usuario
5. Nunca juzgues decisiones pasadas

CAPACIDADES:
- Explicar conceptos financieros básicos
- Enseñar sobre criptomonedas
- Dar consejos de ahorro e inversión
- Analizar situaciones financieras

Responde siempre en español de manera amigable y accesible.`
}

// NewEducationVariant builds the financial-literacy assistant. It answers
// from the embedded knowledge base, gets live prices for market questions,
// and emits no structured payloads.
func NewEducationVariant(mkt *MarketContextBuilder) *Variant {
	return &Variant{
		Name:         "education",
		SystemPrompt: educationPrompt(),
		Delimiter:    "",
		Set:          intent.EducationSet,
		Greeting: func(ctx context.Context) string {
			return "¡Hola! Soy Bloky, tu asesor financiero personal. Estoy aquí para ayudarte a entender tus finanzas, aprender sobre criptomonedas y alcanzar tus metas. ¿En qué puedo ayudarte hoy?"
		},
		ExtraContext: func(ctx context.Context, category intent.Category, _ string) string {
			if category != intent.CategoryMarket {
				return ""
			}
			return mkt.EducationContext(ctx)
		},
	}
}
