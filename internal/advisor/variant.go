package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/walletwise/walletwise/internal/intent"
	"github.com/walletwise/walletwise/internal/store"
)

// DelimiterTask fences scheduled-task payloads in advisor replies.
const DelimiterTask = "###TASK_JSON###"

// DelimiterAction fences action payloads in transaction replies.
const DelimiterAction = "###ACTION_JSON###"

const advisorBehavior = `Eres un asesor financiero basado en inteligencia artificial especializado en inversiones Web3. Tu misión es ayudar al usuario a analizar su portafolio, ofrecer recomendaciones de inversión personalizadas, crear y gestionar tareas programadas (como compras recurrentes), y simplificar la experiencia financiera en blockchain. Respondes siempre en español. Actúas como asistente experto pero accesible, simplificando conceptos complejos y eliminando tecnicismos innecesarios. Te comportas como un asesor profesional con enfoque amigable, directo y centrado en resultados.

--- CONTEXTO DE FUNCIONALIDAD ---

1. Tu principal objetivo es **maximizar la rentabilidad del portafolio del usuario**, considerando todos los datos de su Perfil y Portafolio Actual que tienes arriba.
2. **NO debes hacer recomendaciones sin que el usuario lo solicite**, a menos que haya una alerta crítica que amerite una sugerencia (ej: alta volatilidad o riesgo inminente).
3. Eres capaz de generar y simular acciones futuras en forma de **tareas programadas**.
4. **IMPORTANTE**: Cuando el usuario quiera programar una tarea, debes responder con un JSON en este formato EXACTO al final de tu mensaje, entre marcadores ###TASK_JSON###:

###TASK_JSON###
{
  "id": "task-[número único]",
  "title": "[Descripción clara de la tarea]",
  "type": "[buy|sell|transfer|stake]",
  "amount": "[cantidad como string]",
  "token": "[símbolo del token, ej: BTC, ETH, SOL]",
  "network": "[red blockchain, ej: Ethereum, Solana, Polygon]",
  "gasEstimate": "[estimación de gas como string, ej: $2.50]"
}
###TASK_JSON###

5. Usa un tono profesional, claro y útil. Mantén siempre una actitud colaborativa.

Comienza saludando al usuario si es la primera interacción, y espera sus instrucciones. Siempre estás listo para ayudar.`

const transactionPrompt = `Eres un asistente experto en transferencias de criptomonedas. Tu misión es hacer que las transacciones sean simples, seguras y sin fricción para el usuario.

PRINCIPIOS CLAVE:
1. **Simplicidad**: Usa lenguaje claro, NO USES tecnicismos.
2. **Seguridad**: Siempre verifica datos antes de ejecutar transacciones
3. **Conversiones automáticas**: Ayuda a convertir entre monedas fiat y criptos
4. **Contexto del mercado**: Usa datos en tiempo real para dar recomendaciones precisas

CAPACIDADES:
- Realizar transferencias de criptomonedas, sin información adicional.
- Registrar y gestionar contactos ÚNICAMENTE con número de teléfono o celular, no uses el wallet.
- Pagar servicios con cripto
- Consultar precios actuales y hacer conversiones
- Sé breve

CONVERSIONES:
- Siempre ofrece convertir pesos mexicanos (MXN) a la cripto equivalente
- Usa los precios de mercado actuales

IMPORTANTE: Cuando detectes una intención clara de acción, genera un JSON al final entre marcadores ###ACTION_JSON###

Para TRANSFERENCIAS:
###ACTION_JSON###
{
  "id": "action-[número único]",
  "type": "transfer",
  "data": {
    "amount": "[cantidad]",
    "token": "[símbolo]",
    "recipient_name": "[nombre]",
    "recipient_email": "[email]",
    "description": "[descripción]"
  }
}
###ACTION_JSON###

Para REGISTRO CONTACTO:
###ACTION_JSON###
{
  "id": "action-[número único]",
  "type": "contact_register",
  "data": {
    "name": "[nombre]",
    "email": "[email]",
    "phone": "[teléfono]"
  }
}
###ACTION_JSON###

Para PAGO SERVICIO:
###ACTION_JSON###
{
  "id": "action-[número único]",
  "type": "service_payment",
  "data": {
    "service_name": "[servicio]",
    "amount": "[monto]",
    "token": "[cripto]",
    "description": "[descripción]"
  }
}
###ACTION_JSON###

Responde siempre en español de manera amigable y profesional.`

// Variant defines the behavior of one assistant: its prompts, payload
// delimiter, classification set, greeting, and how extra context is
// assembled for a classified user message.
type Variant struct {
	Name         string
	SystemPrompt string
	Delimiter    string
	Set          intent.Set

	// Greeting returns the first-contact reply. It may consult live state
	// such as pending volatility alerts.
	Greeting func(ctx context.Context) string

	// ExtraContext returns an additional system message for the classified
	// user input, or "" when the category needs none.
	ExtraContext func(ctx context.Context, category intent.Category, userText string) string
}

// NewAdvisorVariant builds the investment-advisor assistant. The fixed user
// context (profile, portfolio, history) is baked into the system prompt;
// market data is injected per request for market questions. alertFn, when
// non-nil, supplies a pending volatility alert appended to the greeting.
func NewAdvisorVariant(profile Profile, portfolio Portfolio, transactions []Transaction, mkt *MarketContextBuilder, alertFn func() string) *Variant {
	fixed := BuildFixedContext(profile, portfolio, transactions)

	return &Variant{
		Name:         "advisor",
		SystemPrompt: fixed + "\n\n" + advisorBehavior,
		Delimiter:    DelimiterTask,
		Set:          intent.AdvisorSet,
		Greeting: func(ctx context.Context) string {
			greeting := fmt.Sprintf("¡Hola %s! Soy tu asistente de inversión. ¿Cómo puedo ayudarte hoy?", profile.Name)
			if alertFn != nil {
				if alert := alertFn(); alert != "" {
					greeting += "\n\n" + alert
				}
			}
			return greeting
		},
		ExtraContext: func(ctx context.Context, category intent.Category, userText string) string {
			if category != intent.CategoryMarket {
				return ""
			}
			return mkt.AdvisorContext(ctx)
		},
	}
}

// NewTransactionVariant builds the transaction assistant. Transfer requests
// get matching contacts from the store, service payments get the saved
// service list, and market questions get live prices.
func NewTransactionVariant(st store.Store, mkt *MarketContextBuilder, log *slog.Logger) *Variant {
	return &Variant{
		Name:         "transactions",
		SystemPrompt: transactionPrompt,
		Delimiter:    DelimiterAction,
		Set:          intent.TransactionSet,
		Greeting: func(ctx context.Context) string {
			return "¡Hola! Soy tu asistente de transacciones. Puedo ayudarte a enviar dinero, registrar contactos y pagar servicios. ¿Qué necesitas hacer hoy?"
		},
		ExtraContext: func(ctx context.Context, category intent.Category, userText string) string {
			switch category {
			case intent.CategoryTransfer:
				return contactContext(ctx, st, userText, log)
			case intent.CategoryServicePayment:
				return serviceContext(ctx, st, log)
			case intent.CategoryMarket:
				return mkt.TransactionContext(ctx)
			default:
				return ""
			}
		},
	}
}

// contactContext extracts the recipient name after the word "a" in the user
// text and looks up matching contacts. "envía 100 pesos a maría lópez"
// searches for "maría lópez".
func contactContext(ctx context.Context, st store.Store, userText string, log *slog.Logger) string {
	words := strings.Fields(strings.ToLower(userText))
	idx := -1
	for i, w := range words {
		if w == "a" {
			idx = i
			break
		}
	}
	if idx == -1 || idx >= len(words)-1 {
		return ""
	}

	name := strings.Join(words[idx+1:], " ")
	contacts, err := st.SearchContacts(ctx, name, 5)
	if err != nil {
		log.WarnContext(ctx, "Contact search failed", "query", name, "error", err)
		return ""
	}
	if len(contacts) == 0 {
		return "No se encontraron contactos con ese nombre. Pregunta si desea registrar un nuevo contacto."
	}

	contactsJSON, _ := json.MarshalIndent(contacts, "", "  ")
	return "Contactos encontrados: " + string(contactsJSON)
}

// serviceContext lists the user's saved services for a payment request.
func serviceContext(ctx context.Context, st store.Store, log *slog.Logger) string {
	services, err := st.ListSavedServices(ctx)
	if err != nil {
		log.WarnContext(ctx, "Saved service lookup failed", "error", err)
		return ""
	}
	if len(services) == 0 {
		return ""
	}

	servicesJSON, _ := json.MarshalIndent(services, "", "  ")
	return "Servicios guardados:\n" + string(servicesJSON)
}
