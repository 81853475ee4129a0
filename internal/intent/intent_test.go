package intent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/walletwise/walletwise/internal/llm"
)

type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Complete(_ context.Context, _ []llm.Message) (string, error) {
	s.calls++
	return s.reply, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		set   Set
		reply string
		err   error
		want  Category
	}{
		{
			name:  "exact label",
			set:   AdvisorSet,
			reply: "MERCADO",
			want:  CategoryMarket,
		},
		{
			name:  "label with trailing punctuation",
			set:   AdvisorSet,
			reply: "PORTAFOLIO.",
			want:  CategoryPortfolio,
		},
		{
			name:  "lowercase reply is normalized",
			set:   AdvisorSet,
			reply: "portafolio",
			want:  CategoryPortfolio,
		},
		{
			name:  "lowercase phrase containing the label",
			set:   AdvisorSet,
			reply: "mercado cripto",
			want:  CategoryMarket,
		},
		{
			name:  "label embedded in sentence",
			set:   AdvisorSet,
			reply: "La categoría es TRANSACCIONES, sin duda.",
			want:  CategoryTransactions,
		},
		{
			name:  "unrecognized reply falls back to default",
			set:   AdvisorSet,
			reply: "NO TENGO IDEA",
			want:  CategoryTransactions,
		},
		{
			name:  "provider error falls back to default",
			set:   AdvisorSet,
			reply: "",
			err:   errors.New("provider down"),
			want:  CategoryTransactions,
		},
		{
			name:  "transaction transfer",
			set:   TransactionSet,
			reply: "TRANSFERENCIA",
			want:  CategoryTransfer,
		},
		{
			name:  "registro token matches contact registration",
			set:   TransactionSet,
			reply: "REGISTRO_CONTACTO",
			want:  CategoryContactRegistration,
		},
		{
			name:  "pago token matches service payment",
			set:   TransactionSet,
			reply: "PAGO_SERVICIO",
			want:  CategoryServicePayment,
		},
		{
			name:  "transaction default is consulta",
			set:   TransactionSet,
			reply: "QUIZÁS",
			want:  CategoryInquiry,
		},
		{
			name:  "education analisis token maps to personal analysis",
			set:   EducationSet,
			reply: "ANALISIS",
			want:  CategoryPersonalAnalysis,
		},
		{
			name:  "education meta",
			set:   EducationSet,
			reply: "META",
			want:  CategoryGoal,
		},
		{
			name:  "education singular transaccion",
			set:   EducationSet,
			reply: "TRANSACCION",
			want:  CategoryTransaction,
		},
		{
			name:  "education default",
			set:   EducationSet,
			reply: "NI IDEA",
			want:  CategoryEducation,
		},
		{
			name:  "home singular inversion matches investments",
			set:   HomeSet,
			reply: "INVERSIONES",
			want:  CategoryInvestments,
		},
		{
			name:  "home plural transacciones matches transactions",
			set:   HomeSet,
			reply: "TRANSACCIONES",
			want:  CategoryTransactions,
		},
		{
			name:  "home default is education",
			set:   HomeSet,
			reply: "OTRA COSA",
			want:  CategoryEducation,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := NewClassifier(&stubCompleter{reply: tc.reply, err: tc.err}, testLogger())
			got := c.Classify(context.Background(), "¿qué hago?", tc.set)
			if got != tc.want {
				t.Errorf("Classify() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassifySendsInstructionAndUserText(t *testing.T) {
	t.Parallel()

	var captured []llm.Message
	completer := completerFunc(func(_ context.Context, msgs []llm.Message) (string, error) {
		captured = msgs
		return "MERCADO", nil
	})

	c := NewClassifier(completer, testLogger())
	c.Classify(context.Background(), "¿cuánto vale bitcoin?", AdvisorSet)

	if len(captured) != 2 {
		t.Fatalf("sent %d messages, want 2", len(captured))
	}
	if captured[0].Role != llm.RoleSystem || captured[0].Content != AdvisorSet.Instruction {
		t.Errorf("first message should be the set instruction, got role=%q", captured[0].Role)
	}
	if captured[1].Role != llm.RoleUser || captured[1].Content != "¿cuánto vale bitcoin?" {
		t.Errorf("second message should carry the user text, got %+v", captured[1])
	}
}

type completerFunc func(ctx context.Context, msgs []llm.Message) (string, error)

func (f completerFunc) Complete(ctx context.Context, msgs []llm.Message) (string, error) {
	return f(ctx, msgs)
}
