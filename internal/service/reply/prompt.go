package reply

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/z-stylist/backend/internal/analysis/intent"
	"github.com/zhouzirui/z-stylist/backend/internal/model/catalog"
	"github.com/zhouzirui/z-stylist/backend/internal/model/chat"
)

// ModePrompt holds the stylist instructions for one conversation mode.
type ModePrompt struct {
	Focus        string
	StyleHints   []string
	ContextRules []string
}

// PromptBook maps modes to their prompt templates.
type PromptBook struct {
	templates map[chat.Mode]*ModePrompt
}

// NewPromptBook creates a PromptBook with the built-in mode templates.
func NewPromptBook() *PromptBook {
	book := &PromptBook{templates: make(map[chat.Mode]*ModePrompt)}
	book.loadDefaultTemplates()
	return book
}

// BuildSystemPrompt renders the system prompt for mode, listing the products
// the reply will be shown with so the model can refer to them. Occasion and
// budget signals found in text are passed along as hints.
func (b *PromptBook) BuildSystemPrompt(mode chat.Mode, text string, products []catalog.Product) string {
	tmpl, ok := b.templates[mode]
	if !ok {
		tmpl = b.templates[chat.ModeDefault]
	}

	return fmt.Sprintf(`You are a friendly personal AI stylist for shoppers in Pakistan. Prices are in PKR.

Current focus: %s

Style hints:
- %s

Rules:
- %s

Shopper signals:
%s

Products that will be shown under your reply:
%s`,
		tmpl.Focus,
		strings.Join(tmpl.StyleHints, "\n- "),
		strings.Join(tmpl.ContextRules, "\n- "),
		describeSignals(text),
		describeProducts(products),
	)
}

func describeSignals(text string) string {
	var lines []string
	if decision := intent.Analyze(text); decision.Intent != intent.None {
		lines = append(lines, fmt.Sprintf("- Occasion: %s", decision.Intent))
	}
	if budget := intent.Budget(text); budget > 0 {
		lines = append(lines, fmt.Sprintf("- Budget: under Rs. %s; say so if a listed product is above it.", formatPrice(budget)))
	}
	if len(lines) == 0 {
		return "(none)"
	}
	return strings.Join(lines, "\n")
}

func formatPrice(amount int) string {
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func describeProducts(products []catalog.Product) string {
	if len(products) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for i, p := range products {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s %s, Rs. %d", p.Brand, p.Name, p.Price)
		if p.OnSale() {
			fmt.Fprintf(&b, " (was Rs. %d)", p.OriginalPrice)
		}
	}
	return b.String()
}

func (b *PromptBook) loadDefaultTemplates() {
	shared := []string{
		"Answer in at most three sentences.",
		"Only recommend the listed products; never invent prices or brands.",
		"Do not use markdown tables.",
	}

	b.templates[chat.ModeDefault] = &ModePrompt{
		Focus: "everyday shopping help based on the user's request.",
		StyleHints: []string{
			"Warm and upbeat, like a well-travelled friend.",
			"Mention fabric and season when it helps the choice.",
		},
		ContextRules: shared,
	}
	b.templates[chat.ModeWedding] = &ModePrompt{
		Focus: "wedding functions such as Mehndi, Barat and Walima.",
		StyleHints: []string{
			"Celebratory tone; suggest premium formal ensembles.",
			"Point out embroidery and colour for each function.",
		},
		ContextRules: shared,
	}
	b.templates[chat.ModeEid] = &ModePrompt{
		Focus: "festive Eid wear.",
		StyleHints: []string{
			"Greet with Eid Mubarak when it fits.",
			"Highlight trending festive designs.",
		},
		ContextRules: shared,
	}
	b.templates[chat.ModeOffice] = &ModePrompt{
		Focus: "semi-formal office outfits.",
		StyleHints: []string{
			"Crisp and practical.",
			"Favour kurtas and chinos that work for a full workday.",
		},
		ContextRules: shared,
	}
}
