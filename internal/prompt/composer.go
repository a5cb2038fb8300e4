package prompt

import (
	"fmt"
	"strings"

	"plesir/internal/domain"
)

// DefaultPersona is the fixed role statement for the assistant.
const DefaultPersona = "Kamu adalah 'Konco Plesir', teman jalan-jalan yang ramah dan paham wisata serta kuliner khas Pulau Jawa. Jawab dengan santai, akrab, dan langsung ke inti."

// FallbackNotice is emitted verbatim in place of the retrieval context
// when no catalog entry clears the relevance threshold.
const FallbackNotice = "Tidak ada data wisata yang cukup relevan di database. Jawab berdasarkan percakapan sebelumnya atau pengetahuan umum, dan jangan mengarang fakta seolah-olah berasal dari database."

// DefaultInstructions encodes the formatting and domain policy appended
// to every prompt.
var DefaultInstructions = []string{
	"Gunakan bullet points untuk jawaban dengan lebih dari satu item.",
	"Cetak tebal semua nominal harga atau biaya.",
	"Jika ditanya soal biaya, jawab hanya kategori biaya yang ditanyakan; jangan beri rincian anggaran lengkap kecuali diminta.",
	"Jangan menyebut dirimu sebagai AI atau model bahasa.",
}

// Composer assembles the model prompt from persona, conversation memory,
// retrieval context, and instructions. Compose is deterministic: no
// timestamps, no randomness.
type Composer struct {
	persona      string
	instructions []string
}

// New creates a composer with the given persona and instruction list;
// empty arguments fall back to the package defaults.
func New(persona string, instructions []string) *Composer {
	if persona == "" {
		persona = DefaultPersona
	}
	if len(instructions) == 0 {
		instructions = DefaultInstructions
	}
	return &Composer{persona: persona, instructions: instructions}
}

// Compose merges the pieces in a fixed order: persona, recent
// conversation, catalog context (or the fallback notice), the current
// query, and the instruction list.
func (c *Composer) Compose(query string, retrieval domain.RetrievalResult, turns []domain.Turn) string {
	var b strings.Builder
	b.WriteString(c.persona)
	b.WriteString("\n\n")

	if len(turns) > 0 {
		b.WriteString("Percakapan sebelumnya:\n")
		for _, turn := range turns {
			b.WriteString(roleLabel(turn.Role))
			b.WriteString(": ")
			b.WriteString(turn.Text)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if retrieval.Relevant {
		b.WriteString("Data Wisata:\n")
		for _, m := range retrieval.Matches {
			fmt.Fprintf(&b, "- %s (%s), Kuliner: %s\n", m.Place.Name, m.Place.City, m.Place.SignatureFood)
		}
		b.WriteString("\n")
	} else {
		b.WriteString(FallbackNotice)
		b.WriteString("\n\n")
	}

	b.WriteString("User: ")
	b.WriteString(query)
	b.WriteString("\n\nInstruksi:\n")
	for i, ins := range c.instructions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, ins)
	}
	return b.String()
}

func roleLabel(r domain.Role) string {
	if r == domain.RoleAssistant {
		return "Asisten"
	}
	return "User"
}
