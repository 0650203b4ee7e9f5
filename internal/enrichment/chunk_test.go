package enrichment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
)

func TestEnricher_EnrichChunk_Flags(t *testing.T) {
	e := New()

	tests := []struct {
		name string
		text string
		want ChunkFields
	}{
		{
			name: "plain prose",
			text: strings.Repeat("Le présent document décrit la situation générale. ", 5),
			want: ChunkFields{},
		},
		{
			name: "amounts and numbers",
			text: "Valeur vénale retenue: 14'850'000 CHF pour l'ensemble.",
			want: ChunkFields{HasNumbers: true, HasAmounts: true},
		},
		{
			name: "dates",
			text: "Le bail court du 01.01.2024 au 31.12.2026 sans interruption possible.",
			want: ChunkFields{HasNumbers: true, HasDates: true},
		},
		{
			name: "table",
			text: "Etage | Surface | Loyer\n1 | 120 | 2500\n2 | 95 | 2100\n3 | 95 | 2100\n",
			want: ChunkFields{HasTables: true, HasNumbers: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := e.EnrichChunk(tt.text, 1, 4)
			assert.Equal(t, tt.want.HasTables, fields.HasTables)
			assert.Equal(t, tt.want.HasNumbers, fields.HasNumbers)
			assert.Equal(t, tt.want.HasDates, fields.HasDates)
			assert.Equal(t, tt.want.HasAmounts, fields.HasAmounts)
		})
	}
}

func TestEnricher_EnrichChunk_Mentions(t *testing.T) {
	e := New()

	fields := e.EnrichChunk("Expertise confiée à Expert Immobilier SA pour l'immeuble d'Aigle dans le canton de Vaud et sa dépendance de Lausanne.", 0, 1)

	assert.Equal(t, []string{"Expert Immobilier SA"}, fields.Entities)
	assert.Contains(t, fields.Locations, "Aigle")
	assert.Contains(t, fields.Locations, "Lausanne")
	assert.Contains(t, fields.Locations, "Vaud")
}

func TestDetectChunkType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.ChunkType
	}{
		{"short heading", "RAPPORT D'EXPERTISE", domain.ChunkHeading},
		{"pipe table", "a | b | c\nd | e | f\ng | h | i\nj | k | l\nencore du texte pour dépasser le seuil de taille d'un titre", domain.ChunkTable},
		{"bullet list", "Les conditions suivantes s'appliquent:\n- financement confirmé\n- autorisation de la commune\n- inscription au registre foncier", domain.ChunkList},
		{"numbered list", "Ordre du jour de la séance annuelle:\n1. Approbation des comptes\n2. Élection du comité\n3. Divers et propositions", domain.ChunkList},
		{"footer", "Tous droits réservés © 2024 Dossier Labs. Reproduction interdite sans autorisation écrite préalable du détenteur des droits.", domain.ChunkFooter},
		{"body", strings.Repeat("Le marché immobilier vaudois reste stable malgré la hausse des taux. ", 3), domain.ChunkBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectChunkType(tt.text))
		})
	}
}

func TestDetectSection(t *testing.T) {
	t.Run("all caps title is level 1", func(t *testing.T) {
		title, level := detectSection("EXPERTISE IMMOBILIERE\nLe présent rapport concerne un immeuble locatif.")
		assert.Equal(t, "EXPERTISE IMMOBILIERE", title)
		assert.Equal(t, 1, level)
	})

	t.Run("short mixed case title is level 2", func(t *testing.T) {
		title, level := detectSection("Situation et environnement\nL'immeuble se trouve au centre.")
		assert.Equal(t, "Situation et environnement", title)
		assert.Equal(t, 2, level)
	})

	t.Run("sentence is not a title", func(t *testing.T) {
		title, level := detectSection("Le présent rapport concerne un immeuble locatif sis à Aigle.\nSuite du texte.")
		assert.Empty(t, title)
		assert.Zero(t, level)
	})
}

func TestEnricher_Importance(t *testing.T) {
	e := New()

	body := strings.Repeat("Description générale de la situation et de la méthode appliquée. ", 4)

	t.Run("amounts outweigh plain prose", func(t *testing.T) {
		plain := e.EnrichChunk(body, 1, 4)
		priced := e.EnrichChunk(body+" Valeur vénale: 14'850'000 CHF.", 1, 4)
		assert.Greater(t, priced.ImportanceScore, plain.ImportanceScore)
	})

	t.Run("earlier chunks score higher", func(t *testing.T) {
		first := e.EnrichChunk(body, 0, 10)
		last := e.EnrichChunk(body, 9, 10)
		assert.Greater(t, first.ImportanceScore, last.ImportanceScore)
	})

	t.Run("very short chunks are penalised", func(t *testing.T) {
		long := e.EnrichChunk(body, 1, 4)
		short := e.EnrichChunk("Voir annexe jointe au dossier complet.", 1, 4)
		assert.Less(t, short.ImportanceScore, long.ImportanceScore)
	})

	t.Run("bounded", func(t *testing.T) {
		loaded := e.EnrichChunk("Vente Alpha SA à Beta SA le 15.06.2023 pour 5'000'000 CHF | a | b | c | d | e | f", 0, 1)
		assert.GreaterOrEqual(t, loaded.ImportanceScore, 0.0)
		assert.LessOrEqual(t, loaded.ImportanceScore, 1.0)

		empty := e.EnrichChunk("", 0, 1)
		assert.GreaterOrEqual(t, empty.ImportanceScore, 0.0)
	})

	t.Run("custom weights", func(t *testing.T) {
		flat := New(WithImportanceWeights(ImportanceWeights{Base: 0.3}))
		fields := flat.EnrichChunk(body, 0, 1)
		assert.InDelta(t, 0.3, fields.ImportanceScore, 1e-9)
	})
}
