package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/dossier-labs/dossier-cli/internal/core/domain"
	"github.com/dossier-labs/dossier-cli/internal/enrichment"
)

// Tag categories used by the derivation rules.
const (
	tagClassification = "classification"
	tagGeo            = "geo"
	tagPeriod         = "period"
	tagContent        = "content"
	tagQuality        = "quality"
)

// qualityTagFloor is the score above which a document earns the
// quality tags.
const qualityTagFloor = 70.0

// buildEntities collects entity mentions from the enriched chunks and
// the document-level party extraction, deduplicated by (type,
// normalized value) with merged chunk index lists.
func buildEntities(documentID, text string, chunks []domain.Chunk) []domain.EntityMention {
	byKey := make(map[string]*domain.EntityMention)

	observe := func(entityType domain.EntityType, value string, chunkIndex int) {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			return
		}
		key := string(entityType) + "|" + normalized

		mention, ok := byKey[key]
		if !ok {
			mention = &domain.EntityMention{
				ID:         uuid.NewString(),
				DocumentID: documentID,
				Type:       entityType,
				Value:      strings.TrimSpace(value),
				Normalized: normalized,
			}
			byKey[key] = mention
		}
		mention.MentionCount++
		if chunkIndex >= 0 && !containsInt(mention.ChunkIndexes, chunkIndex) {
			mention.ChunkIndexes = append(mention.ChunkIndexes, chunkIndex)
		}
	}

	for _, chunk := range chunks {
		for _, entity := range chunk.Entities {
			observe(domain.EntityOrganization, entity, chunk.Index)
		}
		for _, location := range chunk.Locations {
			observe(domain.EntityLocation, location, chunk.Index)
		}
	}

	// Role-introduced parties come from the whole text; attribute
	// them to the chunks that contain the name.
	for _, match := range enrichment.ExtractAll(text)[enrichment.SignalParty] {
		if match.Role == "" {
			continue
		}
		entityType := domain.EntityPerson
		if hasLegalForm(match.Normalized) {
			entityType = domain.EntityOrganization
		}
		attributed := false
		for _, chunk := range chunks {
			if strings.Contains(chunk.Content, match.Normalized) {
				observe(entityType, match.Normalized, chunk.Index)
				attributed = true
			}
		}
		if !attributed {
			observe(entityType, match.Normalized, -1)
		}
	}

	mentions := make([]domain.EntityMention, 0, len(byKey))
	for _, mention := range byKey {
		sort.Ints(mention.ChunkIndexes)
		mentions = append(mentions, *mention)
	}
	sort.Slice(mentions, func(i, j int) bool {
		if mentions[i].Type != mentions[j].Type {
			return mentions[i].Type < mentions[j].Type
		}
		return mentions[i].Normalized < mentions[j].Normalized
	})
	return mentions
}

// deriveTags maps enriched document fields to tag names with their
// categories. The derivation is pure and idempotent: the same fields
// always yield the same tag set.
func deriveTags(doc *domain.Document, years []int, entities []domain.EntityMention) map[string]string {
	tags := make(map[string]string)

	if doc.DocType != "" {
		tags[doc.DocType] = tagClassification
	}
	if doc.Category != "" {
		tags[doc.Category] = tagClassification
	}

	if doc.Commune != "" {
		tags["commune_"+doc.Commune] = tagGeo
	}
	if doc.Canton != "" {
		tags["canton_"+doc.Canton] = tagGeo
	}

	if len(years) > 0 {
		latest := years[0]
		tags[fmt.Sprintf("annee_%d", latest)] = tagPeriod
		tags[fmt.Sprintf("annees_%ds", latest/10*10)] = tagPeriod
	}

	if doc.PrincipalAmount != nil {
		tags["contient_montants"] = tagContent
	}
	for _, mention := range entities {
		if mention.Type == domain.EntityOrganization {
			tags["contient_entreprises"] = tagContent
			break
		}
	}

	if doc.CompletenessScore > qualityTagFloor {
		tags["metadata_complete"] = tagQuality
	}
	if doc.RichnessScore > qualityTagFloor {
		tags["information_riche"] = tagQuality
	}

	return tags
}

// tagNames flattens a tag map into a sorted name list for the
// document record.
func tagNames(tags map[string]string) []string {
	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// hasLegalForm reports whether a party name carries a Swiss company
// legal form suffix.
func hasLegalForm(name string) bool {
	for _, form := range []string{"SA", "Sàrl", "SARL", "AG", "GmbH", "SNC", "Fondation"} {
		if strings.HasSuffix(name, " "+form) || name == form {
			return true
		}
	}
	return false
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
